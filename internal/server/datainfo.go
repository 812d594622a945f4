package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/cefi-mcp/internal/catalog"
	cefierrors "github.com/wagiedev/cefi-mcp/internal/errors"
)

// DataInfoName is the registered name of the data info server.
const DataInfoName = "cefi_data_info"

// infoLevels are the cascading arguments of get_level_options, top to
// bottom. Each provided argument is fuzzily resolved; the first missing
// one determines the level whose options are listed.
var infoLevels = []string{
	"region",
	"subdomain",
	"experiment_type",
	"output_frequency",
	"grid_type",
	"release_date",
	"variable_catagory",
}

// NewDataInfo builds the cefi_data_info server: cascading fuzzy option
// lookup plus the level name listing.
func NewDataInfo(cat *catalog.Catalog, log *slog.Logger) *Server {
	s := NewServer(DataInfoName, log)

	props := make(map[string]string, len(infoLevels))
	for _, level := range infoLevels {
		props[level] = fmt.Sprintf(
			"The %s for which to show available options. Optional; all levels above it must be provided.",
			strings.ReplaceAll(level, "_", " "),
		)
	}

	s.AddTool(
		NewTool(
			"get_level_options",
			"Provide the options shown at a level of the CEFI data tree. "+
				"Arguments are the tree levels top to bottom; every argument above "+
				"the deepest one given should be provided as well. Matching is "+
				"case-insensitive, partial, or fuzzy.",
			StringSchema(props, nil),
		),
		levelOptionsHandler(cat),
	)

	s.AddTool(
		NewTool(
			"get_level_name",
			"Provide the level category names of the CEFI data tree, top to bottom.",
			StringSchema(nil, nil),
		),
		levelNameHandler(cat),
	)

	return s
}

func levelOptionsHandler(cat *catalog.Catalog) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := ParseArguments(req)
		if err != nil {
			return ErrorResult(err.Error()), nil
		}

		// Collect the path down to the first missing level; anything below
		// a gap is ignored, as in a partial descent of the tree.
		path := make([]string, 0, len(infoLevels))

		for _, level := range infoLevels {
			value, ok := stringArg(args, level)
			if !ok {
				break
			}

			path = append(path, value)
		}

		options, _, err := cat.ResolveOptions(ctx, path...)
		if err != nil {
			if errors.Is(err, cefierrors.ErrCatalogUnavailable) {
				return TextResult("No CEFI data available currently."), nil
			}

			var notFound *cefierrors.NotFoundError
			if errors.As(err, &notFound) {
				return TextResult(fmt.Sprintf("No matching %s found.", notFound.Level)), nil
			}

			return ErrorResult(err.Error()), nil
		}

		return TextResult(strings.Join(options, "\n")), nil
	}
}

func levelNameHandler(cat *catalog.Catalog) mcp.ToolHandler {
	return func(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// The level names are static, but an unavailable tree is still
		// reported so the client knows lookups will fail.
		if _, err := cat.Options(ctx); err != nil {
			if errors.Is(err, cefierrors.ErrCatalogUnavailable) {
				return TextResult("No CEFI data available currently."), nil
			}

			return ErrorResult(err.Error()), nil
		}

		return TextResult(
			"All the level category name from top to bottom\n" + strings.Join(catalog.LevelNames, "\n"),
		), nil
	}
}
