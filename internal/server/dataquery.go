package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/cefi-mcp/internal/catalog"
	cefierrors "github.com/wagiedev/cefi-mcp/internal/errors"
	"github.com/wagiedev/cefi-mcp/internal/opendap"
)

// DataQueryName is the registered name of the data query server.
const DataQueryName = "cefi_data_query"

// levelTool describes one per-level option tool of the data query server.
type levelTool struct {
	name        string
	description string
	// args are the tree levels the caller must provide, in order.
	args []string
}

var levelTools = []levelTool{
	{
		name:        "get_region_options",
		description: "Get the available regions in the CEFI data tree.",
	},
	{
		name:        "get_subdomain_options",
		description: "Get the available subdomains in the CEFI data tree for a given region.",
		args:        []string{"region"},
	},
	{
		name:        "get_experiment_options",
		description: "Get the available experiment types in the CEFI data tree.",
		args:        []string{"region", "subdomain"},
	},
	{
		name:        "get_output_frequency_options",
		description: "Get the available output frequencies in the CEFI data tree.",
		args:        []string{"region", "subdomain", "experiment_type"},
	},
	{
		name:        "get_grid_type_options",
		description: "Get the available grid types in the CEFI data tree.",
		args:        []string{"region", "subdomain", "experiment_type", "output_frequency"},
	},
	{
		name:        "get_release_date_options",
		description: "Get the available release dates in the CEFI data tree.",
		args:        []string{"region", "subdomain", "experiment_type", "output_frequency", "grid_type"},
	},
	{
		name:        "get_variable_category_options",
		description: "Get the available variable categories in the CEFI data tree.",
		args:        []string{"region", "subdomain", "experiment_type", "output_frequency", "grid_type", "release_date"},
	},
}

// NewDataQuery builds the cefi_data_query server: one tool per data tree
// level, variable name listing, and OPeNDAP URL construction.
func NewDataQuery(cat *catalog.Catalog, opendapBase string, log *slog.Logger) *Server {
	s := NewServer(DataQueryName, log)

	for _, lt := range levelTools {
		s.AddTool(
			NewTool(lt.name, lt.description, levelSchema(lt.args)),
			levelHandler(cat, lt.args),
		)
	}

	s.AddTool(
		NewTool(
			"get_variable_name_options",
			"Get the available variable full names, short names, and filenames in the CEFI data tree.",
			levelSchema([]string{
				"region", "subdomain", "experiment_type", "output_frequency",
				"grid_type", "release_date", "variable_catagory",
			}),
		),
		variableNameHandler(cat),
	)

	s.AddTool(
		NewTool(
			"get_opendap_url",
			"Get the OPeNDAP URL for the specified CEFI data file.",
			levelSchema([]string{
				"region", "subdomain", "experiment_type", "output_frequency",
				"grid_type", "release_date", "variable_name_ncfile",
			}),
		),
		opendapURLHandler(opendapBase),
	)

	return s
}

// levelSchema builds an all-required string schema for the given tree levels.
func levelSchema(args []string) *jsonschema.Schema {
	props := make(map[string]string, len(args))
	for _, arg := range args {
		props[arg] = fmt.Sprintf("The %s for which to show available options.", strings.ReplaceAll(arg, "_", " "))
	}

	return StringSchema(props, args)
}

// levelHandler lists the child options at the path named by args.
func levelHandler(cat *catalog.Catalog, argNames []string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := ParseArguments(req)
		if err != nil {
			return ErrorResult(err.Error()), nil
		}

		path, err := requireStrings(args, argNames...)
		if err != nil {
			return ErrorResult(err.Error()), nil
		}

		options, err := cat.Options(ctx, path...)
		if err != nil {
			return catalogErrorResult(err), nil
		}

		return TextResult(strings.Join(options, "\n")), nil
	}
}

// variableNameHandler flattens the variable names under a category into
// three labelled sections.
func variableNameHandler(cat *catalog.Catalog) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := ParseArguments(req)
		if err != nil {
			return ErrorResult(err.Error()), nil
		}

		path, err := requireStrings(args,
			"region", "subdomain", "experiment_type", "output_frequency",
			"grid_type", "release_date", "variable_catagory")
		if err != nil {
			return ErrorResult(err.Error()), nil
		}

		longNames, shortNames, fileNames, err := cat.Variables(ctx, path...)
		if err != nil {
			return catalogErrorResult(err), nil
		}

		sections := []string{
			"All available variable full name\n" + strings.Join(longNames, "\n"),
			"All available variable short name\n" + strings.Join(shortNames, "\n"),
			"All available variable filename\n" + strings.Join(fileNames, "\n"),
		}

		return TextResult(strings.Join(sections, "\n\n")), nil
	}
}

// opendapURLHandler builds the OPeNDAP URL for a data file.
func opendapURLHandler(base string) mcp.ToolHandler {
	return func(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := ParseArguments(req)
		if err != nil {
			return ErrorResult(err.Error()), nil
		}

		path, err := requireStrings(args,
			"region", "subdomain", "experiment_type", "output_frequency",
			"grid_type", "release_date", "variable_name_ncfile")
		if err != nil {
			return ErrorResult(err.Error()), nil
		}

		coords := opendap.Coords{
			Region:          path[0],
			Subdomain:       path[1],
			ExperimentType:  path[2],
			OutputFrequency: path[3],
			GridType:        path[4],
			ReleaseDate:     path[5],
			File:            path[6],
		}

		return TextResult("OPeNDAP URL : " + opendap.DataURL(base, coords)), nil
	}
}

// catalogErrorResult maps catalog errors to client-facing results.
func catalogErrorResult(err error) *mcp.CallToolResult {
	if errors.Is(err, cefierrors.ErrCatalogUnavailable) {
		return ErrorResult(cefierrors.ErrCatalogUnavailable.Error())
	}

	var notFound *cefierrors.NotFoundError
	if errors.As(err, &notFound) {
		return ErrorResult(fmt.Sprintf("No matching %s found.", notFound.Level))
	}

	return ErrorResult(err.Error())
}
