package server

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	cefierrors "github.com/wagiedev/cefi-mcp/internal/errors"
	"github.com/wagiedev/cefi-mcp/internal/kerchunk"
	"github.com/wagiedev/cefi-mcp/internal/opendap"
)

// AnalysisName is the registered name of the analysis server.
const AnalysisName = "cefi_analysis"

// fileMetadata is the JSON shape returned by get_file_metadata.
type fileMetadata struct {
	Source     string                    `json:"source"`
	Attributes map[string]any            `json:"attributes"`
	Variables  map[string]map[string]any `json:"variables,omitempty"`
}

// NewAnalysis builds the cefi_analysis server: dataset metadata retrieval
// from OPeNDAP or kerchunk indexes in cloud object storage.
func NewAnalysis(meta *opendap.Client, store *kerchunk.Store, log *slog.Logger) *Server {
	s := NewServer(AnalysisName, log)

	s.AddTool(
		NewTool(
			"get_file_metadata",
			"Get the metadata of a dataset from its OPeNDAP URL or from a "+
				"kerchunk index in cloud storage. Sources are tried in order: "+
				"OPeNDAP, S3, GCS. At least one must be provided.",
			StringSchema(map[string]string{
				"opendap_url":                    "The OPeNDAP URL to the dataset.",
				"s3_object_link_kerchunk_index":  "The S3 object link to the kerchunk index file.",
				"gcs_object_link_kerchunk_index": "The GCS object link to the kerchunk index file.",
			}, nil),
		),
		fileMetadataHandler(meta, store),
	)

	return s
}

func fileMetadataHandler(meta *opendap.Client, store *kerchunk.Store) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := ParseArguments(req)
		if err != nil {
			return ErrorResult(err.Error()), nil
		}

		if opendapURL, ok := stringArg(args, "opendap_url"); ok {
			attrs, err := meta.Attributes(ctx, opendapURL)
			if err != nil {
				return ErrorResult(err.Error()), nil
			}

			return JSONResult(fileMetadata{
				Source:     "opendap",
				Attributes: stringAttrs(attrs.Global),
				Variables:  stringAttrsByVariable(attrs.Variables),
			})
		}

		if s3Link, ok := stringArg(args, "s3_object_link_kerchunk_index"); ok {
			return kerchunkMetadata(ctx, store, "s3", s3Link)
		}

		if gcsLink, ok := stringArg(args, "gcs_object_link_kerchunk_index"); ok {
			return kerchunkMetadata(ctx, store, "gcs", gcsLink)
		}

		return ErrorResult(cefierrors.ErrNoSource.Error()), nil
	}
}

func kerchunkMetadata(ctx context.Context, store *kerchunk.Store, source, link string) (*mcp.CallToolResult, error) {
	ds, err := store.Load(ctx, link)
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	return JSONResult(fileMetadata{
		Source:     source,
		Attributes: ds.Global,
		Variables:  ds.Variables,
	})
}

func stringAttrs(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}

	return out
}

func stringAttrsByVariable(in map[string]map[string]string) map[string]map[string]any {
	out := make(map[string]map[string]any, len(in))
	for name, attrs := range in {
		out[name] = stringAttrs(attrs)
	}

	return out
}
