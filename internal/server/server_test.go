package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/cefi-mcp/internal/catalog"
)

// treeFixture mirrors the portal document shape with a two-region tree.
const treeFixture = `{
  "Projects": {
    "CEFI": {
      "regional_mom6": {
        "cefi_portal": {
          "northwest_atlantic": {
            "full_domain": {
              "hindcast": {
                "monthly": {
                  "raw": {
                    "r20230520": {
                      "ocean": {
                        "Sea Surface Temperature": {
                          "tos": {
                            "tos.nwa.full.hcast.monthly.raw.r20230520.199301-201912.nc": {}
                          }
                        }
                      }
                    }
                  }
                }
              }
            }
          },
          "northeast_pacific": {}
        }
      }
    }
  }
}`

// newTestCatalog serves treeFixture from an httptest server.
func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(treeFixture))
	}))
	t.Cleanup(srv.Close)

	return catalog.New(&catalog.Config{URL: srv.URL, HTTPClient: srv.Client()})
}

// newUnavailableCatalog serves only errors.
func newUnavailableCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	return catalog.New(&catalog.Config{URL: srv.URL, HTTPClient: srv.Client()})
}

// call invokes a registered tool with the given arguments.
func call(t *testing.T, s *Server, tool string, args map[string]any) *mcp.CallToolResult {
	t.Helper()

	data, err := json.Marshal(args)
	require.NoError(t, err)

	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      tool,
			Arguments: data,
		},
	}

	result, err := s.CallTool(context.Background(), tool, req)
	require.NoError(t, err)
	require.NotNil(t, result)

	return result
}

// text extracts the single text content of a result.
func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.Len(t, result.Content, 1)

	content, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")

	return content.Text
}

func TestServerRegistryOrderAndLookup(t *testing.T) {
	s := NewServer("demo", nil)

	s.AddTool(NewTool("b", "second", nil), func(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return TextResult("b"), nil
	})
	s.AddTool(NewTool("a", "first", nil), func(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return TextResult("a"), nil
	})

	tools := s.Tools()
	require.Len(t, tools, 2)
	require.Equal(t, "b", tools[0].Name)
	require.Equal(t, "a", tools[1].Name)
	require.Equal(t, "demo", s.Name())
}

func TestServerCallTool_Unknown(t *testing.T) {
	s := NewServer("demo", nil)

	result := call(t, s, "nope", nil)

	require.True(t, result.IsError)
	require.Contains(t, text(t, result), "Tool not found")
}

func TestServerCallTool_HandlerError(t *testing.T) {
	s := NewServer("demo", nil)
	s.AddTool(NewTool("fails", "always fails", nil), func(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, errors.New("boom")
	})

	result := call(t, s, "fails", nil)

	require.True(t, result.IsError)
	require.Contains(t, text(t, result), "boom")
}

func TestStringSchema(t *testing.T) {
	schema := StringSchema(map[string]string{
		"region":    "the region",
		"subdomain": "the subdomain",
	}, []string{"region"})

	require.Equal(t, "object", schema.Type)
	require.Equal(t, []string{"region"}, schema.Required)
	require.Equal(t, "string", schema.Properties["region"].Type)
	require.Equal(t, "the subdomain", schema.Properties["subdomain"].Description)
}

func TestParseArguments(t *testing.T) {
	t.Run("nil request returns empty map", func(t *testing.T) {
		args, err := ParseArguments(nil)

		require.NoError(t, err)
		require.Empty(t, args)
	})

	t.Run("invalid json is an error", func(t *testing.T) {
		req := &mcp.CallToolRequest{
			Params: &mcp.CallToolParamsRaw{Arguments: []byte(`{"region":`)},
		}

		_, err := ParseArguments(req)

		require.Error(t, err)
	})
}

func TestJSONResult(t *testing.T) {
	result, err := JSONResult(map[string]string{"title": "demo"})

	require.NoError(t, err)
	require.JSONEq(t, `{"title": "demo"}`, text(t, result))
}
