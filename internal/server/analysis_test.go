package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/cefi-mcp/internal/kerchunk"
	"github.com/wagiedev/cefi-mcp/internal/opendap"
)

const dasFixture = `Attributes {
    tos {
        String long_name "Sea Surface Temperature";
    }
    NC_GLOBAL {
        String title "NWA12 COBALT hindcast";
    }
}`

const kerchunkFixture = `{
  "version": 1,
  "refs": {
    ".zattrs": "{\"title\": \"kerchunk index\"}",
    "tos/.zattrs": "{\"units\": \"degC\"}"
  }
}`

func newAnalysisServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "missing"):
			w.WriteHeader(http.StatusNotFound)
		case strings.HasSuffix(r.URL.Path, ".das"):
			_, _ = w.Write([]byte(dasFixture))
		case strings.HasSuffix(r.URL.Path, ".json"):
			_, _ = w.Write([]byte(kerchunkFixture))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	meta := opendap.NewClient(&opendap.Config{HTTPClient: srv.Client()})
	store := kerchunk.NewStore(&kerchunk.Config{
		GCSEndpoint: srv.URL,
		HTTPClient:  srv.Client(),
	})

	return NewAnalysis(meta, store, nil), srv
}

func decodeMetadata(t *testing.T, raw string) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &out))

	return out
}

func TestAnalysis_RegisteredTools(t *testing.T) {
	s, _ := newAnalysisServer(t)

	tools := s.Tools()
	require.Len(t, tools, 1)
	require.Equal(t, "get_file_metadata", tools[0].Name)
}

func TestAnalysis_OpendapMetadata(t *testing.T) {
	s, srv := newAnalysisServer(t)

	result := call(t, s, "get_file_metadata", map[string]any{
		"opendap_url": srv.URL + "/tos.nwa.monthly.nc",
	})

	require.False(t, result.IsError)

	got := decodeMetadata(t, text(t, result))
	require.Equal(t, "opendap", got["source"])

	attrs, ok := got["attributes"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "NWA12 COBALT hindcast", attrs["title"])
}

func TestAnalysis_GCSKerchunkMetadata(t *testing.T) {
	s, _ := newAnalysisServer(t)

	result := call(t, s, "get_file_metadata", map[string]any{
		"gcs_object_link_kerchunk_index": "gs://noaa-oar-cefi-pds/kerchunk/tos.json",
	})

	require.False(t, result.IsError)

	got := decodeMetadata(t, text(t, result))
	require.Equal(t, "gcs", got["source"])

	attrs, ok := got["attributes"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "kerchunk index", attrs["title"])
}

func TestAnalysis_OpendapTakesPrecedence(t *testing.T) {
	s, srv := newAnalysisServer(t)

	result := call(t, s, "get_file_metadata", map[string]any{
		"opendap_url":                    srv.URL + "/tos.nwa.monthly.nc",
		"gcs_object_link_kerchunk_index": "gs://noaa-oar-cefi-pds/kerchunk/tos.json",
	})

	require.False(t, result.IsError)
	require.Equal(t, "opendap", decodeMetadata(t, text(t, result))["source"])
}

func TestAnalysis_NoSource(t *testing.T) {
	s, _ := newAnalysisServer(t)

	result := call(t, s, "get_file_metadata", nil)

	require.True(t, result.IsError)
	require.Contains(t, text(t, result), "at least one of the parameters must be provided")
}

func TestAnalysis_FetchFailure(t *testing.T) {
	s, srv := newAnalysisServer(t)

	result := call(t, s, "get_file_metadata", map[string]any{
		"opendap_url": srv.URL + "/missing",
	})

	require.True(t, result.IsError)
	require.Contains(t, text(t, result), "failed to fetch")
}
