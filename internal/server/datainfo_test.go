package server

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/cefi-mcp/internal/catalog"
)

func TestDataInfo_RegisteredTools(t *testing.T) {
	s := NewDataInfo(newTestCatalog(t), nil)

	names := make([]string, 0, 2)
	for _, tool := range s.Tools() {
		names = append(names, tool.Name)
	}

	require.Equal(t, []string{"get_level_options", "get_level_name"}, names)
}

func TestDataInfo_LevelOptions_NoArgsListsRegions(t *testing.T) {
	s := NewDataInfo(newTestCatalog(t), nil)

	result := call(t, s, "get_level_options", nil)

	require.False(t, result.IsError)
	require.Equal(t, "northeast_pacific\nnorthwest_atlantic", text(t, result))
}

func TestDataInfo_LevelOptions_FuzzyDescent(t *testing.T) {
	s := NewDataInfo(newTestCatalog(t), nil)

	// Partial, case-insensitive values resolve against the tree keys.
	result := call(t, s, "get_level_options", map[string]any{
		"region":    "Atlantic",
		"subdomain": "full",
	})

	require.False(t, result.IsError)
	require.Equal(t, "hindcast", text(t, result))
}

func TestDataInfo_LevelOptions_MisspelledValue(t *testing.T) {
	s := NewDataInfo(newTestCatalog(t), nil)

	result := call(t, s, "get_level_options", map[string]any{
		"region": "northwest_atlantik",
	})

	require.False(t, result.IsError)
	require.Equal(t, "full_domain", text(t, result))
}

func TestDataInfo_LevelOptions_NoMatch(t *testing.T) {
	s := NewDataInfo(newTestCatalog(t), nil)

	result := call(t, s, "get_level_options", map[string]any{"region": "zzzz"})

	require.False(t, result.IsError)
	require.Equal(t, "No matching region found.", text(t, result))
}

func TestDataInfo_LevelOptions_GapStopsDescent(t *testing.T) {
	s := NewDataInfo(newTestCatalog(t), nil)

	// subdomain missing: the experiment_type argument below the gap is
	// ignored and the subdomains of the region are listed.
	result := call(t, s, "get_level_options", map[string]any{
		"region":          "northwest_atlantic",
		"experiment_type": "hindcast",
	})

	require.False(t, result.IsError)
	require.Equal(t, "full_domain", text(t, result))
}

func TestDataInfo_LevelOptions_Unavailable(t *testing.T) {
	s := NewDataInfo(newUnavailableCatalog(t), nil)

	result := call(t, s, "get_level_options", nil)

	require.False(t, result.IsError)
	require.Equal(t, "No CEFI data available currently.", text(t, result))
}

func TestDataInfo_LevelName(t *testing.T) {
	s := NewDataInfo(newTestCatalog(t), nil)

	result := call(t, s, "get_level_name", nil)

	require.False(t, result.IsError)

	got := text(t, result)
	require.True(t, strings.HasPrefix(got, "All the level category name from top to bottom\n"))

	for _, level := range catalog.LevelNames {
		require.Contains(t, got, level)
	}
}

func TestDataInfo_LevelName_Unavailable(t *testing.T) {
	s := NewDataInfo(newUnavailableCatalog(t), nil)

	result := call(t, s, "get_level_name", nil)

	require.False(t, result.IsError)
	require.Equal(t, "No CEFI data available currently.", text(t, result))
}
