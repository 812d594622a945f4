package server

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/cefi-mcp/internal/opendap"
)

var fullPathArgs = map[string]any{
	"region":           "northwest_atlantic",
	"subdomain":        "full_domain",
	"experiment_type":  "hindcast",
	"output_frequency": "monthly",
	"grid_type":        "raw",
	"release_date":     "r20230520",
}

func TestDataQuery_RegisteredTools(t *testing.T) {
	s := NewDataQuery(newTestCatalog(t), "", nil)

	names := make([]string, 0, 9)
	for _, tool := range s.Tools() {
		names = append(names, tool.Name)
	}

	require.Equal(t, []string{
		"get_region_options",
		"get_subdomain_options",
		"get_experiment_options",
		"get_output_frequency_options",
		"get_grid_type_options",
		"get_release_date_options",
		"get_variable_category_options",
		"get_variable_name_options",
		"get_opendap_url",
	}, names)
}

func TestDataQuery_RegionOptions(t *testing.T) {
	s := NewDataQuery(newTestCatalog(t), "", nil)

	result := call(t, s, "get_region_options", nil)

	require.False(t, result.IsError)
	require.Equal(t, "northeast_pacific\nnorthwest_atlantic", text(t, result))
}

func TestDataQuery_SubdomainOptions(t *testing.T) {
	s := NewDataQuery(newTestCatalog(t), "", nil)

	result := call(t, s, "get_subdomain_options", map[string]any{"region": "northwest_atlantic"})

	require.False(t, result.IsError)
	require.Equal(t, "full_domain", text(t, result))
}

func TestDataQuery_MissingArgument(t *testing.T) {
	s := NewDataQuery(newTestCatalog(t), "", nil)

	result := call(t, s, "get_subdomain_options", nil)

	require.True(t, result.IsError)
	require.Contains(t, text(t, result), `missing required argument "region"`)
}

func TestDataQuery_UnknownLevelValue(t *testing.T) {
	s := NewDataQuery(newTestCatalog(t), "", nil)

	result := call(t, s, "get_subdomain_options", map[string]any{"region": "atlantis"})

	require.True(t, result.IsError)
	require.Equal(t, "No matching region found.", text(t, result))
}

func TestDataQuery_VariableCategoryOptions(t *testing.T) {
	s := NewDataQuery(newTestCatalog(t), "", nil)

	result := call(t, s, "get_variable_category_options", fullPathArgs)

	require.False(t, result.IsError)
	require.Equal(t, "ocean", text(t, result))
}

func TestDataQuery_VariableNameOptions(t *testing.T) {
	s := NewDataQuery(newTestCatalog(t), "", nil)

	args := map[string]any{"variable_catagory": "ocean"}
	for k, v := range fullPathArgs {
		args[k] = v
	}

	result := call(t, s, "get_variable_name_options", args)

	require.False(t, result.IsError)

	got := text(t, result)
	sections := strings.Split(got, "\n\n")
	require.Len(t, sections, 3)
	require.Equal(t, "All available variable full name\nSea Surface Temperature", sections[0])
	require.Equal(t, "All available variable short name\ntos", sections[1])
	require.Equal(t,
		"All available variable filename\ntos.nwa.full.hcast.monthly.raw.r20230520.199301-201912.nc",
		sections[2])
}

func TestDataQuery_OpendapURL(t *testing.T) {
	s := NewDataQuery(newTestCatalog(t), "", nil)

	args := map[string]any{"variable_name_ncfile": "tos.nwa.full.hcast.monthly.raw.r20230520.199301-201912.nc"}
	for k, v := range fullPathArgs {
		args[k] = v
	}

	result := call(t, s, "get_opendap_url", args)

	require.False(t, result.IsError)
	require.Equal(t,
		"OPeNDAP URL : "+opendap.DefaultBase+
			"northwest_atlantic/full_domain/hindcast/monthly/raw/r20230520/"+
			"tos.nwa.full.hcast.monthly.raw.r20230520.199301-201912.nc",
		text(t, result))
}

func TestDataQuery_CatalogUnavailable(t *testing.T) {
	s := NewDataQuery(newUnavailableCatalog(t), "", nil)

	result := call(t, s, "get_region_options", nil)

	require.True(t, result.IsError)
	require.Equal(t, "no CEFI data available currently", text(t, result))
}
