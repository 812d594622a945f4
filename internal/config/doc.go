// Package config loads runtime configuration for the CEFI MCP servers.
//
// Configuration is read from a TOML file. The path is taken from the
// CEFI_MCP_CONFIG environment variable when set, otherwise from
// ~/.config/cefi-mcp/config.toml. A missing file is not an error: all
// fields have working defaults pointing at the public NOAA PSL endpoints.
package config
