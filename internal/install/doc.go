// Package install manages the desktop client registration of the CEFI
// MCP servers.
//
// A desktop LLM client discovers tool servers through a JSON document
// with an mcpServers mapping: each entry names a server and gives the
// command and arguments used to spawn it as a subprocess. This package
// generates those entries (either launcher-managed Python script
// invocations or direct cefi-mcp binary invocations), merges them into an
// existing client configuration without touching unrelated keys, and
// validates declared entries against the rules the suite ships with:
// a --directory flag carrying an absolute path, followed by the run
// subcommand and a .py script target.
package install
