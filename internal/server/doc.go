// Package server implements the CEFI MCP tool servers.
//
// Three servers make up the suite: cefi_data_query exposes one tool per
// data tree level plus OPeNDAP URL construction, cefi_data_info exposes
// cascading fuzzy-matched option lookup, and cefi_analysis exposes
// dataset metadata retrieval from OPeNDAP or kerchunk indexes.
//
// Each server maintains a thread-safe registry of tools and serves them
// over stdio using the official MCP SDK. Tools can also be invoked
// directly through CallTool, which is how the tests drive them. Tool
// failures are reported as error results, never as protocol errors, so a
// misbehaving data source cannot take the session down.
package server
