// Package errors defines error types for the CEFI MCP server suite.
//
// This package provides structured error types that wrap the failure
// scenarios of catalog loading, remote data access, and client
// configuration. All error types support error unwrapping and can be
// checked using errors.Is, errors.As, and errors.AsType.
package errors
