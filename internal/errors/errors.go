package errors

import (
	"errors"
	"fmt"
)

// CEFIError is the base interface for all errors raised by this module.
type CEFIError interface {
	error
	IsCEFIError() bool
}

// Compile-time verification that all error types implement CEFIError.
var (
	_ CEFIError = (*NotFoundError)(nil)
	_ CEFIError = (*FetchError)(nil)
	_ CEFIError = (*ParseError)(nil)
	_ CEFIError = (*ConfigError)(nil)
	_ CEFIError = (*LauncherNotFoundError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrCatalogUnavailable indicates the CEFI data tree could not be
	// loaded or is empty.
	ErrCatalogUnavailable = errors.New("no CEFI data available currently")

	// ErrNoSource indicates no data source was provided where at least
	// one of OPeNDAP URL, S3 link, or GCS link is required.
	ErrNoSource = errors.New("at least one of the parameters must be provided: opendap_url, s3_object_link_kerchunk_index, gcs_object_link_kerchunk_index")

	// ErrUnknownServer indicates a server name that is not part of the suite.
	ErrUnknownServer = errors.New("unknown server name")

	// ErrUnsupportedScheme indicates an object link with a scheme that is
	// neither s3, gs, nor http(s).
	ErrUnsupportedScheme = errors.New("unsupported object link scheme")
)

// NotFoundError indicates a query did not match any option at a data tree level.
type NotFoundError struct {
	Level string
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no matching %s found for %q", e.Level, e.Query)
}

// IsCEFIError implements CEFIError.
func (e *NotFoundError) IsCEFIError() bool { return true }

// FetchError indicates a remote resource could not be retrieved.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsCEFIError implements CEFIError.
func (e *FetchError) IsCEFIError() bool { return true }

// ParseError indicates a remote document could not be decoded.
// This error preserves the source URL of the document that failed to parse.
type ParseError struct {
	URL    string
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s document from %s: %v", e.Format, e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsCEFIError implements CEFIError.
func (e *ParseError) IsCEFIError() bool { return true }

// ConfigError indicates an invalid client registration or runtime configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// IsCEFIError implements CEFIError.
func (e *ConfigError) IsCEFIError() bool { return true }

// LauncherNotFoundError indicates the launcher executable was not found.
type LauncherNotFoundError struct {
	SearchedPaths []string
}

func (e *LauncherNotFoundError) Error() string {
	return fmt.Sprintf("launcher not found in: %v", e.SearchedPaths)
}

// IsCEFIError implements CEFIError.
func (e *LauncherNotFoundError) IsCEFIError() bool { return true }
