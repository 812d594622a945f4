package kerchunk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	cefierrors "github.com/wagiedev/cefi-mcp/internal/errors"
)

const (
	// DefaultS3Endpoint is the AWS S3 endpoint for anonymous reads.
	DefaultS3Endpoint = "s3.amazonaws.com"

	// DefaultGCSEndpoint is the public GCS object endpoint.
	DefaultGCSEndpoint = "https://storage.googleapis.com"
)

// Dataset holds the attributes extracted from a kerchunk index: the
// global zarr attributes and the per-variable ones.
type Dataset struct {
	Global    map[string]any
	Variables map[string]map[string]any
}

// Config holds configuration for a Store.
type Config struct {
	// S3Endpoint overrides the S3 endpoint. Defaults to DefaultS3Endpoint.
	S3Endpoint string

	// S3Secure controls TLS for the S3 endpoint. Defaults to true.
	// Only tests should turn this off.
	S3Insecure bool

	// GCSEndpoint overrides the GCS endpoint. Defaults to DefaultGCSEndpoint.
	GCSEndpoint string

	// HTTPClient is used for GCS and plain https links.
	// If nil, a client with a 10 second timeout is used.
	HTTPClient *http.Client

	// Logger is an optional logger. If nil, logging is discarded.
	Logger *slog.Logger
}

// Store fetches kerchunk indexes from object storage.
type Store struct {
	s3Endpoint  string
	s3Insecure  bool
	gcsEndpoint string
	client      *http.Client
	log         *slog.Logger
}

// NewStore creates a Store with the given configuration.
func NewStore(cfg *Config) *Store {
	if cfg == nil {
		cfg = &Config{}
	}

	s3Endpoint := cfg.S3Endpoint
	if s3Endpoint == "" {
		s3Endpoint = DefaultS3Endpoint
	}

	gcsEndpoint := cfg.GCSEndpoint
	if gcsEndpoint == "" {
		gcsEndpoint = DefaultGCSEndpoint
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Store{
		s3Endpoint:  s3Endpoint,
		s3Insecure:  cfg.S3Insecure,
		gcsEndpoint: gcsEndpoint,
		client:      client,
		log:         log,
	}
}

// Load fetches the kerchunk index at link and extracts its dataset
// attributes. The link may use the s3, gs, http, or https scheme.
func (s *Store) Load(ctx context.Context, link string) (*Dataset, error) {
	data, err := s.fetch(ctx, link)
	if err != nil {
		return nil, err
	}

	ds, err := Parse(data)
	if err != nil {
		return nil, &cefierrors.ParseError{URL: link, Format: "kerchunk", Err: err}
	}

	return ds, nil
}

// fetch retrieves the raw index bytes for an object link.
func (s *Store) fetch(ctx context.Context, link string) ([]byte, error) {
	parsed, err := url.Parse(link)
	if err != nil {
		return nil, &cefierrors.FetchError{URL: link, Err: err}
	}

	switch parsed.Scheme {
	case "s3":
		return s.fetchS3(ctx, parsed.Host, strings.TrimPrefix(parsed.Path, "/"))
	case "gs":
		gcsURL := fmt.Sprintf("%s/%s/%s",
			strings.TrimRight(s.gcsEndpoint, "/"),
			parsed.Host,
			strings.TrimPrefix(parsed.Path, "/"),
		)

		return s.fetchHTTP(ctx, gcsURL)
	case "http", "https":
		return s.fetchHTTP(ctx, link)
	default:
		return nil, fmt.Errorf("%w: %q", cefierrors.ErrUnsupportedScheme, parsed.Scheme)
	}
}

// fetchS3 reads a public S3 object anonymously.
func (s *Store) fetchS3(ctx context.Context, bucket, key string) ([]byte, error) {
	objectURL := "s3://" + bucket + "/" + key

	s.log.Debug("Fetching kerchunk index from S3", "bucket", bucket, "key", key)

	client, err := minio.New(s.s3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("", "", ""),
		Secure: !s.s3Insecure,
	})
	if err != nil {
		return nil, &cefierrors.FetchError{URL: objectURL, Err: err}
	}

	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, &cefierrors.FetchError{URL: objectURL, Err: err}
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, &cefierrors.FetchError{URL: objectURL, Err: err}
	}

	return data, nil
}

func (s *Store) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	s.log.Debug("Fetching kerchunk index over HTTP", "url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &cefierrors.FetchError{URL: rawURL, Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &cefierrors.FetchError{URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &cefierrors.FetchError{
			URL: rawURL,
			Err: fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &cefierrors.FetchError{URL: rawURL, Err: err}
	}

	return data, nil
}

// refFile is the kerchunk reference file layout. Version 1 files nest
// entries under "refs"; version 0 files are a flat map, handled by the
// fallback in Parse.
type refFile struct {
	Version int                        `json:"version"`
	Refs    map[string]json.RawMessage `json:"refs"`
}

// Parse extracts dataset attributes from raw kerchunk index bytes.
func Parse(data []byte) (*Dataset, error) {
	var file refFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	refs := file.Refs
	if refs == nil {
		// Version 0: the document itself is the reference map.
		if err := json.Unmarshal(data, &refs); err != nil {
			return nil, err
		}

		delete(refs, "version")
	}

	ds := &Dataset{
		Global:    make(map[string]any),
		Variables: make(map[string]map[string]any),
	}

	for key, raw := range refs {
		switch {
		case key == ".zattrs":
			attrs, err := decodeAttrs(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid .zattrs entry: %w", err)
			}

			ds.Global = attrs

		case key == ".zmetadata":
			if err := mergeConsolidated(ds, raw); err != nil {
				return nil, fmt.Errorf("invalid .zmetadata entry: %w", err)
			}

		case strings.HasSuffix(key, "/.zattrs"):
			name := strings.TrimSuffix(key, "/.zattrs")

			attrs, err := decodeAttrs(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid %s entry: %w", key, err)
			}

			ds.Variables[name] = attrs
		}
	}

	return ds, nil
}

// decodeAttrs decodes an attribute entry, which kerchunk stores either as
// a JSON object or as a string containing encoded JSON.
func decodeAttrs(raw json.RawMessage) (map[string]any, error) {
	var attrs map[string]any
	if err := json.Unmarshal(raw, &attrs); err == nil {
		return attrs, nil
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(encoded), &attrs); err != nil {
		return nil, err
	}

	return attrs, nil
}

// mergeConsolidated folds a consolidated zarr metadata document into ds
// without overwriting attributes already taken from explicit entries.
func mergeConsolidated(ds *Dataset, raw json.RawMessage) error {
	doc, err := decodeAttrs(raw)
	if err != nil {
		return err
	}

	metadata, ok := doc["metadata"].(map[string]any)
	if !ok {
		return nil
	}

	for key, value := range metadata {
		attrs, ok := value.(map[string]any)
		if !ok {
			continue
		}

		switch {
		case key == ".zattrs":
			for name, v := range attrs {
				if _, exists := ds.Global[name]; !exists {
					ds.Global[name] = v
				}
			}

		case strings.HasSuffix(key, "/.zattrs"):
			name := strings.TrimSuffix(key, "/.zattrs")
			if _, exists := ds.Variables[name]; !exists {
				ds.Variables[name] = attrs
			}
		}
	}

	return nil
}
