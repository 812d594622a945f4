package opendap

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	cefierrors "github.com/wagiedev/cefi-mcp/internal/errors"
)

// globalContainer is the DAS container holding dataset-level attributes.
const globalContainer = "NC_GLOBAL"

// Attributes holds the attributes of one dataset: the global ones and
// the per-variable ones, each as attribute name to value.
type Attributes struct {
	Global    map[string]string
	Variables map[string]map[string]string
}

// Config holds configuration for a metadata Client.
type Config struct {
	// HTTPClient is the client used for DAS fetches.
	// If nil, a client with a 10 second timeout is used.
	HTTPClient *http.Client

	// Logger is an optional logger. If nil, logging is discarded.
	Logger *slog.Logger
}

// Client retrieves dataset metadata over OPeNDAP.
type Client struct {
	client *http.Client
	log    *slog.Logger
}

// NewClient creates a metadata Client with the given configuration.
func NewClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = &Config{}
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{client: client, log: log}
}

// Attributes fetches and parses the DAS document of the dataset at dataURL.
func (c *Client) Attributes(ctx context.Context, dataURL string) (*Attributes, error) {
	dasURL := strings.TrimSuffix(dataURL, ".das") + ".das"

	c.log.Debug("Fetching DAS document", "url", dasURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dasURL, nil)
	if err != nil {
		return nil, &cefierrors.FetchError{URL: dasURL, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &cefierrors.FetchError{URL: dasURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &cefierrors.FetchError{
			URL: dasURL,
			Err: fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	attrs, err := ParseDAS(resp.Body)
	if err != nil {
		return nil, &cefierrors.ParseError{URL: dasURL, Format: "DAS", Err: err}
	}

	return attrs, nil
}

// ParseDAS parses a DAS (Dataset Attribute Structure) document.
//
// The document has the shape
//
//	Attributes {
//	    tos {
//	        String long_name "Sea Surface Temperature";
//	        Float32 _FillValue 1.0E20;
//	    }
//	    NC_GLOBAL {
//	        String title "NWA12 hindcast";
//	    }
//	}
//
// Attributes of the NC_GLOBAL container become Global; every other
// container becomes an entry in Variables. Nested containers (allowed by
// the DAP spec, rare in practice) are flattened under dotted names.
func ParseDAS(r io.Reader) (*Attributes, error) {
	attrs := &Attributes{
		Global:    make(map[string]string),
		Variables: make(map[string]map[string]string),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	// stack holds the open container names; empty means we are at the
	// top-level "Attributes" block (or before it).
	var stack []string
	sawHeader := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Attributes {"):
			sawHeader = true

		case line == "}":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case strings.HasSuffix(line, "{"):
			name := strings.TrimSpace(strings.TrimSuffix(line, "{"))
			stack = append(stack, name)

		default:
			if len(stack) == 0 {
				continue
			}

			name, value, ok := parseAttributeLine(line)
			if !ok {
				continue
			}

			container := strings.Join(stack, ".")
			if container == globalContainer {
				attrs.Global[name] = value

				continue
			}

			vars, exists := attrs.Variables[container]
			if !exists {
				vars = make(map[string]string)
				attrs.Variables[container] = vars
			}

			vars[name] = value
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if !sawHeader {
		return nil, fmt.Errorf("missing Attributes header")
	}

	return attrs, nil
}

// parseAttributeLine splits a `Type name value;` DAS line into name and value.
func parseAttributeLine(line string) (name, value string, ok bool) {
	line = strings.TrimSuffix(line, ";")

	fields := strings.SplitN(line, " ", 3)
	if len(fields) < 3 {
		return "", "", false
	}

	name = fields[1]
	value = strings.TrimSpace(fields[2])
	value = strings.Trim(value, `"`)

	return name, value, true
}
