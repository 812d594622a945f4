package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	cefierrors "github.com/wagiedev/cefi-mcp/internal/errors"
)

// DefaultURL is the published location of the CEFI data tree.
const DefaultURL = "https://psl.noaa.gov/cefi_portal/data_option_json/cefi_data_tree.json"

// rootPath is the subtree of the published document that holds the
// portal data tree.
var rootPath = []string{"Projects", "CEFI", "regional_mom6", "cefi_portal"}

// LevelNames are the data tree level names, top to bottom.
var LevelNames = []string{
	"region",
	"subdomain",
	"experiment_type",
	"output_frequency",
	"grid_type",
	"release_date",
	"variable_catagory",
	"variable_name",
	"variable_short_name",
	"variable_file_name",
	"file_meta_data",
}

// Config holds configuration for a Catalog.
type Config struct {
	// URL is the data tree location. Defaults to DefaultURL.
	URL string

	// HTTPClient is the client used to fetch the tree.
	// If nil, a client with a 10 second timeout is used.
	HTTPClient *http.Client

	// RefreshInterval is how long a fetched tree is served before it is
	// refetched. Zero disables automatic refresh.
	RefreshInterval time.Duration

	// Logger is an optional logger. If nil, logging is discarded.
	Logger *slog.Logger
}

// Catalog is a cached view of the CEFI data tree.
type Catalog struct {
	url      string
	client   *http.Client
	refresh  time.Duration
	log      *slog.Logger
	now      func() time.Time
	mu       sync.RWMutex
	tree     map[string]any
	loadedAt time.Time
}

// New creates a Catalog with the given configuration.
func New(cfg *Config) *Catalog {
	if cfg == nil {
		cfg = &Config{}
	}

	url := cfg.URL
	if url == "" {
		url = DefaultURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Catalog{
		url:     url,
		client:  client,
		refresh: cfg.RefreshInterval,
		log:     log,
		now:     time.Now,
	}
}

// Load fetches the data tree, replacing any cached copy.
func (c *Catalog) Load(ctx context.Context) error {
	c.log.Debug("Loading CEFI data tree", "url", c.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return &cefierrors.FetchError{URL: c.url, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &cefierrors.FetchError{URL: c.url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &cefierrors.FetchError{
			URL: c.url,
			Err: fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return &cefierrors.ParseError{URL: c.url, Format: "JSON", Err: err}
	}

	tree, err := descendToRoot(doc)
	if err != nil {
		return &cefierrors.ParseError{URL: c.url, Format: "JSON", Err: err}
	}

	c.mu.Lock()
	c.tree = tree
	c.loadedAt = c.now()
	c.mu.Unlock()

	c.log.Info("Loaded CEFI data tree", "url", c.url, "regions", len(tree))

	return nil
}

// ensure makes sure a usable tree is cached, loading or refreshing as needed.
func (c *Catalog) ensure(ctx context.Context) (map[string]any, error) {
	c.mu.RLock()
	tree := c.tree
	loadedAt := c.loadedAt
	c.mu.RUnlock()

	stale := c.refresh > 0 && !loadedAt.IsZero() && c.now().Sub(loadedAt) > c.refresh

	if tree != nil && !stale {
		return tree, nil
	}

	if err := c.Load(ctx); err != nil {
		// A stale tree still beats no tree.
		if tree != nil {
			c.log.Warn("CEFI data tree refresh failed, serving cached copy", "error", err)

			return tree, nil
		}

		c.log.Error("Failed to load CEFI data tree", "error", err)

		return nil, cefierrors.ErrCatalogUnavailable
	}

	c.mu.RLock()
	tree = c.tree
	c.mu.RUnlock()

	if len(tree) == 0 {
		return nil, cefierrors.ErrCatalogUnavailable
	}

	return tree, nil
}

// Options returns the sorted child keys at the given path. An empty path
// returns the regions.
func (c *Catalog) Options(ctx context.Context, path ...string) ([]string, error) {
	tree, err := c.ensure(ctx)
	if err != nil {
		return nil, err
	}

	node, err := descend(tree, path)
	if err != nil {
		return nil, err
	}

	return sortedKeys(node), nil
}

// ResolveOptions is Options with each path segment fuzzily resolved
// against the keys available at its level. It returns the options along
// with the resolved path.
func (c *Catalog) ResolveOptions(ctx context.Context, path ...string) ([]string, []string, error) {
	tree, err := c.ensure(ctx)
	if err != nil {
		return nil, nil, err
	}

	node := tree
	resolved := make([]string, 0, len(path))

	for i, segment := range path {
		match, ok := BestMatch(segment, sortedKeys(node))
		if !ok {
			return nil, nil, &cefierrors.NotFoundError{Level: levelName(i), Query: segment}
		}

		child, ok := node[match].(map[string]any)
		if !ok {
			return nil, nil, &cefierrors.NotFoundError{Level: levelName(i), Query: segment}
		}

		resolved = append(resolved, match)
		node = child
	}

	return sortedKeys(node), resolved, nil
}

// Variables returns the flattened variable long names, short names, and
// filenames under a variable_catagory node identified by path.
func (c *Catalog) Variables(ctx context.Context, path ...string) (longNames, shortNames, fileNames []string, err error) {
	tree, err := c.ensure(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	node, err := descend(tree, path)
	if err != nil {
		return nil, nil, nil, err
	}

	for _, long := range sortedKeys(node) {
		longNames = append(longNames, long)

		shortLevel, ok := node[long].(map[string]any)
		if !ok {
			continue
		}

		for _, short := range sortedKeys(shortLevel) {
			shortNames = append(shortNames, short)

			fileLevel, ok := shortLevel[short].(map[string]any)
			if !ok {
				continue
			}

			fileNames = append(fileNames, sortedKeys(fileLevel)...)
		}
	}

	return longNames, shortNames, fileNames, nil
}

// descend walks the tree along path, reporting the first level at which a
// segment is missing.
func descend(tree map[string]any, path []string) (map[string]any, error) {
	node := tree

	for i, segment := range path {
		child, ok := node[segment].(map[string]any)
		if !ok {
			return nil, &cefierrors.NotFoundError{Level: levelName(i), Query: segment}
		}

		node = child
	}

	return node, nil
}

// descendToRoot extracts the portal subtree from the published document.
func descendToRoot(doc map[string]any) (map[string]any, error) {
	node := doc

	for _, key := range rootPath {
		child, ok := node[key].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("data tree is missing %q", key)
		}

		node = child
	}

	return node, nil
}

// levelName maps a path depth to its level name.
func levelName(depth int) string {
	if depth < len(LevelNames) {
		return LevelNames[depth]
	}

	return fmt.Sprintf("level %d", depth)
}

func sortedKeys(node map[string]any) []string {
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
