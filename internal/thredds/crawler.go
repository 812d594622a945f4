package thredds

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	cefierrors "github.com/wagiedev/cefi-mcp/internal/errors"
)

const (
	// DefaultBase is the CEFI portal THREDDS catalog root.
	DefaultBase = "https://psl.noaa.gov/thredds/catalog/Projects/CEFI/regional_mom6/cefi_portal/"

	// DefaultDODSBase is the access base joined with dataset urlPath
	// attributes to form OPeNDAP URLs.
	DefaultDODSBase = "https://psl.noaa.gov/thredds/dodsC/"

	// DefaultConcurrency bounds parallel catalog fetches.
	DefaultConcurrency = 4
)

// Catalog is the crawl result: catalog HTML page URL to the OPeNDAP
// access URLs of the NetCDF datasets it lists.
type Catalog map[string][]string

// Config holds configuration for a Crawler.
type Config struct {
	// HTTPClient is the client used for catalog fetches.
	// If nil, a client with a 10 second timeout is used.
	HTTPClient *http.Client

	// DODSBase is the OPeNDAP access base. Defaults to DefaultDODSBase.
	DODSBase string

	// Concurrency bounds parallel fetches. Defaults to DefaultConcurrency.
	Concurrency int

	// Logger is an optional logger. If nil, logging is discarded.
	Logger *slog.Logger
}

// Crawler walks THREDDS catalog trees.
type Crawler struct {
	client      *http.Client
	dodsBase    *url.URL
	concurrency int
	log         *slog.Logger
}

// NewCrawler creates a Crawler with the given configuration.
func NewCrawler(cfg *Config) (*Crawler, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	dodsBase := cfg.DODSBase
	if dodsBase == "" {
		dodsBase = DefaultDODSBase
	}

	base, err := url.Parse(dodsBase)
	if err != nil {
		return nil, fmt.Errorf("invalid DODS base %q: %w", dodsBase, err)
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Crawler{
		client:      client,
		dodsBase:    base,
		concurrency: concurrency,
		log:         log,
	}, nil
}

// catalogDoc is the subset of the THREDDS InvCatalog schema the crawler reads.
type catalogDoc struct {
	XMLName  xml.Name     `xml:"catalog"`
	Datasets []dataset    `xml:"dataset"`
	Refs     []catalogRef `xml:"catalogRef"`
}

type dataset struct {
	URLPath  string       `xml:"urlPath,attr"`
	Datasets []dataset    `xml:"dataset"`
	Refs     []catalogRef `xml:"catalogRef"`
}

type catalogRef struct {
	Href string `xml:"http://www.w3.org/1999/xlink href,attr"`
}

// Crawl walks the catalog tree rooted at baseURL and returns every
// catalog page that lists NetCDF datasets. baseURL may point at a
// directory; "catalog.xml" is appended when missing.
func (c *Crawler) Crawl(ctx context.Context, baseURL string) (Catalog, error) {
	if !strings.HasSuffix(baseURL, "catalog.xml") {
		baseURL = strings.TrimRight(baseURL, "/") + "/catalog.xml"
	}

	root, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog URL %q: %w", baseURL, err)
	}

	walk := &walker{
		crawler: c,
		sem:     make(chan struct{}, c.concurrency),
		visited: make(map[string]bool),
		result:  make(Catalog),
	}

	group, ctx := errgroup.WithContext(ctx)

	walk.group = group
	walk.visit(ctx, root)

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return walk.result, nil
}

// walker holds the shared state of one crawl. Goroutines are tracked by
// the errgroup while the semaphore bounds concurrent fetches; spawning
// stays unbounded so a worker scheduling children can never deadlock
// against the fetch limit.
type walker struct {
	crawler *Crawler
	group   *errgroup.Group
	sem     chan struct{}

	mu      sync.Mutex
	visited map[string]bool
	result  Catalog
}

// visit schedules a catalog fetch unless it was already seen.
func (w *walker) visit(ctx context.Context, catalogURL *url.URL) {
	key := catalogURL.String()

	w.mu.Lock()
	if w.visited[key] {
		w.mu.Unlock()

		return
	}

	w.visited[key] = true
	w.mu.Unlock()

	w.group.Go(func() error {
		w.crawl(ctx, catalogURL)

		// Fetch and parse failures are logged inside crawl; only context
		// cancellation aborts the whole walk.
		return ctx.Err()
	})
}

func (w *walker) crawl(ctx context.Context, catalogURL *url.URL) {
	select {
	case w.sem <- struct{}{}:
	case <-ctx.Done():
		return
	}

	doc, err := w.crawler.fetch(ctx, catalogURL.String())
	<-w.sem
	if err != nil {
		w.crawler.log.Warn("Skipping catalog subtree", "url", catalogURL.String(), "error", err)

		return
	}

	ncURLs := make([]string, 0, 8)
	refs := make([]catalogRef, 0, 8)
	refs = append(refs, doc.Refs...)

	var collect func(ds []dataset)
	collect = func(ds []dataset) {
		for _, d := range ds {
			if strings.HasSuffix(d.URLPath, ".nc") {
				access := *w.crawler.dodsBase
				access.Path = joinPath(access.Path, d.URLPath)
				ncURLs = append(ncURLs, access.String())
			}

			refs = append(refs, d.Refs...)
			collect(d.Datasets)
		}
	}
	collect(doc.Datasets)

	if len(ncURLs) > 0 {
		htmlURL := strings.Replace(catalogURL.String(), "/catalog.xml", "/catalog.html", 1)

		w.mu.Lock()
		w.result[htmlURL] = ncURLs
		w.mu.Unlock()
	}

	for _, ref := range refs {
		if ref.Href == "" {
			continue
		}

		href, err := url.Parse(ref.Href)
		if err != nil {
			w.crawler.log.Warn("Skipping malformed catalogRef", "href", ref.Href, "error", err)

			continue
		}

		w.visit(ctx, catalogURL.ResolveReference(href))
	}
}

// fetch retrieves and decodes one catalog document.
func (c *Crawler) fetch(ctx context.Context, catalogURL string) (*catalogDoc, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, catalogURL, nil)
	if err != nil {
		return nil, &cefierrors.FetchError{URL: catalogURL, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &cefierrors.FetchError{URL: catalogURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &cefierrors.FetchError{
			URL: catalogURL,
			Err: fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var doc catalogDoc
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, &cefierrors.ParseError{URL: catalogURL, Format: "XML", Err: err}
	}

	return &doc, nil
}

func joinPath(base, p string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}
