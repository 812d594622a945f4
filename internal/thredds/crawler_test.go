package thredds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const rootCatalog = `<?xml version="1.0" encoding="UTF-8"?>
<catalog xmlns="http://www.unidata.ucar.edu/namespaces/thredds/InvCatalog/v1.0"
         xmlns:xlink="http://www.w3.org/1999/xlink" name="CEFI">
  <dataset name="cefi_portal">
    <catalogRef xlink:href="northwest_atlantic/catalog.xml" xlink:title="northwest_atlantic"/>
    <catalogRef xlink:href="broken/catalog.xml" xlink:title="broken"/>
  </dataset>
</catalog>`

const regionCatalog = `<?xml version="1.0" encoding="UTF-8"?>
<catalog xmlns="http://www.unidata.ucar.edu/namespaces/thredds/InvCatalog/v1.0"
         xmlns:xlink="http://www.w3.org/1999/xlink" name="northwest_atlantic">
  <dataset name="monthly">
    <dataset name="tos" urlPath="Projects/CEFI/tos.nwa.monthly.nc"/>
    <dataset name="sos" urlPath="Projects/CEFI/sos.nwa.monthly.nc"/>
    <dataset name="readme" urlPath="Projects/CEFI/readme.txt"/>
    <catalogRef xlink:href="../northwest_atlantic/catalog.xml" xlink:title="self"/>
  </dataset>
</catalog>`

func newTestCrawler(t *testing.T) (*Crawler, *httptest.Server, map[string]int) {
	t.Helper()

	hits := make(map[string]int)
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/catalog.xml", func(w http.ResponseWriter, r *http.Request) {
		hits[r.URL.Path]++
		_, _ = w.Write([]byte(rootCatalog))
	})
	mux.HandleFunc("/northwest_atlantic/catalog.xml", func(w http.ResponseWriter, r *http.Request) {
		hits[r.URL.Path]++
		_, _ = w.Write([]byte(regionCatalog))
	})
	mux.HandleFunc("/broken/catalog.xml", func(w http.ResponseWriter, r *http.Request) {
		hits[r.URL.Path]++
		w.WriteHeader(http.StatusNotFound)
	})

	crawler, err := NewCrawler(&Config{
		HTTPClient:  srv.Client(),
		DODSBase:    srv.URL + "/thredds/dodsC/",
		Concurrency: 1, // serialize so the hit map needs no locking
	})
	require.NoError(t, err)

	return crawler, srv, hits
}

func TestCrawl_CollectsNetCDFAccessURLs(t *testing.T) {
	crawler, srv, _ := newTestCrawler(t)

	got, err := crawler.Crawl(context.Background(), srv.URL+"/")

	require.NoError(t, err)

	htmlURL := srv.URL + "/northwest_atlantic/catalog.html"
	require.Contains(t, got, htmlURL)
	require.ElementsMatch(t, []string{
		srv.URL + "/thredds/dodsC/Projects/CEFI/tos.nwa.monthly.nc",
		srv.URL + "/thredds/dodsC/Projects/CEFI/sos.nwa.monthly.nc",
	}, got[htmlURL])

	// The root catalog lists no .nc datasets and must not appear.
	require.NotContains(t, got, srv.URL+"/catalog.html")
}

func TestCrawl_SkipsBrokenSubtrees(t *testing.T) {
	crawler, srv, hits := newTestCrawler(t)

	got, err := crawler.Crawl(context.Background(), srv.URL+"/catalog.xml")

	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 1, hits["/broken/catalog.xml"])
}

func TestCrawl_VisitsEachCatalogOnce(t *testing.T) {
	crawler, srv, hits := newTestCrawler(t)

	// regionCatalog references itself; dedup must keep this at one fetch.
	_, err := crawler.Crawl(context.Background(), srv.URL+"/catalog.xml")

	require.NoError(t, err)
	require.Equal(t, 1, hits["/northwest_atlantic/catalog.xml"])
}

func TestCrawl_AppendsCatalogXML(t *testing.T) {
	crawler, srv, hits := newTestCrawler(t)

	_, err := crawler.Crawl(context.Background(), srv.URL)

	require.NoError(t, err)
	require.Equal(t, 1, hits["/catalog.xml"])
}

func TestCrawl_CancelledContext(t *testing.T) {
	crawler, srv, _ := newTestCrawler(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := crawler.Crawl(ctx, srv.URL+"/catalog.xml")

	require.ErrorIs(t, err, context.Canceled)
}

func TestNewCrawler_InvalidDODSBase(t *testing.T) {
	_, err := NewCrawler(&Config{DODSBase: "://bad"})

	require.Error(t, err)
}
