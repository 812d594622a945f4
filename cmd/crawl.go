package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wagiedev/cefi-mcp/internal/thredds"
)

var (
	crawlBase string
	crawlOut  string
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl the CEFI THREDDS catalog for NetCDF datasets",
	Long: `Recursively crawl a THREDDS catalog tree and print the catalogs that
list NetCDF datasets, each with its OPeNDAP access URLs, as JSON.

Examples:
  cefi-mcp crawl                                # crawl the CEFI portal catalog
  cefi-mcp crawl --out cefi_thredds_catalog.json
  cefi-mcp crawl --base https://psl.noaa.gov/thredds/catalog/Projects/CEFI/regional_mom6/cefi_portal/northwest_atlantic/`,
	RunE: runCrawl,
}

func init() {
	rootCmd.AddCommand(crawlCmd)
	crawlCmd.Flags().StringVar(&crawlBase, "base", "", "THREDDS catalog base URL (default from config)")
	crawlCmd.Flags().StringVarP(&crawlOut, "out", "o", "", "Write the catalog JSON to a file instead of stdout")
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := newLogger(cfg.Log.Level)

	base := crawlBase
	if base == "" {
		base = cfg.Portal.THREDDSBase
	}

	crawler, err := thredds.NewCrawler(&thredds.Config{
		HTTPClient:  &http.Client{Timeout: cfg.HTTPTimeout()},
		Concurrency: cfg.Crawl.Concurrency,
		Logger:      log,
	})
	if err != nil {
		return err
	}

	result, err := crawler.Crawl(cmd.Context(), base)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	out = append(out, '\n')

	if crawlOut != "" {
		if err := os.WriteFile(crawlOut, out, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", crawlOut, err)
		}

		fmt.Fprintf(os.Stderr, "%s catalog information saved to %s\n",
			color.GreenString("✓"), crawlOut)
	} else {
		fmt.Print(string(out))
	}

	files := 0
	for _, urls := range result {
		files += len(urls)
	}

	fmt.Fprintf(os.Stderr, "%s found %d catalogs with %d NetCDF files\n",
		color.GreenString("✓"), len(result), files)

	return nil
}
