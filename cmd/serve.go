package cmd

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wagiedev/cefi-mcp/internal/catalog"
	cefierrors "github.com/wagiedev/cefi-mcp/internal/errors"
	"github.com/wagiedev/cefi-mcp/internal/kerchunk"
	"github.com/wagiedev/cefi-mcp/internal/opendap"
	"github.com/wagiedev/cefi-mcp/internal/server"
)

var servePreload bool

var serveCmd = &cobra.Command{
	Use:       "serve <data-query|data-info|analysis>",
	Short:     "Run an MCP tool server on stdio",
	Long: `Run one of the CEFI MCP tool servers on stdio until the client
disconnects.

Servers:
  data-query  one tool per data tree level plus OPeNDAP URL construction
  data-info   cascading fuzzy option lookup and level names
  analysis    dataset metadata from OPeNDAP or kerchunk indexes`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"data-query", "data-info", "analysis"},
	RunE:      runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&servePreload, "preload", false, "Load the CEFI data tree before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := newLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout()}

	cat := catalog.New(&catalog.Config{
		URL:             cfg.Portal.DataTreeURL,
		HTTPClient:      httpClient,
		RefreshInterval: cfg.RefreshInterval(),
		Logger:          log,
	})

	var srv *server.Server

	switch args[0] {
	case "data-query":
		srv = server.NewDataQuery(cat, cfg.Portal.OPeNDAPBase, log)
	case "data-info":
		srv = server.NewDataInfo(cat, log)
	case "analysis":
		meta := opendap.NewClient(&opendap.Config{HTTPClient: httpClient, Logger: log})
		store := kerchunk.NewStore(&kerchunk.Config{HTTPClient: httpClient, Logger: log})
		srv = server.NewAnalysis(meta, store, log)
	default:
		return fmt.Errorf("%w: %q", cefierrors.ErrUnknownServer, args[0])
	}

	if servePreload && args[0] != "analysis" {
		if err := cat.Load(ctx); err != nil {
			// Serve anyway; the first tool call retries the load.
			log.Warn("Failed to preload CEFI data tree", "error", err)
		}
	}

	return srv.Run(ctx)
}
