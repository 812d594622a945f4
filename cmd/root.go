package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wagiedev/cefi-mcp/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cefi-mcp",
	Short: "MCP tool servers for CEFI ocean model data",
	Long: `cefi-mcp provides Model Context Protocol tool servers for NOAA CEFI
regional ocean model output: data tree navigation, dataset metadata
retrieval, THREDDS catalog crawling, and desktop client registration.

The servers communicate over stdio and are meant to be spawned by a
desktop LLM client; see the install and validate commands for managing
the client registration.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	addConfigFlag(rootCmd.PersistentFlags())
}

// addConfigFlag binds the shared --config flag to a flag set.
func addConfigFlag(fs *pflag.FlagSet) {
	fs.StringVar(&configPath, "config", "", "Path to the cefi-mcp config file (default $CEFI_MCP_CONFIG or ~/.config/cefi-mcp/config.toml)")
}

// loadConfig loads the runtime configuration honoring the --config flag.
func loadConfig() (*config.Config, error) {
	path := configPath

	if path == "" {
		var err error

		path, err = config.Path()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg, nil
}

// newLogger builds the process logger. Logs go to stderr: stdout belongs
// to the MCP stdio transport.
func newLogger(level string) *slog.Logger {
	var slogLevel slog.Level

	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel}))
}
