package install

import (
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	cefierrors "github.com/wagiedev/cefi-mcp/internal/errors"
)

// DefaultLauncher is the launcher executable used for script entries.
const DefaultLauncher = "uv"

// DiscoverConfig holds configuration for launcher discovery.
type DiscoverConfig struct {
	// LauncherPath is an explicit launcher path that skips PATH search.
	// If empty, discovery searches PATH and common locations.
	LauncherPath string

	// Logger is an optional logger for discovery operations.
	// If nil, logging is discarded.
	Logger *slog.Logger
}

// DiscoverLauncher locates the launcher executable and returns its
// absolute path. Desktop clients spawn tool servers outside a login
// shell, so a resolved absolute path is always preferred over the bare
// command name.
func DiscoverLauncher(cfg *DiscoverConfig) (string, error) {
	if cfg == nil {
		cfg = &DiscoverConfig{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// If an explicit path is provided, use it and only it.
	if cfg.LauncherPath != "" {
		log.Debug("Using explicit launcher path", "path", cfg.LauncherPath)

		if _, err := os.Stat(cfg.LauncherPath); err == nil {
			return cfg.LauncherPath, nil
		}

		return "", &cefierrors.LauncherNotFoundError{SearchedPaths: []string{cfg.LauncherPath}}
	}

	searchedPaths := make([]string, 0, 4)

	log.Debug("Searching for launcher in PATH", "launcher", DefaultLauncher)

	if path, err := exec.LookPath(DefaultLauncher); err == nil {
		if abs, err := filepath.Abs(path); err == nil {
			return abs, nil
		}

		return path, nil
	}

	searchedPaths = append(searchedPaths, "$PATH")

	commonPaths := []string{
		"/usr/local/bin/" + DefaultLauncher,
		"/usr/bin/" + DefaultLauncher,
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		commonPaths = append(commonPaths,
			filepath.Join(homeDir, ".local/bin", DefaultLauncher),
			filepath.Join(homeDir, ".cargo/bin", DefaultLauncher),
		)
	}

	for _, path := range commonPaths {
		searchedPaths = append(searchedPaths, path)
		log.Debug("Checking common launcher path", "path", path)

		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	log.Warn("Launcher not found in any searched paths", "searched_paths", searchedPaths)

	return "", &cefierrors.LauncherNotFoundError{SearchedPaths: searchedPaths}
}
