package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wagiedev/cefi-mcp/internal/install"
)

var (
	installClientConfig string
	installLauncher     string
	installScriptsDir   string
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Register the CEFI servers with a desktop LLM client",
	Long: `Add the CEFI MCP server entries to a desktop client configuration.

By default the entries invoke this binary's serve subcommands. With
--scripts-dir, launcher-managed entries are written instead, running the
Python server scripts out of the given directory via the uv launcher.
Existing unrelated configuration is preserved.

Examples:
  cefi-mcp install
  cefi-mcp install --scripts-dir /opt/cefi/servers
  cefi-mcp install --client-config ~/custom/claude_desktop_config.json`,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
	installCmd.Flags().StringVar(&installClientConfig, "client-config", "", "Desktop client config path (default per platform)")
	installCmd.Flags().StringVar(&installLauncher, "launcher", "", "Launcher executable for script entries (default: discover uv)")
	installCmd.Flags().StringVar(&installScriptsDir, "scripts-dir", "", "Absolute directory of the Python server scripts; enables launcher-managed entries")
}

func runInstall(_ *cobra.Command, _ []string) error {
	path := installClientConfig
	if path == "" {
		var err error

		path, err = defaultClientConfigPath()
		if err != nil {
			return err
		}
	}

	entries, err := buildEntries()
	if err != nil {
		return err
	}

	if issues := install.Validate(entries); len(issues) > 0 {
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("✗"), issue)
		}

		return fmt.Errorf("refusing to write invalid entries")
	}

	if err := install.Merge(path, entries); err != nil {
		return err
	}

	for _, name := range install.ServerNames() {
		fmt.Printf("%s registered %s\n", color.GreenString("✓"), name)
	}

	fmt.Printf("client config: %s\n", path)
	fmt.Println("restart the desktop client and enable the servers in its tool management UI")

	return nil
}

// buildEntries chooses between launcher-managed script entries and
// direct binary entries.
func buildEntries() (map[string]install.ServerEntry, error) {
	if installScriptsDir != "" {
		scriptsDir, err := filepath.Abs(installScriptsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve scripts directory: %w", err)
		}

		launcher, err := install.DiscoverLauncher(&install.DiscoverConfig{
			LauncherPath: installLauncher,
		})
		if err != nil {
			return nil, err
		}

		return install.ScriptEntries(launcher, scriptsDir), nil
	}

	binary, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve own executable: %w", err)
	}

	binary, err = filepath.EvalSymlinks(binary)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve own executable: %w", err)
	}

	return install.BinaryEntries(binary), nil
}

// defaultClientConfigPath returns the platform's Claude Desktop config path.
func defaultClientConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Claude", "claude_desktop_config.json"), nil
		}

		return filepath.Join(home, "AppData", "Roaming", "Claude", "claude_desktop_config.json"), nil
	default:
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json"), nil
	}
}
