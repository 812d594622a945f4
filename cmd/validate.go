package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wagiedev/cefi-mcp/internal/install"
)

var validateClientConfig string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the desktop client registration of the CEFI servers",
	Long: `Validate the CEFI server entries declared in a desktop client
configuration: every entry must exist, launcher-managed entries must
carry a --directory flag with an absolute path followed by the run
subcommand and a .py script, and commands must resolve to executables.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateClientConfig, "client-config", "", "Desktop client config path (default per platform)")
}

func runValidate(_ *cobra.Command, _ []string) error {
	path := validateClientConfig
	if path == "" {
		var err error

		path, err = defaultClientConfigPath()
		if err != nil {
			return err
		}
	}

	entries, err := install.ReadEntries(path)
	if err != nil {
		return err
	}

	issues := install.Validate(entries)

	byServer := make(map[string][]install.Issue, len(issues))
	for _, issue := range issues {
		byServer[issue.Server] = append(byServer[issue.Server], issue)
	}

	for _, name := range install.ServerNames() {
		if problems, bad := byServer[name]; bad {
			for _, issue := range problems {
				fmt.Fprintf(os.Stderr, "%s %s: %s\n", color.RedString("✗"), name, issue.Reason)
			}

			continue
		}

		fmt.Printf("%s %s\n", color.GreenString("✓"), name)
	}

	if len(issues) > 0 {
		return fmt.Errorf("%d configuration problem(s) in %s", len(issues), path)
	}

	return nil
}
