package install

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Issue is one validation finding for a server entry.
type Issue struct {
	Server string
	Reason string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Server, i.Reason)
}

// Validate checks the declared entries of the suite in a client config
// mapping. Only the suite's own server names are checked; foreign entries
// are left alone. An empty result means the configuration is valid.
//
// Launcher-form entries (args containing --directory) must carry an
// absolute directory, the run subcommand, and a .py script, in that
// order. Binary-form entries must name a command that resolves to an
// executable; a bare command name that does not resolve gets a finding
// advising an absolute path.
func Validate(entries map[string]ServerEntry) []Issue {
	var issues []Issue

	for _, s := range Servers {
		entry, ok := entries[s.Name]
		if !ok {
			issues = append(issues, Issue{Server: s.Name, Reason: "entry is missing"})

			continue
		}

		issues = append(issues, validateEntry(s.Name, entry)...)
	}

	return issues
}

func validateEntry(name string, entry ServerEntry) []Issue {
	var issues []Issue

	if entry.Command == "" {
		return append(issues, Issue{Server: name, Reason: "command is empty"})
	}

	if isLauncherForm(entry.Args) {
		issues = append(issues, validateLauncherArgs(name, entry.Args)...)
	}

	if !filepath.IsAbs(entry.Command) {
		if _, err := exec.LookPath(entry.Command); err != nil {
			issues = append(issues, Issue{
				Server: name,
				Reason: fmt.Sprintf("command %q is not on PATH; use an absolute executable path", entry.Command),
			})
		}
	}

	return issues
}

func isLauncherForm(args []string) bool {
	for _, arg := range args {
		if arg == "--directory" {
			return true
		}
	}

	return false
}

// validateLauncherArgs enforces the ordered launcher argument shape:
// --directory <absolute path> run <script>.py.
func validateLauncherArgs(name string, args []string) []Issue {
	var issues []Issue

	dirIndex := -1
	for i, arg := range args {
		if arg == "--directory" {
			dirIndex = i

			break
		}
	}

	if dirIndex+1 >= len(args) {
		return append(issues, Issue{Server: name, Reason: "--directory flag has no value"})
	}

	dir := args[dirIndex+1]
	if !filepath.IsAbs(dir) {
		issues = append(issues, Issue{
			Server: name,
			Reason: fmt.Sprintf("--directory value %q must be an absolute path", dir),
		})
	}

	rest := args[dirIndex+2:]
	if len(rest) == 0 || rest[0] != "run" {
		issues = append(issues, Issue{Server: name, Reason: `"run" subcommand must follow the --directory value`})

		return issues
	}

	if len(rest) < 2 || !strings.HasSuffix(rest[1], ".py") {
		issues = append(issues, Issue{Server: name, Reason: `"run" must be followed by a .py script filename`})
	}

	return issues
}
