package install

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ServerEntry is one mcpServers entry: how the desktop client spawns a
// tool server subprocess.
type ServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// Server describes one server of the suite.
type Server struct {
	// Name is the mcpServers entry key.
	Name string
	// Script is the launcher-managed script filename.
	Script string
	// Subcommand is the cefi-mcp serve subcommand.
	Subcommand string
}

// Servers lists the suite's servers in registration order.
var Servers = []Server{
	{Name: "mcp_cefi_data_query", Script: "mcp_cefi_data_query.py", Subcommand: "data-query"},
	{Name: "mcp_cefi_data_info", Script: "mcp_cefi_data_info.py", Subcommand: "data-info"},
	{Name: "mcp_cefi_analysis", Script: "mcp_cefi_analysis.py", Subcommand: "analysis"},
}

// ServerNames returns the entry keys of the suite in registration order.
func ServerNames() []string {
	names := make([]string, 0, len(Servers))
	for _, s := range Servers {
		names = append(names, s.Name)
	}

	return names
}

// ScriptEntries builds launcher-managed entries: the launcher runs each
// script out of scriptsDir. scriptsDir must be absolute for the entries
// to validate.
func ScriptEntries(launcher, scriptsDir string) map[string]ServerEntry {
	entries := make(map[string]ServerEntry, len(Servers))
	for _, s := range Servers {
		entries[s.Name] = ServerEntry{
			Command: launcher,
			Args:    []string{"--directory", scriptsDir, "run", s.Script},
		}
	}

	return entries
}

// BinaryEntries builds direct binary entries: the cefi-mcp binary serves
// each server via its serve subcommand.
func BinaryEntries(binaryPath string) map[string]ServerEntry {
	entries := make(map[string]ServerEntry, len(Servers))
	for _, s := range Servers {
		entries[s.Name] = ServerEntry{
			Command: binaryPath,
			Args:    []string{"serve", s.Subcommand},
		}
	}

	return entries
}

// ReadEntries loads the mcpServers mapping from a client config file.
func ReadEntries(path string) (map[string]ServerEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read client config %s: %w", path, err)
	}

	var doc struct {
		MCPServers map[string]ServerEntry `json:"mcpServers"`
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse client config %s: %w", path, err)
	}

	return doc.MCPServers, nil
}

// Merge upserts entries into the client config at path, preserving every
// unrelated key of the document. A missing file is created. The write is
// atomic: a temp file in the same directory is renamed over the target.
func Merge(path string, entries map[string]ServerEntry) error {
	doc := make(map[string]json.RawMessage)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse client config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Start a fresh document.
	default:
		return fmt.Errorf("failed to read client config %s: %w", path, err)
	}

	servers := make(map[string]json.RawMessage)
	if raw, ok := doc["mcpServers"]; ok {
		if err := json.Unmarshal(raw, &servers); err != nil {
			return fmt.Errorf("failed to parse mcpServers in %s: %w", path, err)
		}
	}

	for _, name := range sortedEntryNames(entries) {
		encoded, err := json.Marshal(entries[name])
		if err != nil {
			return fmt.Errorf("failed to encode entry %s: %w", name, err)
		}

		servers[name] = encoded
	}

	encoded, err := json.Marshal(servers)
	if err != nil {
		return fmt.Errorf("failed to encode mcpServers: %w", err)
	}

	doc["mcpServers"] = encoded

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode client config: %w", err)
	}

	out = append(out, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".cefi-mcp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}

	if _, err := tmp.Write(out); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to write temp config: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to close temp config: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to replace client config: %w", err)
	}

	return nil
}

func sortedEntryNames(entries map[string]ServerEntry) []string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
