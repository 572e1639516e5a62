package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
)

// ImportSource is another MCP client's configuration file holding server
// definitions that `sal mcp import` can merge into mcp.json.
type ImportSource struct {
	Client  string                     // "Claude Code", "Cursor", ...
	Path    string                     // absolute path of the client's file
	Servers map[string]json.RawMessage // its top-level mcpServers
	Err     error                      // set when the file exists but cannot be read
}

type sourceLocation struct {
	client string
	rel    []string // path below the home directory
}

// goos selects platform-specific locations. Tests override it.
var goos = runtime.GOOS

func sourceLocations() []sourceLocation {
	locs := []sourceLocation{
		{"Claude Code", []string{".claude.json"}},
		{"Cursor", []string{".cursor", "mcp.json"}},
		{"Windsurf", []string{".codeium", "windsurf", "mcp_config.json"}},
	}
	switch goos {
	case "darwin":
		locs = append(locs, sourceLocation{"Claude Desktop",
			[]string{"Library", "Application Support", "Claude", "claude_desktop_config.json"}})
	case "linux":
		locs = append(locs, sourceLocation{"Claude Desktop",
			[]string{".config", "Claude", "claude_desktop_config.json"}})
	}
	return locs
}

// FindImportSources returns every known client file below home that
// defines at least one server, plus files that exist but failed to parse
// (with Err set). Missing files are skipped.
func FindImportSources(home string) []ImportSource {
	var sources []ImportSource
	for _, loc := range sourceLocations() {
		path := filepath.Join(append([]string{home}, loc.rel...)...)
		servers, err := readMCPServers(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err == nil && len(servers) == 0 {
			continue
		}
		sources = append(sources, ImportSource{
			Client:  loc.client,
			Path:    path,
			Servers: servers,
			Err:     err,
		})
	}
	return sources
}

// readMCPServers extracts the top-level mcpServers object of a client
// file. Per-project server lists are not imported.
func readMCPServers(path string) (map[string]json.RawMessage, error) {
	var doc struct {
		MCPServers map[string]json.RawMessage `json:"mcpServers"`
	}
	found, err := readJSON(path, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("read %s: %w", path, fs.ErrNotExist)
	}
	return doc.MCPServers, nil
}
