package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Paths locates every file sal reads or writes. Tests build one over a
// temp directory; production code uses DefaultPaths.
type Paths struct {
	Dir        string // sal configuration directory (~/.sal)
	HostConfig string // shared Claude Code configuration (~/.claude.json)
}

// ConfigDir returns the sal configuration directory.
// Respects SAL_CONFIG_DIR override.
func ConfigDir() (string, error) {
	if dir := os.Getenv("SAL_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(home, ".sal"), nil
}

// HostConfigPath returns the path of the Claude Code configuration file.
// Respects SAL_CLAUDE_CONFIG override.
func HostConfigPath() (string, error) {
	if path := os.Getenv("SAL_CLAUDE_CONFIG"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("host config path: %w", err)
	}
	return filepath.Join(home, ".claude.json"), nil
}

// DefaultPaths resolves Paths from the environment.
func DefaultPaths() (Paths, error) {
	dir, err := ConfigDir()
	if err != nil {
		return Paths{}, err
	}
	host, err := HostConfigPath()
	if err != nil {
		return Paths{}, err
	}
	return Paths{Dir: dir, HostConfig: host}, nil
}

// SettingsFile returns the path to config.json.
func (p Paths) SettingsFile() string { return filepath.Join(p.Dir, "config.json") }

// ShortcutsFile returns the path to the user shortcut overrides.
func (p Paths) ShortcutsFile() string { return filepath.Join(p.Dir, "shortcuts.json") }

// ProfilesFile returns the path to the user profile overrides.
func (p Paths) ProfilesFile() string { return filepath.Join(p.Dir, "profiles.json") }

// ServersFile returns the path to the MCP server definitions.
func (p Paths) ServersFile() string { return filepath.Join(p.Dir, "mcp.json") }

// LogDir returns the directory for sal log files.
func (p Paths) LogDir() string { return filepath.Join(p.Dir, "logs") }

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
