// Package hostconfig reads and rewrites the Claude Code configuration file
// (~/.claude.json), which sal shares with Claude Code and other tools.
//
// The file is accessed read-modify-write on every call and never cached.
// There is no locking: two sal processes reconciling at the same moment
// race and the last writer wins. Writes are atomic (temp file + rename),
// so readers never see a torn file.
package hostconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/davebream/sal/internal/config"
)

// ErrCorruptHostConfig is returned when the host config exists but is not
// a JSON object. sal refuses to overwrite it.
var ErrCorruptHostConfig = errors.New("host config is corrupt")

const (
	keyProjects      = "projects"
	keyMCPServers    = "mcpServers"
	keyDisabledMCP   = "disabledMcpServers"
	backupSuffix     = ".sal.bak"
	defaultFilePerms = 0600
)

// ProjectKey returns the key Claude Code uses for a project directory:
// the absolute path with symlinks resolved. A path that does not exist
// yet is returned absolute but otherwise unresolved.
func ProjectKey(path string) (string, error) {
	expanded, err := config.ExpandHome(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("project key: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return abs, nil
		}
		return "", fmt.Errorf("project key: %w", err)
	}
	return resolved, nil
}

// Document is a parsed host config. Every key sal does not manage is kept
// as raw JSON and written back unchanged.
type Document struct {
	path   string
	top    map[string]json.RawMessage
	exists bool
}

// Load reads the host config at path. A missing file is an empty document.
func Load(path string) (*Document, error) {
	doc := &Document{path: path, top: make(map[string]json.RawMessage)}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("read host config: %w", err)
	}
	doc.exists = true
	if err := json.Unmarshal(data, &doc.top); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptHostConfig, path, err)
	}
	if doc.top == nil {
		return nil, fmt.Errorf("%w: %s: top level is null", ErrCorruptHostConfig, path)
	}
	return doc, nil
}

// Path returns the file the document was loaded from.
func (d *Document) Path() string { return d.path }

func (d *Document) projects() (map[string]json.RawMessage, error) {
	projects := make(map[string]json.RawMessage)
	raw, ok := d.top[keyProjects]
	if !ok {
		return projects, nil
	}
	if err := json.Unmarshal(raw, &projects); err != nil {
		return nil, fmt.Errorf("%w: %s: projects: %v", ErrCorruptHostConfig, d.path, err)
	}
	if projects == nil {
		projects = make(map[string]json.RawMessage)
	}
	return projects, nil
}

// Project returns the entry stored under key.
func (d *Document) Project(key string) (*Project, bool, error) {
	projects, err := d.projects()
	if err != nil {
		return nil, false, err
	}
	raw, ok := projects[key]
	if !ok {
		return nil, false, nil
	}
	p := &Project{}
	if err := json.Unmarshal(raw, &p.fields); err != nil || p.fields == nil {
		return nil, false, fmt.Errorf("%w: %s: project %s is not an object", ErrCorruptHostConfig, d.path, key)
	}
	return p, true, nil
}

// SetProject stores p under key, leaving other projects untouched.
func (d *Document) SetProject(key string, p *Project) error {
	projects, err := d.projects()
	if err != nil {
		return err
	}
	raw, err := config.EncodeRaw(p.fields)
	if err != nil {
		return fmt.Errorf("marshal project %s: %w", key, err)
	}
	projects[key] = raw
	encoded, err := config.EncodeRaw(projects)
	if err != nil {
		return fmt.Errorf("marshal projects: %w", err)
	}
	d.top[keyProjects] = encoded
	return nil
}

// Save writes the document back atomically, keeping the file's existing
// permissions.
func (d *Document) Save() error {
	perm := os.FileMode(defaultFilePerms)
	if info, err := os.Stat(d.path); err == nil {
		perm = info.Mode().Perm()
	}
	data, err := config.MarshalJSON(d.top)
	if err != nil {
		return fmt.Errorf("marshal host config: %w", err)
	}
	return config.AtomicWriteFile(d.path, data, perm)
}

// Backup copies the host config to <path>.sal.bak unless a backup already
// exists. It reports whether a backup was written.
func Backup(path string) (bool, error) {
	bakPath := path + backupSuffix
	if _, err := os.Lstat(bakPath); err == nil {
		return false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("backup host config: %w", err)
	}
	if err := os.WriteFile(bakPath, data, 0600); err != nil {
		return false, fmt.Errorf("backup host config: %w", err)
	}
	return true, nil
}
