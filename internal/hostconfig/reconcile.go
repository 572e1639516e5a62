package hostconfig

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/davebream/sal/internal/mcp"
)

// Reconciler updates which MCP servers auto-start for a project.
type Reconciler struct {
	path   string
	logger *slog.Logger
}

// NewReconciler returns a Reconciler for the host config at path.
func NewReconciler(path string, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reconciler{path: path, logger: logger}
}

// Path returns the host config path.
func (r *Reconciler) Path() string { return r.path }

// Reconcile makes every definition in defs available to the project at
// projectPath and marks exactly the names in autoStart to start
// automatically. Names in the project's not-auto-start list that are not
// in defs belong to someone else and are kept. Calling Reconcile twice
// with the same arguments writes the same bytes.
func (r *Reconciler) Reconcile(projectPath string, defs map[string]json.RawMessage, autoStart []string) error {
	var unknown []string
	for _, name := range autoStart {
		if _, ok := defs[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("reconcile: %w", &mcp.UnknownServersError{Names: unknown})
	}

	key, err := ProjectKey(projectPath)
	if err != nil {
		return err
	}

	doc, err := Load(r.path)
	if err != nil {
		return err
	}

	project, found, err := doc.Project(key)
	if err != nil {
		return err
	}
	if !found {
		project = NewProject()
	}

	existing, err := project.Disabled()
	if err != nil {
		return fmt.Errorf("project %s: %w", key, err)
	}

	available := make(map[string]json.RawMessage, len(defs))
	for name, def := range defs {
		available[name] = append(json.RawMessage(nil), def...)
	}
	if err := project.SetServers(available); err != nil {
		return err
	}

	managed := slices.Sorted(maps.Keys(defs))
	disabled := DisabledServers(existing, managed, autoStart)
	if err := project.SetDisabled(disabled); err != nil {
		return err
	}

	if err := doc.SetProject(key, project); err != nil {
		return err
	}

	if doc.exists {
		wrote, err := Backup(r.path)
		if err != nil {
			return err
		}
		if wrote {
			r.logger.Info("backed up host config", "path", r.path+backupSuffix)
		}
	}

	if err := doc.Save(); err != nil {
		return fmt.Errorf("save host config: %w", err)
	}

	r.logger.Info("reconciled project MCP servers",
		"project", key,
		"new_entry", !found,
		"available", len(managed),
		"auto_start", autoStart,
	)
	return nil
}

// DisabledServers computes the not-auto-start list. Foreign names (not in
// managed) keep their existing order; managed names not in autoStart
// follow in the order given by managed.
func DisabledServers(existing, managed, autoStart []string) []string {
	isManaged := make(map[string]bool, len(managed))
	for _, name := range managed {
		isManaged[name] = true
	}
	enabled := make(map[string]bool, len(autoStart))
	for _, name := range autoStart {
		enabled[name] = true
	}

	seen := make(map[string]bool)
	out := []string{}
	for _, name := range existing {
		if isManaged[name] || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, name := range managed {
		if enabled[name] || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Status describes a project's MCP configuration as Claude Code sees it.
type Status struct {
	Key       string
	Found     bool
	Available []string // every server in the project's mcpServers
	AutoStart []string // Available minus Disabled
	Disabled  []string // the raw not-auto-start list, foreign names included
}

// Status reads the project's current MCP configuration without changing it.
func (r *Reconciler) Status(projectPath string) (*Status, error) {
	key, err := ProjectKey(projectPath)
	if err != nil {
		return nil, err
	}
	doc, err := Load(r.path)
	if err != nil {
		return nil, err
	}
	project, found, err := doc.Project(key)
	if err != nil {
		return nil, err
	}
	st := &Status{Key: key, Found: found}
	if !found {
		return st, nil
	}

	servers, err := project.Servers()
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", key, err)
	}
	disabled, err := project.Disabled()
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", key, err)
	}
	off := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		off[name] = true
	}

	st.Available = slices.Sorted(maps.Keys(servers))
	st.Disabled = disabled
	for _, name := range st.Available {
		if !off[name] {
			st.AutoStart = append(st.AutoStart, name)
		}
	}
	return st, nil
}

// Reconcile is a one-off Reconciler.Reconcile without logging.
func Reconcile(hostPath, projectPath string, defs map[string]json.RawMessage, autoStart []string) error {
	return NewReconciler(hostPath, nil).Reconcile(projectPath, defs, autoStart)
}
