package hostconfig

import (
	"encoding/json"
	"fmt"

	"github.com/davebream/sal/internal/config"
)

// Project is one entry of the host config "projects" map. Only the MCP
// fields are interpreted; the rest belongs to Claude Code.
type Project struct {
	fields map[string]json.RawMessage
}

// NewProject returns the entry Claude Code expects for a project it has
// never opened: empty allow-lists and the trust dialog already accepted.
func NewProject() *Project {
	return &Project{fields: map[string]json.RawMessage{
		"allowedTools":           json.RawMessage(`[]`),
		"mcpContextUris":         json.RawMessage(`[]`),
		keyMCPServers:            json.RawMessage(`{}`),
		"enabledMcpjsonServers":  json.RawMessage(`[]`),
		"disabledMcpjsonServers": json.RawMessage(`[]`),
		"hasTrustDialogAccepted": json.RawMessage(`true`),
		"ignorePatterns":         json.RawMessage(`[]`),
	}}
}

// Servers returns the servers available to the project.
func (p *Project) Servers() (map[string]json.RawMessage, error) {
	servers := make(map[string]json.RawMessage)
	raw, ok := p.fields[keyMCPServers]
	if !ok {
		return servers, nil
	}
	if err := json.Unmarshal(raw, &servers); err != nil {
		return nil, fmt.Errorf("parse %s: %w", keyMCPServers, err)
	}
	if servers == nil {
		servers = make(map[string]json.RawMessage)
	}
	return servers, nil
}

// SetServers replaces the available servers.
func (p *Project) SetServers(servers map[string]json.RawMessage) error {
	raw, err := config.EncodeRaw(servers)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", keyMCPServers, err)
	}
	p.fields[keyMCPServers] = raw
	return nil
}

// Disabled returns the names that must not auto-start.
func (p *Project) Disabled() ([]string, error) {
	raw, ok := p.fields[keyDisabledMCP]
	if !ok {
		return nil, nil
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("parse %s: %w", keyDisabledMCP, err)
	}
	return names, nil
}

// SetDisabled replaces the not-auto-start list.
func (p *Project) SetDisabled(names []string) error {
	if names == nil {
		names = []string{}
	}
	raw, err := config.EncodeRaw(names)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", keyDisabledMCP, err)
	}
	p.fields[keyDisabledMCP] = raw
	return nil
}
