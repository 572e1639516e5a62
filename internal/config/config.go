package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// ServerConfig is the typed view of an MCP server launch spec. Definitions
// are stored as raw JSON so fields not modeled here survive a round trip.
type ServerConfig struct {
	Type     string            `json:"type,omitempty"`
	Command  string            `json:"command,omitempty"`
	Args     []string          `json:"args,omitempty"`
	Env      map[string]string `json:"env,omitempty"`
	URL      string            `json:"url,omitempty"`
	Disabled bool              `json:"disabled,omitempty"`
}

// Servers is the collection of MCP server definitions kept in mcp.json.
// It is the source of truth for which server names exist.
type Servers struct {
	defs  map[string]json.RawMessage
	extra map[string]json.RawMessage // other top-level keys in mcp.json
}

// NewServers returns an empty collection.
func NewServers() *Servers {
	return &Servers{
		defs:  make(map[string]json.RawMessage),
		extra: make(map[string]json.RawMessage),
	}
}

// Len returns the number of definitions.
func (s *Servers) Len() int { return len(s.defs) }

// Names returns every server name in sorted order.
func (s *Servers) Names() []string {
	return slices.Sorted(maps.Keys(s.defs))
}

// Has reports whether name is defined.
func (s *Servers) Has(name string) bool {
	_, ok := s.defs[name]
	return ok
}

// Raw returns the stored launch spec for name.
func (s *Servers) Raw(name string) (json.RawMessage, bool) {
	raw, ok := s.defs[name]
	return raw, ok
}

// Definitions returns a copy of every launch spec keyed by name.
func (s *Servers) Definitions() map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(s.defs))
	for name, raw := range s.defs {
		out[name] = append(json.RawMessage(nil), raw...)
	}
	return out
}

// Config decodes the typed view of name.
func (s *Servers) Config(name string) (*ServerConfig, error) {
	raw, ok := s.defs[name]
	if !ok {
		return nil, fmt.Errorf("server %q not found", name)
	}
	var sc ServerConfig
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parse server %q: %w", name, err)
	}
	return &sc, nil
}

// Put stores a launch spec, replacing any existing one.
func (s *Servers) Put(name string, raw json.RawMessage) error {
	if name == "" {
		return fmt.Errorf("server name must not be empty")
	}
	if !json.Valid(raw) {
		return fmt.Errorf("server %q: launch spec is not valid JSON", name)
	}
	s.defs[name] = append(json.RawMessage(nil), raw...)
	return nil
}

// PutConfig stores a typed launch spec.
func (s *Servers) PutConfig(name string, sc *ServerConfig) error {
	raw, err := EncodeRaw(sc)
	if err != nil {
		return fmt.Errorf("marshal server %q: %w", name, err)
	}
	return s.Put(name, raw)
}

// Remove deletes name and reports whether it existed.
func (s *Servers) Remove(name string) bool {
	if _, ok := s.defs[name]; !ok {
		return false
	}
	delete(s.defs, name)
	return true
}

func (s *Servers) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(s.extra)+1)
	for k, v := range s.extra {
		doc[k] = v
	}
	doc["mcpServers"] = s.defs
	return EncodeRaw(doc)
}

func (s *Servers) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	defs := make(map[string]json.RawMessage)
	if serversJSON, ok := raw["mcpServers"]; ok {
		if err := json.Unmarshal(serversJSON, &defs); err != nil {
			return fmt.Errorf("parse mcpServers: %w", err)
		}
		delete(raw, "mcpServers")
	}
	if defs == nil {
		defs = make(map[string]json.RawMessage)
	}
	if raw == nil {
		raw = make(map[string]json.RawMessage)
	}
	s.defs = defs
	s.extra = raw
	return nil
}

// Export returns a standalone copy of the collection in which every
// server not named in autoStart carries "disabled": true. The result is
// the document claude accepts through --mcp-config.
func (s *Servers) Export(autoStart []string) (*Servers, error) {
	enabled := make(map[string]bool, len(autoStart))
	for _, name := range autoStart {
		if !s.Has(name) {
			return nil, fmt.Errorf("server %q not found", name)
		}
		enabled[name] = true
	}

	out := NewServers()
	for name, raw := range s.defs {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
			return nil, fmt.Errorf("server %q: launch spec is not an object", name)
		}
		if enabled[name] {
			delete(fields, "disabled")
		} else {
			fields["disabled"] = json.RawMessage("true")
		}
		data, err := EncodeRaw(fields)
		if err != nil {
			return nil, fmt.Errorf("marshal server %q: %w", name, err)
		}
		out.defs[name] = data
	}
	return out, nil
}

// LoadServers reads mcp.json. When the file does not exist it is created
// with an empty server list so users have a file to edit.
func (s *Store) LoadServers() (*Servers, error) {
	servers := NewServers()
	found, err := readJSON(s.paths.ServersFile(), servers)
	if err != nil {
		return nil, err
	}
	if !found {
		if err := s.SaveServers(servers); err != nil {
			return nil, fmt.Errorf("initialize server definitions: %w", err)
		}
	}
	return servers, nil
}

// SaveServers writes mcp.json.
func (s *Store) SaveServers(servers *Servers) error {
	return WriteJSON(s.paths.ServersFile(), servers)
}
