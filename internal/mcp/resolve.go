// Package mcp expands MCP server arguments (shortcuts, profiles and full
// names) into validated server names.
package mcp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/davebream/sal/internal/config"
)

// NoneToken is the argument that means "no MCP servers". The resolver does
// not interpret it; callers check for it before resolving.
const NoneToken = "none"

// Catalog reports which server names exist.
type Catalog interface {
	Has(name string) bool
}

// UnknownServersError lists requested names with no server definition.
type UnknownServersError struct {
	Names []string
}

func (e *UnknownServersError) Error() string {
	return fmt.Sprintf("unknown MCP servers: %s", strings.Join(e.Names, ", "))
}

// Resolver expands raw arguments against shortcut and profile maps and
// validates the result against a Catalog.
type Resolver struct {
	shortcuts map[string]string
	profiles  map[string][]string
	catalog   Catalog
}

// NewResolver returns a Resolver over merged shortcut and profile maps.
func NewResolver(shortcuts map[string]string, profiles map[string][]string, catalog Catalog) *Resolver {
	return &Resolver{shortcuts: shortcuts, profiles: profiles, catalog: catalog}
}

// FromStore builds a Resolver from the files in store. The server
// definitions loaded on the way are returned so callers see the same
// snapshot the resolver validated against.
func FromStore(store *config.Store) (*Resolver, *config.Servers, error) {
	shortcuts, err := store.LoadShortcuts()
	if err != nil {
		return nil, nil, fmt.Errorf("load shortcuts: %w", err)
	}
	profiles, err := store.LoadProfiles()
	if err != nil {
		return nil, nil, fmt.Errorf("load profiles: %w", err)
	}
	servers, err := store.LoadServers()
	if err != nil {
		return nil, nil, fmt.Errorf("load server definitions: %w", err)
	}
	return NewResolver(shortcuts, profiles, servers), servers, nil
}

// Shortcut returns the full server name for token, or token itself when
// it is not a shortcut.
func (r *Resolver) Shortcut(token string) string {
	if name, ok := r.shortcuts[token]; ok {
		return name
	}
	return token
}

// HasShortcut reports whether token is a shortcut, including one that
// maps to itself.
func (r *Resolver) HasShortcut(token string) bool {
	_, ok := r.shortcuts[token]
	return ok
}

// Profile returns the full server names of a profile in profile order.
func (r *Resolver) Profile(name string) ([]string, bool) {
	members, ok := r.profiles[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = r.Shortcut(m)
	}
	return out, true
}

// HasProfile reports whether name is a known profile.
func (r *Resolver) HasProfile(name string) bool {
	_, ok := r.profiles[name]
	return ok
}

// Expand splits raw on commas and expands each token. Profiles win over
// shortcuts. The result keeps first-seen order without duplicates.
func (r *Resolver) Expand(raw string) []string {
	var names []string
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if members, ok := r.Profile(token); ok {
			names = append(names, members...)
			continue
		}
		names = append(names, r.Shortcut(token))
	}
	return dedupe(names)
}

// Resolve expands raw and splits the result into names that exist in the
// catalog and names that do not. Both keep expansion order.
func (r *Resolver) Resolve(raw string) (valid, invalid []string) {
	valid = []string{}
	invalid = []string{}
	for _, name := range r.Expand(raw) {
		if r.catalog.Has(name) {
			valid = append(valid, name)
		} else {
			invalid = append(invalid, name)
		}
	}
	return valid, invalid
}

// ResolveStrict is Resolve with any invalid name turned into an
// *UnknownServersError.
func (r *Resolver) ResolveStrict(raw string) ([]string, error) {
	valid, invalid := r.Resolve(raw)
	if len(invalid) > 0 {
		return nil, &UnknownServersError{Names: invalid}
	}
	return valid, nil
}

// ShortcutFor returns the shortcut that maps to server, preferring the
// alphabetically first when several do.
func (r *Resolver) ShortcutFor(server string) string {
	var matches []string
	for short, name := range r.shortcuts {
		if name == server {
			matches = append(matches, short)
		}
	}
	if len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[0]
}

// ProfileNames returns all profile names sorted.
func (r *Resolver) ProfileNames() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
