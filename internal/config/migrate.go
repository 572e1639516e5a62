package config

import (
	"encoding/json"
	"reflect"
	"sort"
)

// Conflict represents a name defined differently by two sources.
type Conflict struct {
	Name    string
	Sources []string // e.g. "sal", "Claude Code", "Cursor"
}

// ImportPlan is the outcome of merging client definitions into sal's own.
type ImportPlan struct {
	Added     map[string]json.RawMessage // new names, ready to Put
	Sources   map[string]string          // new name -> client it came from
	Conflicts []Conflict
}

// PlanImport merges server definitions from import sources into the
// existing collection. Identical definitions are deduplicated; a name
// defined differently by two sources is a conflict and is not imported.
// Sources that failed to read contribute nothing.
func PlanImport(existing *Servers, sources []ImportSource) *ImportPlan {
	merged := existing.Definitions()
	origin := make(map[string]string, len(merged))
	for name := range merged {
		origin[name] = "sal"
	}
	conflicted := make(map[string]bool)
	var conflicts []Conflict

	for _, src := range sources {
		if src.Err != nil {
			continue
		}
		for name, def := range src.Servers {
			current, exists := merged[name]
			if !exists {
				merged[name] = def
				origin[name] = src.Client
				continue
			}
			if definitionsEqual(current, def) {
				continue
			}
			conflicted[name] = true
			conflicts = append(conflicts, Conflict{
				Name:    name,
				Sources: []string{origin[name], src.Client},
			})
		}
	}

	plan := &ImportPlan{
		Added:   make(map[string]json.RawMessage),
		Sources: make(map[string]string),
	}
	for name, def := range merged {
		if existing.Has(name) || conflicted[name] {
			continue
		}
		plan.Added[name] = def
		plan.Sources[name] = origin[name]
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Name < conflicts[j].Name })
	plan.Conflicts = conflicts
	return plan
}

// definitionsEqual compares two launch specs structurally so key order
// and whitespace do not matter.
func definitionsEqual(a, b json.RawMessage) bool {
	var va, vb any
	if err := json.Unmarshal(a, &va); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &vb); err != nil {
		return false
	}
	return reflect.DeepEqual(va, vb)
}
