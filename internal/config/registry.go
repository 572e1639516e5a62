package config

import "maps"

// Built-in shortcuts in display order.
var defaultShortcuts = []struct{ Short, Server string }{
	{"gm", "gmail"},
	{"cal", "google-calendar"},
	{"at", "airtable"},
	{"gsh", "google-sheets"},
	{"doc", "google-docs"},
	{"drv", "google-drive"},
	{"gpe", "google-people"},
	{"n8n", "n8n"},
	{"jf", "jotform"},
}

// Built-in profiles in display order.
var defaultProfiles = []struct {
	Name      string
	Shortcuts []string
}{
	{"start", []string{"at", "gm", "cal"}},
	{"google", []string{"gm", "cal", "gsh", "doc", "drv", "gpe"}},
	{"dev", []string{"n8n", "at", "jf"}},
	{"all", []string{"gm", "cal", "at", "gsh", "doc", "drv", "gpe", "n8n", "jf"}},
}

// DefaultShortcuts returns a fresh copy of the built-in shortcut map.
func DefaultShortcuts() map[string]string {
	m := make(map[string]string, len(defaultShortcuts))
	for _, s := range defaultShortcuts {
		m[s.Short] = s.Server
	}
	return m
}

// DefaultProfiles returns a fresh copy of the built-in profile map.
func DefaultProfiles() map[string][]string {
	m := make(map[string][]string, len(defaultProfiles))
	for _, p := range defaultProfiles {
		m[p.Name] = append([]string(nil), p.Shortcuts...)
	}
	return m
}

// DefaultShortcutNames returns built-in shortcut tokens in display order.
func DefaultShortcutNames() []string {
	names := make([]string, len(defaultShortcuts))
	for i, s := range defaultShortcuts {
		names[i] = s.Short
	}
	return names
}

// DefaultProfileNames returns built-in profile names in display order.
func DefaultProfileNames() []string {
	names := make([]string, len(defaultProfiles))
	for i, p := range defaultProfiles {
		names[i] = p.Name
	}
	return names
}

// LoadUserShortcuts returns only the user overrides from shortcuts.json.
func (s *Store) LoadUserShortcuts() (map[string]string, error) {
	user := make(map[string]string)
	if _, err := readJSON(s.paths.ShortcutsFile(), &user); err != nil {
		return nil, err
	}
	if user == nil {
		user = make(map[string]string)
	}
	return user, nil
}

// LoadShortcuts returns the built-in shortcuts with user overrides applied.
func (s *Store) LoadShortcuts() (map[string]string, error) {
	user, err := s.LoadUserShortcuts()
	if err != nil {
		return nil, err
	}
	merged := DefaultShortcuts()
	maps.Copy(merged, user)
	return merged, nil
}

// SaveShortcuts writes the user shortcut overrides.
func (s *Store) SaveShortcuts(user map[string]string) error {
	return WriteJSON(s.paths.ShortcutsFile(), user)
}

// LoadUserProfiles returns only the user overrides from profiles.json.
func (s *Store) LoadUserProfiles() (map[string][]string, error) {
	user := make(map[string][]string)
	if _, err := readJSON(s.paths.ProfilesFile(), &user); err != nil {
		return nil, err
	}
	if user == nil {
		user = make(map[string][]string)
	}
	return user, nil
}

// LoadProfiles returns the built-in profiles with user overrides applied.
func (s *Store) LoadProfiles() (map[string][]string, error) {
	user, err := s.LoadUserProfiles()
	if err != nil {
		return nil, err
	}
	merged := DefaultProfiles()
	maps.Copy(merged, user)
	return merged, nil
}

// SaveProfiles writes the user profile overrides.
func (s *Store) SaveProfiles(user map[string][]string) error {
	return WriteJSON(s.paths.ProfilesFile(), user)
}
