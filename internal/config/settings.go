package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Recognized settings keys. Any other key is stored and returned untouched.
const (
	KeyDefaultProfile  = "default_profile"
	KeyClaudeDir       = "claude_dir"
	KeySkipPermissions = "skip_permissions"
	KeyReportEmail     = "report_email"
)

// DefaultClaudeDir is the working directory used when claude_dir is unset.
const DefaultClaudeDir = "~/sal/desktop"

// Kind tags the type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindString
	// KindRaw holds any other JSON value found in the file (numbers, arrays,
	// objects). It is only ever produced by decoding and round-trips as is.
	KindRaw
)

// Value is a single settings value: Bool, String or Null.
type Value struct {
	kind Kind
	b    bool
	s    string
	raw  json.RawMessage
}

func Null() Value           { return Value{kind: KindNull} }
func Bool(b bool) Value     { return Value{kind: KindBool, b: b} }
func String(s string) Value { return Value{kind: KindString, s: s} }

// ParseValue converts command-line text into a Value. "true" and "false"
// become Bool and "none" or "null" become Null (case-insensitive);
// everything else is a String.
func ParseValue(text string) Value {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	case "none", "null":
		return Null()
	}
	return String(text)
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean and whether v holds one.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsString returns the string and whether v holds one.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// String renders v for display.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindString:
		return v.s
	case KindRaw:
		return string(v.raw)
	}
	return "none"
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindString:
		return EncodeRaw(v.s)
	case KindRaw:
		return v.raw, nil
	}
	return []byte("null"), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*v = Null()
	case bytes.Equal(trimmed, []byte("true")):
		*v = Bool(true)
	case bytes.Equal(trimmed, []byte("false")):
		*v = Bool(false)
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = String(s)
	default:
		*v = Value{kind: KindRaw, raw: append(json.RawMessage(nil), trimmed...)}
	}
	return nil
}

// Settings is the flat key-value configuration stored in config.json.
type Settings struct {
	values map[string]Value
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() *Settings {
	return &Settings{values: map[string]Value{
		KeyDefaultProfile:  Null(),
		KeyClaudeDir:       String(DefaultClaudeDir),
		KeySkipPermissions: Bool(true),
	}}
}

// Get returns the value stored under key.
func (s *Settings) Get(key string) (Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set validates and stores a value. Recognized keys are type-checked.
func (s *Settings) Set(key string, v Value) error {
	if err := validateSetting(key, v); err != nil {
		return err
	}
	s.values[key] = v
	return nil
}

// Keys returns all keys in sorted order.
func (s *Settings) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultProfile returns the configured default profile, or "" when unset.
func (s *Settings) DefaultProfile() string {
	name, _ := s.values[KeyDefaultProfile].AsString()
	return name
}

// SetDefaultProfile stores name, or clears the default when name is empty.
func (s *Settings) SetDefaultProfile(name string) {
	if name == "" {
		s.values[KeyDefaultProfile] = Null()
		return
	}
	s.values[KeyDefaultProfile] = String(name)
}

// ClaudeDir returns the tilde-expanded working directory for launches.
func (s *Settings) ClaudeDir() (string, error) {
	dir, ok := s.values[KeyClaudeDir].AsString()
	if !ok || dir == "" {
		dir = DefaultClaudeDir
	}
	return ExpandHome(dir)
}

// SkipPermissions reports whether launches bypass permission prompts.
func (s *Settings) SkipPermissions() bool {
	b, ok := s.values[KeySkipPermissions].AsBool()
	if !ok {
		return true
	}
	return b
}

// ReportEmail returns the morning report recipient, or "" when unset.
func (s *Settings) ReportEmail() string {
	email, _ := s.values[KeyReportEmail].AsString()
	return email
}

func (s *Settings) MarshalJSON() ([]byte, error) {
	return EncodeRaw(s.values)
}

func (s *Settings) UnmarshalJSON(data []byte) error {
	values := make(map[string]Value)
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	s.values = values
	return nil
}

func validateSetting(key string, v Value) error {
	switch key {
	case KeySkipPermissions:
		if v.Kind() != KindBool {
			return fmt.Errorf("%s must be true or false, got %q", key, v.String())
		}
	case KeyClaudeDir:
		if s, ok := v.AsString(); !ok || s == "" {
			return fmt.Errorf("%s must be a directory path", key)
		}
	case KeyDefaultProfile, KeyReportEmail:
		if k := v.Kind(); k != KindString && k != KindNull {
			return fmt.Errorf("%s must be a string or none", key)
		}
	}
	return nil
}

// LoadSettings reads config.json, filling in defaults for missing keys.
// A missing file yields the defaults.
func (s *Store) LoadSettings() (*Settings, error) {
	settings := &Settings{values: make(map[string]Value)}
	if _, err := readJSON(s.paths.SettingsFile(), settings); err != nil {
		return nil, err
	}
	if settings.values == nil {
		settings.values = make(map[string]Value)
	}
	for k, v := range DefaultSettings().values {
		if _, ok := settings.values[k]; !ok {
			settings.values[k] = v
		}
	}
	return settings, nil
}

// SaveSettings writes config.json.
func (s *Store) SaveSettings(settings *Settings) error {
	return WriteJSON(s.paths.SettingsFile(), settings)
}
