package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		kind Kind
		want string
	}{
		{"true", KindBool, "true"},
		{"TRUE", KindBool, "true"},
		{"False", KindBool, "false"},
		{"none", KindNull, "none"},
		{"None", KindNull, "none"},
		{"null", KindNull, "none"},
		{"me@example.com", KindString, "me@example.com"},
		{"~/work", KindString, "~/work"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := ParseValue(tt.in)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestValueJSON(t *testing.T) {
	var m map[string]Value
	require.NoError(t, json.Unmarshal([]byte(`{"a": true, "b": "x", "c": null, "d": 42, "e": [1, "2"]}`), &m))

	assert.Equal(t, KindBool, m["a"].Kind())
	assert.Equal(t, KindString, m["b"].Kind())
	assert.True(t, m["c"].IsNull())
	assert.Equal(t, KindRaw, m["d"].Kind())
	assert.Equal(t, "42", m["d"].String())

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": true, "b": "x", "c": null, "d": 42, "e": [1, "2"]}`, string(out))
}

func TestLoadSettings(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		store := testStore(t)
		s, err := store.LoadSettings()
		require.NoError(t, err)

		assert.Equal(t, "", s.DefaultProfile())
		assert.True(t, s.SkipPermissions())
		assert.Equal(t, "", s.ReportEmail())

		home, _ := os.UserHomeDir()
		dir, err := s.ClaudeDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "sal", "desktop"), dir)
	})

	t.Run("merges defaults into partial file", func(t *testing.T) {
		store := testStore(t)
		require.NoError(t, os.WriteFile(store.Paths().SettingsFile(),
			[]byte(`{"report_email": "me@example.com", "theme": "dark"}`), 0600))

		s, err := store.LoadSettings()
		require.NoError(t, err)
		assert.Equal(t, "me@example.com", s.ReportEmail())
		assert.True(t, s.SkipPermissions())
		v, ok := s.Get("theme")
		require.True(t, ok)
		assert.Equal(t, "dark", v.String())
		assert.ElementsMatch(t, []string{"claude_dir", "default_profile", "report_email", "skip_permissions", "theme"}, s.Keys())
	})

	t.Run("round-trip keeps passthrough keys", func(t *testing.T) {
		store := testStore(t)
		s, err := store.LoadSettings()
		require.NoError(t, err)
		require.NoError(t, s.Set("custom", String("value")))
		require.NoError(t, s.Set(KeySkipPermissions, Bool(false)))
		s.SetDefaultProfile("google")
		require.NoError(t, store.SaveSettings(s))

		loaded, err := store.LoadSettings()
		require.NoError(t, err)
		assert.Equal(t, "google", loaded.DefaultProfile())
		assert.False(t, loaded.SkipPermissions())
		v, _ := loaded.Get("custom")
		assert.Equal(t, "value", v.String())
	})

	t.Run("clearing the default profile stores null", func(t *testing.T) {
		store := testStore(t)
		s, err := store.LoadSettings()
		require.NoError(t, err)
		s.SetDefaultProfile("dev")
		s.SetDefaultProfile("")
		require.NoError(t, store.SaveSettings(s))

		data, err := os.ReadFile(store.Paths().SettingsFile())
		require.NoError(t, err)
		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		v, ok := raw["default_profile"]
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		store := testStore(t)
		require.NoError(t, os.WriteFile(store.Paths().SettingsFile(), []byte("{"), 0600))
		_, err := store.LoadSettings()
		assert.Error(t, err)
	})
}

func TestSettingsSetValidation(t *testing.T) {
	s := DefaultSettings()

	assert.Error(t, s.Set(KeySkipPermissions, String("yes")))
	assert.NoError(t, s.Set(KeySkipPermissions, Bool(false)))

	assert.Error(t, s.Set(KeyClaudeDir, Null()))
	assert.Error(t, s.Set(KeyClaudeDir, Bool(true)))
	assert.NoError(t, s.Set(KeyClaudeDir, String("/work")))

	assert.Error(t, s.Set(KeyReportEmail, Bool(true)))
	assert.NoError(t, s.Set(KeyReportEmail, Null()))
	assert.NoError(t, s.Set(KeyDefaultProfile, String("dev")))

	assert.NoError(t, s.Set("anything", Bool(true)))
}
