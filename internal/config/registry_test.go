package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	shortcuts := DefaultShortcuts()
	assert.Equal(t, "gmail", shortcuts["gm"])
	assert.Equal(t, "google-calendar", shortcuts["cal"])
	assert.Len(t, shortcuts, len(DefaultShortcutNames()))

	profiles := DefaultProfiles()
	assert.Equal(t, []string{"at", "gm", "cal"}, profiles["start"])
	assert.Equal(t, []string{"start", "google", "dev", "all"}, DefaultProfileNames())

	// Every built-in profile member is a built-in shortcut.
	for name, members := range profiles {
		for _, m := range members {
			_, ok := shortcuts[m]
			assert.True(t, ok, "profile %s member %s", name, m)
		}
	}

	t.Run("copies are independent", func(t *testing.T) {
		p := DefaultProfiles()
		p["start"][0] = "changed"
		assert.Equal(t, "at", DefaultProfiles()["start"][0])
	})
}

func TestLoadShortcuts(t *testing.T) {
	t.Run("defaults when no overrides", func(t *testing.T) {
		store := testStore(t)
		shortcuts, err := store.LoadShortcuts()
		require.NoError(t, err)
		assert.Equal(t, DefaultShortcuts(), shortcuts)
	})

	t.Run("user entries override and extend defaults", func(t *testing.T) {
		store := testStore(t)
		require.NoError(t, store.SaveShortcuts(map[string]string{"gm": "gmail-work", "gh": "github"}))

		shortcuts, err := store.LoadShortcuts()
		require.NoError(t, err)
		assert.Equal(t, "gmail-work", shortcuts["gm"])
		assert.Equal(t, "github", shortcuts["gh"])
		assert.Equal(t, "google-calendar", shortcuts["cal"])

		user, err := store.LoadUserShortcuts()
		require.NoError(t, err)
		assert.Len(t, user, 2)
	})

	t.Run("corrupt overrides are an error", func(t *testing.T) {
		store := testStore(t)
		require.NoError(t, os.WriteFile(store.Paths().ShortcutsFile(), []byte(`["gm"]`), 0600))
		_, err := store.LoadShortcuts()
		assert.Error(t, err)
	})
}

func TestLoadProfiles(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.SaveProfiles(map[string][]string{
		"start": {"gm"},
		"work":  {"gh", "cal"},
	}))

	profiles, err := store.LoadProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"gm"}, profiles["start"])
	assert.Equal(t, []string{"gh", "cal"}, profiles["work"])
	assert.Equal(t, DefaultProfiles()["google"], profiles["google"])
}
