package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDir(t *testing.T) {
	t.Run("uses SAL_CONFIG_DIR override", func(t *testing.T) {
		t.Setenv("SAL_CONFIG_DIR", "/tmp/sal-test-config")
		dir, err := ConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/sal-test-config", dir)
	})

	t.Run("defaults to ~/.sal", func(t *testing.T) {
		t.Setenv("SAL_CONFIG_DIR", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)
		dir, err := ConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".sal"), dir)
	})
}

func TestHostConfigPath(t *testing.T) {
	t.Run("uses SAL_CLAUDE_CONFIG override", func(t *testing.T) {
		t.Setenv("SAL_CLAUDE_CONFIG", "/tmp/sal-test/claude.json")
		path, err := HostConfigPath()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/sal-test/claude.json", path)
	})

	t.Run("defaults to ~/.claude.json", func(t *testing.T) {
		t.Setenv("SAL_CLAUDE_CONFIG", "")
		path, err := HostConfigPath()
		require.NoError(t, err)
		assert.Equal(t, ".claude.json", filepath.Base(path))
	})
}

func TestPathsFiles(t *testing.T) {
	t.Setenv("SAL_CONFIG_DIR", "/tmp/sal-test")
	t.Setenv("SAL_CLAUDE_CONFIG", "/tmp/sal-test/claude.json")
	p, err := DefaultPaths()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/sal-test/config.json", p.SettingsFile())
	assert.Equal(t, "/tmp/sal-test/shortcuts.json", p.ShortcutsFile())
	assert.Equal(t, "/tmp/sal-test/profiles.json", p.ProfilesFile())
	assert.Equal(t, "/tmp/sal-test/mcp.json", p.ServersFile())
	assert.Equal(t, "/tmp/sal-test/logs", p.LogDir())
	assert.Equal(t, "/tmp/sal-test/claude.json", p.HostConfig)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/sal/desktop")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "sal", "desktop"), got)

	got, err = ExpandHome("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)

	got, err = ExpandHome("~other/x")
	require.NoError(t, err)
	assert.Equal(t, "~other/x", got)
}
