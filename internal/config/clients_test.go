package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeClientFile(t *testing.T, home string, content string, rel ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{home}, rel...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestFindImportSources(t *testing.T) {
	t.Run("claude code top-level servers only", func(t *testing.T) {
		home := t.TempDir()
		writeClientFile(t, home, `{
			"mcpServers": {"test": {"command": "npx", "args": ["-y", "test-server"]}},
			"projects": {"/p": {"mcpServers": {"project-only": {"command": "x"}}}}
		}`, ".claude.json")

		sources := FindImportSources(home)
		require.Len(t, sources, 1)
		assert.Equal(t, "Claude Code", sources[0].Client)
		assert.NoError(t, sources[0].Err)
		assert.Len(t, sources[0].Servers, 1)
		assert.JSONEq(t, `{"command":"npx","args":["-y","test-server"]}`, string(sources[0].Servers["test"]))
	})

	t.Run("nothing installed", func(t *testing.T) {
		assert.Empty(t, FindImportSources(t.TempDir()))
	})

	t.Run("file without servers is skipped", func(t *testing.T) {
		home := t.TempDir()
		writeClientFile(t, home, `{"projects": {}}`, ".claude.json")

		assert.Empty(t, FindImportSources(home))
	})

	t.Run("cursor and windsurf", func(t *testing.T) {
		home := t.TempDir()
		writeClientFile(t, home, `{"mcpServers": {"cursor-server": {"command": "node"}}}`, ".cursor", "mcp.json")
		writeClientFile(t, home, `{"mcpServers": {"ws": {"serverUrl": "https://x"}}}`, ".codeium", "windsurf", "mcp_config.json")

		sources := FindImportSources(home)
		require.Len(t, sources, 2)
		assert.Equal(t, "Cursor", sources[0].Client)
		assert.Equal(t, "Windsurf", sources[1].Client)
	})

	t.Run("unparseable file is reported", func(t *testing.T) {
		home := t.TempDir()
		path := writeClientFile(t, home, "{broken", ".claude.json")

		sources := FindImportSources(home)
		require.Len(t, sources, 1)
		assert.Equal(t, path, sources[0].Path)
		assert.Error(t, sources[0].Err)
		assert.Empty(t, sources[0].Servers)
	})

	t.Run("claude desktop location follows the platform", func(t *testing.T) {
		prev := goos
		t.Cleanup(func() { goos = prev })

		home := t.TempDir()
		writeClientFile(t, home, `{"mcpServers": {"d": {"command": "x"}}}`, ".config", "Claude", "claude_desktop_config.json")

		goos = "linux"
		sources := FindImportSources(home)
		require.Len(t, sources, 1)
		assert.Equal(t, "Claude Desktop", sources[0].Client)

		goos = "darwin"
		assert.Empty(t, FindImportSources(home))
	})
}
