package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davebream/sal/internal/hostconfig"
	"github.com/davebream/sal/internal/mcp"
)

func TestMCPList(t *testing.T) {
	t.Run("marks the default profile", func(t *testing.T) {
		setupTest(t)
		_, err := execute(t, "mcp", "set", "start")
		require.NoError(t, err)

		out, err := execute(t, "mcp", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "Available MCP Servers:")
		assert.Contains(t, out, "  gm       gmail\n")
		assert.Contains(t, out, "  at       airtable\n")
		assert.Contains(t, out, "Default profile: start")
	})

	t.Run("bare mcp lists", func(t *testing.T) {
		setupTest(t)

		out, err := execute(t, "mcp")
		require.NoError(t, err)
		assert.Contains(t, out, "  cal      google-calendar\n")
		assert.NotContains(t, out, "Default profile:")
	})

	t.Run("empty collection", func(t *testing.T) {
		env := setupTest(t)
		require.NoError(t, os.WriteFile(env.paths.ServersFile(), []byte(`{"mcpServers":{}}`), 0600))

		out, err := execute(t, "mcp")
		require.NoError(t, err)
		assert.Contains(t, out, "(none defined")
	})
}

func TestMCPSet(t *testing.T) {
	t.Run("unknown profile", func(t *testing.T) {
		env := setupTest(t)

		_, err := execute(t, "mcp", "set", "bogus")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown profile 'bogus'")
		assert.Contains(t, err.Error(), "start")

		settings, err := env.store.LoadSettings()
		require.NoError(t, err)
		assert.Empty(t, settings.DefaultProfile())
	})

	t.Run("user profile", func(t *testing.T) {
		env := setupTest(t)
		require.NoError(t, env.store.SaveProfiles(map[string][]string{"mail": {"gm"}}))

		_, err := execute(t, "mcp", "set", "mail")
		require.NoError(t, err)

		settings, err := env.store.LoadSettings()
		require.NoError(t, err)
		assert.Equal(t, "mail", settings.DefaultProfile())
	})

	t.Run("none clears", func(t *testing.T) {
		env := setupTest(t)
		_, err := execute(t, "mcp", "set", "google")
		require.NoError(t, err)

		out, err := execute(t, "mcp", "set", "none")
		require.NoError(t, err)
		assert.Contains(t, out, "Default profile cleared.")

		settings, err := env.store.LoadSettings()
		require.NoError(t, err)
		assert.Empty(t, settings.DefaultProfile())
	})
}

func TestMCPShow(t *testing.T) {
	t.Run("masks env", func(t *testing.T) {
		setupTest(t)

		out, err := execute(t, "mcp", "show", "gm")
		require.NoError(t, err)
		assert.Contains(t, out, "gmail:")
		assert.Contains(t, out, "command: python")
		assert.Contains(t, out, "GMAIL_TOKEN:")
		assert.NotContains(t, out, "s3cret")
	})

	t.Run("reveal", func(t *testing.T) {
		setupTest(t)

		out, err := execute(t, "mcp", "show", "gmail", "--reveal")
		require.NoError(t, err)
		assert.Contains(t, out, "s3cret")
	})

	t.Run("unknown", func(t *testing.T) {
		setupTest(t)

		_, err := execute(t, "mcp", "show", "jf")
		var unknown *mcp.UnknownServersError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, []string{"jotform"}, unknown.Names)
	})
}

func TestMCPAddRemove(t *testing.T) {
	t.Run("add from argv", func(t *testing.T) {
		env := setupTest(t)

		out, err := execute(t, "mcp", "add", "context7", "--", "npx", "-y", "@upstash/context7-mcp")
		require.NoError(t, err)
		assert.Contains(t, out, "Added context7")

		servers, err := env.store.LoadServers()
		require.NoError(t, err)
		sc, err := servers.Config("context7")
		require.NoError(t, err)
		assert.Equal(t, "npx", sc.Command)
		assert.Equal(t, []string{"-y", "@upstash/context7-mcp"}, sc.Args)
	})

	t.Run("add from stdin keeps unknown fields", func(t *testing.T) {
		env := setupTest(t)

		_, err := executeIn(t, `{"url":"https://example.com/mcp","type":"http","headers":{"X-Key":"k"}}`,
			"mcp", "add", "remote", "--json", "-")
		require.NoError(t, err)

		servers, err := env.store.LoadServers()
		require.NoError(t, err)
		raw, ok := servers.Raw("remote")
		require.True(t, ok)
		assert.JSONEq(t, `{"url":"https://example.com/mcp","type":"http","headers":{"X-Key":"k"}}`, string(raw))
	})

	t.Run("json needs command or url", func(t *testing.T) {
		setupTest(t)

		_, err := execute(t, "mcp", "add", "empty", "--json", `{"env":{}}`)
		assert.ErrorContains(t, err, "needs a command or url")
	})

	t.Run("duplicate", func(t *testing.T) {
		setupTest(t)

		_, err := execute(t, "mcp", "add", "gmail", "python", "other.py")
		assert.ErrorContains(t, err, "already exists")
	})

	t.Run("remove notes referencing profiles", func(t *testing.T) {
		env := setupTest(t)

		out, err := execute(t, "mcp", "remove", "gmail")
		require.NoError(t, err)
		assert.Contains(t, out, "Removed gmail")
		assert.Contains(t, out, "[all google start]")

		servers, err := env.store.LoadServers()
		require.NoError(t, err)
		assert.False(t, servers.Has("gmail"))
	})

	t.Run("remove unknown", func(t *testing.T) {
		setupTest(t)

		_, err := execute(t, "mcp", "remove", "nope")
		assert.ErrorContains(t, err, `server "nope" not found`)
	})
}

func TestMCPExport(t *testing.T) {
	decode := func(t *testing.T, data []byte) map[string]map[string]any {
		t.Helper()
		var doc struct {
			MCPServers map[string]map[string]any `json:"mcpServers"`
		}
		require.NoError(t, json.Unmarshal(data, &doc))
		return doc.MCPServers
	}

	t.Run("stdout with -m", func(t *testing.T) {
		setupTest(t)

		out, err := execute(t, "mcp", "export", "-m", "gm")
		require.NoError(t, err)

		servers := decode(t, []byte(out))
		require.Len(t, servers, 3)
		assert.NotContains(t, servers["gmail"], "disabled")
		assert.Equal(t, true, servers["airtable"]["disabled"])
		assert.Equal(t, true, servers["google-calendar"]["disabled"])
	})

	t.Run("default profile to file", func(t *testing.T) {
		env := setupTest(t)
		_, err := execute(t, "mcp", "set", "start")
		require.NoError(t, err)

		dest := filepath.Join(env.paths.Dir, "export.json")
		out, err := execute(t, "mcp", "export", "-o", dest)
		require.NoError(t, err)
		assert.Contains(t, out, "3 enabled of 3")

		data, err := os.ReadFile(dest)
		require.NoError(t, err)
		for name, def := range decode(t, data) {
			assert.NotContains(t, def, "disabled", name)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		setupTest(t)

		_, err := execute(t, "mcp", "export", "-m", "jf")
		var unknown *mcp.UnknownServersError
		assert.True(t, errors.As(err, &unknown))
	})
}

func TestMCPImport(t *testing.T) {
	setup := func(t *testing.T) *testEnv {
		env := setupTest(t)
		require.NoError(t, os.MkdirAll(env.home, 0755))
		client := `{"mcpServers":{
			"gmail":{"command":"node","args":["gmail.js"]},
			"airtable":{"command":"npx","args":["-y","airtable-mcp"]},
			"context7":{"command":"npx","args":["-y","@upstash/context7-mcp"]}
		}}`
		require.NoError(t, os.WriteFile(filepath.Join(env.home, ".claude.json"), []byte(client), 0600))
		return env
	}

	t.Run("dry run", func(t *testing.T) {
		env := setup(t)

		out, err := execute(t, "mcp", "import")
		require.NoError(t, err)
		assert.Contains(t, out, "Found Claude Code")
		assert.Contains(t, out, "gmail: defined differently in sal and Claude Code")
		assert.Contains(t, out, "context7 (from Claude Code)")
		assert.Contains(t, out, "Dry run")

		servers, err := env.store.LoadServers()
		require.NoError(t, err)
		assert.False(t, servers.Has("context7"))
	})

	t.Run("apply", func(t *testing.T) {
		env := setup(t)

		out, err := execute(t, "mcp", "import", "--apply")
		require.NoError(t, err)
		assert.Contains(t, out, "Imported 1 servers")

		servers, err := env.store.LoadServers()
		require.NoError(t, err)
		assert.True(t, servers.Has("context7"))
		sc, err := servers.Config("gmail")
		require.NoError(t, err)
		assert.Equal(t, "python", sc.Command, "conflicting definition must not replace ours")
	})

	t.Run("unreadable client is reported", func(t *testing.T) {
		env := setup(t)
		cursor := filepath.Join(env.home, ".cursor", "mcp.json")
		require.NoError(t, os.MkdirAll(filepath.Dir(cursor), 0700))
		require.NoError(t, os.WriteFile(cursor, []byte("{oops"), 0600))

		out, err := execute(t, "mcp", "import")
		require.NoError(t, err)
		assert.Contains(t, out, "Skipping Cursor:")
		assert.Contains(t, out, "context7 (from Claude Code)")
	})

	t.Run("no clients", func(t *testing.T) {
		setupTest(t)

		out, err := execute(t, "mcp", "import")
		require.NoError(t, err)
		assert.Contains(t, out, "No MCP client configs found.")
	})
}

func TestMCPStatus(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		setupTest(t)

		out, err := execute(t, "mcp", "status")
		require.NoError(t, err)
		assert.Contains(t, out, "Not configured yet.")
	})

	t.Run("after launch", func(t *testing.T) {
		setupTest(t)
		_, err := execute(t, "-m", "gm")
		require.NoError(t, err)

		out, err := execute(t, "mcp", "status")
		require.NoError(t, err)
		assert.Contains(t, out, "Auto-start: gmail\n")
		assert.Contains(t, out, "Available:  airtable, google-calendar\n")
	})

	t.Run("foreign disabled names", func(t *testing.T) {
		env := setupTest(t)
		cwd, err := os.Getwd()
		require.NoError(t, err)
		key, err := hostconfig.ProjectKey(cwd)
		require.NoError(t, err)
		host := `{"projects":{"` + key + `":{"mcpServers":{},"disabledMcpServers":["legacy"]}}}`
		require.NoError(t, os.WriteFile(env.paths.HostConfig, []byte(host), 0600))

		_, err = execute(t, "-l", "-m", "at")
		require.NoError(t, err)

		out, err := execute(t, "mcp", "status", "-l")
		require.NoError(t, err)
		assert.Contains(t, out, "Auto-start: airtable\n")
		assert.Contains(t, out, "Also disabled (not managed by sal): legacy")
	})
}

func TestMCPKill(t *testing.T) {
	env := setupTest(t)
	env.exec.Scripts = map[string]string{"pgrep": "exit 1"}

	out, err := execute(t, "mcp", "kill")
	require.NoError(t, err)
	assert.Contains(t, out, "No orphan MCP processes found.")
	assert.Contains(t, env.exec.Calls, "pgrep -f /srv/gmail.py")
	assert.Contains(t, env.exec.Calls, "pgrep -f airtable-mcp")
}
