package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davebream/sal/internal/logging"
)

func TestDoctor(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		env := setupTest(t)
		env.exec.Scripts = map[string]string{"claude --version": "echo 2.0.14"}

		out, err := execute(t, "doctor")
		require.NoError(t, err)
		assert.Contains(t, out, "Claude:   OK (2.0.14)")
		assert.Contains(t, out, "Servers:  OK (3 defined")
		assert.NotContains(t, out, "FAIL")
	})

	t.Run("missing claude and bad default profile", func(t *testing.T) {
		env := setupTest(t)
		env.exec.Missing = map[string]bool{"claude": true, "npx": true}
		_, err := execute(t, "config", "default_profile", "ghost")
		require.NoError(t, err)

		out, err := execute(t, "doctor")
		require.Error(t, err)
		assert.Equal(t, 1, ExitCode(err))
		assert.Contains(t, out, `Profile:  FAIL (default profile "ghost" does not exist)`)
		assert.Contains(t, out, "Claude:   FAIL")
		assert.Contains(t, out, `WARN (command "npx" not found in PATH)`)
	})

	t.Run("corrupt host config", func(t *testing.T) {
		env := setupTest(t)
		require.NoError(t, os.WriteFile(env.paths.HostConfig, []byte("{not json"), 0600))

		out, err := execute(t, "doctor")
		require.Error(t, err)
		assert.Contains(t, out, "Host:     FAIL")
	})
}

func TestLogs(t *testing.T) {
	t.Run("tail of file", func(t *testing.T) {
		env := setupTest(t)
		logDir := env.paths.LogDir()
		require.NoError(t, os.MkdirAll(logDir, 0700))
		require.NoError(t, os.WriteFile(filepath.Join(logDir, logging.FileName), []byte("one\ntwo\nthree\n"), 0600))

		out, err := execute(t, "logs", "-n", "2")
		require.NoError(t, err)
		assert.Equal(t, "two\nthree\n", out)
	})

	t.Run("records commands", func(t *testing.T) {
		setupTest(t)
		_, err := execute(t, "mcp", "set", "start")
		require.NoError(t, err)

		out, err := execute(t, "logs")
		require.NoError(t, err)
		assert.Contains(t, out, `"msg":"default profile set"`)
		assert.Contains(t, out, `"run":`)
	})

	t.Run("follow uses tail", func(t *testing.T) {
		env := setupTest(t)
		env.exec.DefaultScript = "echo followed"

		out, err := execute(t, "logs", "-f")
		require.NoError(t, err)
		assert.Contains(t, out, "followed")
		require.Len(t, env.exec.Calls, 1)
		assert.Contains(t, env.exec.Calls[0], "tail -f ")
	})

	t.Run("verbose mirrors to stderr", func(t *testing.T) {
		setupTest(t)

		out, err := execute(t, "--verbose", "mcp", "set", "start")
		require.NoError(t, err)
		assert.Contains(t, out, "default profile set")
	})
}

func TestLastLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\n"), 0600))

	tests := []struct {
		n    int
		want []string
	}{
		{0, []string{}},
		{1, []string{"c"}},
		{3, []string{"a", "b", "c"}},
		{10, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		got, err := lastLines(path, tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "n=%d", tt.n)
	}
}
