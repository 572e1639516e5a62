package launcher

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// MockExecutor is a test double for Executor. Commands are simulated with
// sh so stdout, stderr and exit codes behave like a real child process.
type MockExecutor struct {
	mu sync.Mutex

	// Missing lists executable names LookPath reports as not found.
	Missing map[string]bool

	// Scripts maps a command key ("claude --version") to a shell snippet
	// run in its place. Prefix keys are matched when no exact key exists.
	Scripts map[string]string

	// DefaultScript runs for commands with no matching key.
	DefaultScript string

	// ExecErr is returned by Exec. Exec never replaces the test process.
	ExecErr error

	// Calls records command keys in invocation order, Exec included.
	Calls []string

	cmds []*exec.Cmd // returned commands, read back by Dirs
}

// LookPath reports /usr/bin/<file> unless file is listed in Missing.
func (m *MockExecutor) LookPath(file string) (string, error) {
	if m.Missing[file] {
		return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
	}
	return "/usr/bin/" + file, nil
}

// CommandContext returns an sh command running the configured script.
func (m *MockExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	key := commandKey(name, args)

	m.mu.Lock()
	m.Calls = append(m.Calls, key)
	script := m.script(key)
	m.mu.Unlock()

	cmd := exec.CommandContext(ctx, "sh", "-c", script) //nolint:gosec // test helper
	m.mu.Lock()
	m.cmds = append(m.cmds, cmd)
	m.mu.Unlock()
	return cmd
}

// Exec records the call and returns ExecErr.
func (m *MockExecutor) Exec(path string, argv []string, _ []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "exec "+commandKey(path, argv[1:]))
	if m.ExecErr != nil {
		return m.ExecErr
	}
	return nil
}

// Dirs returns the working directory each returned command ran in.
func (m *MockExecutor) Dirs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	dirs := make([]string, len(m.cmds))
	for i, c := range m.cmds {
		dirs[i] = c.Dir
	}
	return dirs
}

func (m *MockExecutor) script(key string) string {
	if s, ok := m.Scripts[key]; ok {
		return s
	}
	best := ""
	for k := range m.Scripts {
		if strings.HasPrefix(key, k) && len(k) > len(best) {
			best = k
		}
	}
	if best != "" {
		return m.Scripts[best]
	}
	if m.DefaultScript != "" {
		return m.DefaultScript
	}
	return "exit 0"
}

// commandKey joins the base name of the executable with its arguments.
func commandKey(name string, args []string) string {
	name = filepath.Base(name)
	if len(args) == 0 {
		return name
	}
	return fmt.Sprintf("%s %s", name, strings.Join(args, " "))
}
