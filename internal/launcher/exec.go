package launcher

import (
	"context"
	"os/exec"
	"syscall"
)

// Executor abstracts process creation so the launcher can be tested
// without a real claude binary.
type Executor interface {
	// LookPath searches for an executable named file in the directories
	// named by the PATH environment variable.
	LookPath(file string) (string, error)

	// CommandContext returns an *exec.Cmd configured to run name with the
	// given arguments. The provided context is used for cancellation.
	CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd

	// Exec replaces the current process image. It only returns on failure.
	Exec(path string, argv []string, env []string) error
}

// RealExecutor is the production implementation backed by os/exec and
// syscall.Exec.
type RealExecutor struct{}

// LookPath wraps exec.LookPath.
func (RealExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// CommandContext wraps exec.CommandContext.
func (RealExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...) //nolint:gosec // argv is built by BuildCommand
}

// Exec wraps syscall.Exec.
func (RealExecutor) Exec(path string, argv []string, env []string) error {
	return syscall.Exec(path, argv, env) //nolint:gosec // argv is built by BuildCommand
}

// DefaultExecutor returns the production Executor.
func DefaultExecutor() Executor {
	return RealExecutor{}
}
