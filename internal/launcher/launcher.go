// Package launcher turns a launch request into a claude invocation: it
// resolves the requested MCP servers, reconciles the project entry in the
// host config, and then either replaces the sal process with claude or
// runs claude as a child and captures its output.
package launcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/davebream/sal/internal/config"
	"github.com/davebream/sal/internal/hostconfig"
	"github.com/davebream/sal/internal/logging"
	"github.com/davebream/sal/internal/mcp"
)

const (
	// ClaudeBinary is the executable sal wraps.
	ClaudeBinary = "claude"

	// ExitInterrupted is the exit code reported when a child is interrupted.
	ExitInterrupted = 130

	flagResume          = "--resume"
	flagSkipPermissions = "--dangerously-skip-permissions"
)

var (
	// ErrMissingExecutable is returned when claude (or npm) is not on PATH.
	ErrMissingExecutable = errors.New("executable not found")

	// ErrInterrupted is returned when a one-shot child is interrupted.
	ErrInterrupted = errors.New("interrupted")
)

var installHints = map[string]string{
	ClaudeBinary: "Is Claude Code installed?",
	npmBinary:    "Is Node.js installed?",
}

func missingExecutable(name string) error {
	return fmt.Errorf("%w: '%s' command not found. %s", ErrMissingExecutable, name, installHints[name])
}

// Request describes one launch.
type Request struct {
	MCP    string // raw -m argument; empty means no MCP servers
	Resume bool
	Local  bool // stay in the current directory
	Safe   bool // never pass --dangerously-skip-permissions
	Prompt string
}

// Plan is a validated launch ready to spawn. The host config has already
// been reconciled for Dir when a Plan is returned.
type Plan struct {
	Argv    []string
	Dir     string
	Servers []string
	Local   bool
}

// Result is the outcome of a one-shot run.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Launcher prepares and spawns claude.
type Launcher struct {
	store  *config.Store
	exec   Executor
	logger *slog.Logger

	getwd func() (string, error)
	chdir func(string) error
	kill  func(pid int, sig syscall.Signal) error
}

// New returns a Launcher reading sal's files from store.
func New(store *config.Store, executor Executor, logger *slog.Logger) *Launcher {
	if executor == nil {
		executor = DefaultExecutor()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Launcher{
		store:  store,
		exec:   executor,
		logger: logger,
		getwd:  os.Getwd,
		chdir:  os.Chdir,
		kill:   syscall.Kill,
	}
}

// BuildCommand returns the claude argv for req.
func BuildCommand(req Request, skipPermissions bool) []string {
	argv := []string{ClaudeBinary}
	if req.Resume {
		argv = append(argv, flagResume)
	}
	if !req.Safe && skipPermissions {
		argv = append(argv, flagSkipPermissions)
	}
	if req.Prompt != "" {
		argv = append(argv, "--print", "-p", req.Prompt)
	}
	return argv
}

// Prepare validates req and reconciles the host config for the working
// directory. Unknown servers fail with *mcp.UnknownServersError before
// anything is written.
func (l *Launcher) Prepare(req Request) (*Plan, error) {
	settings, err := l.store.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	resolver, servers, err := mcp.FromStore(l.store)
	if err != nil {
		return nil, err
	}

	names := []string{}
	if strings.TrimSpace(req.MCP) != "" {
		names, err = resolver.ResolveStrict(req.MCP)
		if err != nil {
			return nil, err
		}
	}

	plan := &Plan{
		Argv:    BuildCommand(req, settings.SkipPermissions()),
		Servers: names,
		Local:   req.Local,
	}

	if req.Local {
		plan.Dir, err = l.getwd()
		if err != nil {
			return nil, fmt.Errorf("current directory: %w", err)
		}
	} else {
		plan.Dir, err = settings.ClaudeDir()
		if err != nil {
			return nil, err
		}
		if err := config.EnsureDir(plan.Dir, 0755); err != nil {
			return nil, err
		}
	}

	reconciler := hostconfig.NewReconciler(l.store.Paths().HostConfig, logging.ProjectLogger(l.logger, plan.Dir))
	if err := reconciler.Reconcile(plan.Dir, servers.Definitions(), names); err != nil {
		return nil, err
	}
	return plan, nil
}

// Exec replaces the sal process with claude in the plan's directory. It
// does not return on success.
func (l *Launcher) Exec(plan *Plan) error {
	path, err := l.lookPath(ClaudeBinary)
	if err != nil {
		return err
	}
	if !plan.Local {
		if err := l.chdir(plan.Dir); err != nil {
			return fmt.Errorf("change to %s: %w", plan.Dir, err)
		}
	}
	l.logger.Info("exec claude", "argv", plan.Argv, "dir", plan.Dir, "mcp", plan.Servers)
	if err := l.exec.Exec(path, plan.Argv, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	return nil
}

// Run spawns claude as a child in the plan's directory and waits for it.
// Output is captured and, when stdout or stderr is non-nil, copied there as
// it arrives. A non-zero exit is reported in Result, not as an error.
func (l *Launcher) Run(ctx context.Context, plan *Plan, stdout, stderr io.Writer) (*Result, error) {
	path, err := l.lookPath(ClaudeBinary)
	if err != nil {
		return nil, err
	}
	l.logger.Info("run claude", "argv", plan.Argv, "dir", plan.Dir, "mcp", plan.Servers)
	res, err := l.run(ctx, plan.Dir, path, plan.Argv[1:], stdout, stderr)
	if res != nil {
		l.logger.Info("claude exited", "code", res.ExitCode)
	}
	return res, err
}

// OneShot runs prompt with exactly the given MCP servers (shortcuts and
// profiles allowed) in the configured working directory.
func (l *Launcher) OneShot(ctx context.Context, prompt string, mcps []string) (*Result, error) {
	plan, err := l.Prepare(Request{MCP: strings.Join(mcps, ","), Prompt: prompt})
	if err != nil {
		return nil, err
	}
	return l.Run(ctx, plan, nil, nil)
}

func (l *Launcher) lookPath(name string) (string, error) {
	path, err := l.exec.LookPath(name)
	if err != nil {
		return "", missingExecutable(name)
	}
	return path, nil
}

func (l *Launcher) run(ctx context.Context, dir, path string, args []string, stdout, stderr io.Writer) (*Result, error) {
	cmd := l.exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = tee(&outBuf, stdout)
	cmd.Stderr = tee(&errBuf, stderr)

	runErr := cmd.Run()
	res := &Result{Stdout: outBuf.String(), Stderr: errBuf.String()}

	if ctx.Err() != nil {
		res.ExitCode = ExitInterrupted
		return res, ErrInterrupted
	}
	if runErr == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			res.ExitCode = 128 + int(ws.Signal())
			if ws.Signal() == syscall.SIGINT {
				return res, ErrInterrupted
			}
			return res, nil
		}
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if errors.Is(runErr, exec.ErrNotFound) || errors.Is(runErr, os.ErrNotExist) {
		return nil, missingExecutable(filepath.Base(path))
	}
	return nil, fmt.Errorf("run %s: %w", path, runErr)
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}
