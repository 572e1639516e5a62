package launcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

const pgrepBinary = "pgrep"

// Process is a running MCP server process.
type Process struct {
	PID     int
	Command string
	Server  string
}

// Name returns the script name for display.
func (p Process) Name() string {
	fields := strings.Fields(p.Command)
	if len(fields) == 0 {
		return fmt.Sprintf("PID %d", p.PID)
	}
	return filepath.Base(fields[len(fields)-1])
}

// KillResult reports the outcome of signalling one process.
type KillResult struct {
	Process
	Err error
}

// FindServerProcesses looks for running processes whose command line
// contains the first non-flag argument of a server definition (normally
// the server's script path). Claude Code sometimes leaves these behind.
func (l *Launcher) FindServerProcesses(ctx context.Context) ([]Process, error) {
	servers, err := l.store.LoadServers()
	if err != nil {
		return nil, fmt.Errorf("load server definitions: %w", err)
	}
	pgrep, err := l.lookPath(pgrepBinary)
	if err != nil {
		return nil, err
	}

	self := os.Getpid()
	seen := make(map[int]bool)
	var procs []Process
	for _, name := range servers.Names() {
		sc, err := servers.Config(name)
		if err != nil {
			continue
		}
		pattern := processPattern(sc.Args)
		if pattern == "" {
			continue
		}
		res, err := l.run(ctx, "", pgrep, []string{"-f", pattern}, nil, nil)
		if err != nil {
			return nil, err
		}
		// pgrep exits 1 when nothing matches.
		if res.ExitCode != 0 {
			continue
		}
		for _, line := range strings.Split(strings.TrimSpace(res.Stdout), "\n") {
			pid, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil || pid == self || seen[pid] {
				continue
			}
			seen[pid] = true
			procs = append(procs, Process{
				PID:     pid,
				Command: l.processCommand(ctx, pid, pattern),
				Server:  name,
			})
		}
	}
	return procs, nil
}

func (l *Launcher) processCommand(ctx context.Context, pid int, fallback string) string {
	ps, err := l.exec.LookPath("ps")
	if err != nil {
		return fallback
	}
	res, err := l.run(ctx, "", ps, []string{"-p", strconv.Itoa(pid), "-o", "command="}, nil, nil)
	if err != nil || res.ExitCode != 0 || strings.TrimSpace(res.Stdout) == "" {
		return fallback
	}
	return strings.TrimSpace(res.Stdout)
}

// KillServerProcesses sends SIGTERM to every process FindServerProcesses
// reports.
func (l *Launcher) KillServerProcesses(ctx context.Context) ([]KillResult, error) {
	procs, err := l.FindServerProcesses(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]KillResult, 0, len(procs))
	for _, p := range procs {
		err := l.kill(p.PID, syscall.SIGTERM)
		if err != nil {
			l.logger.Warn("kill MCP server process failed", "pid", p.PID, "server", p.Server, "error", err)
		} else {
			l.logger.Info("killed MCP server process", "pid", p.PID, "server", p.Server)
		}
		results = append(results, KillResult{Process: p, Err: err})
	}
	return results, nil
}

func processPattern(args []string) string {
	for _, a := range args {
		if a != "" && !strings.HasPrefix(a, "-") {
			return a
		}
	}
	return ""
}
