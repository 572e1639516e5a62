package launcher

import (
	"context"
	"fmt"
	"io"
	"strings"
)

const (
	npmBinary     = "npm"
	claudePackage = "@anthropic-ai/claude-code"
)

// ClaudeVersion returns the output of `claude --version`.
func (l *Launcher) ClaudeVersion(ctx context.Context) (string, error) {
	path, err := l.lookPath(ClaudeBinary)
	if err != nil {
		return "", err
	}
	res, err := l.run(ctx, "", path, []string{"--version"}, nil, nil)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("claude --version exited with status %d", res.ExitCode)
	}
	return strings.TrimSpace(res.Stdout), nil
}

// Update upgrades Claude Code through npm, streaming npm's output.
func (l *Launcher) Update(ctx context.Context, stdout, stderr io.Writer) error {
	path, err := l.lookPath(npmBinary)
	if err != nil {
		return err
	}
	l.logger.Info("updating claude", "package", claudePackage)
	res, err := l.run(ctx, "", path, []string{"update", "-g", claudePackage}, stdout, stderr)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("npm update exited with status %d", res.ExitCode)
	}
	return nil
}
