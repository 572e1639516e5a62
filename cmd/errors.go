package cmd

import (
	"errors"
	"fmt"

	"github.com/davebream/sal/internal/launcher"
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
// An empty msg means the failure was already reported.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

func exitError(code int, format string, args ...any) *exitCodeError {
	return &exitCodeError{code: code, msg: fmt.Sprintf(format, args...)}
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ece *exitCodeError
	if errors.As(err, &ece) {
		return ece.code
	}
	if errors.Is(err, launcher.ErrInterrupted) {
		return launcher.ExitInterrupted
	}
	return 1
}
