// Package routine drives the once-a-day start-of-day routine: a one-shot
// claude run that produces a morning report, a second run that emails it,
// and a dated flag so the routine runs at most once per day.
package routine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/davebream/sal/internal/launcher"
	"github.com/davebream/sal/internal/logging"
)

// ErrNoReportEmail is returned when report_email is not configured.
var ErrNoReportEmail = errors.New("no report_email configured")

// ErrReportFailed is returned when the report run exits non-zero.
var ErrReportFailed = errors.New("morning routine failed")

var (
	reportMCPs = []string{"gm", "cal"}
	emailMCPs  = []string{"gm"}
)

// Runner runs a one-shot prompt with a fixed set of MCP servers.
type Runner interface {
	OneShot(ctx context.Context, prompt string, mcps []string) (*launcher.Result, error)
}

// Driver runs the routine. Now and Out default to time.Now and io.Discard.
type Driver struct {
	Flags  *FlagStore
	Runner Runner
	Email  string
	Now    func() time.Time
	Out    io.Writer
	Logger *slog.Logger
}

func (d *Driver) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Driver) out() io.Writer {
	if d.Out != nil {
		return d.Out
	}
	return io.Discard
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return logging.Discard()
}

// Status returns today's state and its date stamp.
func (d *Driver) Status() (State, string, error) {
	today := d.now()
	ran, err := d.Flags.Has(today)
	if err != nil {
		return NotRun, "", err
	}
	stamp := today.Format(dateLayout)
	if ran {
		return RanToday, stamp, nil
	}
	return NotRun, stamp, nil
}

// Run performs the routine unless it already ran today and force is false.
// A failed email only warns; the day is still marked as done because the
// report itself was produced.
func (d *Driver) Run(ctx context.Context, force bool) error {
	if strings.TrimSpace(d.Email) == "" {
		return ErrNoReportEmail
	}
	out := d.out()
	log := d.logger()
	today := d.now()

	ran, err := d.Flags.Has(today)
	if err != nil {
		return err
	}
	if ran && !force {
		fmt.Fprintln(out, "Start-of-day routine already ran today. Use --force to run again.")
		return nil
	}

	fmt.Fprintln(out, "Running start-of-day routine...")
	log.Info("start-of-day report", "force", force)
	report, err := d.Runner.OneShot(ctx, ReportPrompt(today), reportMCPs)
	if err != nil {
		return fmt.Errorf("morning report: %w", err)
	}
	if report.ExitCode != 0 {
		fmt.Fprintln(out, color.RedString("Morning routine FAILED"))
		fmt.Fprint(out, report.Stderr)
		log.Error("start-of-day report failed", "code", report.ExitCode)
		return fmt.Errorf("%w: claude exited with status %d", ErrReportFailed, report.ExitCode)
	}

	fmt.Fprintln(out, "Sending email report...")
	email, err := d.Runner.OneShot(ctx, EmailPrompt(today, d.Email, report.Stdout), emailMCPs)
	switch {
	case errors.Is(err, launcher.ErrInterrupted):
		return err
	case err != nil:
		fmt.Fprintln(out, color.YellowString("Warning: Failed to send email report"))
		fmt.Fprintln(out, err)
		log.Warn("start-of-day email failed", "error", err)
	case email.ExitCode != 0:
		fmt.Fprintln(out, color.YellowString("Warning: Failed to send email report"))
		fmt.Fprint(out, email.Stderr)
		log.Warn("start-of-day email failed", "code", email.ExitCode)
	}

	if err := d.Flags.Mark(today); err != nil {
		return err
	}
	if removed := d.Flags.Prune(today); len(removed) > 0 {
		log.Debug("pruned start-of-day flags", "removed", removed)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, color.GreenString("Morning routine completed!"))
	fmt.Fprintln(out, report.Stdout)
	return nil
}
