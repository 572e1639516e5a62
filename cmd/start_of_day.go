package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davebream/sal/internal/routine"
)

var (
	sodForce  bool
	sodStatus bool
)

// now is replaced in tests.
var now = time.Now

var startOfDayCmd = &cobra.Command{
	Use:   "start-of-day [force|status]",
	Short: "Run the morning routine (once per day)",
	Long: `Run the morning routine: generate a report with Gmail and Calendar
enabled, email it to report_email, and record that it ran today. A second
run on the same day does nothing unless forced.`,
	Example: `  sal start-of-day
  sal start-of-day force
  sal start-of-day status`,
	GroupID:   "launch",
	Args:      cobra.OnlyValidArgs,
	ValidArgs: []string{"force", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		force, status := sodForce, sodStatus
		for _, a := range args {
			switch a {
			case "force":
				force = true
			case "status":
				status = true
			}
		}

		settings, err := sess.store.LoadSettings()
		if err != nil {
			return err
		}
		driver := &routine.Driver{
			Flags:  routine.NewFlagStore(sess.paths.Dir),
			Runner: sess.launcher,
			Email:  settings.ReportEmail(),
			Now:    now,
			Out:    cmd.OutOrStdout(),
			Logger: sess.logger,
		}
		out := cmd.OutOrStdout()

		if status {
			state, stamp, err := driver.Status()
			if err != nil {
				return err
			}
			if state == routine.RanToday {
				fmt.Fprintf(out, "Start-of-day routine already ran today (%s).\n", color.GreenString(stamp))
			} else {
				fmt.Fprintf(out, "Start-of-day routine has not run today (%s).\n", stamp)
			}
			return nil
		}

		err = driver.Run(cmd.Context(), force)
		if errors.Is(err, routine.ErrNoReportEmail) {
			return fmt.Errorf("%w\nRun: sal config report_email your@email.com", err)
		}
		if errors.Is(err, routine.ErrReportFailed) {
			// The driver already printed claude's stderr.
			return &exitCodeError{code: 1}
		}
		return err
	},
}

func init() {
	startOfDayCmd.Flags().BoolVar(&sodForce, "force", false, "Run even if already ran today")
	startOfDayCmd.Flags().BoolVar(&sodStatus, "status", false, "Only report whether the routine ran today")
	rootCmd.AddCommand(startOfDayCmd)
}
