package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davebream/sal/internal/launcher"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Show sal and Claude Code versions",
	GroupID: "setup",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion(cmd)
	},
}

func runVersion(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	if commit != "none" && commit != "" {
		fmt.Fprintf(out, "SAL version: %s (commit: %s)\n", version, commit)
	} else {
		fmt.Fprintf(out, "SAL version: %s\n", version)
	}

	v, err := sess.launcher.ClaudeVersion(cmd.Context())
	if err != nil {
		if !errors.Is(err, launcher.ErrMissingExecutable) {
			sess.logger.Warn("claude --version failed", "error", err)
		}
		fmt.Fprintln(out, "Claude Code: not found")
		return nil
	}
	fmt.Fprintf(out, "Claude Code: %s\n", v)
	return nil
}

var updateCmd = &cobra.Command{
	Use:     "update",
	Short:   "Update Claude Code to the latest version",
	GroupID: "setup",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Updating Claude Code...")
		if err := sess.launcher.Update(cmd.Context(), out, cmd.ErrOrStderr()); err != nil {
			return err
		}
		fmt.Fprintln(out, "Claude Code updated successfully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}
