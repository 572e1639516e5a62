package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davebream/sal/internal/hostconfig"
)

var statusLocal bool

var mcpStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which MCP servers auto-start for a project",
	Long: `Show the MCP servers Claude Code will start for the claude_dir project,
or for the current directory with --local, as recorded in the host config.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := statusDir()
		if err != nil {
			return err
		}
		st, err := hostReconciler().Status(dir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Project:    %s\n", st.Key)
		fmt.Fprintf(out, "Host file:  %s\n", sess.paths.HostConfig)
		if !st.Found {
			fmt.Fprintln(out, "Not configured yet. Launch sal there to create the entry.")
			return nil
		}
		fmt.Fprintf(out, "Auto-start: %s\n", listOrNone(st.AutoStart, color.GreenString))

		var idle []string
		for _, name := range st.Available {
			if !slices.Contains(st.AutoStart, name) {
				idle = append(idle, name)
			}
		}
		fmt.Fprintf(out, "Available:  %s\n", listOrNone(idle, nil))

		var foreign []string
		for _, name := range st.Disabled {
			if !slices.Contains(st.Available, name) {
				foreign = append(foreign, name)
			}
		}
		if len(foreign) > 0 {
			fmt.Fprintf(out, "Also disabled (not managed by sal): %s\n", strings.Join(foreign, ", "))
		}
		return nil
	},
}

func hostReconciler() *hostconfig.Reconciler {
	return hostconfig.NewReconciler(sess.paths.HostConfig, sess.logger)
}

func statusDir() (string, error) {
	if statusLocal {
		return os.Getwd()
	}
	settings, err := sess.store.LoadSettings()
	if err != nil {
		return "", err
	}
	return settings.ClaudeDir()
}

func listOrNone(names []string, paint func(string, ...any) string) string {
	if len(names) == 0 {
		return "(none)"
	}
	s := strings.Join(names, ", ")
	if paint != nil {
		return paint("%s", s)
	}
	return s
}

func init() {
	mcpStatusCmd.Flags().BoolVarP(&statusLocal, "local", "l", false, "Inspect the current directory")
	mcpCmd.AddCommand(mcpStatusCmd)
}
