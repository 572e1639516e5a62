package cmd

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davebream/sal/internal/config"
)

var importApply bool

var mcpImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import MCP servers from other client configs",
	Long: `Scans the Claude Code, Claude Desktop, Cursor and Windsurf configs for MCP server
definitions and merges them into ~/.sal/mcp.json. Client configs are
never modified.

Without --apply, only shows what would be imported.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		sources := config.FindImportSources(home)
		if len(sources) == 0 {
			fmt.Fprintln(out, "No MCP client configs found.")
			return nil
		}
		for _, src := range sources {
			if src.Err != nil {
				fmt.Fprintf(out, "%s %s: %v\n", color.YellowString("Skipping"), src.Client, src.Err)
				continue
			}
			fmt.Fprintf(out, "Found %s: %s (%d servers)\n", src.Client, src.Path, len(src.Servers))
		}

		servers, err := sess.store.LoadServers()
		if err != nil {
			return err
		}
		plan := config.PlanImport(servers, sources)

		if len(plan.Conflicts) > 0 {
			fmt.Fprintln(out, "\nConflicts (same name, different definition):")
			for _, c := range plan.Conflicts {
				fmt.Fprintf(out, "  %s: defined differently in %s and %s\n", c.Name, c.Sources[0], c.Sources[1])
			}
			fmt.Fprintln(out, "Resolve conflicts manually or use 'sal mcp add' for individual servers.")
		}

		if len(plan.Added) == 0 {
			fmt.Fprintln(out, "\nNo new servers to import.")
			return nil
		}

		names := slices.Sorted(maps.Keys(plan.Added))
		fmt.Fprintf(out, "\nServers to import: %d\n", len(names))
		for _, name := range names {
			fmt.Fprintf(out, "  %s (from %s)\n", name, plan.Sources[name])
		}

		if !importApply {
			fmt.Fprintln(out, "\n(Dry run, no changes made. Use --apply to proceed.)")
			return nil
		}

		for _, name := range names {
			if err := servers.Put(name, plan.Added[name]); err != nil {
				return err
			}
		}
		if err := sess.store.SaveServers(servers); err != nil {
			return fmt.Errorf("save server definitions: %w", err)
		}
		sess.logger.Info("servers imported", "count", len(names))
		fmt.Fprintf(out, "\nImported %d servers into %s\n", len(names), sess.paths.ServersFile())
		return nil
	},
}

func init() {
	mcpImportCmd.Flags().BoolVar(&importApply, "apply", false, "Write the imported servers")
	mcpCmd.AddCommand(mcpImportCmd)
}
