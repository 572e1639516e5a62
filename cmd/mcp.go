package cmd

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/davebream/sal/internal/mcp"
)

var mcpShowReveal bool

var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Manage MCP servers",
	GroupID: "manage",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPList(cmd)
	},
}

var mcpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available MCP servers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPList(cmd)
	},
}

func runMCPList(cmd *cobra.Command) error {
	resolver, servers, err := mcp.FromStore(sess.store)
	if err != nil {
		return err
	}
	settings, err := sess.store.LoadSettings()
	if err != nil {
		return err
	}

	var inDefault []string
	if def := settings.DefaultProfile(); def != "" {
		inDefault, _ = resolver.Profile(def)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Available MCP Servers:")
	fmt.Fprintln(out)
	if servers.Len() == 0 {
		fmt.Fprintf(out, "  (none defined; add servers to %s or run 'sal mcp add')\n", sess.paths.ServersFile())
		return nil
	}
	for _, name := range servers.Names() {
		label := name
		if slices.Contains(inDefault, name) {
			label = color.GreenString(name)
		}
		fmt.Fprintf(out, "  %-8s %s\n", resolver.ShortcutFor(name), label)
	}
	if def := settings.DefaultProfile(); def != "" {
		fmt.Fprintf(out, "\nDefault profile: %s\n", def)
	}
	return nil
}

var mcpSetCmd = &cobra.Command{
	Use:   "set <profile|none>",
	Short: "Set the default MCP profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		settings, err := sess.store.LoadSettings()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if name == mcp.NoneToken {
			settings.SetDefaultProfile("")
			if err := sess.store.SaveSettings(settings); err != nil {
				return fmt.Errorf("save settings: %w", err)
			}
			fmt.Fprintln(out, "Default profile cleared. SAL will launch with no MCPs.")
			return nil
		}

		resolver, _, err := mcp.FromStore(sess.store)
		if err != nil {
			return err
		}
		if !resolver.HasProfile(name) {
			return fmt.Errorf("unknown profile '%s'\nAvailable profiles: %s, %s",
				name, strings.Join(resolver.ProfileNames(), ", "), mcp.NoneToken)
		}
		settings.SetDefaultProfile(name)
		if err := sess.store.SaveSettings(settings); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		sess.logger.Info("default profile set", "profile", name)
		fmt.Fprintf(out, "Default profile set to '%s'.\n", name)
		return nil
	},
}

var mcpKillCmd = &cobra.Command{
	Use:   "kill",
	Short: "Kill orphan MCP server processes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := sess.launcher.KillServerProcesses(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No orphan MCP processes found.")
			return nil
		}
		killed := 0
		var lines []string
		for _, r := range results {
			if r.Err != nil {
				lines = append(lines, fmt.Sprintf("  Failed to kill PID %d: %v", r.PID, r.Err))
				continue
			}
			killed++
			lines = append(lines, fmt.Sprintf("  Killed: %s (PID %d)", r.Name(), r.PID))
		}
		fmt.Fprintf(out, "Killed %d orphan MCP process(es):\n", killed)
		for _, l := range lines {
			fmt.Fprintln(out, l)
		}
		return nil
	},
}

var mcpShowCmd = &cobra.Command{
	Use:   "show <name|shortcut>",
	Short: "Show a server definition as YAML",
	Long:  "Show a server definition as YAML. Environment values are masked unless --reveal is given.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, servers, err := mcp.FromStore(sess.store)
		if err != nil {
			return err
		}
		name := resolver.Shortcut(args[0])
		raw, ok := servers.Raw(name)
		if !ok {
			return &mcp.UnknownServersError{Names: []string{name}}
		}

		var def map[string]any
		if err := json.Unmarshal(raw, &def); err != nil {
			return fmt.Errorf("server %q: %w", name, err)
		}
		if env, ok := def["env"].(map[string]any); ok && !mcpShowReveal {
			for k := range env {
				env[k] = "****"
			}
		}

		data, err := yaml.Marshal(map[string]any{name: def})
		if err != nil {
			return fmt.Errorf("render %q: %w", name, err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	mcpShowCmd.Flags().BoolVar(&mcpShowReveal, "reveal", false, "Show environment values")

	mcpCmd.AddCommand(mcpListCmd)
	mcpCmd.AddCommand(mcpSetCmd)
	mcpCmd.AddCommand(mcpKillCmd)
	mcpCmd.AddCommand(mcpShowCmd)
	rootCmd.AddCommand(mcpCmd)
}
