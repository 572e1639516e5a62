package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davebream/sal/internal/config"
)

var shortcutsCmd = &cobra.Command{
	Use:     "shortcuts",
	Short:   "List MCP shortcuts",
	GroupID: "manage",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		shortcuts, err := sess.store.LoadShortcuts()
		if err != nil {
			return err
		}
		servers, err := sess.store.LoadServers()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "MCP Shortcuts:")
		fmt.Fprintln(out)
		for _, short := range slices.Sorted(maps.Keys(shortcuts)) {
			server := shortcuts[short]
			note := ""
			if !servers.Has(server) {
				note = color.YellowString(" (not defined)")
			}
			fmt.Fprintf(out, "  %-8s %s%s\n", short, server, note)
		}
		return nil
	},
}

var shortcutsSetCmd = &cobra.Command{
	Use:   "set <shortcut> <server>",
	Short: "Create or replace a shortcut",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		short, server := args[0], args[1]
		user, err := sess.store.LoadUserShortcuts()
		if err != nil {
			return err
		}
		servers, err := sess.store.LoadServers()
		if err != nil {
			return err
		}
		user[short] = server
		if err := sess.store.SaveShortcuts(user); err != nil {
			return fmt.Errorf("save shortcuts: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Shortcut '%s' -> %s.\n", short, server)
		if !servers.Has(server) {
			fmt.Fprintf(out, "%s %s is not defined in %s yet.\n",
				color.YellowString("Warning:"), server, sess.paths.ServersFile())
		}
		return nil
	},
}

var shortcutsRemoveCmd = &cobra.Command{
	Use:   "remove <shortcut>",
	Short: "Remove a user shortcut or override",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		short := args[0]
		user, err := sess.store.LoadUserShortcuts()
		if err != nil {
			return err
		}
		_, builtin := config.DefaultShortcuts()[short]
		if _, ok := user[short]; !ok {
			if builtin {
				return fmt.Errorf("'%s' is a built-in shortcut and cannot be removed", short)
			}
			return fmt.Errorf("unknown shortcut '%s'", short)
		}
		delete(user, short)
		if err := sess.store.SaveShortcuts(user); err != nil {
			return fmt.Errorf("save shortcuts: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Shortcut '%s' removed.\n", short)
		return nil
	},
}

func init() {
	shortcutsCmd.AddCommand(shortcutsSetCmd)
	shortcutsCmd.AddCommand(shortcutsRemoveCmd)
	rootCmd.AddCommand(shortcutsCmd)
}
