package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davebream/sal/internal/config"
	"github.com/davebream/sal/internal/mcp"
)

var profilesCmd = &cobra.Command{
	Use:     "profiles",
	Short:   "List MCP profiles",
	GroupID: "manage",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := sess.store.LoadProfiles()
		if err != nil {
			return err
		}
		settings, err := sess.store.LoadSettings()
		if err != nil {
			return err
		}
		def := settings.DefaultProfile()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "MCP Profiles:")
		fmt.Fprintln(out)
		for _, name := range slices.Sorted(maps.Keys(profiles)) {
			label := name
			if name == def {
				label = color.GreenString(name) + " (default)"
			}
			fmt.Fprintf(out, "  %s\n", label)
			fmt.Fprintf(out, "    %s\n\n", strings.Join(profiles[name], ", "))
		}
		return nil
	},
}

var profilesSetCmd = &cobra.Command{
	Use:   "set <name> <shortcut,...>",
	Short: "Create or replace a profile",
	Long: `Create or replace a profile. Members are shortcuts or full server names,
given comma-separated or as separate arguments. Profiles do not nest.`,
	Example: `  sal profiles set mail gm,cal
  sal profiles set crm at jf`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		var members []string
		for _, a := range args[1:] {
			for _, m := range strings.Split(a, ",") {
				if m = strings.TrimSpace(m); m != "" {
					members = append(members, m)
				}
			}
		}
		if len(members) == 0 {
			return fmt.Errorf("profile %q needs at least one member", name)
		}

		resolver, servers, err := mcp.FromStore(sess.store)
		if err != nil {
			return err
		}
		var unknown []string
		for _, m := range members {
			if !servers.Has(resolver.Shortcut(m)) {
				unknown = append(unknown, m)
			}
		}
		if len(unknown) > 0 {
			return &mcp.UnknownServersError{Names: unknown}
		}

		user, err := sess.store.LoadUserProfiles()
		if err != nil {
			return err
		}
		user[name] = members
		if err := sess.store.SaveProfiles(user); err != nil {
			return fmt.Errorf("save profiles: %w", err)
		}
		sess.logger.Info("profile saved", "profile", name, "members", members)
		fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' set to %s.\n", name, strings.Join(members, ", "))
		return nil
	},
}

var profilesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a user profile or override",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		user, err := sess.store.LoadUserProfiles()
		if err != nil {
			return err
		}
		_, builtin := config.DefaultProfiles()[name]
		if _, ok := user[name]; !ok {
			if builtin {
				return fmt.Errorf("'%s' is a built-in profile and cannot be removed", name)
			}
			return fmt.Errorf("unknown profile '%s'", name)
		}
		delete(user, name)
		if err := sess.store.SaveProfiles(user); err != nil {
			return fmt.Errorf("save profiles: %w", err)
		}
		if builtin {
			fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' restored to its built-in members.\n", name)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' removed.\n", name)
		}
		return nil
	},
}

func init() {
	profilesCmd.AddCommand(profilesSetCmd)
	profilesCmd.AddCommand(profilesRemoveCmd)
	rootCmd.AddCommand(profilesCmd)
}
