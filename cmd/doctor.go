package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davebream/sal/internal/hostconfig"
	"github.com/davebream/sal/internal/launcher"
	"github.com/davebream/sal/internal/mcp"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Short:   "Check sal installation and configuration",
	GroupID: "setup",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		allOK := true
		fail := func(label, format string, a ...any) {
			allOK = false
			report(out, label, color.RedString("FAIL"), format, a...)
		}
		warn := func(label, format string, a ...any) {
			report(out, label, color.YellowString("WARN"), format, a...)
		}
		ok := func(label, format string, a ...any) {
			report(out, label, color.GreenString("OK"), format, a...)
		}

		// 1. Settings
		settings, err := sess.store.LoadSettings()
		if err != nil {
			fail("Settings", "%v", err)
		} else {
			ok("Settings", "%s", sess.paths.SettingsFile())
		}

		// 2. Server definitions, shortcuts and profiles
		resolver, servers, err := mcp.FromStore(sess.store)
		if err != nil {
			fail("Servers", "%v", err)
		} else if servers.Len() == 0 {
			warn("Servers", "none defined in %s", sess.paths.ServersFile())
		} else {
			ok("Servers", "%d defined, %s", servers.Len(), sess.paths.ServersFile())
		}

		// 3. Default profile
		if settings != nil && resolver != nil {
			if def := settings.DefaultProfile(); def == "" {
				ok("Profile", "no default, launches start no MCPs")
			} else if !resolver.HasProfile(def) {
				fail("Profile", "default profile %q does not exist", def)
			} else if _, invalid := resolver.Resolve(def); len(invalid) > 0 {
				fail("Profile", "default profile %q names undefined servers: %v", def, invalid)
			} else {
				ok("Profile", "default %q", def)
			}
		}

		// 4. Host config
		if _, err := hostconfig.Load(sess.paths.HostConfig); err != nil {
			fail("Host", "%v", err)
		} else {
			ok("Host", "%s", sess.paths.HostConfig)
		}

		// 5. claude in PATH
		if v, err := sess.launcher.ClaudeVersion(cmd.Context()); err != nil {
			if errors.Is(err, launcher.ErrMissingExecutable) {
				fail("Claude", "%v", err)
			} else {
				warn("Claude", "%v", err)
			}
		} else {
			ok("Claude", "%s", v)
		}

		// 6. Server commands in PATH
		if servers != nil {
			for _, name := range servers.Names() {
				sc, err := servers.Config(name)
				if err != nil {
					fail("Server "+name, "%v", err)
					continue
				}
				if sc.Command == "" {
					continue
				}
				if _, err := sess.exec.LookPath(sc.Command); err != nil {
					warn("Server "+name, "command %q not found in PATH", sc.Command)
				} else {
					ok("Server "+name, "%s", sc.Command)
				}
			}
		}

		if !allOK {
			return exitError(1, "some checks failed")
		}
		return nil
	},
}

func report(w io.Writer, label, status, format string, a ...any) {
	fmt.Fprintf(w, "%-9s %s (%s)\n", label+":", status, fmt.Sprintf(format, a...))
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
