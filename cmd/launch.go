package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davebream/sal/internal/launcher"
	"github.com/davebream/sal/internal/mcp"
)

// runLaunch replaces sal with an interactive claude session. When -m was
// not given the default profile applies; "none" means no servers.
func runLaunch(cmd *cobra.Command, mcpArg string, explicit bool) error {
	if !explicit {
		settings, err := sess.store.LoadSettings()
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		mcpArg = settings.DefaultProfile()
	}
	if mcpArg == mcp.NoneToken {
		mcpArg = ""
	}

	plan, err := sess.launcher.Prepare(launcher.Request{
		MCP:    mcpArg,
		Resume: launchResume,
		Local:  launchLocal,
		Safe:   launchSafe,
	})
	if err != nil {
		return err
	}
	return sess.launcher.Exec(plan)
}

// runBareLaunch handles `sal <shortcut|profile>`.
func runBareLaunch(cmd *cobra.Command, args []string) error {
	token := args[0]
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments after %q: %v", token, args[1:])
	}
	resolver, _, err := mcp.FromStore(sess.store)
	if err != nil {
		return err
	}
	if !resolver.HasProfile(token) && !resolver.HasShortcut(token) {
		return fmt.Errorf("unknown command %q\nRun 'sal help' for usage information", token)
	}
	return runLaunch(cmd, token, true)
}

// runPrompt runs a one-shot prompt with output streamed to the terminal.
// Without -m no MCP servers start.
func runPrompt(cmd *cobra.Command, text string) error {
	mcpArg := ""
	if cmd.Flags().Changed("mcp") && launchMCP != mcp.NoneToken {
		mcpArg = launchMCP
	}
	plan, err := sess.launcher.Prepare(launcher.Request{
		MCP:    mcpArg,
		Local:  launchLocal,
		Safe:   launchSafe,
		Prompt: text,
	})
	if err != nil {
		return err
	}

	res, err := sess.launcher.Run(cmd.Context(), plan, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if errors.Is(err, launcher.ErrInterrupted) {
		return &exitCodeError{code: launcher.ExitInterrupted}
	}
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &exitCodeError{code: res.ExitCode}
	}
	return nil
}

var promptCmd = &cobra.Command{
	Use:     "prompt <text...>",
	Short:   "One-shot prompt execution",
	GroupID: "launch",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPrompt(cmd, strings.Join(args, " "))
	},
}

func init() {
	promptCmd.Flags().StringVarP(&launchMCP, "mcp", "m", "", "Enable specific MCP(s) for the prompt")
	promptCmd.Flags().BoolVarP(&launchLocal, "local", "l", false, "Run in the current directory")
	promptCmd.Flags().BoolVar(&launchSafe, "safe", false, "Run without --dangerously-skip-permissions")
	rootCmd.AddCommand(promptCmd)
}
