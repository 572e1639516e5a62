package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/davebream/sal/internal/config"
	"github.com/davebream/sal/internal/launcher"
	"github.com/davebream/sal/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
)

// SetVersionInfo sets version information from ldflags.
func SetVersionInfo(v, c string) {
	version, commit = v, c
}

var (
	launchMCP    string
	launchResume bool
	launchLocal  bool
	launchSafe   bool
	promptText   string
	showVersion  bool
	verbose      bool
	noColor      bool
)

// newExecutor is replaced in tests.
var newExecutor = launcher.DefaultExecutor

// session holds what every command needs for one invocation.
type session struct {
	paths    config.Paths
	store    *config.Store
	logger   *slog.Logger
	exec     launcher.Executor
	launcher *launcher.Launcher
	closeLog func()
}

var sess *session

var rootCmd = &cobra.Command{
	Use:   "sal [shortcut|profile]",
	Short: "Claude Code launcher with per-project MCP server selection",
	Long:  rootLong(),
	Example: `  sal                       # launch with the default profile (or no MCPs)
  sal -m gm,at              # launch with Gmail and Airtable
  sal google                # launch with the google profile
  sal -r -l                 # resume the last session in the current directory
  sal -p "summarize inbox"  # one-shot prompt
  sal mcp set start         # make "start" the default profile`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: openSession,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if sess != nil && sess.closeLog != nil {
			sess.closeLog()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			return runVersion(cmd)
		}
		if promptText != "" {
			return runPrompt(cmd, promptText)
		}
		if len(args) > 0 {
			return runBareLaunch(cmd, args)
		}
		return runLaunch(cmd, launchMCP, cmd.Flags().Changed("mcp"))
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&launchMCP, "mcp", "m", "", "Launch with specific MCP(s), comma-separated shortcuts, names or a profile")
	flags.BoolVarP(&launchResume, "resume", "r", false, "Resume last session")
	flags.BoolVarP(&launchLocal, "local", "l", false, "Stay in the current directory instead of claude_dir")
	flags.BoolVar(&launchSafe, "safe", false, "Launch without --dangerously-skip-permissions")
	flags.StringVarP(&promptText, "prompt", "p", "", "One-shot prompt execution")
	flags.BoolVarP(&showVersion, "version", "v", false, "Show version information")

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Also write debug logs to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "launch", Title: "Launch Commands:"},
		&cobra.Group{ID: "manage", Title: "MCP Commands:"},
		&cobra.Group{ID: "setup", Title: "Setup Commands:"},
	)
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

// openSession resolves paths and sets up logging. A log that cannot be
// opened never blocks a launch.
func openSession(cmd *cobra.Command, args []string) error {
	if noColor {
		color.NoColor = true
	}

	paths, err := config.DefaultPaths()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	var debugOut io.Writer
	if verbose {
		level = slog.LevelDebug
		debugOut = cmd.ErrOrStderr()
	}
	logger, closeLog, err := logging.Setup(paths.LogDir(), level, debugOut)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), color.YellowString("Warning:"), err)
		logger, closeLog = logging.Discard(), func() {}
	}
	logger = logging.RunLogger(logger, uuid.NewString())
	logger.Debug("command", "name", cmd.CommandPath(), "args", args)

	store := config.NewStore(paths)
	executor := newExecutor()
	sess = &session{
		paths:    paths,
		store:    store,
		logger:   logger,
		exec:     executor,
		launcher: launcher.New(store, executor, logger),
		closeLog: closeLog,
	}
	return nil
}

// Execute runs the root command. Interrupts cancel the command context so
// one-shot children are reported as interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func rootLong() string {
	var b strings.Builder
	b.WriteString(`sal launches Claude Code with a chosen set of MCP servers enabled for the
working directory. Every server defined in ~/.sal/mcp.json is made
available to the project; only the requested ones start automatically.

Without -m, the default profile (sal mcp set <profile>) is used.

MCP SHORTCUTS:
`)
	shortcuts := config.DefaultShortcuts()
	for _, short := range config.DefaultShortcutNames() {
		fmt.Fprintf(&b, "  %-8s %s\n", short, shortcuts[short])
	}
	b.WriteString("\nMCP PROFILES:\n")
	profiles := config.DefaultProfiles()
	for _, name := range config.DefaultProfileNames() {
		fmt.Fprintf(&b, "  %-8s %s\n", name, strings.Join(profiles[name], ", "))
	}
	b.WriteString(`
CONFIGURATION (sal config <key> <value>):
  report_email      Email address for morning reports
  default_profile   Default MCP profile to use
  claude_dir        Working directory for Claude (default ~/sal/desktop)
  skip_permissions  Use --dangerously-skip-permissions (default true)`)
	return b.String()
}
