package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/davebream/sal/cmd"
	"github.com/davebream/sal/internal/logging"
)

// Version information set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cmd.SetVersionInfo(version, commit)
	if err := cmd.Execute(); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, color.RedString("Error:"), logging.ScrubSecrets(msg))
		}
		os.Exit(cmd.ExitCode(err))
	}
}
