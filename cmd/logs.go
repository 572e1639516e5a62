package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/davebream/sal/internal/logging"
)

var (
	logsFollow bool
	logsLines  int
)

var logsCmd = &cobra.Command{
	Use:     "logs",
	Short:   "Show sal's log",
	GroupID: "setup",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logFile := filepath.Join(sess.paths.LogDir(), logging.FileName)
		if _, err := os.Stat(logFile); errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(cmd.OutOrStdout(), "No log file found at", logFile)
			return nil
		}

		if logsFollow {
			tail, err := sess.exec.LookPath("tail")
			if err != nil {
				return fmt.Errorf("follow needs tail: %w", err)
			}
			tailCmd := sess.exec.CommandContext(cmd.Context(), tail, "-f", logFile)
			tailCmd.Stdout = cmd.OutOrStdout()
			tailCmd.Stderr = cmd.ErrOrStderr()
			if err := tailCmd.Run(); err != nil && cmd.Context().Err() == nil {
				return err
			}
			return nil
		}

		lines, err := lastLines(logFile, logsLines)
		if err != nil {
			return err
		}
		for _, l := range lines {
			fmt.Fprintln(cmd.OutOrStdout(), l)
		}
		return nil
	},
}

// lastLines returns up to n trailing lines of path.
func lastLines(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n = max(n, 0)
	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if n == 0 {
			continue
		}
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ring, nil
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "Number of lines to show")
	rootCmd.AddCommand(logsCmd)
}
