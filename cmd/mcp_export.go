package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davebream/sal/internal/config"
	"github.com/davebream/sal/internal/mcp"
)

var (
	exportMCP    string
	exportOutput string
)

var mcpExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a standalone MCP config for claude --mcp-config",
	Long: `Write every server definition as a standalone {"mcpServers": ...}
document. Servers outside the selection carry "disabled": true. The
selection is -m, or the default profile when -m is not given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		selection := exportMCP
		if !cmd.Flags().Changed("mcp") {
			settings, err := sess.store.LoadSettings()
			if err != nil {
				return err
			}
			selection = settings.DefaultProfile()
		}
		if selection == mcp.NoneToken {
			selection = ""
		}

		resolver, servers, err := mcp.FromStore(sess.store)
		if err != nil {
			return err
		}
		names, err := resolver.ResolveStrict(selection)
		if err != nil {
			return err
		}
		exported, err := servers.Export(names)
		if err != nil {
			return err
		}

		if exportOutput == "" || exportOutput == "-" {
			data, err := config.MarshalJSON(exported)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := config.WriteJSON(exportOutput, exported); err != nil {
			return fmt.Errorf("write %s: %w", exportOutput, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d enabled of %d)\n", exportOutput, len(names), exported.Len())
		return nil
	},
}

func init() {
	mcpExportCmd.Flags().StringVarP(&exportMCP, "mcp", "m", "", "MCP(s) to leave enabled")
	mcpExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
	mcpCmd.AddCommand(mcpExportCmd)
}
