package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/davebream/sal/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key [value]]",
	Short: "Show or change sal settings",
	Long: `Show all settings, show one setting, or set one.

Values "true" and "false" are stored as booleans; "none" and "null"
clear a setting. Anything else is stored as a string.`,
	Example: `  sal config
  sal config report_email
  sal config report_email me@example.com
  sal config skip_permissions false
  sal config default_profile none`,
	GroupID: "setup",
	Args:    cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := sess.store.LoadSettings()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		switch len(args) {
		case 0:
			for _, key := range settings.Keys() {
				v, _ := settings.Get(key)
				fmt.Fprintf(out, "%s: %s\n", key, v)
			}
			return nil
		case 1:
			v, ok := settings.Get(args[0])
			if !ok || v.IsNull() {
				fmt.Fprintln(out, "(not set)")
				return nil
			}
			if v.Kind() == config.KindRaw {
				return printStructured(cmd, v)
			}
			fmt.Fprintln(out, v)
			return nil
		}

		key := args[0]
		v := config.ParseValue(args[1])
		if err := settings.Set(key, v); err != nil {
			return err
		}
		if err := sess.store.SaveSettings(settings); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		sess.logger.Info("setting changed", "key", key)
		fmt.Fprintf(out, "Set %s = %s\n", key, v)
		return nil
	},
}

// printStructured renders a passthrough value (an object or list some other
// tool stored) as YAML.
func printStructured(cmd *cobra.Command, v config.Value) error {
	data, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	text, err := yaml.Marshal(decoded)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), strings.TrimRight(string(text), "\n")+"\n")
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
}
