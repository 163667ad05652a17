package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/chatsearch/internal/config"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Open configuration menu",
		Long: `Interactive menu to configure chatsearch settings.

Settings can also be overridden with CHATSEARCH_* environment variables,
for example CHATSEARCH_DEFAULT_FILE or CHATSEARCH_MARKDOWN__STYLE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.TUI.RunConfig()
		},
	}

	cmd.AddCommand(newConfigShowCmd(deps))
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

func newConfigShowCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.LoadConfig()
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config and log file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			logPath, err := config.GetLogPath()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "config: %s\nlog:    %s\n", configPath, logPath)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change a setting",
		Long:      "Change a setting in the config file.\n\nKeys: " + strings.Join(config.Keys(), ", "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			// env overrides must not be written back to the file
			cfg, err := config.LoadFile()
			if err != nil {
				return err
			}

			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.SaveConfig(cfg); err != nil {
				return err
			}

			printSuccess(cmd.ErrOrStderr(), "%s set to %s", args[0], args[1])
			return nil
		},
	}
}
