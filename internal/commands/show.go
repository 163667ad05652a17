package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/chatsearch/internal/history"
	"github.com/diogo/chatsearch/internal/logging"
	"github.com/diogo/chatsearch/internal/render"
)

// NewShowCmd creates the show command
func NewShowCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()

	var (
		markdown bool
		copyText bool
		open     bool
	)

	cmd := &cobra.Command{
		Use:   "show <file> <ref>",
		Short: "Show a conversation",
		Long: `Print one conversation of an export.

` + history.ListAliases(),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := deps.loadConfig()
			logger := newLogger(cmd.ErrOrStderr(), verboseEnabled(cmd, cfg))
			defer func() { _ = logging.Sync(logger) }()

			session, err := loadExport(args[0], cmd.ErrOrStderr(), logger)
			if err != nil {
				return err
			}

			match, err := session.Resolve(args[1])
			if err != nil {
				return err
			}

			text := history.FormatConversation(match)
			out := text
			if markdown {
				opts := render.LoadOptionsFromConfigWithWidth(cfg, getTerminalWidth())
				rendered, err := render.Conversation(match, opts)
				if err != nil {
					logger.Warn("markdown render failed, printing plain text", zap.Error(err))
				} else {
					out = strings.TrimRight(rendered, "\n") + "\n"
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), out)

			if copyText || cfg.CopyToClipboard {
				if err := deps.Clipboard(text); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), formatErrorMessage(err, "Failed to copy to clipboard"))
				} else {
					printSuccess(cmd.ErrOrStderr(), "Copied to clipboard")
				}
			}

			if open {
				path, err := history.WriteTempFile(match)
				if err != nil {
					return fmt.Errorf("failed to write temporary file: %w", err)
				}
				if err := deps.Open(path); err != nil {
					return err
				}
				printSuccess(cmd.ErrOrStderr(), "Opened %s", path)
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&markdown, "markdown", "m", false, "Render as markdown")
	cmd.Flags().BoolVarP(&copyText, "copy", "c", false, "Copy the conversation to the clipboard")
	cmd.Flags().BoolVar(&open, "open", false, "Open the conversation in the default application")

	return cmd
}
