// Package commands provides CLI commands for chatsearch.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/chatsearch/internal/config"
	"github.com/diogo/chatsearch/internal/logging"
	"github.com/diogo/chatsearch/internal/render"
	"github.com/diogo/chatsearch/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// NewRootCmd creates the chatsearch command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()

	var markdown bool

	cmd := &cobra.Command{
		Use:   "chatsearch [file]",
		Short: "Search and browse exported chat conversations",
		Long: `chatsearch explores the conversations.json file of a chat history export.
It lists conversations oldest first, filters them with a regular expression
matched as whole words, and shows each one as plain text or markdown.

Examples:
  chatsearch conversations.json              Open the explorer
  chatsearch search conversations.json go    List conversations mentioning "go"
  chatsearch show conversations.json @last   Print the newest conversation
  chatsearch export conversations.json 12 --format markdown
  chatsearch config                          Configure settings`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "chatsearch %s (built %s)\n", Version, BuildTime)
				return nil
			}

			cfg := deps.loadConfig()

			path := cfg.DefaultFile
			if len(args) > 0 {
				path = args[0]
			}

			logger, closeLog := explorerLogger(verboseEnabled(cmd, cfg))
			defer closeLog()

			if render.SetTUITheme(cfg.TUITheme) {
				tui.UpdateTheme()
			}

			return deps.TUI.RunExplorer(tui.ExplorerOptions{
				Path:          path,
				Markdown:      markdown,
				RenderOptions: render.LoadOptionsFromConfig(cfg),
				Logger:        logger,
			})
		},
	}

	cmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")
	cmd.Flags().BoolVarP(&markdown, "markdown", "m", false, "Render the detail pane as markdown")

	cmd.AddCommand(NewListCmd(deps))
	cmd.AddCommand(NewSearchCmd(deps))
	cmd.AddCommand(NewShowCmd(deps))
	cmd.AddCommand(NewExportCmd(deps))
	cmd.AddCommand(NewConfigCmd(deps))

	return cmd
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, ""))
		os.Exit(1)
	}
}

// verboseEnabled reports whether debug logging was requested by flag or config
func verboseEnabled(cmd *cobra.Command, cfg config.Config) bool {
	if v, err := cmd.Flags().GetBool("verbose"); err == nil && v {
		return true
	}
	return cfg.Verbose
}

// explorerLogger returns the logger for the full-screen explorer. Output
// goes to the log file because stderr belongs to the alternate screen.
func explorerLogger(verbose bool) (*zap.Logger, func()) {
	noop := func() {}
	if !verbose {
		return zap.NewNop(), noop
	}

	path, err := config.GetLogPath()
	if err != nil {
		return zap.NewNop(), noop
	}

	logger, closeFn, err := logging.NewFile(path, logging.Options{Verbose: true, Format: "json"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, logging disabled\n", err)
		return zap.NewNop(), noop
	}

	return logger, func() { _ = closeFn() }
}
