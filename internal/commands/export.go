package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/chatsearch/internal/history"
	"github.com/diogo/chatsearch/internal/logging"
)

// NewExportCmd creates the export command
func NewExportCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()

	var (
		format string
		output string
		open   bool
	)

	cmd := &cobra.Command{
		Use:   "export <file> <ref>",
		Short: "Export a conversation to a file",
		Long: `Export one conversation as plain text, markdown or JSON.

Without -o the file is written to export_dir from the config (or the
current directory) as <entry>-<title>.<ext>. Use -o - to write to stdout.

` + history.ListAliases(),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := history.ParseExportFormat(format)
			if err != nil {
				return err
			}

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

			if output == "-" {
				data, err := history.Export(match, exportFormat)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			path := output
			if path == "" {
				path = history.DefaultExportPath(cfg.ExportDir, match, exportFormat)
			}

			if err := history.WriteExport(match, exportFormat, path); err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), "Exported entry %d to %s", match.Index, path)

			if open || cfg.OpenExports {
				if err := deps.Open(path); err != nil {
					return fmt.Errorf("exported but could not open: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Export format: text, markdown or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (- for stdout)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the exported file")

	return cmd
}
