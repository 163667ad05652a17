package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/chatsearch/internal/history"
	"github.com/diogo/chatsearch/internal/logging"
)

const listTitleWidth = 50

// listFlags are the ordering flags shared by list and search
type listFlags struct {
	sort    string
	reverse bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.sort, "sort", "s", "entry", "Sort by column: "+history.SortColumnNames())
	cmd.Flags().BoolVarP(&f.reverse, "reverse", "r", false, "Reverse the sort order")
}

// NewListCmd creates the list command
func NewListCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list <file>",
		Short: "List all conversations",
		Long:  `List every conversation in an export, oldest first.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			column, err := history.ParseSortColumn(flags.sort)
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

			matches := session.All()
			history.SortMatches(matches, column, flags.reverse)
			return printListing(cmd.OutOrStdout(), matches)
		},
	}

	flags.register(cmd)
	return cmd
}

// NewSearchCmd creates the search command
func NewSearchCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "search <file> <pattern>",
		Short: "Find conversations matching a regular expression",
		Long: `Find conversations with at least one message matching pattern.

The pattern is a regular expression matched as a whole word and ignoring
case: "go" matches "Go is fun" but not "google". An empty pattern lists
every conversation.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			column, err := history.ParseSortColumn(flags.sort)
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

			pattern := args[1]
			matches, err := session.Search(pattern)
			if err != nil {
				return err
			}

			history.SortMatches(matches, column, flags.reverse)
			if err := printListing(cmd.OutOrStdout(), matches); err != nil {
				return err
			}

			if !history.IsBlankPattern(pattern) {
				fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render(history.SearchSummary(len(matches), pattern)))
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// printListing writes matches as an aligned table
func printListing(w io.Writer, matches []history.SearchMatch) error {
	if len(matches) == 0 {
		_, err := fmt.Fprintln(w, "No conversations found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ENTRY\tTITLE\tDATE CREATED\tMESSAGES")
	_, _ = fmt.Fprintln(tw, "-----\t-----\t------------\t--------")

	for _, m := range matches {
		date := history.UnknownDate
		if m.Conversation != nil {
			date = history.FormatDate(m.Conversation.CreateTime)
		}
		title := truncate(strings.Join(strings.Fields(m.Title), " "), listTitleWidth)
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", strconv.Itoa(m.Index), title, date, len(m.Messages))
	}

	return tw.Flush()
}
