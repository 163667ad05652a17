package history

import (
	"fmt"
	"sort"
	"strings"
)

// SortColumn is a column of the conversation listing
type SortColumn string

const (
	SortByEntry SortColumn = "entry"
	SortByTitle SortColumn = "title"
	SortByDate  SortColumn = "date"
)

// SortColumns returns the accepted column names
func SortColumns() []SortColumn {
	return []SortColumn{SortByEntry, SortByTitle, SortByDate}
}

// SortColumnNames lists the column names for help and error text
func SortColumnNames() string {
	columns := SortColumns()
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// ParseSortColumn parses a column name as given on the command line
func ParseSortColumn(s string) (SortColumn, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "entry", "entry number", "number", "index":
		return SortByEntry, nil
	case "title":
		return SortByTitle, nil
	case "date", "date created", "created", "create_time":
		return SortByDate, nil
	default:
		return "", fmt.Errorf("unknown sort column %q (use one of: %s)", s, SortColumnNames())
	}
}

// SortMatches reorders matches in place by the given column. The sort is
// stable; entry number breaks ties.
func SortMatches(matches []SearchMatch, column SortColumn, descending bool) {
	less := func(a, b SearchMatch) bool {
		switch column {
		case SortByTitle:
			ta, tb := strings.ToLower(a.Title), strings.ToLower(b.Title)
			if ta != tb {
				return ta < tb
			}
		case SortByDate:
			ka, kb := dateKey(a), dateKey(b)
			if ka != kb {
				return ka < kb
			}
		}
		return a.Index < b.Index
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if descending {
			return less(matches[j], matches[i])
		}
		return less(matches[i], matches[j])
	})
}

// dateKey orders undated conversations before every dated one
func dateKey(m SearchMatch) int64 {
	if m.Conversation == nil || !m.Conversation.CreateTime.Valid {
		return -1 << 62
	}
	return m.Conversation.CreateTime.Seconds
}
