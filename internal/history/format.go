package history

import (
	"strings"

	"github.com/diogo/chatsearch/internal/models"
)

// DateLayout is the layout of creation dates in listings and exports
const DateLayout = "2006-01-02 15:04:05"

// UnknownDate is shown when a conversation has no usable timestamp
const UnknownDate = "Unknown"

// FormatDate renders a timestamp as a local date-time, or "Unknown"
func FormatDate(ts models.Timestamp) string {
	tm, ok := ts.Time()
	if !ok {
		return UnknownDate
	}
	return tm.Format(DateLayout)
}

// FormatConversation renders a match as plain text: a title line, a
// creation-date line, a blank line, then one "Author: text" block per
// message, each followed by a blank line
func FormatConversation(m SearchMatch) string {
	var sb strings.Builder

	sb.WriteString("Title: ")
	sb.WriteString(m.Title)
	sb.WriteString("\n")

	sb.WriteString("Date Created: ")
	if m.Conversation != nil {
		sb.WriteString(FormatDate(m.Conversation.CreateTime))
	} else {
		sb.WriteString(UnknownDate)
	}
	sb.WriteString("\n\n")

	for _, msg := range m.Messages {
		sb.WriteString(msg.Author.Label())
		sb.WriteString(": ")
		sb.WriteString(msg.Text())
		sb.WriteString("\n\n")
	}

	return sb.String()
}
