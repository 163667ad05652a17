package history

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/diogo/chatsearch/internal/errors"
)

// ExportFormat represents the format for exporting conversations
type ExportFormat string

const (
	ExportFormatText     ExportFormat = "text"
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ParseExportFormat parses a format name
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return ExportFormatText, nil
	case "markdown", "md":
		return ExportFormatMarkdown, nil
	case "json":
		return ExportFormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (use text, markdown or json)", s)
	}
}

// Extension returns the file extension for the format
func (f ExportFormat) Extension() string {
	switch f {
	case ExportFormatMarkdown:
		return ".md"
	case ExportFormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// Export renders a match in the given format
func Export(m SearchMatch, format ExportFormat) ([]byte, error) {
	switch format {
	case ExportFormatText, "":
		return []byte(FormatConversation(m)), nil
	case ExportFormatMarkdown:
		return []byte(ExportToMarkdown(m)), nil
	case ExportFormatJSON:
		data, err := ExportToJSON(m)
		if err != nil {
			return nil, apperrors.NewExportError(string(format), err)
		}
		return data, nil
	default:
		return nil, apperrors.NewExportError(string(format), fmt.Errorf("unsupported format"))
	}
}

// ExportToMarkdown renders a match as Markdown
func ExportToMarkdown(m SearchMatch) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# ")
	sb.WriteString(m.Title)
	sb.WriteString("\n\n")

	// Metadata
	sb.WriteString("**Entry:** ")
	sb.WriteString(fmt.Sprintf("%d", m.Index))
	sb.WriteString("\n")
	sb.WriteString("**Created:** ")
	if m.Conversation != nil {
		sb.WriteString(FormatDate(m.Conversation.CreateTime))
	} else {
		sb.WriteString(UnknownDate)
	}
	sb.WriteString("\n")
	sb.WriteString("**Messages:** ")
	sb.WriteString(fmt.Sprintf("%d", len(m.Messages)))
	sb.WriteString("\n\n---\n\n")

	// Messages
	for i, msg := range m.Messages {
		sb.WriteString("## ")
		sb.WriteString(msg.Author.Label())
		sb.WriteString("\n\n")
		sb.WriteString(msg.Text())
		sb.WriteString("\n")

		// Separator between messages (except last)
		if i < len(m.Messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// ExportToJSON renders a match as indented JSON with flattened messages
func ExportToJSON(m SearchMatch) ([]byte, error) {
	type ExportMessage struct {
		Author  string `json:"author"`
		Content string `json:"content"`
	}

	type ExportConversation struct {
		Entry       int             `json:"entry"`
		Title       string          `json:"title"`
		CreateTime  *int64          `json:"create_time,omitempty"`
		DateCreated string          `json:"date_created"`
		Messages    []ExportMessage `json:"messages"`
	}

	export := ExportConversation{
		Entry:       m.Index,
		Title:       m.Title,
		DateCreated: UnknownDate,
		Messages:    make([]ExportMessage, len(m.Messages)),
	}

	if m.Conversation != nil {
		export.DateCreated = FormatDate(m.Conversation.CreateTime)
		if m.Conversation.CreateTime.Valid {
			seconds := m.Conversation.CreateTime.Seconds
			export.CreateTime = &seconds
		}
	}

	for i, msg := range m.Messages {
		export.Messages[i] = ExportMessage{
			Author:  msg.Author.Label(),
			Content: msg.Text(),
		}
	}

	return json.MarshalIndent(export, "", "  ")
}

// WriteExport writes a match to path in the given format
func WriteExport(m SearchMatch, format ExportFormat, path string) error {
	data, err := Export(m, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.NewExportError(string(format), err)
	}
	return nil
}

// WriteTempFile writes the plain-text rendering of a match to a new
// temporary .txt file and returns its path. The file is not removed.
func WriteTempFile(m SearchMatch) (string, error) {
	pattern := "chatsearch-" + SanitizeFilename(m.Title) + "-*.txt"
	return writeTemp(pattern, func(w io.Writer) error {
		_, err := io.WriteString(w, FormatConversation(m))
		return err
	})
}

// writeTemp creates a temporary file filled by write. Nothing is left on
// disk when write or close fails.
func writeTemp(pattern string, write func(io.Writer) error) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", apperrors.NewExportError(string(ExportFormatText), err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", apperrors.NewExportError(string(ExportFormatText), err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", apperrors.NewExportError(string(ExportFormatText), err)
	}

	return f.Name(), nil
}

// DefaultExportName returns a file name for exporting a match
func DefaultExportName(m SearchMatch, format ExportFormat) string {
	return fmt.Sprintf("%03d-%s%s", m.Index, SanitizeFilename(m.Title), format.Extension())
}

// DefaultExportPath joins dir with the default export name; an empty dir
// means the current directory
func DefaultExportPath(dir string, m SearchMatch, format ExportFormat) string {
	name := DefaultExportName(m, format)
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// SanitizeFilename replaces characters that are unsafe in file names
func SanitizeFilename(s string) string {
	const maxLen = 50

	var result []rune
	for _, r := range s {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			result = append(result, '-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			result = append(result, '_')
		case r < 32 || r == 127:
			result = append(result, '-')
		default:
			result = append(result, r)
		}
		if len(result) >= maxLen {
			break
		}
	}

	if len(result) == 0 {
		return "conversation"
	}
	return string(result)
}
