package render

import "github.com/diogo/chatsearch/internal/history"

// Markdown renders markdown for the terminal with a pooled renderer.
func Markdown(content string, opts Options) (string, error) {
	tr, err := shared.acquire(opts)
	if err != nil {
		return "", err
	}
	defer shared.release(opts, tr)

	return tr.Render(content)
}

// Conversation renders a conversation through its markdown export.
func Conversation(m history.SearchMatch, opts Options) (string, error) {
	return Markdown(history.ExportToMarkdown(m), opts)
}
