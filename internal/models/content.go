// Package models contains the data types of a chat-history export.
package models

import "strings"

// Content is the body of a message. It is one of TextContent, PartsContent
// or OpaqueContent; parts may nest content objects to any depth.
type Content interface {
	isContent()
}

// TextContent is plain message text
type TextContent string

// PartsContent is an object carrying an ordered "parts" list.
// Only text and object parts are kept; other shapes are dropped at decode time.
type PartsContent []Content

// OpaqueContent is a content object without a usable "parts" list
// (images, code-interpreter payloads, ...). It contributes no text.
type OpaqueContent struct{}

func (TextContent) isContent()   {}
func (PartsContent) isContent()  {}
func (OpaqueContent) isContent() {}

// Flatten returns the text of a content value. Text is returned unchanged,
// parts are flattened recursively and joined with a single space, and
// everything else yields an empty string.
func Flatten(c Content) string {
	switch v := c.(type) {
	case TextContent:
		return string(v)
	case PartsContent:
		texts := make([]string, len(v))
		for i, part := range v {
			texts[i] = Flatten(part)
		}
		return strings.Join(texts, " ")
	default:
		return ""
	}
}
