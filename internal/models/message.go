package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// AuthorKind describes which shape the "author" field of a message had
type AuthorKind int

const (
	// AuthorAbsent means the message has no author field
	AuthorAbsent AuthorKind = iota
	// AuthorRole is a plain text role such as "user"
	AuthorRole
	// AuthorNamed is an author object with a text "name"
	AuthorNamed
	// AuthorUnnamed is an author object without a "name" key
	AuthorUnnamed
	// AuthorInvalid is any other shape: null, numbers, a non-text name
	AuthorInvalid
)

// Author identifies who wrote a message
type Author struct {
	Kind  AuthorKind
	Value string // role or name, depending on Kind
}

// Label returns the display label of the author.
//
// A role or name is capitalized. A missing author field, or an author
// object without a name, reads "Unknown"; unusable shapes read "unknown".
func (a Author) Label() string {
	switch a.Kind {
	case AuthorRole, AuthorNamed:
		return Capitalize(a.Value)
	case AuthorAbsent, AuthorUnnamed:
		return "Unknown"
	default:
		return "unknown"
	}
}

// Message is a single message of a conversation
type Message struct {
	Author  Author
	Content Content
}

// Text returns the flattened content of the message
func (m Message) Text() string {
	return Flatten(m.Content)
}

// Capitalize upper-cases the first letter of s and lower-cases the rest
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}
