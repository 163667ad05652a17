// Package errors provides custom error types for chatsearch.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrLoadFailed     = errors.New("failed to load file")
	ErrInvalidPattern = errors.New("invalid search pattern")
	ErrNotLoaded      = errors.New("no file loaded")
	ErrNotFound       = errors.New("conversation not found")
	ErrAmbiguous      = errors.New("ambiguous conversation reference")
	ErrExportFailed   = errors.New("export failed")
)

// LoadError represents a failure to read or decode an export file
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Path == "" {
		return fmt.Sprintf("failed to load file: %s", msg)
	}
	return fmt.Sprintf("failed to load file %s: %s", e.Path, msg)
}

// Unwrap returns the underlying error
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *LoadError) Is(target error) bool {
	if target == ErrLoadFailed {
		return true
	}
	_, ok := target.(*LoadError)
	return ok
}

// NewLoadError creates a new LoadError
func NewLoadError(path, message string, err error) *LoadError {
	return &LoadError{Path: path, Message: message, Err: err}
}

// PatternError represents a search pattern that does not compile
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid regex %q", e.Pattern)
	}
	return fmt.Sprintf("invalid regex %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error
func (e *PatternError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *PatternError) Is(target error) bool {
	if target == ErrInvalidPattern {
		return true
	}
	_, ok := target.(*PatternError)
	return ok
}

// NewPatternError creates a new PatternError
func NewPatternError(pattern string, err error) *PatternError {
	return &PatternError{Pattern: pattern, Err: err}
}

// ResolveError represents a conversation reference that cannot be resolved
type ResolveError struct {
	Ref     string
	Message string
	// Ambiguous is set when more than one conversation matched the reference
	Ambiguous bool
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("cannot resolve %q: %s", e.Ref, e.Message)
}

// Is allows comparison with sentinel errors
func (e *ResolveError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return !e.Ambiguous
	case ErrAmbiguous:
		return e.Ambiguous
	}
	_, ok := target.(*ResolveError)
	return ok
}

// NewResolveError creates a new ResolveError for a reference that matched nothing
func NewResolveError(ref, message string) *ResolveError {
	return &ResolveError{Ref: ref, Message: message}
}

// NewAmbiguousError creates a new ResolveError for a reference matching several conversations
func NewAmbiguousError(ref, message string) *ResolveError {
	return &ResolveError{Ref: ref, Message: message, Ambiguous: true}
}

// ExportError represents a failure while exporting a conversation
type ExportError struct {
	Format string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export to %s failed: %v", e.Format, e.Err)
}

// Unwrap returns the underlying error
func (e *ExportError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *ExportError) Is(target error) bool {
	return target == ErrExportFailed
}

// NewExportError creates a new ExportError
func NewExportError(format string, err error) *ExportError {
	return &ExportError{Format: format, Err: err}
}

// IsLoadError reports whether err is, or wraps, a LoadError
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// IsPatternError reports whether err is, or wraps, a PatternError
func IsPatternError(err error) bool {
	var pe *PatternError
	return errors.As(err, &pe)
}

// IsResolveError reports whether err is, or wraps, a ResolveError
func IsResolveError(err error) bool {
	var re *ResolveError
	return errors.As(err, &re)
}

// Hint returns a short suggestion for the user based on the error type
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case IsLoadError(err):
		return "Check that the path points to the conversations.json file of a chat export"
	case IsPatternError(err):
		return "The search text is a regular expression; escape characters such as ( [ * + ? with a backslash"
	case errors.Is(err, ErrAmbiguous):
		return "Use the entry number shown by 'chatsearch list' instead of a title"
	case errors.Is(err, ErrNotLoaded):
		return "Please load a JSON file first"
	}
	return ""
}
