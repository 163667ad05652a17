package history

import (
	"time"

	"go.uber.org/zap"

	apperrors "github.com/diogo/chatsearch/internal/errors"
	"github.com/diogo/chatsearch/internal/models"
)

// Session owns the currently loaded export. A successful load replaces the
// document wholesale; a failed load leaves it untouched.
type Session struct {
	path          string
	conversations []*models.Conversation
	loaded        bool
	logger        *zap.Logger
}

// NewSession creates an empty session
func NewSession(logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{logger: logger}
}

// Load reads path and, on success, makes it the current document
func (s *Session) Load(path string) error {
	start := time.Now()

	conversations, err := Load(path)
	if err != nil {
		s.logger.Debug("load failed, keeping previous document",
			zap.String("path", path),
			zap.String("previous", s.path),
			zap.Error(err))
		return err
	}

	s.Replace(path, conversations)
	s.logger.Debug("loaded export",
		zap.String("path", path),
		zap.Int("conversations", len(conversations)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// Replace installs an already-parsed document
func (s *Session) Replace(path string, conversations []*models.Conversation) {
	s.path = path
	s.conversations = conversations
	s.loaded = true
}

// Loaded reports whether a document has been loaded
func (s *Session) Loaded() bool {
	return s.loaded
}

// Path returns the path of the current document
func (s *Session) Path() string {
	return s.path
}

// Conversations returns the current conversations in display order
func (s *Session) Conversations() []*models.Conversation {
	return s.conversations
}

// All returns the unfiltered listing
func (s *Session) All() []SearchMatch {
	return All(s.conversations)
}

// Search filters the current document. A blank pattern returns the
// unfiltered listing.
func (s *Session) Search(pattern string) ([]SearchMatch, error) {
	if !s.loaded {
		return nil, apperrors.ErrNotLoaded
	}

	start := time.Now()
	matches, err := Search(s.conversations, pattern)
	if err != nil {
		s.logger.Debug("search rejected", zap.String("pattern", pattern), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("search finished",
		zap.String("pattern", pattern),
		zap.Bool("filtered", !IsBlankPattern(pattern)),
		zap.Int("matches", len(matches)),
		zap.Duration("elapsed", time.Since(start)))
	return matches, nil
}

// Match returns the entry at index of the current document
func (s *Session) Match(index int) (SearchMatch, bool) {
	if index < 0 || index >= len(s.conversations) {
		return SearchMatch{}, false
	}
	return NewMatch(index, s.conversations[index]), true
}

// Resolve returns the entry a reference such as "@last" or "3" names
func (s *Session) Resolve(ref string) (SearchMatch, error) {
	index, err := NewResolver(s.conversations).Resolve(ref)
	if err != nil {
		return SearchMatch{}, err
	}
	m, _ := s.Match(index)
	return m, nil
}
