package history

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"

	apperrors "github.com/diogo/chatsearch/internal/errors"
	"github.com/diogo/chatsearch/internal/models"
)

// SearchMatch is a conversation selected for display, together with its
// extracted messages. Index is the position in the loaded list.
type SearchMatch struct {
	Index        int
	Title        string
	Conversation *models.Conversation
	Messages     []models.Message
}

// WrapPattern surrounds a user pattern with word boundaries so that it
// only matches whole-word occurrences
func WrapPattern(pattern string) string {
	return `\b` + pattern + `\b`
}

// CompilePattern trims and wraps a user pattern and compiles it case-insensitively
func CompilePattern(pattern string) (*regexp2.Regexp, error) {
	pattern = strings.TrimSpace(pattern)
	re, err := regexp2.Compile(WrapPattern(pattern), regexp2.IgnoreCase)
	if err != nil {
		return nil, apperrors.NewPatternError(pattern, err)
	}
	return re, nil
}

// IsBlankPattern reports whether a pattern means "no active filter"
func IsBlankPattern(pattern string) bool {
	return strings.TrimSpace(pattern) == ""
}

// SearchSummary describes a finished search for status lines
func SearchSummary(count int, pattern string) string {
	return fmt.Sprintf("Found %d conversations matching the regex '%s'.",
		count, WrapPattern(strings.TrimSpace(pattern)))
}

// ExtractMessages returns the messages of a conversation in mapping order,
// keeping only nodes whose message has content
func ExtractMessages(conv *models.Conversation) []models.Message {
	if conv == nil {
		return nil
	}
	return conv.Messages()
}

// NewMatch builds the match entry for the conversation at index
func NewMatch(index int, conv *models.Conversation) SearchMatch {
	return SearchMatch{
		Index:        index,
		Title:        conv.Title,
		Conversation: conv,
		Messages:     ExtractMessages(conv),
	}
}

// All returns every conversation as a match, in list order
func All(conversations []*models.Conversation) []SearchMatch {
	matches := make([]SearchMatch, len(conversations))
	for i, conv := range conversations {
		matches[i] = NewMatch(i, conv)
	}
	return matches
}

// Search returns the conversations with at least one message matching
// pattern as a whole word, ignoring case. Results keep list order.
//
// A blank pattern is not a filter: every conversation is returned and
// nothing is compiled. A pattern that does not compile yields a PatternError.
func Search(conversations []*models.Conversation, pattern string) ([]SearchMatch, error) {
	if IsBlankPattern(pattern) {
		return All(conversations), nil
	}

	re, err := CompilePattern(pattern)
	if err != nil {
		return nil, err
	}

	return searchWith(conversations, re)
}

func searchWith(conversations []*models.Conversation, re *regexp2.Regexp) ([]SearchMatch, error) {
	var matches []SearchMatch
	for i, conv := range conversations {
		if !conv.HasMapping {
			continue
		}

		messages := ExtractMessages(conv)
		for _, msg := range messages {
			found, err := re.MatchString(msg.Text())
			if err != nil {
				return nil, apperrors.NewPatternError(re.String(), err)
			}
			if found {
				matches = append(matches, SearchMatch{
					Index:        i,
					Title:        conv.Title,
					Conversation: conv,
					Messages:     messages,
				})
				break
			}
		}
	}
	return matches, nil
}
