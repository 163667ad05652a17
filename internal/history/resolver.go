package history

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/diogo/chatsearch/internal/errors"
	"github.com/diogo/chatsearch/internal/models"
)

// Resolver resolves user-friendly references to entries of a loaded export
type Resolver struct {
	conversations []*models.Conversation
}

// NewResolver creates a new reference resolver
func NewResolver(conversations []*models.Conversation) *Resolver {
	return &Resolver{conversations: conversations}
}

// Resolve converts a user-friendly reference to an entry number
//
// Supported references:
//   - "@first" - oldest conversation (entry 0)
//   - "@last" - newest conversation
//   - "0", "1", "2" - by entry number, as shown in listings
//   - "substring" - case-insensitive match on title (error if multiple matches)
func (r *Resolver) Resolve(ref string) (int, error) {
	ref = strings.TrimSpace(ref)

	if ref == "" {
		return 0, apperrors.NewResolveError(ref, "empty reference")
	}

	if len(r.conversations) == 0 {
		return 0, apperrors.NewResolveError(ref, "no conversations loaded")
	}

	switch strings.ToLower(ref) {
	case "@first":
		return 0, nil
	case "@last":
		return len(r.conversations) - 1, nil
	}

	if index, err := strconv.Atoi(ref); err == nil {
		if index < 0 || index >= len(r.conversations) {
			return 0, apperrors.NewResolveError(ref,
				fmt.Sprintf("entry %d out of range (0-%d)", index, len(r.conversations)-1))
		}
		return index, nil
	}

	refLower := strings.ToLower(ref)
	var matches []int
	for i, conv := range r.conversations {
		if strings.Contains(strings.ToLower(conv.Title), refLower) {
			matches = append(matches, i)
		}
	}

	switch len(matches) {
	case 0:
		return 0, apperrors.NewResolveError(ref, fmt.Sprintf("no conversation matching '%s'", ref))
	case 1:
		return matches[0], nil
	default:
		var titles []string
		for _, i := range matches {
			titles = append(titles, fmt.Sprintf("%d '%s'", i, r.conversations[i].Title))
		}
		return 0, apperrors.NewAmbiguousError(ref,
			fmt.Sprintf("%d conversations match: %s", len(matches), strings.Join(titles, ", ")))
	}
}

// ListAliases returns information about supported references
func ListAliases() string {
	return `Supported references:
  @first         Oldest conversation
  @last          Newest conversation
  0, 1, 2        By entry number (as shown by 'list')
  "text"         Search by title substring`
}
