// Package history loads, searches and formats exported chat history.
package history

import (
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	apperrors "github.com/diogo/chatsearch/internal/errors"
	"github.com/diogo/chatsearch/internal/models"
)

// maxTimestamp bounds create_time values that are kept as numbers.
// Larger magnitudes cannot be represented as a date and are treated as absent.
const maxTimestamp = 1 << 53

// Load reads an export file and returns its conversations sorted by creation time
func Load(path string) ([]*models.Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewLoadError(path, "", err)
	}

	conversations, err := Parse(data)
	if err != nil {
		if le, ok := err.(*apperrors.LoadError); ok {
			le.Path = path
		}
		return nil, err
	}

	return conversations, nil
}

// Parse decodes an export document. The document must be a JSON array;
// conversations are returned in ascending creation-time order, ties keeping
// their position in the array.
func Parse(data []byte) ([]*models.Conversation, error) {
	if !utf8.Valid(data) {
		return nil, apperrors.NewLoadError("", "invalid UTF-8", nil)
	}
	if !gjson.ValidBytes(data) {
		return nil, apperrors.NewLoadError("", "invalid JSON", nil)
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, apperrors.NewLoadError("", "expected a JSON array of conversations", nil)
	}

	conversations := make([]*models.Conversation, 0, 64)
	root.ForEach(func(_, value gjson.Result) bool {
		conversations = append(conversations, decodeConversation(value))
		return true
	})

	SortByCreateTime(conversations)
	return conversations, nil
}

// SortByCreateTime orders conversations by creation time, oldest first.
// Conversations without a timestamp sort as time 0.
func SortByCreateTime(conversations []*models.Conversation) {
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].CreateTime.SortKey() < conversations[j].CreateTime.SortKey()
	})
}

func decodeConversation(value gjson.Result) *models.Conversation {
	conv := &models.Conversation{Title: models.UnknownTitle}
	if !value.IsObject() {
		return conv
	}

	conv.Title = decodeTitle(field(value, "title"))
	conv.CreateTime = decodeTimestamp(field(value, "create_time"))

	mapping := field(value, "mapping")
	conv.HasMapping = mapping.Exists()
	if mapping.IsObject() {
		// ForEach walks object keys in document order. A repeated key keeps
		// the slot of its first occurrence and the value of its last.
		slots := make(map[string]int)
		mapping.ForEach(func(key, node gjson.Result) bool {
			id := key.String()
			if i, ok := slots[id]; ok {
				conv.Mapping[i] = decodeNode(id, node)
				return true
			}
			slots[id] = len(conv.Mapping)
			conv.Mapping = append(conv.Mapping, decodeNode(id, node))
			return true
		})
	}

	return conv
}

// field returns the last value stored under name in an object.
// gjson's Get stops at the first duplicate key.
func field(obj gjson.Result, name string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(key, value gjson.Result) bool {
		if key.String() == name {
			found = value
		}
		return true
	})
	return found
}

func decodeTitle(value gjson.Result) string {
	switch value.Type {
	case gjson.String:
		return value.Str
	case gjson.Null:
		return models.UnknownTitle
	default:
		return value.Raw
	}
}

func decodeTimestamp(value gjson.Result) models.Timestamp {
	switch value.Type {
	case gjson.Number:
		if math.Abs(value.Num) >= maxTimestamp {
			return models.Timestamp{}
		}
		return models.NewTimestamp(int64(math.Trunc(value.Num)))
	case gjson.String:
		seconds, err := strconv.ParseInt(strings.TrimSpace(value.Str), 10, 64)
		if err != nil || seconds >= maxTimestamp || seconds <= -maxTimestamp {
			return models.Timestamp{}
		}
		return models.NewTimestamp(seconds)
	default:
		return models.Timestamp{}
	}
}

func decodeNode(id string, value gjson.Result) models.Node {
	node := models.Node{ID: id}
	if !value.IsObject() {
		return node
	}

	message := field(value, "message")
	if !message.IsObject() {
		return node
	}

	content := field(message, "content")
	if !content.Exists() || content.Type == gjson.Null {
		return node
	}

	node.Message = &models.Message{
		Author:  decodeAuthor(field(message, "author")),
		Content: decodeContent(content),
	}
	return node
}

func decodeAuthor(value gjson.Result) models.Author {
	switch {
	case !value.Exists():
		return models.Author{Kind: models.AuthorAbsent}
	case value.Type == gjson.String:
		return models.Author{Kind: models.AuthorRole, Value: value.Str}
	case value.IsObject():
		name := field(value, "name")
		if !name.Exists() {
			return models.Author{Kind: models.AuthorUnnamed}
		}
		if name.Type == gjson.String {
			return models.Author{Kind: models.AuthorNamed, Value: name.Str}
		}
	}
	return models.Author{Kind: models.AuthorInvalid}
}

func decodeContent(value gjson.Result) models.Content {
	if value.Type == gjson.String {
		return models.TextContent(value.Str)
	}
	if !value.IsObject() {
		return models.OpaqueContent{}
	}

	parts := field(value, "parts")
	if !parts.IsArray() {
		return models.OpaqueContent{}
	}

	decoded := models.PartsContent{}
	parts.ForEach(func(_, part gjson.Result) bool {
		if part.Type == gjson.String || part.IsObject() {
			decoded = append(decoded, decodeContent(part))
		}
		return true
	})
	return decoded
}
