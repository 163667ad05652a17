package models

import "time"

// UnknownTitle is shown for conversations without a usable title
const UnknownTitle = "Unknown"

// Timestamp is an optional creation time in whole seconds since the epoch
type Timestamp struct {
	Seconds int64
	Valid   bool
}

// NewTimestamp returns a valid timestamp
func NewTimestamp(seconds int64) Timestamp {
	return Timestamp{Seconds: seconds, Valid: true}
}

// SortKey returns the value used to order conversations; absent timestamps sort as 0
func (t Timestamp) SortKey() int64 {
	if !t.Valid {
		return 0
	}
	return t.Seconds
}

// Time returns the timestamp in local time. The second result is false
// when the timestamp is absent or outside the range of four-digit years.
func (t Timestamp) Time() (time.Time, bool) {
	if !t.Valid {
		return time.Time{}, false
	}
	tm := time.Unix(t.Seconds, 0).Local()
	if tm.Year() < 1 || tm.Year() > 9999 {
		return time.Time{}, false
	}
	return tm, true
}

// Node is an entry of a conversation mapping
type Node struct {
	ID      string
	Message *Message // nil when the node carries no usable message
}

// Conversation is one element of the export array
type Conversation struct {
	Title      string
	CreateTime Timestamp

	// Mapping keeps the nodes in document order
	Mapping []Node

	// HasMapping is false when the "mapping" field is missing entirely
	HasMapping bool
}

// Messages returns the messages of the mapping in mapping order
func (c *Conversation) Messages() []Message {
	var messages []Message
	for _, node := range c.Mapping {
		if node.Message != nil {
			messages = append(messages, *node.Message)
		}
	}
	return messages
}
