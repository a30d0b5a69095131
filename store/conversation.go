package store

import (
	"encoding/json"
	"time"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ToolInvocation is one structured action request emitted by the model and
// executed by the chat engine. Result is attached after execution; a persisted
// invocation without a result is a protocol violation.
type ToolInvocation struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Input  json.RawMessage `json:"input"`
	Result string          `json:"result,omitempty"`
}

// Message is a single chat message. Immutable once created; appended-only.
type Message struct {
	ID              string           `json:"id"`
	Role            string           `json:"role"`
	Content         string           `json:"content"`
	Timestamp       time.Time        `json:"timestamp"`
	ToolInvocations []ToolInvocation `json:"tool_invocations,omitempty"`
}

// Conversation is a single chat thread, owned exclusively by one user.
// Messages are stored as one JSON column; the whole list is rewritten on
// every turn.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	UpdatedTs int64     `json:"updated_ts"`
}

// FindConversation filters for Get/ListConversations.
type FindConversation struct {
	ID     *string
	UserID *string
}
