package models

import "time"

// ChatSession is one conversation between a user and the booking agent.
type ChatSession struct {
	ID        string     `bson:"id" json:"id"`
	SessionID string     `bson:"session_id" json:"session_id"` // unique, shared with clients
	UserID    string     `bson:"user_id" json:"user_id"`
	IsActive  bool       `bson:"is_active" json:"is_active"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	EndedAt   *time.Time `bson:"ended_at,omitempty" json:"ended_at,omitempty"`
}

// Chat message roles.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleSystem    = "system"
)

// ChatMessage is one message in a chat session.
type ChatMessage struct {
	ID        string            `bson:"id" json:"id"`
	SessionID string            `bson:"session_id" json:"session_id"` // ChatSession.ID
	Role      string            `bson:"role" json:"role"`
	Content   string            `bson:"content" json:"content"`
	ExtraData map[string]string `bson:"extra_data,omitempty" json:"extra_data,omitempty"` // tool calls, booking refs
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
}
