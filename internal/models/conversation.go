// ABOUTME: Conversation and Message model the persisted chat log
// ABOUTME: Messages are append-only and ordered by creation time
package models

import (
	"fmt"
	"time"
)

// Conversation groups the messages of one chat thread for a single owner
type Conversation struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Role identifies the author of a message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ParseRole validates a role name
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown message role %q", ErrInvalidFormat, s)
	}
}

// Message is a single chat turn. Never mutated after creation.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	UserID         int64     `json:"user_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
