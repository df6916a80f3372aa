package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageRole identifies who authored a conversation message.
type MessageRole string

const (
	MessageRoleUser MessageRole = "user"
	MessageRoleBot  MessageRole = "bot"
)

// ConversationStatus represents the lifecycle of a conversation.
type ConversationStatus string

const (
	ConversationStatusActive ConversationStatus = "active"
	ConversationStatusSaved  ConversationStatus = "saved"
)

// Conversation is one voice-capture session. Topic is derived from the
// message log, never entered directly.
type Conversation struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	Topic         string             `json:"topic"`
	Status        ConversationStatus `json:"status"`
	LastMessageAt time.Time          `json:"last_message_at"`
	CreatedAt     time.Time          `json:"created_at"`
}

// Message is a single entry in a conversation transcript.
type Message struct {
	ID             uuid.UUID   `json:"id"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	Role           MessageRole `json:"role"`
	Content        string      `json:"content"`
	CreatedAt      time.Time   `json:"created_at"`
}
