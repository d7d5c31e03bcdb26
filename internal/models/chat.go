package models

import "github.com/google/uuid"

// ChatMessage is one entry in the assistant conversation. Messages are
// append-only: once created they are never edited or removed.
type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	Timestamp Timestamp `json:"timestamp"`
}

// NewChatMessage creates a message stamped with the current time.
func NewChatMessage(text string, isUser bool) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Text:      text,
		IsUser:    isUser,
		Timestamp: Now(),
	}
}
