package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ProfileRecord is a stored profile: the full JSON document keyed by user.
type ProfileRecord struct {
	UserID    string
	Payload   []byte
	UpdatedAt time.Time
}

// Interaction is one chat turn: the user message, the enriched prompt sent
// upstream, and the outcome.
type Interaction struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UserID         string    `json:"user_id"`
	SessionID      string    `json:"session_id,omitempty"`
	UserMessage    string    `json:"user_message"`
	EnrichedPrompt string    `json:"enriched_prompt,omitempty"`
	Model          string    `json:"model,omitempty"`
	Response       string    `json:"response,omitempty"`
	Status         string    `json:"status"`
}

// ProfileStats summarizes the persisted profile table.
type ProfileStats struct {
	Count      int
	TotalBytes int64
}
