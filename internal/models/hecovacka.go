package models

import "time"

// DefaultHecovackaType is applied when a message is sent without a type.
const DefaultHecovackaType = "motivačné"

// Hecovacka is a short taunting or motivational message posted to a group.
type Hecovacka struct {
	ID         string    `json:"id"`
	SenderName string    `json:"senderName"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`

	// Type is free text ("vtipné", "motivačné", ...).
	Type string `json:"type"`

	GroupID  string `json:"groupId,omitempty"`
	ToUserID string `json:"toUserId,omitempty"`
}
