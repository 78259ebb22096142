// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and turns.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Hania"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single turn in a conversation.
//
// A turn is created in one of four ways: as the synthesized greeting, as an
// immutable user submission, as a pending placeholder while a remote request
// is outstanding, or as the resolved assistant reply that replaces the
// placeholder. Placeholders are removed and replaced, never edited in place.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content is opaque text; assistant turns may carry lightweight markdown
	// interpreted by the presentation layer only.
	Content string `json:"content"`

	// Pending marks a placeholder turn with no content yet.
	Pending bool `json:"pending,omitempty"`

	// Citations are only ever attached to assistant turns.
	Citations []Citation `json:"citations,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user turn.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant turn carrying a resolved reply.
// Unusable citations are dropped before attachment.
func NewAssistantMessage(content string, citations []Citation) *Message {
	msg := NewMessage(RoleAssistant, content)
	msg.Citations = FilterUsable(citations)
	return msg
}

// NewPendingMessage creates a placeholder assistant turn for an in-flight
// request. It carries no content and is later removed by ID.
func NewPendingMessage() *Message {
	return &Message{
		ID:        generateID(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
		Pending:   true,
	}
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen < 4 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// generateID creates a unique turn ID. IDs only need to be collision-safe
// within a session; a random UUID comfortably covers that.
func generateID() string {
	return "turn_" + uuid.NewString()
}
