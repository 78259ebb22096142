// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and turns.
package model

import (
	"time"
)

// Greeting is the synthesized assistant turn shown at conversation start.
const Greeting = "Assalam-o-Alaikum! 🇵🇰 \n\nMain hoon **Hania**, aapki Medical Assistant.\n\nMain aapki zaban samajhti hoon. Aap mujh se **Urdu, English, Punjabi, Pashto, Sindhi, Saraiki** ya **Balochi** mein baat kar sakte hain.\n\n**Aap kis sheher se hain aur kis Doctor ko dhoond rahay hain?**\n\n*(I speak all Pakistani local languages. How can I help you today?)*"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the ordered message store for a chat session. Insertion
// order is display order. The store is owned and mutated exclusively by the
// conversation controller; the presentation layer only reads it.
//
// Invariants maintained by the controller: at most one pending turn exists at
// any time, and turn IDs are unique within the conversation.
type Conversation struct {
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Messages  []*Message `json:"messages"`
}

// HistoryEntry is one role/text pair of the outbound request projection.
type HistoryEntry struct {
	Role Role
	Text string
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
	}
}

// NewConversationWithGreeting creates a conversation seeded with the
// assistant greeting.
func NewConversationWithGreeting() *Conversation {
	conv := NewConversation()
	conv.Append(NewAssistantMessage(Greeting, nil))
	return conv
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a turn at the end of the store. A turn whose ID already exists
// is ignored; IDs must stay unique within a conversation.
func (c *Conversation) Append(msg *Message) {
	if msg == nil || c.GetMessageByID(msg.ID) != nil {
		return
	}
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// RemoveByID removes exactly one turn. Absent IDs are a silent no-op; the
// controller is the only caller and guarantees presence.
func (c *Conversation) RemoveByID(id string) bool {
	for i, msg := range c.Messages {
		if msg.ID == id {
			c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
			c.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// GetMessageByID returns a turn by its ID, or nil.
func (c *Conversation) GetMessageByID(id string) *Message {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// GetLastMessage returns the most recent turn, or nil if empty.
func (c *Conversation) GetLastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// GetLastAssistantMessage returns the most recent non-pending assistant turn.
func (c *Conversation) GetLastAssistantMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant && !c.Messages[i].Pending {
			return c.Messages[i]
		}
	}
	return nil
}

// PendingMessage returns the current placeholder turn, or nil when no
// request is outstanding.
func (c *Conversation) PendingMessage() *Message {
	for _, msg := range c.Messages {
		if msg.Pending {
			return msg
		}
	}
	return nil
}

// MessageCount returns the number of turns.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no turns.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// GetHistory returns the turns for display.
func (c *Conversation) GetHistory() []*Message {
	return c.Messages
}

// =============================================================================
// REQUEST PROJECTION
// =============================================================================

// SnapshotHistory returns the ordered role/text pairs of all non-pending
// turns. The controller captures this projection before appending the new
// user turn and its placeholder, so the history sent with a submission never
// includes the turn being answered.
func (c *Conversation) SnapshotHistory() []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(c.Messages))
	for _, msg := range c.Messages {
		if msg.Pending {
			continue
		}
		entries = append(entries, HistoryEntry{Role: msg.Role, Text: msg.Content})
	}
	return entries
}
