// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and turns.
//
// This package defines the core domain types used throughout the application
// for representing a chat session and the citations attached to assistant
// replies.
//
// # Key Types
//
//   - Conversation: ordered message store for a chat session
//   - Message: single turn with role, content, timestamp, and citations
//   - Citation: place or web source reference returned with a reply
//   - Role: turn author enumeration (user, assistant)
//
// # Usage
//
// Create a conversation seeded with the greeting:
//
//	conv := model.NewConversationWithGreeting()
//	conv.Append(model.NewUserMessage("Find a cardiologist in Lahore"))
//
// Project the history for an outbound request:
//
//	history := conv.SnapshotHistory()
package model
