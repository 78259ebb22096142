// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation screen of the hania TUI.
//
// This file defines the typed Bubble Tea messages that carry results of
// asynchronous work back into Update. Every remote outcome is keyed by the
// placeholder turn it resolves, so a stale result can never clobber a newer
// submission.
package chat

import (
	"github.com/haniahealth/hania-tui/internal/config"
	"github.com/haniahealth/hania-tui/internal/gemini"
	"github.com/haniahealth/hania-tui/internal/geo"
)

// =============================================================================
// REPLY MESSAGES
// =============================================================================

// ReplyMsg delivers a resolved assistant reply for an in-flight submission.
type ReplyMsg struct {
	// PlaceholderID names the pending turn this reply resolves.
	PlaceholderID string
	Reply         gemini.Reply
}

// NewReplyMsg creates a reply message for the given placeholder.
func NewReplyMsg(placeholderID string, reply gemini.Reply) ReplyMsg {
	return ReplyMsg{PlaceholderID: placeholderID, Reply: reply}
}

// ReplyErrMsg delivers a failed submission. The controller maps it to the
// network-error turn; the raw error is kept for logging only.
type ReplyErrMsg struct {
	PlaceholderID string
	Err           error
}

// NewReplyErrMsg creates an error message for the given placeholder.
func NewReplyErrMsg(placeholderID string, err error) ReplyErrMsg {
	return ReplyErrMsg{PlaceholderID: placeholderID, Err: err}
}

// =============================================================================
// LOCATION MESSAGES
// =============================================================================

// LocationMsg delivers the one-shot location lookup result. OK is false when
// the lookup failed; the conversation proceeds without location bias.
type LocationMsg struct {
	Coordinate geo.Coordinate
	OK         bool
}

// NewLocationMsg creates a location result message.
func NewLocationMsg(coord geo.Coordinate, ok bool) LocationMsg {
	return LocationMsg{Coordinate: coord, OK: ok}
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg announces that the configuration file changed on disk.
// Only presentation settings are picked up live; client settings apply on
// the next start.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// NewConfigReloadedMsg creates a config reload message.
func NewConfigReloadedMsg(cfg *config.Config) ConfigReloadedMsg {
	return ConfigReloadedMsg{Config: cfg}
}
