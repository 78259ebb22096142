// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation screen of the hania TUI.
package chat

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/haniahealth/hania-tui/internal/model"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update processes incoming messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state != StateSubmitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.updateViewport()
		return m, cmd

	case ReplyMsg:
		return m.handleReply(msg), nil

	case ReplyErrMsg:
		return m.handleReplyErr(msg), nil

	case LocationMsg:
		return m.handleLocation(msg), nil

	case ConfigReloadedMsg:
		return m.handleConfigReload(msg), nil
	}

	// Everything else belongs to the input field and the viewport.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

// handleResize relays out the chrome for the new terminal size.
func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	// Header, input row, and status bar take fixed rows; the viewport gets
	// the rest.
	chromeHeight := 6
	viewportHeight := msg.Height - chromeHeight
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	if !m.ready {
		m.viewport = newViewport(msg.Width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = viewportHeight
	}

	promptLen := len(m.input.Prompt)
	m.input.Width = msg.Width - 6 - promptLen

	m.markdown.SetWidth(m.bubbleWidth())
	m.updateViewport()
	return m
}

// handleReply resolves a successful submission. A reply whose placeholder
// is no longer in the log is stale (cancelled or cleared) and is dropped.
func (m Model) handleReply(msg ReplyMsg) Model {
	if !m.conversation.RemoveByID(msg.PlaceholderID) {
		m.logger.Debug("dropping stale reply", zap.String("placeholder_id", msg.PlaceholderID))
		return m
	}

	m.conversation.Append(model.NewAssistantMessage(msg.Reply.Text, msg.Reply.Citations))
	m.state = StateIdle
	m.cancelSubmit = nil

	m.updateViewport()
	m.viewport.GotoBottom()
	m.input.Focus()
	return m
}

// handleReplyErr resolves a failed submission with the network-error turn.
// Cancellation is not an error: the placeholder was already removed by
// cancelInFlight and the stale result is dropped.
func (m Model) handleReplyErr(msg ReplyErrMsg) Model {
	if errors.Is(msg.Err, context.Canceled) {
		m.conversation.RemoveByID(msg.PlaceholderID)
		return m
	}

	if !m.conversation.RemoveByID(msg.PlaceholderID) {
		m.logger.Debug("dropping stale error", zap.String("placeholder_id", msg.PlaceholderID))
		return m
	}

	m.logger.Warn("submission failed", zap.Error(msg.Err))

	m.conversation.Append(model.NewAssistantMessage(NetworkErrorMessage, nil))
	m.state = StateIdle
	m.cancelSubmit = nil

	m.updateViewport()
	m.viewport.GotoBottom()
	m.input.Focus()
	return m
}

// handleLocation records the startup lookup result. A config override set
// at construction wins over the network lookup.
func (m Model) handleLocation(msg LocationMsg) Model {
	if m.locationSet {
		return m
	}
	m.locationSet = true
	if msg.OK {
		coord := msg.Coordinate
		m.location = &coord
		m.logger.Debug("location bias active",
			zap.Float64("lat", coord.Latitude),
			zap.Float64("lon", coord.Longitude),
		)
	} else {
		m.logger.Debug("location unavailable, continuing without bias")
	}
	return m
}

// handleConfigReload applies presentation settings from a live config edit.
func (m Model) handleConfigReload(msg ConfigReloadedMsg) Model {
	if msg.Config == nil {
		return m
	}
	m.maxWebCitations = msg.Config.UI.MaxWebCitations
	m.compact = msg.Config.UI.CompactMode
	m.updateViewport()
	m.logger.Debug("config reloaded",
		zap.Int("max_web_citations", m.maxWebCitations),
	)
	return m
}
