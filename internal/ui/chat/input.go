// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation screen of the hania TUI.
//
// This file handles input submission. The ordering here is load-bearing:
// the outbound history snapshot is taken before the user turn and the
// placeholder are appended, so the new message rides the request exactly
// once and the placeholder never leaks into the projection.
package chat

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/haniahealth/hania-tui/internal/model"
)

// =============================================================================
// SUBMISSION
// =============================================================================

// submitInput validates and submits the current input field contents.
func (m Model) submitInput() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())

	// Empty submissions are rejected without any state change.
	if text == "" {
		return m, nil
	}

	// One request at a time. The input keeps its draft so nothing is lost.
	if m.state == StateSubmitting {
		m.statusMsg = "Please wait, request in progress"
		return m, nil
	}

	// Slash commands expand to their prepared query.
	if strings.HasPrefix(text, "/") {
		action, ok := lookupQuickAction(text)
		if !ok {
			if strings.EqualFold(text, "/help") {
				m.showHelp = true
				m.input.Reset()
				return m, nil
			}
			m.statusMsg = "Unknown command (try /help)"
			return m, nil
		}
		text = action.Query
	}

	return m.submit(text)
}

// submit runs the submission pipeline for an already-validated message.
func (m Model) submit(text string) (Model, tea.Cmd) {
	// Snapshot before appending: the request carries the prior turns as
	// history and the new text as the message.
	history := m.conversation.SnapshotHistory()

	m.conversation.Append(model.NewUserMessage(text))
	placeholder := model.NewPendingMessage()
	m.conversation.Append(placeholder)

	m.input.Reset()
	m.state = StateSubmitting
	m.statusMsg = ""

	m.updateViewport()
	m.viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelSubmit = cancel

	m.logger.Debug("submitting message",
		zap.Int("history_turns", len(history)),
		zap.Bool("location_bias", m.location != nil),
	)

	return m, tea.Batch(
		m.sendCmd(ctx, history, text, placeholder.ID),
		m.spinner.Tick,
	)
}

// sendCmd resolves the submission off the UI goroutine and reports back
// with a ReplyMsg or ReplyErrMsg keyed by the placeholder.
func (m Model) sendCmd(ctx context.Context, history []model.HistoryEntry, text, placeholderID string) tea.Cmd {
	responder := m.responder
	location := m.locationBias()
	return func() tea.Msg {
		reply, err := responder.Send(ctx, history, text, location)
		if err != nil {
			return NewReplyErrMsg(placeholderID, err)
		}
		return NewReplyMsg(placeholderID, reply)
	}
}

// locateCmd runs the one-shot startup location lookup.
func (m Model) locateCmd() tea.Cmd {
	locator := m.locator
	return func() tea.Msg {
		coord, ok := locator.Locate(context.Background())
		return NewLocationMsg(coord, ok)
	}
}
