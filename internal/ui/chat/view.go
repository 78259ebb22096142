// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation screen of the hania TUI.
//
// This file renders the screen: header with the location badge, the
// scrollable thread, the quick-services panel on a fresh conversation, the
// input row, and the status bar.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/haniahealth/hania-tui/internal/model"
	"github.com/haniahealth/hania-tui/internal/ui/components"
)

// =============================================================================
// HEADER STRINGS
// =============================================================================

const (
	headerTitle    = "Hania"
	headerSubtitle = "MEDICAL EMERGENCY"

	locationActiveBadge   = "Location Active"
	locationInactiveBadge = "Location Off"

	quickServicesHeading = "Quick Services"
	statusOnlineLabel    = "System Online"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the full chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Starting hania..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	header := m.renderHeader()
	input := m.renderInput()
	status := m.renderStatusBar()

	// The viewport absorbs whatever the chrome leaves over.
	chrome := lipgloss.Height(header) + lipgloss.Height(input) + lipgloss.Height(status)
	bodyHeight := m.height - chrome
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	if m.viewport.Height != bodyHeight {
		m.viewport.Height = bodyHeight
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		input,
		status,
	)
}

// =============================================================================
// HEADER
// =============================================================================

// renderHeader renders the brand row with the location badge on the right.
func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render(headerTitle)
	subtitle := m.theme.HeaderSubtitle.Render(headerSubtitle)
	left := title + " " + subtitle

	var badge string
	if m.LocationActive() {
		badge = m.theme.LocationActive.Render("● " + locationActiveBadge)
	} else {
		badge = m.theme.LocationInactive.Render("○ " + locationInactiveBadge)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(badge) - 2
	if gap < 1 {
		gap = 1
	}

	return m.theme.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + badge)
}

// =============================================================================
// THREAD
// =============================================================================

// newViewport builds the thread viewport with mouse wheel enabled.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return vp
}

// updateViewport rebuilds the thread content. Called whenever a turn is
// added or removed, the spinner advances, or presentation settings change.
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderThread())
}

// bubbleWidth is the content width available inside a message bubble.
func (m Model) bubbleWidth() int {
	w := m.width - 10
	if w < 20 {
		w = 20
	}
	return w
}

// renderThread renders all turns top to bottom, oldest first.
func (m Model) renderThread() string {
	var blocks []string

	for _, msg := range m.conversation.GetHistory() {
		switch {
		case msg.Pending:
			blocks = append(blocks, m.renderThinking())
		case msg.Role == model.RoleUser:
			blocks = append(blocks, m.renderUserMessage(msg))
		default:
			blocks = append(blocks, m.renderAssistantMessage(msg))
		}
	}

	// A fresh conversation shows the quick-services panel under the
	// greeting.
	if m.conversation.MessageCount() == 1 {
		blocks = append(blocks, m.renderQuickActions())
	}

	var sep string
	if !m.compact {
		sep = "\n"
	}
	return strings.Join(blocks, "\n"+sep)
}

// renderUserMessage renders a user turn as a right-aligned bubble.
func (m Model) renderUserMessage(msg *model.Message) string {
	bubble := m.theme.UserBubble.MaxWidth(m.bubbleWidth()).Render(msg.Content)

	// Push the bubble to the right edge.
	margin := m.width - lipgloss.Width(bubble) - 2
	if margin < 0 {
		margin = 0
	}
	return lipgloss.NewStyle().MarginLeft(margin).Render(bubble)
}

// renderAssistantMessage renders an assistant turn: markdown body plus the
// citation block when the reply carries one.
func (m Model) renderAssistantMessage(msg *model.Message) string {
	body := m.markdown.Render(msg.Content)
	bubble := m.theme.AssistantBubble.MaxWidth(m.bubbleWidth()).Render(body)

	if len(msg.Citations) == 0 {
		return bubble
	}

	citations := components.CitationList{
		Theme:     m.theme,
		Citations: msg.Citations,
		MaxWidth:  m.bubbleWidth(),
		MaxWeb:    m.maxWebCitations,
	}.Render()
	if citations == "" {
		return bubble
	}

	return lipgloss.JoinVertical(lipgloss.Left, bubble, citations)
}

// renderThinking renders the in-flight placeholder row.
func (m Model) renderThinking() string {
	return m.spinner.View() + " " + m.theme.ThinkingText.Render(ThinkingLabel)
}

// renderQuickActions renders the quick-services panel.
func (m Model) renderQuickActions() string {
	var b strings.Builder
	b.WriteString(m.theme.QuickHeading.Render(quickServicesHeading))
	b.WriteString("\n")
	for _, action := range QuickActions() {
		b.WriteString(m.theme.QuickChip.Render(action.Command))
		b.WriteString(" ")
		b.WriteString(m.theme.QuickDesc.Render(action.Label))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// =============================================================================
// INPUT ROW
// =============================================================================

// renderInput renders the input field inside its bordered container.
func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width).Render(m.input.View())
}

// =============================================================================
// STATUS BAR
// =============================================================================

// renderStatusBar renders the online indicator, any transient status text,
// and the short key hints.
func (m Model) renderStatusBar() string {
	left := m.theme.StatusOnline.Render("● " + statusOnlineLabel)
	if m.statusMsg != "" {
		left += m.theme.ShortcutDesc.Render("  " + m.statusMsg)
	}

	var hints []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints,
			m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}
	right := strings.Join(hints, "  ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// =============================================================================
// HELP OVERLAY
// =============================================================================

// renderHelp renders the full-screen help overlay.
func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.HelpTitle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, item := range GetHelpItems() {
		b.WriteString(m.theme.HelpKey.Render(item.Key))
		b.WriteString(m.theme.HelpDesc.Render(item.Desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.HelpTitle.Render("Quick Services"))
	b.WriteString("\n\n")
	for _, action := range QuickActions() {
		b.WriteString(m.theme.HelpKey.Render(action.Command))
		b.WriteString(m.theme.HelpDesc.Render(action.Label))
		b.WriteString("\n")
	}

	box := m.theme.HelpBox.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
