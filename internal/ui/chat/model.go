// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation screen of the hania TUI.
package chat

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/haniahealth/hania-tui/internal/config"
	"github.com/haniahealth/hania-tui/internal/gemini"
	"github.com/haniahealth/hania-tui/internal/geo"
	"github.com/haniahealth/hania-tui/internal/model"
	"github.com/haniahealth/hania-tui/internal/ui/components"
	"github.com/haniahealth/hania-tui/internal/ui/styles"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// NetworkErrorMessage is the assistant turn shown when a submission
	// fails in transit. User-facing copy, matched by the mobile apps.
	NetworkErrorMessage = "Network Error: Internet check karein aur dobara try karein."

	// ThinkingLabel sits next to the spinner while a request is in flight.
	ThinkingLabel = "Connecting to Database..."

	// InputPlaceholder is the empty-input hint.
	InputPlaceholder = "Yahan likhein... (e.g. Dil ka doctor kahan hai?)"

	// MaxInputLength caps a single submission.
	MaxInputLength = 4096
)

// =============================================================================
// STATE MACHINE
// =============================================================================

// State represents the submission state of the conversation.
type State int

const (
	// StateIdle means no request is in flight; input submits.
	StateIdle State = iota
	// StateSubmitting means a request is outstanding; input is rejected.
	StateSubmitting
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Responder resolves one chat submission against the remote service.
// *gemini.Client satisfies it; tests substitute a stub.
type Responder interface {
	Send(ctx context.Context, history []model.HistoryEntry, message string, location *gemini.LatLng) (gemini.Reply, error)
}

// Locator performs the one-shot best-effort location lookup.
// *geo.Provider satisfies it.
type Locator interface {
	Locate(ctx context.Context) (geo.Coordinate, bool)
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	// Dependencies
	responder Responder
	locator   Locator
	logger    *zap.Logger

	// Visual styling
	theme *styles.Theme

	// Terminal dimensions
	width  int
	height int

	// Conversation state
	state        State
	conversation *model.Conversation

	// Location bias, set once by the startup lookup or a config override.
	location    *geo.Coordinate
	locationSet bool

	// cancelSubmit aborts the in-flight request. Nil while Idle.
	cancelSubmit context.CancelFunc

	// Presentation settings, refreshed on config reload.
	maxWebCitations int
	compact         bool

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	markdown *components.MarkdownRenderer
	keys     KeyMap

	// Overlays
	showHelp  bool
	statusMsg string
	ready     bool
}

// New creates a new chat model wired to the given responder and locator.
func New(responder Responder, locator Locator, cfg *config.Config, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	theme := styles.NewTheme()

	ti := textinput.New()
	ti.Placeholder = InputPlaceholder
	ti.Prompt = "> "
	ti.CharLimit = MaxInputLength
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 8,
	}
	sp.Style = theme.Spinner

	m := Model{
		responder:       responder,
		locator:         locator,
		logger:          logger,
		theme:           theme,
		state:           StateIdle,
		conversation:    model.NewConversationWithGreeting(),
		maxWebCitations: config.Default().UI.MaxWebCitations,
		input:           ti,
		spinner:         sp,
		markdown:        components.NewMarkdownRenderer(80),
		keys:            DefaultKeyMap(),
	}

	if cfg != nil {
		m.maxWebCitations = cfg.UI.MaxWebCitations
		m.compact = cfg.UI.CompactMode
		if cfg.HasLocationOverride() {
			coord := geo.Coordinate{
				Latitude:  cfg.Location.Latitude,
				Longitude: cfg.Location.Longitude,
			}
			m.location = &coord
			m.locationSet = true
		}
	}

	return m
}

// Init starts the cursor blink, the spinner, and the location lookup.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}
	if !m.locationSet && m.locator != nil {
		cmds = append(cmds, m.locateCmd())
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the current submission state.
func (m Model) State() State {
	return m.state
}

// Conversation exposes the turn log for rendering and tests.
func (m Model) Conversation() *model.Conversation {
	return m.conversation
}

// LocationActive reports whether a location bias is attached to requests.
func (m Model) LocationActive() bool {
	return m.location != nil
}

// locationBias converts the stored coordinate to the wire type.
func (m Model) locationBias() *gemini.LatLng {
	if m.location == nil {
		return nil
	}
	return &gemini.LatLng{
		Latitude:  m.location.Latitude,
		Longitude: m.location.Longitude,
	}
}

// =============================================================================
// KEY HANDLING
// =============================================================================

// handleKey processes a key press. Global bindings win over input editing.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		if m.state == StateSubmitting {
			return m.cancelInFlight(), nil
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		return m.resetConversation(), nil

	case key.Matches(msg, m.keys.Copy):
		return m.copyLastReply(), nil

	case key.Matches(msg, m.keys.Submit):
		return m.submitInput()
	}

	if cmd, handled := m.handleNavigationKeys(msg); handled {
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(nil)
		return m, tea.Batch(cmd, vpCmd)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleNavigationKeys processes viewport scrolling. Returns handled=false
// for keys that belong to the text input.
func (m *Model) handleNavigationKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return nil, true
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return nil, true
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return nil, true
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return nil, true
	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()
		return nil, true
	case key.Matches(msg, m.keys.End):
		m.viewport.GotoBottom()
		return nil, true
	}
	return nil, false
}

// =============================================================================
// ACTIONS
// =============================================================================

// cancelInFlight aborts the outstanding request and drops its placeholder.
// The canceled submission leaves the user turn in the log.
func (m Model) cancelInFlight() Model {
	if m.cancelSubmit != nil {
		m.cancelSubmit()
		m.cancelSubmit = nil
	}
	if pending := m.conversation.PendingMessage(); pending != nil {
		m.conversation.RemoveByID(pending.ID)
	}
	m.state = StateIdle
	m.statusMsg = "Request cancelled"
	m.updateViewport()
	m.logger.Debug("submission cancelled by user")
	return m
}

// resetConversation discards the turn log and starts over with the greeting.
// Ignored while a request is in flight.
func (m Model) resetConversation() Model {
	if m.state == StateSubmitting {
		return m
	}
	m.conversation = model.NewConversationWithGreeting()
	m.statusMsg = ""
	m.updateViewport()
	m.viewport.GotoTop()
	return m
}

// copyLastReply copies the newest resolved assistant turn to the clipboard.
func (m Model) copyLastReply() Model {
	last := m.conversation.GetLastAssistantMessage()
	if last == nil {
		m.statusMsg = "Nothing to copy"
		return m
	}
	if err := clipboard.WriteAll(last.Content); err != nil {
		m.statusMsg = "Copy failed"
		m.logger.Debug("clipboard write failed", zap.Error(err))
		return m
	}
	m.statusMsg = "Reply copied"
	return m
}
