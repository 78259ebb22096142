// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/haniahealth/hania-tui/internal/config"
	"github.com/haniahealth/hania-tui/internal/gemini"
	"github.com/haniahealth/hania-tui/internal/geo"
	"github.com/haniahealth/hania-tui/internal/model"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

// stubResponder records the submission it received and returns a canned
// reply or error.
type stubResponder struct {
	history  []model.HistoryEntry
	message  string
	location *gemini.LatLng
	calls    int

	reply gemini.Reply
	err   error
}

func (s *stubResponder) Send(_ context.Context, history []model.HistoryEntry, message string, location *gemini.LatLng) (gemini.Reply, error) {
	s.calls++
	s.history = history
	s.message = message
	s.location = location
	return s.reply, s.err
}

type stubLocator struct {
	coord geo.Coordinate
	ok    bool
}

func (s stubLocator) Locate(context.Context) (geo.Coordinate, bool) {
	return s.coord, s.ok
}

func newTestModel(t *testing.T, responder Responder) Model {
	t.Helper()
	m := New(responder, stubLocator{}, config.Default(), nil)
	resized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return resized.(Model)
}

// runCmds executes a command tree synchronously and collects the messages.
func runCmds(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmds(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

// submitText types text into the model and presses enter.
func submitText(m Model, text string) (Model, tea.Cmd) {
	m.input.SetValue(text)
	return m.submitInput()
}

// =============================================================================
// SUBMISSION GUARDS
// =============================================================================

func TestSubmitRejectsEmptyInput(t *testing.T) {
	m := newTestModel(t, &stubResponder{})

	for _, input := range []string{"", "   ", "\t"} {
		got, cmd := submitText(m, input)
		if cmd != nil {
			t.Errorf("input %q produced a command", input)
		}
		if got.State() != StateIdle {
			t.Errorf("input %q changed state to %v", input, got.State())
		}
		if got.Conversation().MessageCount() != 1 {
			t.Errorf("input %q appended turns", input)
		}
	}
}

func TestSubmitRejectsWhileSubmitting(t *testing.T) {
	stub := &stubResponder{}
	m := newTestModel(t, stub)

	m, cmd := submitText(m, "bukhar hai")
	if cmd == nil {
		t.Fatal("first submission produced no command")
	}
	if m.State() != StateSubmitting {
		t.Fatalf("state = %v, want submitting", m.State())
	}
	countAfterFirst := m.Conversation().MessageCount()

	m2, cmd2 := submitText(m, "second message")
	if cmd2 != nil {
		t.Error("second submission produced a command while one is in flight")
	}
	if m2.Conversation().MessageCount() != countAfterFirst {
		t.Error("second submission appended turns while one is in flight")
	}
	// The rejected draft stays in the input.
	if m2.input.Value() != "second message" {
		t.Errorf("draft lost: %q", m2.input.Value())
	}
}

// =============================================================================
// SNAPSHOT ORDERING
// =============================================================================

func TestSubmitSnapshotExcludesNewTurns(t *testing.T) {
	stub := &stubResponder{reply: gemini.Reply{Text: "theek hai"}}
	m := newTestModel(t, stub)

	m, cmd := submitText(m, "dengue kya hai?")
	runCmds(cmd)

	if stub.calls != 1 {
		t.Fatalf("responder called %d times, want 1", stub.calls)
	}
	if stub.message != "dengue kya hai?" {
		t.Errorf("message = %q", stub.message)
	}
	// Only the greeting precedes the first submission.
	if len(stub.history) != 1 {
		t.Fatalf("history has %d entries, want 1 (greeting only)", len(stub.history))
	}
	if stub.history[0].Role != model.RoleAssistant {
		t.Error("history should start with the assistant greeting")
	}
	for _, entry := range stub.history {
		if entry.Text == "dengue kya hai?" {
			t.Error("submitted message leaked into the history snapshot")
		}
	}
}

func TestSubmitAppendsUserTurnAndPlaceholder(t *testing.T) {
	m := newTestModel(t, &stubResponder{})

	m, _ = submitText(m, "salaam")

	msgs := m.Conversation().GetHistory()
	if len(msgs) != 3 {
		t.Fatalf("conversation has %d turns, want 3", len(msgs))
	}
	if msgs[1].Role != model.RoleUser || msgs[1].Content != "salaam" {
		t.Error("user turn missing or wrong")
	}
	if !msgs[2].Pending {
		t.Error("placeholder turn missing")
	}
}

// =============================================================================
// REPLY RESOLUTION
// =============================================================================

func TestReplyReplacesPlaceholder(t *testing.T) {
	reply := gemini.Reply{
		Text: "Dengue ek viral bukhar hai.",
		Citations: []model.Citation{
			{Kind: model.CitationPlace, Title: "Mayo Hospital", URI: "https://maps/1"},
		},
	}
	m := newTestModel(t, &stubResponder{reply: reply})

	m, _ = submitText(m, "dengue?")
	placeholder := m.Conversation().PendingMessage()
	if placeholder == nil {
		t.Fatal("no placeholder after submit")
	}

	updated, _ := m.Update(NewReplyMsg(placeholder.ID, reply))
	m = updated.(Model)

	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle", m.State())
	}
	if m.Conversation().PendingMessage() != nil {
		t.Error("placeholder survived resolution")
	}
	last := m.Conversation().GetLastMessage()
	if last.Content != reply.Text {
		t.Errorf("last turn = %q", last.Content)
	}
	if len(last.Citations) != 1 {
		t.Errorf("citations = %d, want 1", len(last.Citations))
	}
}

func TestReplyErrAppendsNetworkErrorTurn(t *testing.T) {
	m := newTestModel(t, &stubResponder{err: errors.New("connection refused")})

	m, _ = submitText(m, "madad")
	placeholder := m.Conversation().PendingMessage()

	updated, _ := m.Update(NewReplyErrMsg(placeholder.ID, errors.New("connection refused")))
	m = updated.(Model)

	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle", m.State())
	}
	last := m.Conversation().GetLastMessage()
	if last.Content != NetworkErrorMessage {
		t.Errorf("last turn = %q, want the network error copy", last.Content)
	}
	if last.Role != model.RoleAssistant {
		t.Error("error turn must be an assistant turn")
	}
	// The user turn survives the failure.
	msgs := m.Conversation().GetHistory()
	if msgs[1].Content != "madad" {
		t.Error("user turn lost on failure")
	}
}

func TestStaleReplyDropped(t *testing.T) {
	m := newTestModel(t, &stubResponder{})

	m, _ = submitText(m, "pehla")
	placeholder := m.Conversation().PendingMessage()

	// User cancels; the placeholder goes away.
	m = m.cancelInFlight()
	count := m.Conversation().MessageCount()

	updated, _ := m.Update(NewReplyMsg(placeholder.ID, gemini.Reply{Text: "late"}))
	m = updated.(Model)

	if m.Conversation().MessageCount() != count {
		t.Error("stale reply appended a turn")
	}
}

func TestCancelRemovesPlaceholderKeepsUserTurn(t *testing.T) {
	m := newTestModel(t, &stubResponder{})

	m, _ = submitText(m, "ruk jao")
	m = m.cancelInFlight()

	if m.State() != StateIdle {
		t.Errorf("state = %v, want idle", m.State())
	}
	if m.Conversation().PendingMessage() != nil {
		t.Error("placeholder survived cancel")
	}
	last := m.Conversation().GetLastMessage()
	if last.Role != model.RoleUser || last.Content != "ruk jao" {
		t.Error("user turn should remain after cancel")
	}
}

func TestCanceledErrorDoesNotAppendErrorTurn(t *testing.T) {
	m := newTestModel(t, &stubResponder{})

	m, _ = submitText(m, "cancel test")
	placeholder := m.Conversation().PendingMessage()
	m = m.cancelInFlight()
	count := m.Conversation().MessageCount()

	updated, _ := m.Update(NewReplyErrMsg(placeholder.ID, context.Canceled))
	m = updated.(Model)

	if m.Conversation().MessageCount() != count {
		t.Error("cancellation appended an error turn")
	}
}

// =============================================================================
// QUICK ACTIONS
// =============================================================================

func TestQuickActionExpandsToPreparedQuery(t *testing.T) {
	stub := &stubResponder{}
	m := newTestModel(t, stub)

	m, cmd := submitText(m, "/heart")
	runCmds(cmd)

	want := "Find best Cardiologists near me with phone numbers and address."
	if stub.message != want {
		t.Errorf("message = %q, want expanded query", stub.message)
	}
	// The expanded query is what lands in the log too.
	if m.Conversation().GetHistory()[1].Content != want {
		t.Error("user turn should carry the expanded query")
	}
}

func TestUnknownCommandRejected(t *testing.T) {
	m := newTestModel(t, &stubResponder{})

	got, cmd := submitText(m, "/nonsense")
	if cmd != nil {
		t.Error("unknown command produced a command")
	}
	if got.Conversation().MessageCount() != 1 {
		t.Error("unknown command appended turns")
	}
	if got.statusMsg == "" {
		t.Error("unknown command should surface a status hint")
	}
}

func TestLookupQuickAction(t *testing.T) {
	tests := []struct {
		input string
		found bool
	}{
		{"/emergency", true},
		{"/HOSPITALS", true},
		{"  /skin  ", true},
		{"/heart attack", false},
		{"heart", false},
	}
	for _, tt := range tests {
		if _, ok := lookupQuickAction(tt.input); ok != tt.found {
			t.Errorf("lookupQuickAction(%q) found=%v, want %v", tt.input, ok, tt.found)
		}
	}
}

// =============================================================================
// LOCATION
// =============================================================================

func TestLocationMsgSetsBias(t *testing.T) {
	stub := &stubResponder{}
	m := newTestModel(t, stub)

	updated, _ := m.Update(NewLocationMsg(geo.Coordinate{Latitude: 31.5204, Longitude: 74.3587}, true))
	m = updated.(Model)

	if !m.LocationActive() {
		t.Fatal("location should be active")
	}

	m, cmd := submitText(m, "doctor kahan?")
	runCmds(cmd)

	if stub.location == nil {
		t.Fatal("location bias missing from request")
	}
	if stub.location.Latitude != 31.5204 || stub.location.Longitude != 74.3587 {
		t.Errorf("bias = %+v", stub.location)
	}
}

func TestLocationLookupFailureLeavesNoBias(t *testing.T) {
	stub := &stubResponder{}
	m := newTestModel(t, stub)

	updated, _ := m.Update(NewLocationMsg(geo.Coordinate{}, false))
	m = updated.(Model)

	if m.LocationActive() {
		t.Error("failed lookup must not activate location")
	}

	_, cmd := submitText(m, "hospital?")
	runCmds(cmd)
	if stub.location != nil {
		t.Error("request carried a bias after failed lookup")
	}
}

func TestConfigOverrideWinsOverLookup(t *testing.T) {
	cfg := config.Default()
	cfg.Location.Latitude = 24.8607
	cfg.Location.Longitude = 67.0011

	m := New(&stubResponder{}, stubLocator{}, cfg, nil)
	resized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = resized.(Model)

	updated, _ := m.Update(NewLocationMsg(geo.Coordinate{Latitude: 1, Longitude: 1}, true))
	m = updated.(Model)

	if m.location.Latitude != 24.8607 {
		t.Error("network lookup overwrote the config override")
	}
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func TestConfigReloadUpdatesCitationCap(t *testing.T) {
	m := newTestModel(t, &stubResponder{})

	cfg := config.Default()
	cfg.UI.MaxWebCitations = 7

	updated, _ := m.Update(NewConfigReloadedMsg(cfg))
	m = updated.(Model)

	if m.maxWebCitations != 7 {
		t.Errorf("maxWebCitations = %d, want 7", m.maxWebCitations)
	}
}

// =============================================================================
// VIEW SMOKE TESTS
// =============================================================================

func TestViewRendersCoreChrome(t *testing.T) {
	m := newTestModel(t, &stubResponder{})

	out := m.View()
	for _, want := range []string{"Hania", "MEDICAL EMERGENCY", "Location Off", "System Online"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewShowsThinkingWhileSubmitting(t *testing.T) {
	m := newTestModel(t, &stubResponder{})
	m, _ = submitText(m, "dard hai")

	if !strings.Contains(m.renderThread(), ThinkingLabel) {
		t.Error("thread missing the thinking row while submitting")
	}
}

func TestViewShowsQuickServicesOnFreshConversation(t *testing.T) {
	m := newTestModel(t, &stubResponder{})

	thread := m.renderThread()
	if !strings.Contains(thread, quickServicesHeading) {
		t.Error("fresh conversation missing quick services panel")
	}
	if !strings.Contains(thread, "/emergency") {
		t.Error("quick services panel missing commands")
	}

	m, _ = submitText(m, "salaam")
	if strings.Contains(m.renderThread(), quickServicesHeading) {
		t.Error("quick services panel should disappear after the first turn")
	}
}
