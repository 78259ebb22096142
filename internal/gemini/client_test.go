// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/haniahealth/hania-tui/internal/model"
)

// =============================================================================
// REQUEST BUILDING TESTS
// =============================================================================

func TestBuildRequestOrdering(t *testing.T) {
	history := []model.HistoryEntry{
		{Role: model.RoleAssistant, Text: "greeting"},
		{Role: model.RoleUser, Text: "question one"},
		{Role: model.RoleAssistant, Text: "answer one"},
	}

	req := BuildRequest(history, "question two", nil)

	if len(req.Contents) != 4 {
		t.Fatalf("contents length = %d, want 4", len(req.Contents))
	}

	wantRoles := []string{"model", "user", "model", "user"}
	for i, want := range wantRoles {
		if req.Contents[i].Role != want {
			t.Errorf("contents[%d].Role = %q, want %q", i, req.Contents[i].Role, want)
		}
	}

	last := req.Contents[3]
	if len(last.Parts) != 1 || last.Parts[0].Text != "question two" {
		t.Errorf("final turn should carry the new message, got %+v", last.Parts)
	}
}

func TestBuildRequestTools(t *testing.T) {
	req := BuildRequest(nil, "hello", nil)

	if len(req.Tools) != 2 {
		t.Fatalf("tools length = %d, want 2", len(req.Tools))
	}
	if req.Tools[0].GoogleSearch == nil {
		t.Error("first tool should enable web search")
	}
	if req.Tools[1].GoogleMaps == nil {
		t.Error("second tool should enable maps")
	}
	if req.SystemInstruction == nil || len(req.SystemInstruction.Parts) == 0 {
		t.Fatal("system instruction missing")
	}
	if req.SystemInstruction.Parts[0].Text != SystemInstruction {
		t.Error("system instruction text mismatch")
	}
}

func TestBuildRequestLocationBias(t *testing.T) {
	loc := &LatLng{Latitude: 31.5204, Longitude: 74.3587}
	req := BuildRequest(nil, "hello", loc)

	if req.ToolConfig == nil || req.ToolConfig.RetrievalConfig == nil {
		t.Fatal("tool config missing with location set")
	}
	got := req.ToolConfig.RetrievalConfig.LatLng
	if got == nil || got.Latitude != 31.5204 || got.Longitude != 74.3587 {
		t.Errorf("latLng = %+v, want %+v", got, loc)
	}

	// Without a coordinate the bias is omitted entirely.
	req = BuildRequest(nil, "hello", nil)
	if req.ToolConfig != nil {
		t.Error("tool config should be absent without a location")
	}
}

// =============================================================================
// RESPONSE UNPACKING TESTS
// =============================================================================

func TestUnpackJoinsParts(t *testing.T) {
	resp := &GenerateResponse{
		Candidates: []Candidate{{
			Content: Content{Parts: []Part{{Text: "Ji, main "}, {Text: "Hania hoon."}}},
		}},
	}

	reply := Unpack(resp)
	if reply.Text != "Ji, main Hania hoon." {
		t.Errorf("text = %q", reply.Text)
	}
	if reply.Citations != nil {
		t.Error("no citations expected")
	}
}

func TestUnpackEmptyReplyFallsBack(t *testing.T) {
	tests := []struct {
		name string
		resp *GenerateResponse
	}{
		{"nil response", nil},
		{"no candidates", &GenerateResponse{}},
		{"no parts", &GenerateResponse{Candidates: []Candidate{{}}}},
		{"empty text", &GenerateResponse{Candidates: []Candidate{{
			Content: Content{Parts: []Part{{Text: ""}}},
		}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reply := Unpack(tc.resp)
			if reply.Text != FallbackNoInformation {
				t.Errorf("text = %q, want fallback", reply.Text)
			}
			if reply.Citations != nil {
				t.Error("fallback reply should carry no citations")
			}
		})
	}
}

func TestUnpackCitations(t *testing.T) {
	resp := &GenerateResponse{
		Candidates: []Candidate{{
			Content: Content{Parts: []Part{{Text: "answer"}}},
			GroundingMetadata: &GroundingMetadata{
				GroundingChunks: []GroundingChunk{
					{Maps: &GroundingChunkMaps{URI: "http://maps/1", Title: "Doctors Hospital"}},
					{Web: &GroundingChunkWeb{URI: "http://web/1", Title: "Health Portal"}},
					{Maps: &GroundingChunkMaps{}}, // malformed, dropped
					{},                            // neither variant, dropped
					{Web: &GroundingChunkWeb{Title: "Title only"}},
				},
			},
		}},
	}

	reply := Unpack(resp)
	if len(reply.Citations) != 3 {
		t.Fatalf("citations length = %d, want 3", len(reply.Citations))
	}
	if reply.Citations[0].Kind != model.CitationPlace || reply.Citations[0].Title != "Doctors Hospital" {
		t.Errorf("citation 0 = %+v", reply.Citations[0])
	}
	if reply.Citations[1].Kind != model.CitationSource || reply.Citations[1].URI != "http://web/1" {
		t.Errorf("citation 1 = %+v", reply.Citations[1])
	}
	if reply.Citations[2].Kind != model.CitationSource || reply.Citations[2].Title != "Title only" {
		t.Errorf("citation 2 = %+v", reply.Citations[2])
	}
}

// =============================================================================
// CLIENT TESTS
// =============================================================================

func TestSendNotConfigured(t *testing.T) {
	client := NewClient("")
	_, err := client.Send(context.Background(), nil, "hello", nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestSendSuccess(t *testing.T) {
	var gotReq GenerateRequest
	var gotKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(GenerateResponse{
			Candidates: []Candidate{{
				Content: Content{Parts: []Part{{Text: "**Dr. Faisal**, Cardiologist"}}},
				GroundingMetadata: &GroundingMetadata{
					GroundingChunks: []GroundingChunk{
						{Maps: &GroundingChunkMaps{URI: "http://maps/x", Title: "Doctors Hospital"}},
					},
				},
			}},
		})
	}))
	defer server.Close()

	client := NewClient("test-key").WithBaseURL(server.URL)
	history := []model.HistoryEntry{{Role: model.RoleUser, Text: "earlier"}}
	loc := &LatLng{Latitude: 24.86, Longitude: 67.0}

	reply, err := client.Send(context.Background(), history, "dil ka doctor", loc)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if len(gotReq.Contents) != 2 {
		t.Errorf("wire contents = %d turns, want 2", len(gotReq.Contents))
	}
	if gotReq.ToolConfig == nil || gotReq.ToolConfig.RetrievalConfig.LatLng.Latitude != 24.86 {
		t.Error("location bias not on the wire")
	}

	if reply.Text != "**Dr. Faisal**, Cardiologist" {
		t.Errorf("reply text = %q", reply.Text)
	}
	if len(reply.Citations) != 1 || reply.Citations[0].Kind != model.CitationPlace {
		t.Errorf("citations = %+v", reply.Citations)
	}
}

func TestSendEmptyReplyFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GenerateResponse{})
	}))
	defer server.Close()

	client := NewClient("test-key").WithBaseURL(server.URL)
	reply, err := client.Send(context.Background(), nil, "hello", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply.Text != FallbackNoInformation {
		t.Errorf("text = %q, want fallback", reply.Text)
	}
}

func TestSendTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	client := NewClient("test-key").WithBaseURL(server.URL)
	_, err := client.Send(context.Background(), nil, "hello", nil)
	if err == nil {
		t.Fatal("expected error on refused connection")
	}
}

func TestSendAPIErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"auth", http.StatusForbidden, `{"error":{"code":403,"message":"bad key","status":"PERMISSION_DENIED"}}`, ErrAuthFailed},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"code":429,"message":"slow down","status":"RESOURCE_EXHAUSTED"}}`, ErrRateLimited},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient("test-key").WithBaseURL(server.URL)
			_, err := client.Send(context.Background(), nil, "hello", nil)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestSendServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewClient("test-key").WithBaseURL(server.URL)
	_, err := client.Send(context.Background(), nil, "hello", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d", apiErr.Status)
	}
}

func TestAPIKeyMasked(t *testing.T) {
	if got := NewClient("").APIKeyMasked(); got != "[not set]" {
		t.Errorf("masked empty key = %q", got)
	}
	masked := NewClient("super-secret-key").APIKeyMasked()
	if masked == "super-secret-key" {
		t.Fatal("key must not appear in masked output")
	}
	for i := 0; i+5 <= len("super-secret-key"); i++ {
		// No 5-char fragment of the key may leak.
		frag := "super-secret-key"[i : i+5]
		if strings.Contains(masked, frag) {
			t.Errorf("masked output leaks key fragment %q", frag)
		}
	}
}
