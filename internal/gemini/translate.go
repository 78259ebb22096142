// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"github.com/haniahealth/hania-tui/internal/model"
)

// FallbackNoInformation is shown when the API call succeeds but the
// reply carries no usable text. It is distinct from a transport failure,
// which the caller reports with its own message.
const FallbackNoInformation = "Maaf kijiye, network issue ki wajah se maloomat nahi mil saki. Dobara koshish karein."

// Reply is the unpacked result of a generateContent call.
type Reply struct {
	Text      string
	Citations []model.Citation
}

// BuildRequest assembles the request body for one exchange: the prior
// history, the new user message appended as the final turn, both
// grounding tools, and an optional location bias.
//
// History entries must not contain in-flight placeholders; callers
// snapshot the store before appending the new turn.
func BuildRequest(history []model.HistoryEntry, message string, location *LatLng) *GenerateRequest {
	contents := make([]Content, 0, len(history)+1)
	for _, entry := range history {
		contents = append(contents, Content{
			Role:  wireRole(entry.Role),
			Parts: []Part{{Text: entry.Text}},
		})
	}
	contents = append(contents, Content{
		Role:  "user",
		Parts: []Part{{Text: message}},
	})

	req := &GenerateRequest{
		SystemInstruction: &Content{Parts: []Part{{Text: SystemInstruction}}},
		Contents:          contents,
		Tools: []Tool{
			{GoogleSearch: &GoogleSearch{}},
			{GoogleMaps: &GoogleMaps{}},
		},
	}

	if location != nil {
		req.ToolConfig = &ToolConfig{
			RetrievalConfig: &RetrievalConfig{
				LatLng: &LatLng{
					Latitude:  location.Latitude,
					Longitude: location.Longitude,
				},
			},
		}
	}

	return req
}

// wireRole maps a store role onto the API's role vocabulary. The API
// calls the assistant side "model".
func wireRole(role model.Role) string {
	if role == model.RoleAssistant {
		return "model"
	}
	return "user"
}

// Unpack extracts the reply text and citations from a response.
//
// A response with no candidates or no text parts is still a successful
// exchange; it yields FallbackNoInformation with no citations. Grounding
// chunks that carry neither a URI nor a title are dropped.
func Unpack(resp *GenerateResponse) Reply {
	if resp == nil || len(resp.Candidates) == 0 {
		return Reply{Text: FallbackNoInformation}
	}

	candidate := resp.Candidates[0]

	var text string
	for _, part := range candidate.Content.Parts {
		text += part.Text
	}
	if text == "" {
		return Reply{Text: FallbackNoInformation}
	}

	return Reply{
		Text:      text,
		Citations: unpackCitations(candidate.GroundingMetadata),
	}
}

// unpackCitations flattens grounding chunks into citations, preserving
// response order. Malformed chunks are skipped rather than failing the
// whole reply.
func unpackCitations(meta *GroundingMetadata) []model.Citation {
	if meta == nil || len(meta.GroundingChunks) == 0 {
		return nil
	}

	var citations []model.Citation
	for _, chunk := range meta.GroundingChunks {
		if chunk.Maps != nil {
			c := model.Citation{
				Kind:  model.CitationPlace,
				URI:   chunk.Maps.URI,
				Title: chunk.Maps.Title,
			}
			if c.Usable() {
				citations = append(citations, c)
			}
		}
		if chunk.Web != nil {
			c := model.Citation{
				Kind:  model.CitationSource,
				URI:   chunk.Web.URI,
				Title: chunk.Web.Title,
			}
			if c.Usable() {
				citations = append(citations, c)
			}
		}
	}
	return citations
}
