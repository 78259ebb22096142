// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

// Wire types for the Gemini generateContent REST endpoint. Field names
// follow the v1beta JSON schema; optional fields carry omitempty so the
// encoded request stays minimal.

// Part is a single text fragment inside a content turn.
type Part struct {
	Text string `json:"text"`
}

// Content is one turn of the conversation as the API sees it.
// Role is "user" or "model".
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Tool declares a capability the model may invoke while grounding its
// answer. Empty structs act as feature flags on the wire.
type Tool struct {
	GoogleSearch *GoogleSearch `json:"googleSearch,omitempty"`
	GoogleMaps   *GoogleMaps   `json:"googleMaps,omitempty"`
}

// GoogleSearch enables web search grounding.
type GoogleSearch struct{}

// GoogleMaps enables place lookup grounding.
type GoogleMaps struct{}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RetrievalConfig biases grounding retrieval toward a location.
type RetrievalConfig struct {
	LatLng *LatLng `json:"latLng,omitempty"`
}

// ToolConfig carries per-request tool settings.
type ToolConfig struct {
	RetrievalConfig *RetrievalConfig `json:"retrievalConfig,omitempty"`
}

// GenerateRequest is the request body for models/{model}:generateContent.
type GenerateRequest struct {
	SystemInstruction *Content    `json:"systemInstruction,omitempty"`
	Contents          []Content   `json:"contents"`
	Tools             []Tool      `json:"tools,omitempty"`
	ToolConfig        *ToolConfig `json:"toolConfig,omitempty"`
}

// GroundingChunkWeb is a web search source backing part of the answer.
type GroundingChunkWeb struct {
	URI   string `json:"uri,omitempty"`
	Title string `json:"title,omitempty"`
}

// GroundingChunkMaps is a place result backing part of the answer.
type GroundingChunkMaps struct {
	URI   string `json:"uri,omitempty"`
	Title string `json:"title,omitempty"`
}

// GroundingChunk is one grounding source. Exactly one of Web or Maps is
// set on well-formed responses, but the decoder tolerates both or
// neither.
type GroundingChunk struct {
	Web  *GroundingChunkWeb  `json:"web,omitempty"`
	Maps *GroundingChunkMaps `json:"maps,omitempty"`
}

// GroundingMetadata holds the sources the model consulted.
type GroundingMetadata struct {
	GroundingChunks []GroundingChunk `json:"groundingChunks,omitempty"`
}

// Candidate is one generated answer.
type Candidate struct {
	Content           Content            `json:"content"`
	FinishReason      string             `json:"finishReason,omitempty"`
	GroundingMetadata *GroundingMetadata `json:"groundingMetadata,omitempty"`
}

// GenerateResponse is the response body for generateContent.
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// apiErrorResponse is the standard Google API error envelope.
type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
