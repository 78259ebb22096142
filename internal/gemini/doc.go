// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini talks to the Gemini generateContent API.
//
// It owns the wire formats, the translation between the conversation
// store's turn log and the API's content list, and the unpacking of
// reply text and grounding citations. Callers deal only in store types
// (model.HistoryEntry in, Reply with model.Citation out); nothing
// wire-shaped escapes this package.
//
// # Key Types
//
//   - Client: configured HTTP client for generateContent calls
//   - GenerateRequest / GenerateResponse: wire bodies
//   - Reply: unpacked text plus citations
//
// # Usage
//
//	client := gemini.NewClient(apiKey).WithLogger(log)
//	reply, err := client.Send(ctx, history, "Dil ka doctor kahan hai?", loc)
//
// Every exchange enables both web search and maps grounding; when a
// coordinate is available it is attached as a retrieval bias so place
// results favor the user's area. The exchange either errors (transport
// or API failure) or yields a Reply; an empty-but-successful reply is
// replaced with a fixed fallback line rather than surfaced as an error.
package gemini
