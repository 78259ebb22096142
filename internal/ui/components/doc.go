// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable rendering pieces for the hania TUI.
//
// Components are pure: they take data plus a *styles.Theme and return a
// rendered string. State lives in the chat model, never here.
//
//   - MarkdownRenderer: glamour-backed markdown rendering for assistant
//     replies, with a plain-text fallback so a reply always renders.
//   - CodeBlock / ParseCodeBlocks: chroma-highlighted fenced blocks, the
//     fallback path when glamour is unavailable.
//   - CitationList: the "Verified Locations & Sources" block, place cards
//     plus web chips.
package components
