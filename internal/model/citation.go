// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and turns.
package model

// CitationKind discriminates the two citation variants.
type CitationKind string

const (
	// CitationPlace is a map/location reference (a clinic, a hospital).
	CitationPlace CitationKind = "place"
	// CitationSource is a general web reference.
	CitationSource CitationKind = "source"
)

// Citation is a reference to a supporting place or web source returned
// alongside an assistant reply. The remote service may omit either field,
// so both are optional; a citation with neither is unusable and dropped.
type Citation struct {
	Kind  CitationKind `json:"kind"`
	URI   string       `json:"uri,omitempty"`
	Title string       `json:"title,omitempty"`
}

// Usable reports whether the citation carries at least one displayable field.
func (c Citation) Usable() bool {
	return c.URI != "" || c.Title != ""
}

// FilterUsable returns the citations that carry a usable URI or title,
// preserving order. Returns nil when nothing survives so empty lists never
// serialize as [].
func FilterUsable(citations []Citation) []Citation {
	var kept []Citation
	for _, c := range citations {
		if c.Usable() {
			kept = append(kept, c)
		}
	}
	return kept
}

// Partition splits citations into place and source groups, preserving order
// within each group. The presentation layer renders the two groups with
// different treatments.
func Partition(citations []Citation) (places, sources []Citation) {
	for _, c := range citations {
		switch c.Kind {
		case CitationPlace:
			places = append(places, c)
		case CitationSource:
			sources = append(sources, c)
		}
	}
	return places, sources
}
