// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/haniahealth/hania-tui/internal/model"
	"github.com/haniahealth/hania-tui/internal/ui/styles"
)

// =============================================================================
// CITATION RENDERING
// =============================================================================

const (
	// citationHeading labels the citation block under a reply.
	citationHeading = "Verified Locations & Sources"

	// placeFallbackTitle stands in when a place citation has no title.
	placeFallbackTitle = "Medical Center"

	// placeLinkLabel is the action text on a place card.
	placeLinkLabel = "View on Map"
)

// CitationList renders the citation block attached to an assistant reply.
// Place citations become cards, web citations become compact chips. The
// web chips are truncated to maxWeb; place cards always render in full
// because they are the point of a doctor-finding reply.
type CitationList struct {
	Theme     *styles.Theme
	Citations []model.Citation
	MaxWidth  int
	MaxWeb    int
}

// Render returns the full citation block, or "" when nothing is displayable.
func (cl CitationList) Render() string {
	places, sources := model.Partition(cl.Citations)
	if len(places) == 0 && len(sources) == 0 {
		return ""
	}

	if cl.MaxWeb >= 0 && len(sources) > cl.MaxWeb {
		sources = sources[:cl.MaxWeb]
	}

	var sections []string
	sections = append(sections, cl.Theme.CitationHeading.Render(citationHeading))

	for _, place := range places {
		sections = append(sections, cl.renderPlaceCard(place))
	}

	if len(sources) > 0 {
		sections = append(sections, cl.renderSourceChips(sources))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderPlaceCard renders one map citation as a bordered card.
func (cl CitationList) renderPlaceCard(place model.Citation) string {
	title := place.Title
	if title == "" {
		title = placeFallbackTitle
	}

	maxWidth := cl.MaxWidth - 6
	if maxWidth < 20 {
		maxWidth = 20
	}
	title = runewidth.Truncate(title, maxWidth, "...")

	lines := []string{cl.Theme.PlaceTitle.Render(title)}
	if place.URI != "" {
		lines = append(lines, cl.Theme.PlaceLink.Render(placeLinkLabel))
	}

	return cl.Theme.PlaceCard.Render(strings.Join(lines, "\n"))
}

// renderSourceChips renders web citations as a single row of chips.
func (cl CitationList) renderSourceChips(sources []model.Citation) string {
	chips := make([]string, 0, len(sources))
	for _, src := range sources {
		label := sourceLabel(src)
		if label == "" {
			continue
		}
		label = runewidth.Truncate(label, 30, "...")
		chips = append(chips, cl.Theme.SourceChip.Render(label))
	}
	if len(chips) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

// sourceLabel picks the display text for a web citation: the title when
// present, otherwise the host of its URI.
func sourceLabel(c model.Citation) string {
	if c.Title != "" {
		return c.Title
	}
	if c.URI == "" {
		return ""
	}
	parsed, err := url.Parse(c.URI)
	if err != nil || parsed.Host == "" {
		return c.URI
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}
