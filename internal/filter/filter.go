// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter holds the cheap, pre-network checks applied to a parsed
// citation: whether it carries enough signal to search, whether it is
// obviously synthetic, and whether it is old enough to be sparsely indexed.
package filter

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/citeverify/pkg/types"
)

const (
	// MinYear is the earliest year a citation may plausibly carry.
	MinYear = 1400

	// minRealisticYear is the earliest year accepted without a DOI.
	minRealisticYear = 1700

	// historicalBefore marks works published before this year as historical.
	historicalBefore = 1950

	// longTitle is the title length at which a title plus a year is
	// enough to search without an author.
	longTitle = 15
)

// vagueTitleRe matches filler that parses as a title but names nothing.
var vagueTitleRe = regexp.MustCompile(`(?i)^(?:some\s|a\s+paper\b|study\s+on\b|the\s+\S+$)`)

// placeholderTitleRe matches titles that are nothing but a placeholder
// ("Test", "Sample Paper 2", "Untitled") or contain lorem ipsum. Real titles
// that merely mention a test or a sample are left alone.
var placeholderTitleRe = regexp.MustCompile(`(?i)^(?:(?:a|an|the|my)\s+)?(?:test|example|sample|demo|dummy|fake|placeholder|untitled)(?:\s+(?:title|paper|article|citation|book|study|work|document|reference))?(?:\s*\d+)?$|\blorem\s+ipsum\b`)

// IsIncomplete reports whether p lacks the signal needed to search. A DOI
// alone is always sufficient. Otherwise two of author, plausible year and
// title are required, or a long title with a year. Vague filler titles
// never count.
func IsIncomplete(p types.ParsedCitation, currentYear int) bool {
	if p.DOI != "" {
		return false
	}

	hasAuthor := utf8.RuneCountInString(p.Author) > 1
	hasYear := ValidYear(p.Year, currentYear)
	titleLen := utf8.RuneCountInString(p.Title)
	hasTitle := titleLen > 3 && !vagueTitleRe.MatchString(p.Title)

	if hasTitle && hasYear && titleLen >= longTitle {
		return false
	}

	n := 0
	for _, ok := range []bool{hasAuthor, hasYear, hasTitle} {
		if ok {
			n++
		}
	}
	return n < 2
}

// IsFake returns a reason when p is obviously synthetic, or "" when it
// passes. A year beyond next year is always fake; a pre-1700 year or a
// placeholder title is fake only without a DOI.
func IsFake(p types.ParsedCitation, currentYear int) string {
	if p.Year > currentYear+1 {
		return "Future year"
	}
	if p.DOI != "" {
		return ""
	}
	if p.Year > 0 && p.Year < minRealisticYear {
		return "Unrealistic year"
	}
	if p.Title != "" && placeholderTitleRe.MatchString(p.Title) {
		return "Generic placeholder title"
	}
	return ""
}

// IsHistorical reports whether p describes a pre-1950 work with author,
// title and venue all present. Such works are sparsely indexed by modern
// databases, so their matches receive a confidence boost.
func IsHistorical(p types.ParsedCitation) bool {
	return p.Year > 0 && p.Year < historicalBefore &&
		p.Author != "" && p.Title != "" && strings.TrimSpace(p.Journal) != ""
}
