// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"
)

const (
	minSpanLen       = 20
	maxSpanLen       = 500
	maxSpans         = 50
	minFallbackLine  = 30
	maxFallbackLines = 20
)

var (
	spanPatterns = []*regexp.Regexp{
		// Bare DOI.
		regexp.MustCompile(`(?i)\b10\.\d{4,9}/[-._;()/:A-Z0-9]+`),
		// "Smith, J. & Jones, K. (2020). Title."
		regexp.MustCompile(`(?:\p{Lu}\p{Ll}+(?:, \p{Lu}\.)?(?:,? (?:&|and) \p{Lu}\p{Ll}+(?:, \p{Lu}\.)?)?|et al\.) \(\d{4}\)(?:\.|\s).*?(?:\.|Journal|Proceedings)`),
		// Reference-list line: "Smith, J. ... (2020) ..."
		regexp.MustCompile(`(?m)^\p{Lu}\p{Ll}+, \p{Lu}\..*?\(\d{4}\).*?$`),
	}

	spanYearRe       = regexp.MustCompile(`\d{4}`)
	referencesHeadRe = regexp.MustCompile(`(?is)(?:References|Bibliography)(.{500,})`)
)

// ExtractCitations finds citation-shaped spans in raw document text, such
// as the text of an uploaded PDF. Spans are whitespace-normalized,
// length-filtered, deduplicated in order of discovery and capped at 50.
// When no pattern matches, lines following a References or Bibliography
// heading are returned instead.
func ExtractCitations(raw string) []string {
	seen := make(map[string]bool)
	var spans []string
	for _, re := range spanPatterns {
		for _, m := range re.FindAllString(raw, -1) {
			s := collapseSpace(m)
			if !keepSpan(s) || seen[s] {
				continue
			}
			seen[s] = true
			spans = append(spans, s)
			if len(spans) == maxSpans {
				return spans
			}
		}
	}
	if len(spans) > 0 {
		return spans
	}
	return referenceSectionLines(raw)
}

func keepSpan(s string) bool {
	if len(s) <= minSpanLen || len(s) >= maxSpanLen {
		return false
	}
	if !spanYearRe.MatchString(s) {
		return false
	}
	lower := strings.ToLower(s)
	return !strings.Contains(lower, "copyright") && !strings.Contains(lower, "all rights reserved")
}

func referenceSectionLines(raw string) []string {
	m := referencesHeadRe.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(m[1], "\n") {
		line = collapseSpace(line)
		if len(line) > minFallbackLine && spanYearRe.MatchString(line) {
			lines = append(lines, line)
			if len(lines) == maxFallbackLines {
				break
			}
		}
	}
	return lines
}
