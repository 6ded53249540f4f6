// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/citeverify/pkg/types"
)

// maxTitleLen caps extracted titles in runes.
const maxTitleLen = 200

var (
	doubleQuotedRe = regexp.MustCompile(`["“]([^"“”]{4,}?)["”]`)
	singleQuotedRe = regexp.MustCompile(`(?:^|\s)['‘]([^'‘’]{8,}?)['’](?:[\s.,;:]|$)`)

	// afterYearRe captures from "(2020)." to the next sentence boundary or
	// a journal-indicating word.
	afterYearRe = regexp.MustCompile(`\(\d{4}[a-z]?(?:,[^)]*)?\)[.,:]?\s*(.+?)(?:[.?!]\s|[.?!]?$|,?\s+(?:Journal|Nature|Science|In|Proceedings|Retrieved)\b)`)

	// informalRe matches "Author, 2020, Title, ...".
	informalRe = regexp.MustCompile(`^[^()]*?,\s*(?:1[5-9]|20)\d{2}[a-z]?,\s*([^,.]{5,}?)\s*(?:[,.]|$)`)

	// titleOnlyRe matches "Title (2020)".
	titleOnlyRe = regexp.MustCompile(`^(.{5,}?)\.?\s*\(\d{4}\)`)

	// authorDateRe matches "Author. (2020). Title." and the Chicago
	// author-date "Author. 2020. Title." shape.
	authorDateRe = regexp.MustCompile(`^[^()]+?\.\s+\(?(?:1[5-9]|20)\d{2}[a-z]?\)?\.\s+(.+?)(?:[.?!](?:\s|$)|$)`)

	genericAfterYearRe = regexp.MustCompile(`\(\d{4}\)\.\s*(.{10,150}?)\.`)

	// sentenceAfterAuthorRe matches the MLA book shape
	// "Orwell, George. Nineteen Eighty-Four. Publisher, 1949."
	sentenceAfterAuthorRe = regexp.MustCompile(`^[^.]+?\.\s+(?:\p{Lu}\.\s*)*(\p{Lu}[^.]{4,}?)[.?!](?:\s|$)`)
)

// titleRules run in priority order.
var titleRules = []rule{
	{"double-quoted", submatch(doubleQuotedRe)},
	{"single-quoted", submatch(singleQuotedRe)},
	{"after-year", submatch(afterYearRe)},
	{"informal", submatch(informalRe)},
	{"title-only", func(text string, p *types.ParsedCitation) string {
		if p.Author != "" {
			return ""
		}
		return submatch(titleOnlyRe)(text, p)
	}},
	{"author-date", submatch(authorDateRe)},
	{"generic", submatch(genericAfterYearRe)},
	{"sentence-after-author", func(text string, p *types.ParsedCitation) string {
		if p.Author == "" {
			return ""
		}
		return submatch(sentenceAfterAuthorRe)(text, p)
	}},
}

var (
	leadingYearRe  = regexp.MustCompile(`^\(?\d{4}[a-z]?\)?[.,:]?\s+`)
	leadingEtAlRe  = regexp.MustCompile(`^(?i)et\s+al\.?,?\s*`)
	editionRe      = regexp.MustCompile(`(?i)\(\d+(?:st|nd|rd|th)?\s*(?:ed\.?|edition)\)`)
	trailingEdRe   = regexp.MustCompile(`(?i)\s*\(\d+(?:st|nd|rd|th)?\s*(?:ed\.?|edition)\)\.?$`)
	trailingLocRes = []*regexp.Regexp{
		regexp.MustCompile(`[,.]?\s*\d+\s*\(\d+(?:[-–]\d+)?\)(?:\s*[,:]\s*e?\d+(?:\s*[-–]\s*e?\d+)?)?$`),
		regexp.MustCompile(`[,.]?\s*pp?\.\s*\d+\s*[-–]\s*\d+$`),
		regexp.MustCompile(`,\s*\d+\s*[-–]\s*\d+$`),
		regexp.MustCompile(`,\s*\d+$`),
	}
)

// cleanTitle normalizes a raw title capture: whitespace, a duplicated
// leading year, a leading "et al.", trailing edition, volume, issue and page
// tokens, and the length cap.
func cleanTitle(title string) string {
	t := collapseSpace(title)
	t = leadingYearRe.ReplaceAllString(t, "")
	t = leadingEtAlRe.ReplaceAllString(t, "")
	t = trailingEdRe.ReplaceAllString(t, "")
	for _, re := range trailingLocRes {
		t = re.ReplaceAllString(t, "")
	}
	t = strings.Trim(t, ` .,;:"'“”‘’`)
	if utf8.RuneCountInString(t) > maxTitleLen {
		t = strings.TrimSpace(string([]rune(t)[:maxTitleLen]))
	}
	if utf8.RuneCountInString(t) < 2 {
		return ""
	}
	return t
}
