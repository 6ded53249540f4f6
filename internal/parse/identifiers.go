// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// doiRe matches the canonical DOI shape anywhere in the text.
	doiRe = regexp.MustCompile(`(?i)\b(10\.\d{4,9}/[-._;()/:A-Z0-9]+)`)

	// validDOIRe matches a complete, bare DOI.
	validDOIRe = regexp.MustCompile(`(?i)^10\.\d{4,9}/[-._;()/:A-Z0-9]+$`)

	arxivDOIRe = regexp.MustCompile(`(?i)^10\.48550/arxiv\.(\d{4}\.\d{4,5})`)

	// arxivRe matches "arXiv:2301.07041", "arxiv.org/abs/2301.07041v2",
	// "arXiv 2301.07041" and old-style "arXiv:hep-th/9901001".
	arxivRe = regexp.MustCompile(`(?i)(?:arxiv:\s*|arxiv\.org/(?:abs|pdf)/|arxiv\s+)(\d{4}\.\d{4,5}|[a-z-]+(?:\.[a-z]{2})?/\d{7})(?:v\d+)?`)

	urlRe = regexp.MustCompile(`(?i)https?://[^\s,)]+`)

	isbnRe = regexp.MustCompile(`(?i)ISBN(?:-1[03])?[:\s]*([\d-]{9,16}[\dX])`)

	// Year patterns in priority order: "(2020)", ", 2020." and a bare
	// 19xx/20[0-2]x token.
	yearParenRe = regexp.MustCompile(`\((\d{4})[a-z]?(?:,[^)]*)?\)`)
	yearCommaRe = regexp.MustCompile(`,\s*(\d{4})[a-z]?(?:[,.;:)\s]|$)`)
	yearBareRe  = regexp.MustCompile(`\b(19\d{2}|20[0-2]\d)\b`)

	doiPrefixRe = regexp.MustCompile(`(?i)(?:https?://(?:dx\.)?doi\.org/|doi:\s*)?\b10\.\d{4,9}/[-._;()/:A-Z0-9]+`)
	isbnSpanRe  = regexp.MustCompile(`(?i)ISBN(?:-1[03])?[:\s]*[\d-]{9,16}[\dX]`)
	arxivSpanRe = regexp.MustCompile(`(?i)(?:arxiv:\s*|arxiv\.org/(?:abs|pdf)/)\S+`)
	retrievedRe = regexp.MustCompile(`(?i)\b(?:retrieved from|available at:?|doi:|url:)\s*(?:[.,]|$)`)
	dupPunctRe  = regexp.MustCompile(`([.,;])(?:\s*\.)+`)
)

// extractDOI returns the first DOI in text, trimmed of trailing
// punctuation that the pattern's character class swallows.
func extractDOI(text string) string {
	m := doiRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return trimDOI(m[1])
}

// trimDOI strips trailing sentence punctuation and an unbalanced closing
// parenthesis.
func trimDOI(doi string) string {
	for {
		trimmed := strings.TrimRight(doi, ".,;:")
		if strings.HasSuffix(trimmed, ")") && strings.Count(trimmed, "(") < strings.Count(trimmed, ")") {
			trimmed = strings.TrimSuffix(trimmed, ")")
		}
		if trimmed == doi {
			return doi
		}
		doi = trimmed
	}
}

// ValidDOI reports whether s is a bare DOI in canonical shape.
func ValidDOI(s string) bool {
	return validDOIRe.MatchString(s)
}

// arxivIDFromDOI returns the arXiv identifier embedded in an arXiv DOI
// (10.48550/arXiv.2301.07041).
func arxivIDFromDOI(doi string) string {
	if m := arxivDOIRe.FindStringSubmatch(doi); m != nil {
		return m[1]
	}
	return ""
}

// extractArxivID returns the arXiv identifier without its version suffix.
func extractArxivID(text string) string {
	m := arxivRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

func extractURL(text string) string {
	return strings.TrimRight(urlRe.FindString(text), ".;:")
}

// extractISBN returns the ISBN digits with hyphens and spaces removed.
func extractISBN(text string) string {
	m := isbnRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	isbn := strings.NewReplacer("-", "", " ", "").Replace(m[1])
	if n := len(isbn); n != 10 && n != 13 {
		return ""
	}
	return strings.ToUpper(isbn)
}

// extractYear tries the year patterns in order; the first match wins.
func extractYear(text string) int {
	for _, re := range []*regexp.Regexp{yearParenRe, yearCommaRe, yearBareRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			if y, err := strconv.Atoi(m[1]); err == nil {
				return y
			}
		}
	}
	return 0
}

// stripIdentifiers removes URLs, DOIs, ISBNs and arXiv references so that
// their digits and punctuation do not confuse the year, author and title
// rules.
func stripIdentifiers(text string) string {
	s := urlRe.ReplaceAllString(text, "")
	s = doiPrefixRe.ReplaceAllString(s, "")
	s = isbnSpanRe.ReplaceAllString(s, "")
	s = arxivSpanRe.ReplaceAllString(s, "")
	s = retrievedRe.ReplaceAllString(s, "")
	s = dupPunctRe.ReplaceAllString(s, "$1")
	return collapseSpace(s)
}
