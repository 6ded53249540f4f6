// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse turns free-text citations into structured records.
//
// Citation text arrives in inconsistent human-authored shapes (APA, MLA,
// Chicago, informal, corporate-author, historical). Each field is extracted
// by an ordered list of rules evaluated first-match-wins, from the most
// specific pattern to the most permissive. Parse never fails: a field whose
// rules all miss is left at its zero value.
package parse

import (
	"regexp"
	"strings"

	"github.com/pdiddy/citeverify/pkg/types"
)

// rule extracts a single field. It returns "" when its pattern does not
// apply to the text.
type rule struct {
	name    string
	extract func(text string, p *types.ParsedCitation) string
}

// firstMatch evaluates rules in order and returns the first non-empty value
// together with the name of the rule that produced it.
func firstMatch(rules []rule, text string, p *types.ParsedCitation) (string, string) {
	for _, r := range rules {
		if v := r.extract(text, p); v != "" {
			return v, r.name
		}
	}
	return "", ""
}

// submatch builds a rule extractor returning capture group 1 of re.
func submatch(re *regexp.Regexp) func(string, *types.ParsedCitation) string {
	return func(text string, _ *types.ParsedCitation) string {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return ""
		}
		return strings.TrimSpace(m[1])
	}
}

var spaceRe = regexp.MustCompile(`\s+`)

// collapseSpace replaces runs of whitespace with a single space.
func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// Parse extracts a ParsedCitation from citation text.
func Parse(text string) types.ParsedCitation {
	text = collapseSpace(text)
	p := types.ParsedCitation{Format: types.FormatUnknown}
	if text == "" {
		return p
	}
	if isBibTeX(text) {
		return parseBibTeX(text)
	}

	p.DOI = extractDOI(text)
	p.ArxivID = arxivIDFromDOI(p.DOI)
	if p.ArxivID == "" {
		p.ArxivID = extractArxivID(text)
	}
	p.URL = extractURL(text)
	p.ISBN = extractISBN(text)

	body := stripIdentifiers(text)

	p.Year = extractYear(body)
	p.Author, _ = firstMatch(authorRules, body, &p)

	title, _ := firstMatch(titleRules, body, &p)
	p.Title = cleanTitle(title)

	p.Journal = extractJournal(body, p.Title)
	p.Volume, p.Issue, p.Pages = extractLocator(body, p.Year)
	p.Format = classifyFormat(body, p)
	if p.Format == types.FormatBook && p.Journal == "" {
		p.Journal = extractPublisher(body)
	}
	return p
}

// classifyFormat marks books by publisher, edition marker, or ISBN.
// Everything else with at least one extracted field is an article.
func classifyFormat(body string, p types.ParsedCitation) types.CitationFormat {
	switch {
	case p.ISBN != "" || editionRe.MatchString(body) || publisherRe.MatchString(body):
		return types.FormatBook
	case p.IsEmpty() && p.Journal == "":
		return types.FormatUnknown
	default:
		return types.FormatArticle
	}
}
