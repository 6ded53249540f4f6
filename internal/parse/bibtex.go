// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/citeverify/pkg/types"
)

var (
	bibtexEntryRe = regexp.MustCompile(`(?i)@(article|book|inproceedings|incollection|conference|misc|phdthesis|mastersthesis|techreport)\s*\{`)
	bibtexFieldRe = regexp.MustCompile(`(?i)\b(title|author|journal|booktitle|publisher|doi|isbn|volume|number|pages|url|eprint)\s*=\s*[{"](.*?)[}"]\s*(?:,|$)`)
	bibtexYearRe  = regexp.MustCompile(`(?i)\byear\s*=\s*[{"]?\s*(\d{4})`)
)

func isBibTeX(text string) bool {
	return bibtexEntryRe.MatchString(text)
}

// parseBibTeX reads the handful of fields a search needs from a single
// BibTeX entry. It is a cursory pass, not a BibTeX parser: nested braces are
// flattened and macros are ignored.
func parseBibTeX(text string) types.ParsedCitation {
	p := types.ParsedCitation{Format: types.FormatBibTeX}

	fields := make(map[string]string)
	for _, m := range bibtexFieldRe.FindAllStringSubmatch(text, -1) {
		key := strings.ToLower(m[1])
		if _, seen := fields[key]; !seen {
			fields[key] = collapseSpace(strings.NewReplacer("{", "", "}", "").Replace(m[2]))
		}
	}

	p.Title = cleanTitle(fields["title"])
	p.Author = bibtexFirstSurname(fields["author"])
	p.Journal = fields["journal"]
	if p.Journal == "" {
		p.Journal = fields["booktitle"]
	}
	if p.Journal == "" {
		p.Journal = fields["publisher"]
	}
	if doi := extractDOI(fields["doi"]); doi != "" {
		p.DOI = doi
	}
	p.ArxivID = arxivIDFromDOI(p.DOI)
	if p.ArxivID == "" && fields["eprint"] != "" {
		p.ArxivID = extractArxivID("arXiv:" + fields["eprint"])
	}
	p.URL = fields["url"]
	if fields["isbn"] != "" {
		p.ISBN = extractISBN("ISBN " + fields["isbn"])
	}
	p.Volume = fields["volume"]
	p.Issue = fields["number"]
	p.Pages = normalizePages(strings.ReplaceAll(fields["pages"], "--", "-"))

	if m := bibtexYearRe.FindStringSubmatch(text); m != nil {
		p.Year, _ = strconv.Atoi(m[1])
	}
	return p
}

// bibtexFirstSurname returns the first author's surname from a BibTeX
// author list ("Vaswani, Ashish and Shazeer, Noam" or "Ashish Vaswani and ...").
func bibtexFirstSurname(authors string) string {
	first, _, _ := strings.Cut(authors, " and ")
	first = strings.TrimSpace(first)
	if first == "" {
		return ""
	}
	if surname, _, found := strings.Cut(first, ","); found {
		return strings.TrimSpace(surname)
	}
	parts := strings.Fields(first)
	return parts[len(parts)-1]
}
