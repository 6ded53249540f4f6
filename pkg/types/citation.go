// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the citation verifier:
// the structured record produced by the field extractor, the candidate works
// returned by bibliographic sources, and the verification and fix results
// handed back to callers.
package types

// CitationFormat is the inferred shape of a citation.
type CitationFormat string

const (
	FormatArticle CitationFormat = "Article"
	FormatBook    CitationFormat = "Book"
	FormatBibTeX  CitationFormat = "BibTeX"
	FormatUnknown CitationFormat = "Unknown"
)

// ParsedCitation is the structured record extracted from free-text citation
// input. Every field is best-effort: the zero value means the field was not
// found in the text.
type ParsedCitation struct {
	// Author is the first or primary author surname, or a corporate name.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// Year is the publication year, 0 when absent.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Title is the work title with trailing volume/page tokens stripped.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Journal is the venue, or the publisher for books.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// DOI always matches the canonical shape 10.NNNN/suffix when set.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
	ISBN    string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`

	Volume string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue  string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages  string `json:"pages,omitempty" yaml:"pages,omitempty"`

	Format CitationFormat `json:"format" yaml:"format"`
}

// IsEmpty reports whether no searchable field was extracted.
func (p ParsedCitation) IsEmpty() bool {
	return p.Author == "" && p.Year == 0 && p.Title == "" &&
		p.DOI == "" && p.ISBN == "" && p.ArxivID == ""
}
