// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Source identifies the bibliographic database a candidate came from.
type Source string

const (
	SourceDOI             Source = "doi"
	SourceCrossRef        Source = "crossref"
	SourceOpenAlex        Source = "openalex"
	SourceArxiv           Source = "arxiv"
	SourceSemanticScholar Source = "semantic_scholar"
	SourceGoogleBooks     Source = "google_books"
)

// sourcePriority orders sources by reliability for tie-breaking.
var sourcePriority = map[Source]int{
	SourceDOI:             0,
	SourceCrossRef:        1,
	SourceOpenAlex:        2,
	SourceArxiv:           3,
	SourceSemanticScholar: 4,
	SourceGoogleBooks:     5,
}

// Priority returns the tie-break rank of the source. Lower ranks win.
// Unknown sources rank last.
func (s Source) Priority() int {
	if p, ok := sourcePriority[s]; ok {
		return p
	}
	return len(sourcePriority)
}

// DisplayName returns the human-readable database name.
func (s Source) DisplayName() string {
	switch s {
	case SourceDOI:
		return "DOI registry"
	case SourceCrossRef:
		return "CrossRef"
	case SourceOpenAlex:
		return "OpenAlex"
	case SourceArxiv:
		return "arXiv"
	case SourceSemanticScholar:
		return "Semantic Scholar"
	case SourceGoogleBooks:
		return "Google Books"
	default:
		return string(s)
	}
}

// CandidateWork is a bibliographic record returned by a source in response
// to a search. It is constructed per request and never persisted.
type CandidateWork struct {
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Authors lists display names in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	Year    int    `json:"year,omitempty" yaml:"year,omitempty"`
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`
	DOI     string `json:"doi,omitempty" yaml:"doi,omitempty"`
	ISBN    string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`

	Volume string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue  string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages  string `json:"pages,omitempty" yaml:"pages,omitempty"`

	CitationCount int `json:"citation_count" yaml:"citation_count"`

	Source Source `json:"source" yaml:"source"`
}

// ScoredCandidate is a CandidateWork with its 0-100 relevance score.
type ScoredCandidate struct {
	CandidateWork `yaml:",inline"`

	RelevanceScore int `json:"relevance_score" yaml:"relevance_score"`

	// Signals explains how the score was reached, one entry per contribution.
	Signals []string `json:"signals,omitempty" yaml:"signals,omitempty"`
}

// Less reports whether a ranks ahead of b: higher score first, then the
// more reliable source.
func (a ScoredCandidate) Less(b ScoredCandidate) bool {
	if a.RelevanceScore != b.RelevanceScore {
		return a.RelevanceScore > b.RelevanceScore
	}
	return a.Source.Priority() < b.Source.Priority()
}
