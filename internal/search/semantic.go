// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/citeverify/internal/httputil"
	"github.com/pdiddy/citeverify/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,authors,externalIds,year,venue,citationCount"

// SemanticScholarSource queries the Semantic Scholar API.
type SemanticScholarSource struct {
	Fetcher    *httputil.Fetcher
	MaxResults int
	APIKey     string
}

// Name returns the source identifier.
func (s *SemanticScholarSource) Name() types.Source { return types.SourceSemanticScholar }

// Applicable requires a title.
func (s *SemanticScholarSource) Applicable(p types.ParsedCitation) bool { return p.Title != "" }

// Search queries the Semantic Scholar API and returns candidate works.
func (s *SemanticScholarSource) Search(ctx context.Context, p types.ParsedCitation) ([]types.CandidateWork, error) {
	q := buildSemanticQuery(p)
	if q == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}

	limit := s.MaxResults
	if limit <= 0 {
		limit = 5
	}
	params := url.Values{
		"query":  {q},
		"limit":  {strconv.Itoa(limit)},
		"fields": {semanticFields},
	}
	if p.Year > 0 {
		params.Set("year", fmt.Sprintf("%d-%d", p.Year-1, p.Year+1))
	}

	var header http.Header
	if s.APIKey != "" {
		header = http.Header{"x-api-key": {s.APIKey}}
	}

	var sr semanticResponse
	if err := s.Fetcher.GetJSON(ctx, semanticAPIBase+"?"+params.Encode(), header, &sr); err != nil {
		return nil, fmt.Errorf("Semantic Scholar search: %w", err)
	}

	works := make([]types.CandidateWork, 0, len(sr.Data))
	for _, paper := range sr.Data {
		w := types.CandidateWork{
			Title:         paper.Title,
			Year:          paper.Year,
			Journal:       paper.Venue,
			DOI:           paper.ExternalIDs.DOI,
			ArxivID:       paper.ExternalIDs.ArXiv,
			CitationCount: paper.CitationCount,
			Source:        types.SourceSemanticScholar,
		}
		for _, a := range paper.Authors {
			w.Authors = append(w.Authors, a.Name)
		}
		if paper.PaperID != "" {
			w.URL = "https://www.semanticscholar.org/paper/" + paper.PaperID
		}
		works = append(works, w)
	}
	return works, nil
}

// buildSemanticQuery combines title and author into a search string.
func buildSemanticQuery(p types.ParsedCitation) string {
	var parts []string
	if p.Title != "" {
		parts = append(parts, p.Title)
	}
	if p.Author != "" {
		parts = append(parts, p.Author)
	}
	return strings.Join(parts, " ")
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID       string              `json:"paperId"`
	Title         string              `json:"title"`
	Year          int                 `json:"year"`
	Venue         string              `json:"venue"`
	CitationCount int                 `json:"citationCount"`
	Authors       []semanticAuthor    `json:"authors"`
	ExternalIDs   semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	Name string `json:"name"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}
