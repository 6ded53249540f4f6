// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/citeverify/internal/httputil"
	"github.com/pdiddy/citeverify/pkg/types"
)

// crossRefWorksBase is the CrossRef works endpoint, used both for search
// and for exact DOI lookup. Declared as a var so tests can substitute an
// httptest server.
var crossRefWorksBase = "https://api.crossref.org/works"

const crossRefSelect = "DOI,title,author,issued,published-print,container-title,is-referenced-by-count,volume,issue,page,ISBN,URL"

// CrossRefSource searches CrossRef by title and author.
type CrossRefSource struct {
	Fetcher    *httputil.Fetcher
	MaxResults int

	// Email is sent as mailto for polite pool access.
	Email string
}

// Name returns the source identifier.
func (s *CrossRefSource) Name() types.Source { return types.SourceCrossRef }

// Applicable requires a title.
func (s *CrossRefSource) Applicable(p types.ParsedCitation) bool { return p.Title != "" }

// Search queries CrossRef and returns candidate works.
func (s *CrossRefSource) Search(ctx context.Context, p types.ParsedCitation) ([]types.CandidateWork, error) {
	rows := s.MaxResults
	if rows <= 0 {
		rows = 5
	}
	params := url.Values{
		"query.title": {p.Title},
		"rows":        {strconv.Itoa(rows)},
		"select":      {crossRefSelect},
	}
	if p.Author != "" {
		params.Set("query.author", p.Author)
	}
	if s.Email != "" {
		params.Set("mailto", s.Email)
	}

	var resp crossRefSearchResponse
	if err := s.Fetcher.GetJSON(ctx, crossRefWorksBase+"?"+params.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("CrossRef search: %w", err)
	}

	works := make([]types.CandidateWork, 0, len(resp.Message.Items))
	for _, item := range resp.Message.Items {
		works = append(works, item.toWork(types.SourceCrossRef))
	}
	return works, nil
}

// CrossRef API JSON structures.
type crossRefSearchResponse struct {
	Message struct {
		Items []crossRefWork `json:"items"`
	} `json:"message"`
}

type crossRefWorkResponse struct {
	Message crossRefWork `json:"message"`
}

type crossRefWork struct {
	DOI            string           `json:"DOI"`
	Title          []string         `json:"title"`
	Author         []crossRefAuthor `json:"author"`
	ContainerTitle []string         `json:"container-title"`
	Issued         crossRefDate     `json:"issued"`
	PublishedPrint crossRefDate     `json:"published-print"`
	ReferencedBy   int              `json:"is-referenced-by-count"`
	Volume         string           `json:"volume"`
	Issue          string           `json:"issue"`
	Page           string           `json:"page"`
	ISBN           []string         `json:"ISBN"`
	URL            string           `json:"URL"`
}

type crossRefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	// Name is set for organizational authors.
	Name string `json:"name"`
}

type crossRefDate struct {
	DateParts [][]int `json:"date-parts"`
}

func (d crossRefDate) year() int {
	if len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 {
		return d.DateParts[0][0]
	}
	return 0
}

func (w crossRefWork) toWork(src types.Source) types.CandidateWork {
	out := types.CandidateWork{
		DOI:           w.DOI,
		Volume:        w.Volume,
		Issue:         w.Issue,
		Pages:         strings.ReplaceAll(w.Page, "–", "-"),
		URL:           w.URL,
		CitationCount: w.ReferencedBy,
		Source:        src,
	}
	if len(w.Title) > 0 {
		out.Title = strings.TrimSpace(w.Title[0])
	}
	if len(w.ContainerTitle) > 0 {
		out.Journal = w.ContainerTitle[0]
	}
	if len(w.ISBN) > 0 {
		out.ISBN = strings.ReplaceAll(w.ISBN[0], "-", "")
	}
	out.Year = w.Issued.year()
	if out.Year == 0 {
		out.Year = w.PublishedPrint.year()
	}
	for _, a := range w.Author {
		if name := strings.TrimSpace(a.Given + " " + a.Family); name != "" {
			out.Authors = append(out.Authors, name)
		} else if a.Name != "" {
			out.Authors = append(out.Authors, a.Name)
		}
	}
	return out
}
