// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/citeverify/internal/httputil"
	"github.com/pdiddy/citeverify/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivSource searches arXiv by title, and resolves arXiv identifiers
// directly.
type ArxivSource struct {
	Fetcher    *httputil.Fetcher
	MaxResults int
}

// Name returns the source identifier.
func (s *ArxivSource) Name() types.Source { return types.SourceArxiv }

// Applicable requires a title. Citations with an arXiv identifier are
// handled by Resolve before any search runs.
func (s *ArxivSource) Applicable(p types.ParsedCitation) bool { return p.Title != "" }

// Search runs a ti: query against the arXiv API.
func (s *ArxivSource) Search(ctx context.Context, p types.ParsedCitation) ([]types.CandidateWork, error) {
	q := buildArxivQuery(p)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}
	maxResults := s.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	params := url.Values{
		"search_query": {q},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(maxResults)},
	}
	return s.query(ctx, params)
}

// Resolve looks up p.ArxivID with an id_list query.
func (s *ArxivSource) Resolve(ctx context.Context, p types.ParsedCitation) (types.CandidateWork, bool, error) {
	if p.ArxivID == "" {
		return types.CandidateWork{}, false, nil
	}
	works, err := s.query(ctx, url.Values{"id_list": {p.ArxivID}})
	if err != nil {
		return types.CandidateWork{}, false, err
	}
	for _, w := range works {
		if w.ArxivID == p.ArxivID && w.Title != "" {
			return w, true, nil
		}
	}
	return types.CandidateWork{}, false, nil
}

func (s *ArxivSource) query(ctx context.Context, params url.Values) ([]types.CandidateWork, error) {
	body, err := s.Fetcher.Get(ctx, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var works []types.CandidateWork
	for _, entry := range feed.Entries {
		id := arxivIDFromEntry(entry.ID)
		if id == "" {
			continue
		}
		w := types.CandidateWork{
			Title:   strings.Join(strings.Fields(entry.Title), " "),
			ArxivID: id,
			DOI:     strings.TrimSpace(entry.DOI),
			Journal: strings.TrimSpace(entry.JournalRef),
			URL:     "https://arxiv.org/abs/" + id,
			Source:  types.SourceArxiv,
		}
		for _, a := range entry.Authors {
			w.Authors = append(w.Authors, strings.TrimSpace(a.Name))
		}
		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			w.Year = t.Year()
		}
		works = append(works, w)
	}
	return works, nil
}

// buildArxivQuery searches the title phrase, narrowed by author surname
// when one was parsed.
func buildArxivQuery(p types.ParsedCitation) string {
	title := strings.Join(strings.Fields(strings.ReplaceAll(p.Title, `"`, "")), " ")
	if title == "" {
		return ""
	}
	q := `ti:"` + clip(title, 120) + `"`
	if names := strings.Fields(p.Author); len(names) > 0 {
		q += " AND au:" + names[len(names)-1]
	}
	return q
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string        `xml:"id"`
	Title      string        `xml:"title"`
	Published  string        `xml:"published"`
	Authors    []arxivAuthor `xml:"author"`
	DOI        string        `xml:"http://arxiv.org/schemas/atom doi"`
	JournalRef string        `xml:"http://arxiv.org/schemas/atom journal_ref"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// arxivIDFromEntry pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func arxivIDFromEntry(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
