// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/pdiddy/citeverify/pkg/types"
)

const sampleOpenAlexJSON = `{
	"meta": {"count": 2, "per_page": 10, "page": 1},
	"results": [
		{
			"id": "https://openalex.org/W2963403868",
			"title": "Attention Is All You Need",
			"doi": "https://doi.org/10.5555/3295222.3295349",
			"publication_year": 2017,
			"cited_by_count": 98000,
			"authorships": [
				{"author": {"display_name": "Ashish Vaswani"}},
				{"author": {"display_name": "Noam Shazeer"}}
			],
			"primary_location": {
				"landing_page_url": "https://papers.nips.cc/paper/7181",
				"source": {"display_name": "Neural Information Processing Systems"}
			},
			"biblio": {"volume": "30", "issue": null, "first_page": "5998", "last_page": "6008"}
		},
		{
			"id": "https://openalex.org/W3210812345",
			"display_name": "BERT",
			"doi": null,
			"publication_year": 2018,
			"authorships": [{"author": {"display_name": "Jacob Devlin"}}],
			"primary_location": null
		}
	]
}`

func TestBuildOpenAlexQuery(t *testing.T) {
	tests := []struct {
		name string
		p    types.ParsedCitation
		want string
	}{
		{"title and author", types.ParsedCitation{Title: "Attention", Author: "Vaswani"}, "Attention Vaswani"},
		{"title only", types.ParsedCitation{Title: "Attention"}, "Attention"},
		{"long title clipped", types.ParsedCitation{Title: strings.Repeat("a", 100)}, strings.Repeat("a", 80)},
		{"empty", types.ParsedCitation{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildOpenAlexQuery(tt.p); got != tt.want {
				t.Errorf("buildOpenAlexQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenAlexSourceSearch(t *testing.T) {
	var search, perPage, mailto string
	ts := testServer(http.StatusOK, sampleOpenAlexJSON, func(r *http.Request) {
		search = r.URL.Query().Get("search")
		perPage = r.URL.Query().Get("per-page")
		mailto = r.URL.Query().Get("mailto")
	})
	defer ts.Close()

	old := openAlexWorksBase
	openAlexWorksBase = ts.URL
	defer func() { openAlexWorksBase = old }()

	s := &OpenAlexSource{Fetcher: testFetcher(ts), Email: "test@example.com"}
	works, err := s.Search(context.Background(), types.ParsedCitation{Title: "Attention is all you need", Author: "Vaswani"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if search != "Attention is all you need Vaswani" || perPage != "10" || mailto != "test@example.com" {
		t.Errorf("params search=%q per-page=%q mailto=%q", search, perPage, mailto)
	}
	if len(works) != 2 {
		t.Fatalf("len(works) = %d, want 2", len(works))
	}

	w0 := works[0]
	if w0.DOI != "10.5555/3295222.3295349" {
		t.Errorf("DOI = %q, want bare DOI", w0.DOI)
	}
	if w0.Journal != "Neural Information Processing Systems" || w0.CitationCount != 98000 {
		t.Errorf("journal/citations = %q/%d", w0.Journal, w0.CitationCount)
	}
	if w0.Pages != "5998-6008" || w0.Volume != "30" {
		t.Errorf("pages/volume = %q/%q", w0.Pages, w0.Volume)
	}
	if len(w0.Authors) != 2 || w0.Authors[1] != "Noam Shazeer" {
		t.Errorf("Authors = %v", w0.Authors)
	}

	w1 := works[1]
	if w1.Title != "BERT" {
		t.Errorf("Title should fall back to display_name, got %q", w1.Title)
	}
	if w1.DOI != "" || w1.URL != "https://openalex.org/W3210812345" {
		t.Errorf("DOI/URL = %q/%q", w1.DOI, w1.URL)
	}
	if w1.Source != types.SourceOpenAlex {
		t.Errorf("Source = %q", w1.Source)
	}
}

func TestOpenAlexSourceMalformedJSON(t *testing.T) {
	ts := testServer(http.StatusOK, `{"results": [`, nil)
	defer ts.Close()

	old := openAlexWorksBase
	openAlexWorksBase = ts.URL
	defer func() { openAlexWorksBase = old }()

	s := &OpenAlexSource{Fetcher: testFetcher(ts)}
	if _, err := s.Search(context.Background(), types.ParsedCitation{Title: "x"}); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestOpenAlexSourceEmptyResults(t *testing.T) {
	ts := testServer(http.StatusOK, `{"results": []}`, nil)
	defer ts.Close()

	old := openAlexWorksBase
	openAlexWorksBase = ts.URL
	defer func() { openAlexWorksBase = old }()

	s := &OpenAlexSource{Fetcher: testFetcher(ts)}
	works, err := s.Search(context.Background(), types.ParsedCitation{Title: "x"})
	if err != nil || len(works) != 0 {
		t.Errorf("Search = %v, %v; want empty, nil", works, err)
	}
}

func TestOpenAlexSourceEmptyQuery(t *testing.T) {
	s := &OpenAlexSource{}
	if _, err := s.Search(context.Background(), types.ParsedCitation{}); err == nil {
		t.Error("expected error for empty query")
	}
}
