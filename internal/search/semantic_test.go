// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"testing"

	"github.com/pdiddy/citeverify/pkg/types"
)

const sampleSemanticJSON = `{
	"total": 1,
	"data": [{
		"paperId": "204e3073870fae3d05bcbc2f6a8e263d9b72e776",
		"title": "Attention is All you Need",
		"year": 2017,
		"venue": "Neural Information Processing Systems",
		"citationCount": 100000,
		"authors": [{"authorId": "40348417", "name": "Ashish Vaswani"}],
		"externalIds": {"DOI": "10.5555/3295222.3295349", "ArXiv": "1706.03762"}
	}]
}`

func TestSemanticScholarSourceSearch(t *testing.T) {
	var apiKey, query, year, fields string
	ts := testServer(http.StatusOK, sampleSemanticJSON, func(r *http.Request) {
		apiKey = r.Header.Get("x-api-key")
		query = r.URL.Query().Get("query")
		year = r.URL.Query().Get("year")
		fields = r.URL.Query().Get("fields")
	})
	defer ts.Close()

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = old }()

	s := &SemanticScholarSource{Fetcher: testFetcher(ts), APIKey: "sk_test"}
	works, err := s.Search(context.Background(), types.ParsedCitation{Title: "Attention is all you need", Author: "Vaswani", Year: 2017})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if apiKey != "sk_test" {
		t.Errorf("x-api-key = %q", apiKey)
	}
	if query != "Attention is all you need Vaswani" || year != "2016-2018" || fields != semanticFields {
		t.Errorf("query=%q year=%q fields=%q", query, year, fields)
	}
	if len(works) != 1 {
		t.Fatalf("len(works) = %d", len(works))
	}
	w := works[0]
	if w.DOI != "10.5555/3295222.3295349" || w.ArxivID != "1706.03762" || w.CitationCount != 100000 {
		t.Errorf("work = %+v", w)
	}
	if w.Source != types.SourceSemanticScholar {
		t.Errorf("Source = %q", w.Source)
	}
}

func TestSemanticScholarSourceNoAPIKey(t *testing.T) {
	var apiKey string
	ts := testServer(http.StatusOK, `{"data": []}`, func(r *http.Request) {
		apiKey = r.Header.Get("x-api-key")
	})
	defer ts.Close()

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = old }()

	s := &SemanticScholarSource{Fetcher: testFetcher(ts)}
	if _, err := s.Search(context.Background(), types.ParsedCitation{Title: "x"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if apiKey != "" {
		t.Errorf("x-api-key should be absent, got %q", apiKey)
	}
}

func TestSemanticScholarSourceRateLimited(t *testing.T) {
	ts := testServer(http.StatusTooManyRequests, "", nil)
	defer ts.Close()

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = old }()

	s := &SemanticScholarSource{Fetcher: testFetcher(ts)}
	if _, err := s.Search(context.Background(), types.ParsedCitation{Title: "x"}); err == nil {
		t.Error("expected error for HTTP 429")
	}
}
