// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"testing"

	"github.com/pdiddy/citeverify/pkg/types"
)

const sampleGoogleBooksJSON = `{
	"items": [{
		"volumeInfo": {
			"title": "The Art of Computer Programming",
			"authors": ["Donald E. Knuth"],
			"publisher": "Addison-Wesley",
			"publishedDate": "1997-07-04",
			"infoLink": "https://books.google.com/books?id=abc",
			"industryIdentifiers": [
				{"type": "ISBN_10", "identifier": "0201896834"},
				{"type": "ISBN_13", "identifier": "9780201896831"}
			]
		}
	}]
}`

func TestGoogleBooksSourceSearch(t *testing.T) {
	var q, key string
	ts := testServer(http.StatusOK, sampleGoogleBooksJSON, func(r *http.Request) {
		q = r.URL.Query().Get("q")
		key = r.URL.Query().Get("key")
	})
	defer ts.Close()

	old := googleBooksBase
	googleBooksBase = ts.URL
	defer func() { googleBooksBase = old }()

	s := &GoogleBooksSource{Fetcher: testFetcher(ts), APIKey: "k"}
	works, err := s.Search(context.Background(), types.ParsedCitation{Title: "The Art of Computer Programming", Author: "Knuth"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if q != "intitle:The Art of Computer Programming inauthor:Knuth" || key != "k" {
		t.Errorf("q=%q key=%q", q, key)
	}
	if len(works) != 1 {
		t.Fatalf("len(works) = %d", len(works))
	}
	w := works[0]
	if w.Year != 1997 || w.ISBN != "9780201896831" || w.Journal != "Addison-Wesley" {
		t.Errorf("work = %+v", w)
	}
	if w.Source != types.SourceGoogleBooks {
		t.Errorf("Source = %q", w.Source)
	}
}

func TestBuildGoogleBooksQuery(t *testing.T) {
	if got := buildGoogleBooksQuery(types.ParsedCitation{ISBN: "9780201896831", Title: "x"}); got != "isbn:9780201896831" {
		t.Errorf("ISBN query = %q", got)
	}
	if got := buildGoogleBooksQuery(types.ParsedCitation{Title: "Dune"}); got != "intitle:Dune" {
		t.Errorf("title query = %q", got)
	}
}

func TestGoogleBooksSourceApplicable(t *testing.T) {
	s := &GoogleBooksSource{}
	if s.Applicable(types.ParsedCitation{Author: "Herbert", Year: 1965}) {
		t.Error("needs a title or ISBN")
	}
	if !s.Applicable(types.ParsedCitation{ISBN: "9780441013593"}) {
		t.Error("ISBN alone should be searchable")
	}
}
