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

// googleBooksBase is the Google Books volumes endpoint. Declared as a var
// so tests can substitute an httptest server.
var googleBooksBase = "https://www.googleapis.com/books/v1/volumes"

// GoogleBooksSource searches Google Books by ISBN, or by title and author.
type GoogleBooksSource struct {
	Fetcher    *httputil.Fetcher
	MaxResults int

	// APIKey is optional; the anonymous quota applies without it.
	APIKey string
}

// Name returns the source identifier.
func (s *GoogleBooksSource) Name() types.Source { return types.SourceGoogleBooks }

// Applicable requires a title or an ISBN.
func (s *GoogleBooksSource) Applicable(p types.ParsedCitation) bool {
	return p.Title != "" || p.ISBN != ""
}

// Search queries the volumes endpoint.
func (s *GoogleBooksSource) Search(ctx context.Context, p types.ParsedCitation) ([]types.CandidateWork, error) {
	maxResults := s.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	params := url.Values{
		"q":          {buildGoogleBooksQuery(p)},
		"maxResults": {strconv.Itoa(maxResults)},
	}
	if s.APIKey != "" {
		params.Set("key", s.APIKey)
	}

	var resp googleBooksResponse
	if err := s.Fetcher.GetJSON(ctx, googleBooksBase+"?"+params.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("Google Books search: %w", err)
	}

	works := make([]types.CandidateWork, 0, len(resp.Items))
	for _, item := range resp.Items {
		works = append(works, item.VolumeInfo.toWork())
	}
	return works, nil
}

// buildGoogleBooksQuery prefers an exact ISBN query.
func buildGoogleBooksQuery(p types.ParsedCitation) string {
	if p.ISBN != "" {
		return "isbn:" + p.ISBN
	}
	q := "intitle:" + clip(p.Title, 100)
	if p.Author != "" {
		q += " inauthor:" + p.Author
	}
	return q
}

// Google Books API JSON structures.
type googleBooksResponse struct {
	Items []struct {
		VolumeInfo googleVolumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

type googleVolumeInfo struct {
	Title               string   `json:"title"`
	Subtitle            string   `json:"subtitle"`
	Authors             []string `json:"authors"`
	Publisher           string   `json:"publisher"`
	PublishedDate       string   `json:"publishedDate"`
	InfoLink            string   `json:"infoLink"`
	RatingsCount        int      `json:"ratingsCount"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
}

func (v googleVolumeInfo) toWork() types.CandidateWork {
	out := types.CandidateWork{
		Title:   v.Title,
		Authors: v.Authors,
		Journal: v.Publisher,
		URL:     v.InfoLink,
		Source:  types.SourceGoogleBooks,
	}
	if len(v.PublishedDate) >= 4 {
		out.Year, _ = strconv.Atoi(v.PublishedDate[:4])
	}
	for _, id := range v.IndustryIdentifiers {
		switch {
		case id.Type == "ISBN_13":
			out.ISBN = id.Identifier
		case id.Type == "ISBN_10" && out.ISBN == "":
			out.ISBN = id.Identifier
		}
	}
	out.ISBN = strings.ReplaceAll(out.ISBN, "-", "")
	return out
}
