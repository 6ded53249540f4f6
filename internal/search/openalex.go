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

// openAlexWorksBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexWorksBase = "https://api.openalex.org/works"

// OpenAlexSource queries the OpenAlex API.
type OpenAlexSource struct {
	Fetcher    *httputil.Fetcher
	MaxResults int

	// Email is sent as mailto parameter for polite pool access.
	Email string
}

// Name returns the source identifier.
func (s *OpenAlexSource) Name() types.Source { return types.SourceOpenAlex }

// Applicable requires a title.
func (s *OpenAlexSource) Applicable(p types.ParsedCitation) bool { return p.Title != "" }

// Search queries the OpenAlex API and returns candidate works.
func (s *OpenAlexSource) Search(ctx context.Context, p types.ParsedCitation) ([]types.CandidateWork, error) {
	searchText := buildOpenAlexQuery(p)
	if searchText == "" {
		return nil, fmt.Errorf("empty OpenAlex query")
	}

	perPage := s.MaxResults
	if perPage <= 0 {
		perPage = 10
	}
	if perPage > 200 {
		perPage = 200
	}

	params := url.Values{
		"search":   {searchText},
		"per-page": {strconv.Itoa(perPage)},
	}
	if s.Email != "" {
		params.Set("mailto", s.Email)
	}

	var oar openAlexResponse
	if err := s.Fetcher.GetJSON(ctx, openAlexWorksBase+"?"+params.Encode(), nil, &oar); err != nil {
		return nil, fmt.Errorf("OpenAlex search: %w", err)
	}

	works := make([]types.CandidateWork, 0, len(oar.Results))
	for _, w := range oar.Results {
		works = append(works, w.toWork())
	}
	return works, nil
}

// buildOpenAlexQuery combines the title (first 80 runes) and author (first
// 30 runes) into a search string.
func buildOpenAlexQuery(p types.ParsedCitation) string {
	var parts []string
	if p.Title != "" {
		parts = append(parts, clip(p.Title, 80))
	}
	if p.Author != "" {
		parts = append(parts, clip(p.Author, 30))
	}
	return strings.Join(parts, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	DisplayName     string               `json:"display_name"`
	DOI             string               `json:"doi"`
	PublicationYear int                  `json:"publication_year"`
	Authorships     []openAlexAuthorship `json:"authorships"`
	CitedByCount    int                  `json:"cited_by_count"`
	PrimaryLocation *openAlexLocation    `json:"primary_location"`
	Biblio          openAlexBiblio       `json:"biblio"`
	IDs             openAlexIDs          `json:"ids"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	DisplayName string `json:"display_name"`
}

type openAlexLocation struct {
	LandingPageURL string `json:"landing_page_url"`
	Source         *struct {
		DisplayName string `json:"display_name"`
	} `json:"source"`
}

type openAlexBiblio struct {
	Volume    string `json:"volume"`
	Issue     string `json:"issue"`
	FirstPage string `json:"first_page"`
	LastPage  string `json:"last_page"`
}

type openAlexIDs struct {
	DOI string `json:"doi"`
}

func (w openAlexWork) toWork() types.CandidateWork {
	out := types.CandidateWork{
		Title:         w.Title,
		Year:          w.PublicationYear,
		CitationCount: w.CitedByCount,
		Volume:        w.Biblio.Volume,
		Issue:         w.Biblio.Issue,
		Source:        types.SourceOpenAlex,
	}
	if out.Title == "" {
		out.Title = w.DisplayName
	}
	for _, a := range w.Authorships {
		if a.Author.DisplayName != "" {
			out.Authors = append(out.Authors, a.Author.DisplayName)
		}
	}

	// OpenAlex DOIs are URLs; keep the bare DOI.
	doi := w.DOI
	if doi == "" {
		doi = w.IDs.DOI
	}
	out.DOI = strings.TrimPrefix(doi, "https://doi.org/")

	if loc := w.PrimaryLocation; loc != nil {
		out.URL = loc.LandingPageURL
		if loc.Source != nil {
			out.Journal = loc.Source.DisplayName
		}
	}
	if out.URL == "" {
		out.URL = w.ID
	}

	switch {
	case w.Biblio.FirstPage != "" && w.Biblio.LastPage != "" && w.Biblio.FirstPage != w.Biblio.LastPage:
		out.Pages = w.Biblio.FirstPage + "-" + w.Biblio.LastPage
	case w.Biblio.FirstPage != "":
		out.Pages = w.Biblio.FirstPage
	}
	return out
}
