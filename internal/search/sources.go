// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"net/http"

	"github.com/pdiddy/citeverify/internal/httputil"
	"github.com/pdiddy/citeverify/pkg/types"
)

// Set is the configured sources and resolvers.
type Set struct {
	// Resolvers run first, in order: DOI registry, then arXiv.
	Resolvers []Resolver

	// Sources are searched in parallel, listed in tie-break order.
	Sources []Source
}

// FromConfig builds the enabled sources. Each source gets its own Fetcher
// so that rate limits and timeouts are per provider.
func FromConfig(cfg types.SourcesConfig, client *http.Client) Set {
	if client == nil {
		client = &http.Client{}
	}
	fetcher := func(sc types.SourceConfig) *httputil.Fetcher {
		timeout := sc.Timeout
		if timeout <= 0 {
			timeout = cfg.Timeout
		}
		return httputil.NewFetcher(client, cfg.UserAgent, timeout, sc.RatePerSecond, cfg.MaxRetries)
	}

	var set Set
	if cfg.DOI.Enabled {
		set.Resolvers = append(set.Resolvers, &DOIResolver{Fetcher: fetcher(cfg.DOI), Email: cfg.ContactEmail})
	}
	var arxiv *ArxivSource
	if cfg.Arxiv.Enabled {
		arxiv = &ArxivSource{Fetcher: fetcher(cfg.Arxiv), MaxResults: cfg.Arxiv.MaxResults}
		set.Resolvers = append(set.Resolvers, arxiv)
	}

	if cfg.CrossRef.Enabled {
		set.Sources = append(set.Sources, &CrossRefSource{
			Fetcher: fetcher(cfg.CrossRef), MaxResults: cfg.CrossRef.MaxResults, Email: cfg.ContactEmail,
		})
	}
	if cfg.OpenAlex.Enabled {
		set.Sources = append(set.Sources, &OpenAlexSource{
			Fetcher: fetcher(cfg.OpenAlex), MaxResults: cfg.OpenAlex.MaxResults, Email: cfg.ContactEmail,
		})
	}
	if arxiv != nil {
		set.Sources = append(set.Sources, arxiv)
	}
	if cfg.SemanticScholar.Enabled {
		set.Sources = append(set.Sources, &SemanticScholarSource{
			Fetcher: fetcher(cfg.SemanticScholar), MaxResults: cfg.SemanticScholar.MaxResults, APIKey: cfg.SemanticScholarAPIKey,
		})
	}
	if cfg.GoogleBooks.Enabled {
		set.Sources = append(set.Sources, &GoogleBooksSource{
			Fetcher: fetcher(cfg.GoogleBooks), MaxResults: cfg.GoogleBooks.MaxResults, APIKey: cfg.GoogleBooksAPIKey,
		})
	}
	return set
}
