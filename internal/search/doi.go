// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pdiddy/citeverify/internal/httputil"
	"github.com/pdiddy/citeverify/internal/parse"
	"github.com/pdiddy/citeverify/pkg/types"
)

// DOIResolver looks a DOI up in the CrossRef registry. A DOI that resolves
// is ground truth for the citation.
type DOIResolver struct {
	Fetcher *httputil.Fetcher
	Email   string
}

// Name returns the source identifier.
func (r *DOIResolver) Name() types.Source { return types.SourceDOI }

// Resolve fetches /works/{doi}. A DOI the registry does not know (404)
// resolves to false without error.
func (r *DOIResolver) Resolve(ctx context.Context, p types.ParsedCitation) (types.CandidateWork, bool, error) {
	if !parse.ValidDOI(p.DOI) {
		return types.CandidateWork{}, false, nil
	}

	reqURL := crossRefWorksBase + "/" + url.PathEscape(p.DOI)
	if r.Email != "" {
		reqURL += "?" + url.Values{"mailto": {r.Email}}.Encode()
	}

	var resp crossRefWorkResponse
	if err := r.Fetcher.GetJSON(ctx, reqURL, nil, &resp); err != nil {
		if httputil.IsNotFound(err) {
			return types.CandidateWork{}, false, nil
		}
		return types.CandidateWork{}, false, fmt.Errorf("DOI lookup: %w", err)
	}

	work := resp.Message.toWork(types.SourceDOI)
	if work.DOI == "" {
		work.DOI = p.DOI
	}
	return work, true, nil
}
