// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries bibliographic databases for works matching a
// parsed citation. Each database is a Source; sources that can look a work
// up by an exact identifier are also Resolvers. Gather fans a citation out
// to every source at once and keeps whatever comes back: a failing source
// degrades the candidate pool, it never fails the request.
package search

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/citeverify/pkg/types"
)

// Source searches one bibliographic database (strategy per provider).
type Source interface {
	Name() types.Source

	// Applicable reports whether p has a field the source can query by.
	// Gather skips sources that return false.
	Applicable(p types.ParsedCitation) bool

	// Search returns candidate works. A non-success status, timeout or
	// malformed body is an error; an empty result is not.
	Search(ctx context.Context, p types.ParsedCitation) ([]types.CandidateWork, error)
}

// Resolver looks a work up by an exact identifier carried in the citation.
type Resolver interface {
	Name() types.Source

	// Resolve returns the work and true when the identifier resolves. A
	// citation without the identifier, or an unknown identifier, returns
	// false with a nil error.
	Resolve(ctx context.Context, p types.ParsedCitation) (types.CandidateWork, bool, error)
}

// Outcome is what one source produced for one citation.
type Outcome struct {
	Source  types.Source
	Works   []types.CandidateWork
	Err     error
	Skipped bool
	Elapsed time.Duration
}

// Failed reports whether the source was queried and errored.
func (o Outcome) Failed() bool { return !o.Skipped && o.Err != nil }

// Gather queries every applicable source concurrently and waits for all of
// them. Outcomes are returned in the order of sources. Errors are recorded
// per source and logged; no source cancels its siblings. Each source bounds
// its own request with its own timeout.
func Gather(ctx context.Context, sources []Source, p types.ParsedCitation, log *zap.Logger) []Outcome {
	if log == nil {
		log = zap.NewNop()
	}
	outcomes := make([]Outcome, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		outcomes[i].Source = src.Name()
		if !src.Applicable(p) {
			outcomes[i].Skipped = true
			continue
		}
		g.Go(func() error {
			start := time.Now()
			works, err := src.Search(ctx, p)
			outcomes[i].Works = works
			outcomes[i].Err = err
			outcomes[i].Elapsed = time.Since(start)
			if err != nil {
				log.Warn("source unavailable",
					zap.String("source", string(src.Name())),
					zap.Duration("elapsed", outcomes[i].Elapsed),
					zap.Error(err))
				return nil
			}
			log.Debug("source answered",
				zap.String("source", string(src.Name())),
				zap.Int("works", len(works)),
				zap.Duration("elapsed", outcomes[i].Elapsed))
			return nil
		})
	}
	g.Wait()
	return outcomes
}

// Candidates flattens the works of all outcomes, in outcome order.
func Candidates(outcomes []Outcome) []types.CandidateWork {
	var all []types.CandidateWork
	for _, o := range outcomes {
		all = append(all, o.Works...)
	}
	return all
}

// AllFailed reports whether every queried source errored. It is false when
// no source was queried.
func AllFailed(outcomes []Outcome) bool {
	queried := 0
	for _, o := range outcomes {
		if o.Skipped {
			continue
		}
		queried++
		if o.Err == nil {
			return false
		}
	}
	return queried > 0
}

// Only returns the sources whose names are listed, in the listed order.
func Only(sources []Source, names ...types.Source) []Source {
	var out []Source
	for _, name := range names {
		for _, s := range sources {
			if s.Name() == name {
				out = append(out, s)
			}
		}
	}
	return out
}

// Deduplicate merges works that share a DOI or a normalized title and
// year. The first occurrence is kept and its empty fields are filled from
// later duplicates. It returns the merged works and the number removed.
func Deduplicate(works []types.CandidateWork) ([]types.CandidateWork, int) {
	seen := make(map[string]int)
	var deduped []types.CandidateWork
	removed := 0

	for _, w := range works {
		keys := dedupKeys(w)
		merged := false
		for _, k := range keys {
			if idx, ok := seen[k]; ok {
				mergeInto(&deduped[idx], w)
				removed++
				merged = true
				break
			}
		}
		if merged {
			continue
		}
		idx := len(deduped)
		deduped = append(deduped, w)
		for _, k := range keys {
			seen[k] = idx
		}
	}
	return deduped, removed
}

func dedupKeys(w types.CandidateWork) []string {
	var keys []string
	if w.DOI != "" {
		keys = append(keys, "doi:"+strings.ToLower(w.DOI))
	}
	if t := normalizeTitle(w.Title); t != "" {
		keys = append(keys, fmt.Sprintf("title:%s:%d", t, w.Year))
	}
	return keys
}

// mergeInto fills empty fields of dst from src and keeps the higher
// citation count.
func mergeInto(dst *types.CandidateWork, src types.CandidateWork) {
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if len(dst.Authors) == 0 {
		dst.Authors = src.Authors
	}
	if dst.Year == 0 {
		dst.Year = src.Year
	}
	if dst.Journal == "" {
		dst.Journal = src.Journal
	}
	if dst.DOI == "" {
		dst.DOI = src.DOI
	}
	if dst.ISBN == "" {
		dst.ISBN = src.ISBN
	}
	if dst.ArxivID == "" {
		dst.ArxivID = src.ArxivID
	}
	if dst.URL == "" {
		dst.URL = src.URL
	}
	if dst.Volume == "" {
		dst.Volume = src.Volume
	}
	if dst.Issue == "" {
		dst.Issue = src.Issue
	}
	if dst.Pages == "" {
		dst.Pages = src.Pages
	}
	if src.CitationCount > dst.CitationCount {
		dst.CitationCount = src.CitationCount
	}
}

// normalizeTitle returns a lowercased, punctuation-stripped version of the title.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// FormatTable writes ranked candidates as a human-readable table to w.
func FormatTable(ranked []types.ScoredCandidate, w io.Writer) {
	if len(ranked) == 0 {
		fmt.Fprintln(w, "No candidates.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-4s  %-5s  %s\n",
		"Rank", "Title", "Authors", "Year", "Score", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, c := range ranked {
		year := ""
		if c.Year > 0 {
			year = fmt.Sprintf("%d", c.Year)
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-4s  %-5d  %s\n",
			i+1, truncate(c.Title, 60), formatAuthors(c.Authors), year, c.RelevanceScore, c.Source)
	}
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// clip shortens s to at most max runes without a marker.
func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max]))
}
