// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify decides whether a free-text citation refers to a real
// publication. A Verifier parses the citation, rejects sparse or
// implausible input before any network call, resolves exact identifiers,
// fans out to the bibliographic sources, scores every candidate and
// classifies the best one into a status tier. Results are cached by raw
// citation text.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/citeverify/internal/filter"
	"github.com/pdiddy/citeverify/internal/parse"
	"github.com/pdiddy/citeverify/internal/score"
	"github.com/pdiddy/citeverify/internal/search"
	"github.com/pdiddy/citeverify/pkg/types"
)

// MinCitationLen is the shortest citation text accepted, in runes.
const MinCitationLen = 3

// Input errors. Both are rejected before parsing.
var (
	ErrEmptyCitation    = errors.New("citation cannot be empty")
	ErrCitationTooShort = fmt.Errorf("citation must be at least %d characters", MinCitationLen)
)

// Scores assigned to exact identifier lookups.
const (
	doiResolvedScore   = 100
	arxivResolvedScore = 95
)

// Recorder receives every verification result, cached or not.
type Recorder interface {
	Record(ctx context.Context, citation, email string, result types.VerificationResult) error
}

// Verifier runs the verification pipeline. It is safe for concurrent use.
type Verifier struct {
	resolvers  []search.Resolver
	sources    []search.Source
	scorer     *score.Scorer
	thresholds types.ScoringConfig
	cache      *Cache
	recorder   Recorder
	log        *zap.Logger
	now        func() time.Time
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithScorer replaces the default scorer.
func WithScorer(s *score.Scorer) Option { return func(v *Verifier) { v.scorer = s } }

// WithThresholds replaces the default status tier cutoffs.
func WithThresholds(cfg types.ScoringConfig) Option {
	return func(v *Verifier) { v.thresholds = cfg }
}

// WithCache replaces the default cache. A nil cache disables caching.
func WithCache(c *Cache) Option { return func(v *Verifier) { v.cache = c } }

// WithRecorder sets where results are recorded.
func WithRecorder(r Recorder) Option { return func(v *Verifier) { v.recorder = r } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(v *Verifier) { v.log = l } }

// WithClock sets the time source used for plausibility checks.
func WithClock(now func() time.Time) Option { return func(v *Verifier) { v.now = now } }

// New returns a Verifier over the given sources. Without options it uses
// the default weights and thresholds and a default-sized cache.
func New(set search.Set, opts ...Option) *Verifier {
	cfg := types.DefaultConfig()
	v := &Verifier{
		resolvers:  set.Resolvers,
		sources:    set.Sources,
		scorer:     score.New(score.DefaultWeights()),
		thresholds: cfg.Scoring,
		cache:      NewCache(cfg.Cache),
		log:        zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.log == nil {
		v.log = zap.NewNop()
	}
	return v
}

// Verify checks one citation. Every terminal status, including fake and
// not_found, is a successful result; only invalid input returns an error.
// email is passed to the recorder and is otherwise unused.
func (v *Verifier) Verify(ctx context.Context, citation, email string) (types.VerificationResult, error) {
	text := strings.TrimSpace(citation)
	if text == "" {
		return types.VerificationResult{}, ErrEmptyCitation
	}
	if utf8.RuneCountInString(text) < MinCitationLen {
		return types.VerificationResult{}, ErrCitationTooShort
	}

	if v.cache != nil {
		if cached, ok := v.cache.Get(citation); ok {
			v.log.Debug("cache hit", zap.String("citation", text))
			v.record(ctx, text, email, cached)
			return cached, nil
		}
	}

	result, cacheable := v.run(ctx, text)
	if v.cache != nil && cacheable {
		v.cache.Put(citation, result)
	}
	v.record(ctx, text, email, result)
	return result, nil
}

func (v *Verifier) record(ctx context.Context, text, email string, result types.VerificationResult) {
	if v.recorder == nil {
		return
	}
	if err := v.recorder.Record(ctx, text, email, result); err != nil {
		v.log.Warn("recording history", zap.Error(err))
	}
}

// run produces the result for text. cacheable is false when every queried
// source failed, so the next request tries them again.
func (v *Verifier) run(ctx context.Context, text string) (types.VerificationResult, bool) {
	p := parse.Parse(text)
	currentYear := v.now().Year()
	v.log.Debug("parsed citation",
		zap.String("author", p.Author),
		zap.Int("year", p.Year),
		zap.String("title", p.Title),
		zap.String("doi", p.DOI),
		zap.String("format", string(p.Format)))

	if reason := filter.IsFake(p, currentYear); reason != "" {
		return rejected(p, types.StatusFake, "Suspicious pattern detected: "+reason, reason), true
	}
	if filter.IsIncomplete(p, currentYear) {
		return rejected(p, types.StatusIncomplete, "Incomplete citation",
			"Could not extract enough of author, year and title to search"), true
	}

	var checks []string
	if p.ISBN != "" && !filter.ValidISBN(p.ISBN) {
		checks = append(checks, fmt.Sprintf("ISBN %s fails its checksum", p.ISBN))
	}

	for _, r := range v.resolvers {
		if !carriesIdentifier(r.Name(), p) {
			continue
		}
		work, ok, err := r.Resolve(ctx, p)
		switch {
		case err != nil:
			v.log.Warn("source unavailable", zap.String("source", string(r.Name())), zap.Error(err))
			checks = append(checks, r.Name().DisplayName()+": unavailable")
		case !ok:
			checks = append(checks, r.Name().DisplayName()+": identifier not found")
		default:
			s := arxivResolvedScore
			if r.Name() == types.SourceDOI {
				s = doiResolvedScore
			}
			checks = append(checks, fmt.Sprintf("%s: identifier resolved (score %d)", r.Name().DisplayName(), s))
			return v.matched(p, work, s, checks), true
		}
	}

	outcomes := search.Gather(ctx, v.sources, p, v.log)
	works, _ := search.Deduplicate(search.Candidates(outcomes))
	checks = append(checks, v.sourceChecks(p, outcomes)...)
	cacheable := !search.AllFailed(outcomes)

	if len(works) == 0 {
		return types.VerificationResult{
			Status:  types.StatusNotFound,
			Message: "Not found in any database",
			Details: detailsFromParsed(p, checks),
		}, cacheable
	}

	ranked := v.scorer.Rank(p, works)
	best := ranked[0]
	s := best.RelevanceScore
	if filter.IsHistorical(p) && s >= v.thresholds.UncertainThreshold && s < v.thresholds.VerifiedThreshold {
		boosted := min(s+v.thresholds.HistoricalBoost, v.thresholds.HistoricalCap)
		checks = append(checks, fmt.Sprintf("Historical work: score raised from %d to %d", s, boosted))
		s = boosted
	}
	v.log.Debug("best candidate",
		zap.String("source", string(best.Source)),
		zap.Int("score", s),
		zap.Strings("signals", best.Signals))
	return v.matched(p, best.CandidateWork, s, checks), cacheable
}

// matched builds the result for a best candidate scored s.
func (v *Verifier) matched(p types.ParsedCitation, work types.CandidateWork, s int, checks []string) types.VerificationResult {
	if checks == nil {
		checks = []string{}
	}
	status := v.classify(s)
	r := types.VerificationResult{
		Verified: status == types.StatusVerified,
		Score:    s,
		Status:   status,
		Message:  statusMessage(status, work.Source, s),
		Details: types.ResultDetails{
			Format:  p.Format,
			Author:  strings.Join(work.Authors, ", "),
			Year:    work.Year,
			Title:   work.Title,
			Journal: work.Journal,
			DOI:     work.DOI,
			Source:  work.Source,
			Checks:  checks,
		},
	}
	if r.Details.Author == "" {
		r.Details.Author = p.Author
	}
	if r.Details.Year == 0 {
		r.Details.Year = p.Year
	}
	if r.Details.Title == "" {
		r.Details.Title = p.Title
	}
	if r.Details.Journal == "" {
		r.Details.Journal = p.Journal
	}
	if r.Details.DOI == "" {
		r.Details.DOI = p.DOI
	}
	return r
}

// classify maps a score to a status tier.
func (v *Verifier) classify(s int) types.Status {
	switch {
	case s >= v.thresholds.VerifiedThreshold:
		return types.StatusVerified
	case s >= v.thresholds.LikelyThreshold:
		return types.StatusLikely
	case s >= v.thresholds.UncertainThreshold:
		return types.StatusUncertain
	default:
		return types.StatusNotVerified
	}
}

func statusMessage(status types.Status, src types.Source, s int) string {
	switch status {
	case types.StatusVerified:
		return "Verified in " + src.DisplayName()
	case types.StatusLikely:
		return fmt.Sprintf("Likely real, %d%% confidence", s)
	case types.StatusUncertain:
		return "Uncertain, verify manually"
	default:
		return "Not verified, no convincing match"
	}
}

// sourceChecks records, per source, whether it was queried, whether it
// matched, and at what score.
func (v *Verifier) sourceChecks(p types.ParsedCitation, outcomes []search.Outcome) []string {
	checks := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		name := o.Source.DisplayName()
		switch {
		case o.Skipped:
			checks = append(checks, name+": not queried")
		case o.Err != nil:
			checks = append(checks, name+": unavailable")
		case len(o.Works) == 0:
			checks = append(checks, name+": no results")
		default:
			best := 0
			for _, w := range o.Works {
				best = max(best, v.scorer.Score(p, w))
			}
			if best >= v.thresholds.UncertainThreshold {
				checks = append(checks, fmt.Sprintf("%s: matched (score %d)", name, best))
			} else {
				checks = append(checks, fmt.Sprintf("%s: no match (best score %d)", name, best))
			}
		}
	}
	return checks
}

func carriesIdentifier(src types.Source, p types.ParsedCitation) bool {
	switch src {
	case types.SourceDOI:
		return p.DOI != ""
	case types.SourceArxiv:
		return p.ArxivID != ""
	default:
		return false
	}
}

// rejected builds an incomplete or fake result. No source was queried.
func rejected(p types.ParsedCitation, status types.Status, message, reason string) types.VerificationResult {
	d := detailsFromParsed(p, []string{"Rejected before any database lookup"})
	d.Reason = reason
	return types.VerificationResult{Status: status, Message: message, Details: d}
}

func detailsFromParsed(p types.ParsedCitation, checks []string) types.ResultDetails {
	if checks == nil {
		checks = []string{}
	}
	return types.ResultDetails{
		Format:  p.Format,
		Author:  p.Author,
		Year:    p.Year,
		Title:   p.Title,
		Journal: p.Journal,
		DOI:     p.DOI,
		Checks:  checks,
	}
}
