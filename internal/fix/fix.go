// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fix proposes a corrected reference for a malformed citation. It
// first looks for a plausible database match and renders it in each
// output style; failing that it asks a language model for a corrected APA
// entry and tries to attach a DOI to the answer.
package fix

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/pdiddy/citeverify/internal/llm"
	"github.com/pdiddy/citeverify/internal/parse"
	"github.com/pdiddy/citeverify/internal/score"
	"github.com/pdiddy/citeverify/internal/search"
	"github.com/pdiddy/citeverify/internal/verify"
	"github.com/pdiddy/citeverify/pkg/types"
)

// MinInputLen is the shortest citation, in characters, sent to the
// language model.
const MinInputLen = 15

const minOutputLen = 10

var (
	// ErrInputTooShort is returned when no database match was found and
	// the input is too short to send to the language model.
	ErrInputTooShort = errors.New("input too short to fix")

	// ErrUnfixable is returned when the model answers INVALID or with
	// nothing usable.
	ErrUnfixable = errors.New("could not verify or fix this citation")

	// ErrNoLLM is returned when no database match was found and no model
	// is configured.
	ErrNoLLM = errors.New("could not fix citation: no LLM provider configured")

	// ErrUpstream wraps a failed model call.
	ErrUpstream = errors.New("LLM call failed")
)

const systemPrompt = `You are a citation expert. Return ONLY the corrected APA format citation string. ` +
	`No explanation, no intro, no conversational filler. If the input is correct, return it as is. ` +
	`If it is a hallucinated/fake paper, return ONLY the word "INVALID".`

var (
	chattyPrefixRe = regexp.MustCompile(`(?i)^(?:here is the (?:corrected )?citation:?|proper apa format:|the corrected citation is:)\s*`)
	apaTitleRe     = regexp.MustCompile(`\(\d{4}\)\.\s*([^.]+)\.`)
)

// minSharedWords is exceeded when an enrichment lookup is accepted.
const minSharedWords = 3

// Fixer proposes corrections. It is safe for concurrent use.
type Fixer struct {
	sources   []search.Source
	enrich    search.Source
	scorer    *score.Scorer
	threshold int
	client    llm.Client
	llm       types.LLMConfig
	timeout   time.Duration
	log       *zap.Logger
}

// Option configures a Fixer.
type Option func(*Fixer)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(f *Fixer) { f.log = l } }

// WithScorer replaces the default scorer.
func WithScorer(s *score.Scorer) Option { return func(f *Fixer) { f.scorer = s } }

// New returns a Fixer searching sources for a match. The OpenAlex source,
// when present, is also used to enrich model answers. client may be nil,
// which disables the model fallback.
func New(sources []search.Source, client llm.Client, cfg types.FixConfig, opts ...Option) *Fixer {
	f := &Fixer{
		sources:   sources,
		scorer:    score.New(score.DefaultWeights()),
		threshold: cfg.Threshold,
		client:    client,
		llm:       cfg.LLM,
		timeout:   cfg.Timeout,
		log:       zap.NewNop(),
	}
	if oa := search.Only(sources, types.SourceOpenAlex); len(oa) > 0 {
		f.enrich = oa[0]
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.log == nil {
		f.log = zap.NewNop()
	}
	return f
}

// Fix proposes a correction for citation. On failure the returned result
// carries the error message and Success is false.
func (f *Fixer) Fix(ctx context.Context, citation string) (types.FixResult, error) {
	text := strings.TrimSpace(citation)
	if text == "" {
		return failed(verify.ErrEmptyCitation)
	}

	p := parse.Parse(text)
	if best, ok := f.bestMatch(ctx, p); ok {
		f.log.Debug("fix from database",
			zap.String("source", string(best.Source)),
			zap.Int("score", best.RelevanceScore))
		return fromWork(text, best.CandidateWork), nil
	}

	if len(text) < MinInputLen {
		return failed(ErrInputTooShort)
	}
	if f.client == nil {
		return failed(ErrNoLLM)
	}
	return f.fromModel(ctx, text)
}

// bestMatch searches the sources and returns the top candidate when it
// clears the fix threshold.
func (f *Fixer) bestMatch(ctx context.Context, p types.ParsedCitation) (types.ScoredCandidate, bool) {
	if len(f.sources) == 0 || (p.Title == "" && p.Author == "" && p.DOI == "") {
		return types.ScoredCandidate{}, false
	}
	outcomes := search.Gather(ctx, f.sources, p, f.log)
	works, _ := search.Deduplicate(search.Candidates(outcomes))
	if len(works) == 0 {
		return types.ScoredCandidate{}, false
	}
	ranked := f.scorer.Rank(p, works)
	if ranked[0].RelevanceScore < f.threshold {
		f.log.Debug("no database match above fix threshold",
			zap.Int("best", ranked[0].RelevanceScore),
			zap.Int("threshold", f.threshold))
		return types.ScoredCandidate{}, false
	}
	return ranked[0], true
}

func fromWork(input string, work types.CandidateWork) types.FixResult {
	suggestions := FormatAll(work)
	if nearIdentical(input, suggestions.APA) {
		return alreadyCorrect(input)
	}
	return types.FixResult{
		Success:     true,
		Suggestions: suggestions,
		Metadata:    metadataFor(work),
		Source:      work.Source.DisplayName(),
		Confidence:  95,
	}
}

func (f *Fixer) fromModel(ctx context.Context, text string) (types.FixResult, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	out, err := f.client.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      fmt.Sprintf(`APA format for: "%s"`, text),
		Temperature: f.llm.Temperature,
		MaxTokens:   f.llm.MaxTokens,
	})
	if err != nil {
		f.log.Warn("llm fix failed", zap.Error(err))
		return failed(fmt.Errorf("%w: %v", ErrUpstream, err))
	}

	out = strings.TrimSpace(out)
	if isInvalidSentinel(out) {
		return failed(ErrUnfixable)
	}
	fixed := cleanModelOutput(out)
	if len(fixed) < minOutputLen {
		return failed(ErrUnfixable)
	}
	if nearIdentical(text, fixed) {
		return alreadyCorrect(text), nil
	}

	result := types.FixResult{
		Success:     true,
		Suggestions: &types.Suggestions{APA: fixed},
		Source:      "LLM",
		Confidence:  70,
	}
	if work, ok := f.enrichFromTitle(ctx, fixed); ok {
		if work.DOI != "" && !strings.Contains(fixed, work.DOI) && !strings.Contains(fixed, "doi.org") {
			result.Suggestions.APA = strings.TrimSuffix(fixed, ".") + ". https://doi.org/" + work.DOI
		}
		result.Metadata = metadataFor(work)
		result.Confidence = 95
	}
	return result, nil
}

// isInvalidSentinel reports whether the whole answer is the INVALID
// marker. A citation that merely mentions the word is a real answer.
func isInvalidSentinel(out string) bool {
	return strings.EqualFold(strings.Trim(out, "\"'.` \t\n"), "INVALID")
}

// cleanModelOutput strips conversational prefixes and surrounding quotes.
func cleanModelOutput(s string) string {
	s = chattyPrefixRe.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return strings.TrimSpace(s)
}

// enrichFromTitle looks up the title of a model-written APA entry and
// accepts the first result when it shares more than minSharedWords words
// with the entry.
func (f *Fixer) enrichFromTitle(ctx context.Context, fixed string) (types.CandidateWork, bool) {
	if f.enrich == nil {
		return types.CandidateWork{}, false
	}
	m := apaTitleRe.FindStringSubmatch(fixed)
	if m == nil {
		return types.CandidateWork{}, false
	}
	works, err := f.enrich.Search(ctx, types.ParsedCitation{Title: strings.TrimSpace(m[1])})
	if err != nil {
		f.log.Warn("enrichment lookup failed", zap.String("source", string(f.enrich.Name())), zap.Error(err))
		return types.CandidateWork{}, false
	}
	if len(works) == 0 {
		return types.CandidateWork{}, false
	}
	if sharedWords(fixed, works[0].Title) <= minSharedWords {
		return types.CandidateWork{}, false
	}
	return works[0], true
}

func sharedWords(a, b string) int {
	in := make(map[string]bool)
	for _, w := range strings.Fields(score.Normalize(b)) {
		in[w] = true
	}
	n := 0
	for _, w := range strings.Fields(score.Normalize(a)) {
		if in[w] {
			n++
			delete(in, w)
		}
	}
	return n
}

// nearIdentical reports whether fixed differs from input only cosmetically:
// equal once reduced to lowercase letters and digits, or contained in the
// input with a small length difference.
func nearIdentical(input, fixed string) bool {
	a, b := squash(input), squash(fixed)
	if a == b {
		return true
	}
	diff := len(input) - len(fixed)
	if diff < 0 {
		diff = -diff
	}
	return b != "" && strings.Contains(a, b) && diff < 15
}

func squash(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func alreadyCorrect(input string) types.FixResult {
	return types.FixResult{
		Success:        true,
		AlreadyCorrect: true,
		Message:        "Citation is already in a correct format.",
		Suggestions:    &types.Suggestions{APA: input},
	}
}

func failed(err error) (types.FixResult, error) {
	return types.FixResult{Success: false, Error: err.Error()}, err
}

func metadataFor(w types.CandidateWork) *types.FixMetadata {
	m := &types.FixMetadata{
		Title:   w.Title,
		Authors: w.Authors,
		Year:    w.Year,
		Journal: w.Journal,
		DOI:     w.DOI,
		URL:     w.URL,
	}
	if m.URL == "" && w.DOI != "" {
		m.URL = "https://doi.org/" + w.DOI
	}
	return m
}

// MetadataWork converts fix metadata back into a work, for CSL export.
func MetadataWork(m *types.FixMetadata) types.CandidateWork {
	if m == nil {
		return types.CandidateWork{}
	}
	return types.CandidateWork{
		Title:   m.Title,
		Authors: m.Authors,
		Year:    m.Year,
		Journal: m.Journal,
		DOI:     m.DOI,
		URL:     m.URL,
	}
}
