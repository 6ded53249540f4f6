// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fix

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citeverify/internal/llm"
	"github.com/pdiddy/citeverify/internal/search"
	"github.com/pdiddy/citeverify/internal/verify"
	"github.com/pdiddy/citeverify/pkg/types"
)

// --- helpers ---

type fakeSource struct {
	name    types.Source
	respond func(types.ParsedCitation) []types.CandidateWork
	err     error
	calls   atomic.Int32
}

func (f *fakeSource) Name() types.Source { return f.name }

func (f *fakeSource) Applicable(types.ParsedCitation) bool { return true }

func (f *fakeSource) Search(_ context.Context, p types.ParsedCitation) ([]types.CandidateWork, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	if f.respond == nil {
		return nil, nil
	}
	return f.respond(p), nil
}

type fakeLLM struct {
	out   string
	err   error
	got   llm.Request
	calls int
}

func (f *fakeLLM) Generate(_ context.Context, req llm.Request) (string, error) {
	f.calls++
	f.got = req
	return f.out, f.err
}

func always(works ...types.CandidateWork) func(types.ParsedCitation) []types.CandidateWork {
	return func(types.ParsedCitation) []types.CandidateWork { return works }
}

func testConfig() types.FixConfig {
	return types.DefaultConfig().Fix
}

// --- database path ---

func TestFixFromDatabase(t *testing.T) {
	oa := &fakeSource{name: types.SourceOpenAlex, respond: always(deepLearning)}
	model := &fakeLLM{}
	f := New([]search.Source{oa}, model, testConfig())

	r, err := f.Fix(context.Background(), `Hinton, Geoffrey. "Deep Learning." Nature, 2015.`)
	require.NoError(t, err)

	assert.True(t, r.Success)
	assert.False(t, r.AlreadyCorrect)
	assert.Equal(t, "OpenAlex", r.Source)
	assert.Equal(t, 95, r.Confidence)
	require.NotNil(t, r.Suggestions)
	assert.Equal(t, Format(deepLearning, StyleAPA), r.Suggestions.APA)
	assert.Equal(t, Format(deepLearning, StyleHarvard), r.Suggestions.Harvard)
	require.NotNil(t, r.Metadata)
	assert.Equal(t, "10.1038/nature14539", r.Metadata.DOI)
	assert.Equal(t, "https://doi.org/10.1038/nature14539", r.Metadata.URL)
	assert.Zero(t, model.calls, "a database match skips the model")
}

func TestFixAlreadyCorrect(t *testing.T) {
	oa := &fakeSource{name: types.SourceOpenAlex, respond: always(deepLearning)}
	f := New([]search.Source{oa}, nil, testConfig())

	input := Format(deepLearning, StyleAPA)
	r, err := f.Fix(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, r.Success)
	assert.True(t, r.AlreadyCorrect)
	assert.Equal(t, input, r.Suggestions.APA)
	assert.Nil(t, r.Metadata)
}

func TestFixWeakMatchFallsBackToModel(t *testing.T) {
	weak := deepLearning
	weak.Authors = []string{"Someone Else"}
	weak.Title = "Shallow networks revisited"
	weak.Year = 1990
	oa := &fakeSource{name: types.SourceOpenAlex, respond: always(weak)}
	model := &fakeLLM{out: "Hinton, G. (2015). Deep learning in practice. Nature, 521, 1-2."}
	f := New([]search.Source{oa}, model, testConfig())

	r, err := f.Fix(context.Background(), `Hinton, Geoffrey. "Deep Learning." Nature, 2015.`)
	require.NoError(t, err)
	assert.Equal(t, 1, model.calls)
	assert.Equal(t, "LLM", r.Source)
}

// --- model path ---

func TestFixFromModelWithEnrichment(t *testing.T) {
	repair := types.CandidateWork{
		Title:   "Machine learning for citation repair",
		Authors: []string{"Jane Smith"},
		Year:    2020,
		DOI:     "10.9999/mlcr",
		Source:  types.SourceOpenAlex,
	}
	oa := &fakeSource{name: types.SourceOpenAlex, respond: func(p types.ParsedCitation) []types.CandidateWork {
		if p.Title == "Machine learning for citation repair" && p.Author == "" {
			return []types.CandidateWork{repair}
		}
		return nil
	}}
	model := &fakeLLM{out: `Here is the citation: "Smith, J. (2020). Machine learning for citation repair. Journal of Tests, 1(1), 1-10."`}
	f := New([]search.Source{oa}, model, testConfig())

	r, err := f.Fix(context.Background(), "smith 2020 machne lerning for citaton repar")
	require.NoError(t, err)

	assert.True(t, r.Success)
	assert.Equal(t, "Smith, J. (2020). Machine learning for citation repair. Journal of Tests, 1(1), 1-10. https://doi.org/10.9999/mlcr",
		r.Suggestions.APA)
	assert.Equal(t, 95, r.Confidence)
	require.NotNil(t, r.Metadata)
	assert.Equal(t, "10.9999/mlcr", r.Metadata.DOI)

	assert.Equal(t, systemPrompt, model.got.System)
	assert.Equal(t, `APA format for: "smith 2020 machne lerning for citaton repar"`, model.got.Prompt)
	assert.InDelta(t, 0.1, model.got.Temperature, 1e-6)
	assert.Equal(t, 200, model.got.MaxTokens)
}

func TestFixFromModelWithoutEnrichment(t *testing.T) {
	model := &fakeLLM{out: "Smith, J. (2020). Machine learning for citation repair. Journal of Tests."}
	f := New(nil, model, testConfig())

	r, err := f.Fix(context.Background(), "smith 2020 machne lerning for citaton repar")
	require.NoError(t, err)

	assert.Equal(t, "Smith, J. (2020). Machine learning for citation repair. Journal of Tests.", r.Suggestions.APA)
	assert.Equal(t, 70, r.Confidence)
	assert.Nil(t, r.Metadata)
}

func TestFixModelFailures(t *testing.T) {
	const input = "smith 2020 machne lerning for citaton repar"
	tests := []struct {
		name  string
		model *fakeLLM
		want  error
	}{
		{"invalid sentinel", &fakeLLM{out: "INVALID"}, ErrUnfixable},
		{"quoted sentinel", &fakeLLM{out: "\"Invalid.\"\n"}, ErrUnfixable},
		{"too short", &fakeLLM{out: `"Smith."`}, ErrUnfixable},
		{"upstream error", &fakeLLM{err: errors.New("429 rate limited")}, ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(nil, tt.model, testConfig())
			r, err := f.Fix(context.Background(), input)
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, r.Success)
			assert.NotEmpty(t, r.Error)
		})
	}
}

func TestFixModelAnswerMentioningInvalid(t *testing.T) {
	const answer = "Lee, K. (2019). Cache invalidation in distributed systems. Journal of Systems, 4(2), 10-20."
	f := New(nil, &fakeLLM{out: answer}, testConfig())

	r, err := f.Fix(context.Background(), "lee 2019 cache invaldation distributd systems")
	require.NoError(t, err)
	assert.True(t, r.Success)
	assert.Equal(t, answer, r.Suggestions.APA)
}

func TestFixInputGuards(t *testing.T) {
	f := New(nil, &fakeLLM{out: "unused"}, testConfig())

	_, err := f.Fix(context.Background(), "  ")
	assert.ErrorIs(t, err, verify.ErrEmptyCitation)

	_, err = f.Fix(context.Background(), "Smith 2020")
	assert.ErrorIs(t, err, ErrInputTooShort)

	noModel := New(nil, nil, testConfig())
	_, err = noModel.Fix(context.Background(), "smith 2020 machne lerning for citaton repar")
	assert.ErrorIs(t, err, ErrNoLLM)
}

func TestFixModelAnswerSameAsInput(t *testing.T) {
	const input = "Smith, J. (2020). Machine learning for citation repair. Journal of Tests."
	model := &fakeLLM{out: input}
	f := New(nil, model, testConfig())

	r, err := f.Fix(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, r.AlreadyCorrect)
}

// --- helpers under test ---

func TestCleanModelOutput(t *testing.T) {
	tests := map[string]string{
		`Here is the citation: "Smith, J. (2020). T."`: "Smith, J. (2020). T.",
		"Proper APA format: Smith, J. (2020). T.":      "Smith, J. (2020). T.",
		"The corrected citation is: Smith (2020).":     "Smith (2020).",
		"  Smith, J. (2020). T.  ":                     "Smith, J. (2020). T.",
	}
	for in, want := range tests {
		if got := cleanModelOutput(in); got != want {
			t.Errorf("cleanModelOutput(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNearIdentical(t *testing.T) {
	tests := []struct {
		input, fixed string
		want         bool
	}{
		{"Smith, J. (2020). Title.", "smith j 2020 title", true},
		{"Smith, J. (2020). Title. Online", "Smith, J. (2020). Title.", true},
		{"Smith, J. (2020). Title.", "Smith, J. (2021). Title.", false},
		{"Smith (2020) a very long citation with lots of extra words appended", "Smith (2020)", false},
	}
	for _, tt := range tests {
		if got := nearIdentical(tt.input, tt.fixed); got != tt.want {
			t.Errorf("nearIdentical(%q, %q) = %v, want %v", tt.input, tt.fixed, got, tt.want)
		}
	}
}

func TestMetadataWork(t *testing.T) {
	w := MetadataWork(metadataFor(deepLearning))
	assert.Equal(t, deepLearning.Title, w.Title)
	assert.Equal(t, deepLearning.DOI, w.DOI)
	assert.Equal(t, types.CandidateWork{}, MetadataWork(nil))
}
