// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citeverify/internal/parse"
	"github.com/pdiddy/citeverify/pkg/types"
)

func newScorer() *Scorer { return New(DefaultWeights()) }

func TestScoreDOIDominates(t *testing.T) {
	p := types.ParsedCitation{DOI: "10.1234/ABC", Author: "Nobody", Title: "Totally different", Year: 1900}
	work := types.CandidateWork{DOI: "https://doi.org/10.1234/abc", Title: "X", Authors: []string{"Someone"}, Year: 2020}

	assert.Equal(t, 100, newScorer().Score(p, work))
}

func TestScoreExactMatchClampsTo100(t *testing.T) {
	p := types.ParsedCitation{
		Author:  "Vaswani",
		Year:    2017,
		Title:   "Attention is all you need",
		Journal: "Advances in Neural Information Processing Systems",
	}
	work := types.CandidateWork{
		Title:         "Attention Is All You Need",
		Authors:       []string{"Ashish Vaswani", "Noam Shazeer"},
		Year:          2017,
		Journal:       "Advances in Neural Information Processing Systems",
		CitationCount: 90000,
	}

	b := newScorer().Explain(p, work)
	assert.Equal(t, 100, b.Total)
	assert.Contains(t, b.Signals(), "first author match +30")
	assert.Contains(t, b.Signals(), "title exact +55")
	assert.Contains(t, b.Signals(), "highly cited +10")
	assert.Contains(t, b.Signals(), "journal match +5")
}

func TestScoreAuthorMismatchStrictlyLowers(t *testing.T) {
	work := types.CandidateWork{
		Title:   "Protein folding prediction with graph methods",
		Authors: []string{"Jane Smith"},
		Year:    2021,
	}
	match := types.ParsedCitation{Author: "Smith", Year: 2020, Title: "Graph neural methods for protein folding prediction"}
	mismatch := match
	mismatch.Author = "Jones"

	s := newScorer()
	good, bad := s.Score(match, work), s.Score(mismatch, work)
	assert.Equal(t, 85, good)
	assert.Equal(t, 15, bad)
	assert.Greater(t, good, bad)
}

func TestScoreCoAuthorWeighsLess(t *testing.T) {
	p := types.ParsedCitation{Author: "Shazeer", Year: 2017, Title: "Attention is all you need"}
	work := types.CandidateWork{Title: "Attention Is All You Need", Authors: []string{"Ashish Vaswani", "Noam Shazeer"}, Year: 2017}

	b := newScorer().Explain(p, work)
	assert.Contains(t, b.Signals(), "co-author match +20")
	assert.Equal(t, 100, b.Total)
}

func TestScoreGenericTitleRejection(t *testing.T) {
	p := parse.Parse("Brown, T. (2021). A Study on Climate.")
	require.Equal(t, "Brown", p.Author)
	require.Equal(t, "A Study on Climate", p.Title)

	generic := types.CandidateWork{Title: "A Study on Climate", Authors: []string{"Maria Rossi"}, Year: 2021, Source: types.SourceCrossRef}
	baseline := types.CandidateWork{Title: "Ocean heat content trends", Authors: []string{"Tom Brown"}, Year: 2021, Source: types.SourceOpenAlex}

	s := newScorer()
	gb := s.Explain(p, generic)
	assert.True(t, gb.Rejected)
	assert.Equal(t, 0, gb.Total)
	assert.Equal(t, 40, s.Score(p, baseline))

	ranked := s.Rank(p, []types.CandidateWork{generic, baseline})
	require.Len(t, ranked, 2)
	assert.Equal(t, types.SourceOpenAlex, ranked[0].Source)
}

func TestScoreYearGapIsCapped(t *testing.T) {
	p := types.ParsedCitation{Author: "Smith", Year: 2000, Title: "Some long distinctive title words"}
	work := types.CandidateWork{Authors: []string{"Smith"}, Title: "Some long distinctive title words", Year: 2005}

	b := newScorer().Explain(p, work)
	assert.Contains(t, b.Signals(), "year gap 5 -50")
	assert.Equal(t, 35, b.Total)
}

func TestScoreArxivDOIMismatchNotPenalized(t *testing.T) {
	p := types.ParsedCitation{DOI: "10.48550/arXiv.1706.03762", Title: "Attention is all you need", Year: 2017}
	work := types.CandidateWork{DOI: "10.5555/3295222", Title: "Attention is all you need", Year: 2017}

	b := newScorer().Explain(p, work)
	assert.NotContains(t, b.Signals(), "doi mismatch -25")
	assert.Equal(t, 85, b.Total)
}

func TestScoreNeverNegative(t *testing.T) {
	p := types.ParsedCitation{Title: "Quantum gravity loops", Year: 1990}
	work := types.CandidateWork{Title: "Medieval farming practices", Year: 2020}

	assert.Equal(t, 0, newScorer().Score(p, work))
}

func TestRankTieBreaksBySource(t *testing.T) {
	p := types.ParsedCitation{Author: "Smith", Year: 2020, Title: "A distinctive example title here"}
	same := types.CandidateWork{Authors: []string{"Smith"}, Year: 2020, Title: "A distinctive example title here"}

	books, crossref := same, same
	books.Source = types.SourceGoogleBooks
	crossref.Source = types.SourceCrossRef

	ranked := newScorer().Rank(p, []types.CandidateWork{books, crossref})
	assert.Equal(t, types.SourceCrossRef, ranked[0].Source)
	assert.Equal(t, ranked[0].RelevanceScore, ranked[1].RelevanceScore)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "mullerludenscheidt j", Normalize("Müller-Lüdenscheidt, J."))
	assert.Equal(t, "attention is all you need", Normalize("  Attention   Is All You Need! "))
}

func TestTitleOverlap(t *testing.T) {
	assert.InDelta(t, 1.0, TitleOverlap("Deep learning for protein folding", "Protein folding with deep learning"), 1e-9)
	assert.InDelta(t, 0.0, TitleOverlap("Deep learning", "Neural networks"), 1e-9)
	assert.InDelta(t, 0.5, TitleOverlap("Protein folding", "Protein dynamics"), 1e-9)
}

func TestScoreSingleSharedWordIsNotAStrongMatch(t *testing.T) {
	p := parse.Parse("Smith, J. (2023). The Future of AI.")
	require.Equal(t, "Smith", p.Author)
	work := types.CandidateWork{Title: "The Future of Work in Rural Kenya", Authors: []string{"Maria Smithson"}, Year: 2023}

	b := newScorer().Explain(p, work)
	assert.Contains(t, b.Signals(), "author mismatch -40")
	assert.NotContains(t, b.Signals(), "title overlap 100% +40")
	assert.Contains(t, b.Signals(), "title overlap 100% +20")
	assert.True(t, b.Rejected)
	assert.Equal(t, 0, b.Total)
}

func TestMatchAuthorWholeTokens(t *testing.T) {
	s := newScorer()
	tests := []struct {
		author string
		work   []string
		want   int
	}{
		{"Smith", []string{"Maria Smithson"}, -1},
		{"Smith, J.", []string{"Ann Goldsmith", "John Smith"}, 1},
		{"Müller", []string{"Hans Müller-Lüdenscheidt"}, 0},
		{"Müller-Lüdenscheidt, J.", []string{"J. Müller-Lüdenscheidt"}, 0},
		{"van der Berg", []string{"Anna van der Berg"}, 0},
		{"Li", []string{"Wei Li"}, 0},
		{"Li", []string{"Liang Zhao"}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.author, func(t *testing.T) {
			assert.Equal(t, tt.want, s.matchAuthor(tt.author, tt.work))
		})
	}
}
