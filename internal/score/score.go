// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score rates how likely a candidate work is the one a parsed
// citation describes. Scoring is a signed sum of named contributions,
// clamped to 0..100. Penalties deliberately outweigh the matching credit:
// a wrong "verified" costs more than a cautious "uncertain".
package score

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/citeverify/pkg/types"
)

// Weights holds every tunable number the scorer uses. The defaults are an
// empirical calibration, not a contract.
type Weights struct {
	FirstAuthor    int `json:"first_author" yaml:"first_author" mapstructure:"first_author"`
	CoAuthor       int `json:"co_author" yaml:"co_author" mapstructure:"co_author"`
	AuthorMismatch int `json:"author_mismatch" yaml:"author_mismatch" mapstructure:"author_mismatch"`

	// MaxAuthors bounds how many of the work's authors are compared.
	MaxAuthors int `json:"max_authors" yaml:"max_authors" mapstructure:"max_authors"`

	TitleExact     int     `json:"title_exact" yaml:"title_exact" mapstructure:"title_exact"`
	TitleSubstring int     `json:"title_substring" yaml:"title_substring" mapstructure:"title_substring"`
	TitleHigh      int     `json:"title_high" yaml:"title_high" mapstructure:"title_high"`
	TitlePartial   int     `json:"title_partial" yaml:"title_partial" mapstructure:"title_partial"`
	TitleMismatch  int     `json:"title_mismatch" yaml:"title_mismatch" mapstructure:"title_mismatch"`
	HighOverlap    float64 `json:"high_overlap" yaml:"high_overlap" mapstructure:"high_overlap"`
	PartialOverlap float64 `json:"partial_overlap" yaml:"partial_overlap" mapstructure:"partial_overlap"`

	// MinOverlapWords is how many distinctive words must be shared before
	// a high overlap earns TitleHigh. Below it the overlap counts as partial.
	MinOverlapWords int `json:"min_overlap_words" yaml:"min_overlap_words" mapstructure:"min_overlap_words"`

	// SubstringMinLen is the length both titles need before containment counts.
	SubstringMinLen int `json:"substring_min_len" yaml:"substring_min_len" mapstructure:"substring_min_len"`

	// GenericTitle penalizes a generic input title ("A study on X") when
	// the author did not match.
	GenericTitle int `json:"generic_title" yaml:"generic_title" mapstructure:"generic_title"`

	YearExact      int `json:"year_exact" yaml:"year_exact" mapstructure:"year_exact"`
	YearNear       int `json:"year_near" yaml:"year_near" mapstructure:"year_near"`
	YearGapPerYear int `json:"year_gap_per_year" yaml:"year_gap_per_year" mapstructure:"year_gap_per_year"`
	YearGapCap     int `json:"year_gap_cap" yaml:"year_gap_cap" mapstructure:"year_gap_cap"`

	HighlyCited      int `json:"highly_cited" yaml:"highly_cited" mapstructure:"highly_cited"`
	HighlyCitedAbove int `json:"highly_cited_above" yaml:"highly_cited_above" mapstructure:"highly_cited_above"`
	Journal          int `json:"journal" yaml:"journal" mapstructure:"journal"`

	DOIMismatch int `json:"doi_mismatch" yaml:"doi_mismatch" mapstructure:"doi_mismatch"`

	// ShortTitle penalizes a title shorter than ShortTitleLen when the
	// author did not match: short titles collide too easily.
	ShortTitle    int `json:"short_title" yaml:"short_title" mapstructure:"short_title"`
	ShortTitleLen int `json:"short_title_len" yaml:"short_title_len" mapstructure:"short_title_len"`

	// RejectPenalty is the accumulated penalty beyond which an unmatched
	// author scores 0 outright.
	RejectPenalty int `json:"reject_penalty" yaml:"reject_penalty" mapstructure:"reject_penalty"`
}

// DefaultWeights returns the standard calibration.
func DefaultWeights() Weights {
	return Weights{
		FirstAuthor:      30,
		CoAuthor:         20,
		AuthorMismatch:   40,
		MaxAuthors:       10,
		TitleExact:       55,
		TitleSubstring:   50,
		TitleHigh:        40,
		TitlePartial:     20,
		TitleMismatch:    20,
		HighOverlap:      0.7,
		PartialOverlap:   0.4,
		MinOverlapWords:  2,
		SubstringMinLen:  20,
		GenericTitle:     60,
		YearExact:        30,
		YearNear:         15,
		YearGapPerYear:   15,
		YearGapCap:       50,
		HighlyCited:      10,
		HighlyCitedAbove: 100,
		Journal:          5,
		DOIMismatch:      25,
		ShortTitle:       30,
		ShortTitleLen:    30,
		RejectPenalty:    40,
	}
}

// Contribution is one named, signed addition to a score.
type Contribution struct {
	Signal string `json:"signal" yaml:"signal"`
	Points int    `json:"points" yaml:"points"`
}

func (c Contribution) String() string {
	return fmt.Sprintf("%s %+d", c.Signal, c.Points)
}

// Breakdown explains a score.
type Breakdown struct {
	Contributions []Contribution `json:"contributions" yaml:"contributions"`

	// Rejected is set when an unmatched author with heavy penalties forced
	// the score to 0.
	Rejected bool `json:"rejected" yaml:"rejected"`

	Total int `json:"total" yaml:"total"`
}

func (b *Breakdown) add(signal string, points int) {
	b.Contributions = append(b.Contributions, Contribution{Signal: signal, Points: points})
}

// Credit and Penalty return the positive and negative sums.
func (b Breakdown) Credit() int {
	n := 0
	for _, c := range b.Contributions {
		if c.Points > 0 {
			n += c.Points
		}
	}
	return n
}

func (b Breakdown) Penalty() int {
	n := 0
	for _, c := range b.Contributions {
		if c.Points < 0 {
			n -= c.Points
		}
	}
	return n
}

// Signals renders each contribution for logs and result details.
func (b Breakdown) Signals() []string {
	out := make([]string, len(b.Contributions))
	for i, c := range b.Contributions {
		out[i] = c.String()
	}
	return out
}

// genericTitleRe matches titles too common to trust on word overlap alone.
var genericTitleRe = regexp.MustCompile(`^(?:a\s+)?(?:study|research|survey|analysis|investigation|impact|effect|effects|role|review)\s+(?:on|of|into|in)\b`)

// Scorer rates candidates against a parsed citation. It is pure and safe
// for concurrent use.
type Scorer struct {
	w Weights
}

// New returns a Scorer using w.
func New(w Weights) *Scorer {
	return &Scorer{w: w}
}

// Score returns the 0..100 relevance of work to p.
func (s *Scorer) Score(p types.ParsedCitation, work types.CandidateWork) int {
	return s.Explain(p, work).Total
}

// Explain scores work against p and returns every contribution.
func (s *Scorer) Explain(p types.ParsedCitation, work types.CandidateWork) Breakdown {
	var b Breakdown
	w := s.w

	if p.DOI != "" && work.DOI != "" {
		in, got := normalizeDOI(p.DOI), normalizeDOI(work.DOI)
		if in == got {
			b.add("doi match", 100)
			b.Total = 100
			return b
		}
		if !strings.Contains(in, "arxiv") {
			b.add("doi mismatch", -w.DOIMismatch)
		}
	}

	authorMatched := false
	if p.Author != "" {
		switch idx := s.matchAuthor(p.Author, work.Authors); {
		case idx == 0:
			authorMatched = true
			b.add("first author match", w.FirstAuthor)
		case idx > 0:
			authorMatched = true
			b.add("co-author match", w.CoAuthor)
		default:
			b.add("author mismatch", -w.AuthorMismatch)
		}
	}

	if p.Title != "" && work.Title != "" {
		s.scoreTitle(&b, p.Title, work.Title, authorMatched)
	}

	if p.Year > 0 && work.Year > 0 {
		diff := p.Year - work.Year
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff == 0:
			b.add("year exact", w.YearExact)
		case diff == 1:
			b.add("year off by one", w.YearNear)
		default:
			b.add(fmt.Sprintf("year gap %d", diff), -min(w.YearGapCap, diff*w.YearGapPerYear))
		}
	}

	if work.CitationCount > w.HighlyCitedAbove {
		b.add("highly cited", w.HighlyCited)
	}
	if p.Journal != "" && work.Journal != "" {
		if strings.Contains(Normalize(work.Journal), Normalize(p.Journal)) {
			b.add("journal match", w.Journal)
		}
	}

	if p.Author != "" && !authorMatched && p.Title != "" && len(p.Title) < w.ShortTitleLen {
		b.add("short title with wrong author", -w.ShortTitle)
	}

	if !authorMatched && b.Penalty() > w.RejectPenalty {
		b.Rejected = true
		b.Total = 0
		return b
	}
	b.Total = clamp(b.Credit() - b.Penalty())
	return b
}

func (s *Scorer) scoreTitle(b *Breakdown, inTitle, workTitle string, authorMatched bool) {
	w := s.w
	in, got := Normalize(inTitle), Normalize(workTitle)

	if genericTitleRe.MatchString(in) && !authorMatched {
		b.add("generic title with wrong author", -w.GenericTitle)
	}

	switch {
	case in == got:
		b.add("title exact", w.TitleExact)
	case len(in) >= w.SubstringMinLen && len(got) >= w.SubstringMinLen &&
		(strings.Contains(got, in) || strings.Contains(in, got)):
		b.add("title substring", w.TitleSubstring)
	default:
		overlap, shared := titleOverlap(inTitle, workTitle)
		pct := int(overlap*100 + 0.5)
		switch {
		case overlap >= w.HighOverlap && shared >= w.MinOverlapWords:
			b.add(fmt.Sprintf("title overlap %d%%", pct), w.TitleHigh)
		case overlap >= w.PartialOverlap:
			b.add(fmt.Sprintf("title overlap %d%%", pct), w.TitlePartial)
		default:
			b.add("title mismatch", -w.TitleMismatch)
		}
	}
}

// matchAuthor returns the index of the first work author matching the
// input author, or -1. Names match on whole tokens only, so "Smith" never
// matches "Smithson". Hyphenated names are compared both joined and split.
func (s *Scorer) matchAuthor(author string, workAuthors []string) int {
	in := Normalize(author)
	var words []string
	for _, tok := range nameTokens(author) {
		if len(tok) >= 3 && !particles[tok] {
			words = append(words, tok)
		}
	}

	n := len(workAuthors)
	if s.w.MaxAuthors > 0 && n > s.w.MaxAuthors {
		n = s.w.MaxAuthors
	}
	for i := 0; i < n; i++ {
		wa := Normalize(workAuthors[i])
		if wa == "" {
			continue
		}
		if len(in) >= 3 && strings.Contains(" "+wa+" ", " "+in+" ") {
			return i
		}
		tokens := make(map[string]bool)
		for _, tok := range nameTokens(workAuthors[i]) {
			tokens[tok] = true
		}
		for _, word := range words {
			if tokens[word] {
				return i
			}
		}
		if len(words) == 0 && tokens[in] {
			return i
		}
	}
	return -1
}

// nameTokens returns the normalized tokens of a personal name, adding the
// parts of hyphenated names to the joined form Normalize produces.
func nameTokens(name string) []string {
	toks := strings.Fields(Normalize(name))
	if strings.Contains(name, "-") {
		toks = append(toks, strings.Fields(Normalize(strings.ReplaceAll(name, "-", " ")))...)
	}
	return toks
}

// particles are surname prefixes too common to identify an author alone.
var particles = map[string]bool{
	"van": true, "von": true, "der": true, "den": true, "del": true,
	"della": true, "dos": true, "das": true, "bin": true, "ibn": true,
	"ter": true, "ten": true,
}

// Rank scores every work and returns them best first: higher score, then
// the more reliable source.
func (s *Scorer) Rank(p types.ParsedCitation, works []types.CandidateWork) []types.ScoredCandidate {
	ranked := make([]types.ScoredCandidate, 0, len(works))
	for _, work := range works {
		b := s.Explain(p, work)
		ranked = append(ranked, types.ScoredCandidate{
			CandidateWork:  work,
			RelevanceScore: b.Total,
			Signals:        b.Signals(),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Less(ranked[j])
	})
	return ranked
}

func clamp(n int) int {
	return max(0, min(100, n))
}
