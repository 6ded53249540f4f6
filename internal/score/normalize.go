// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// genericWords are too common in titles to signal a match.
var genericWords = map[string]bool{
	"using": true, "based": true, "approach": true, "study": true,
	"review": true, "method": true, "methods": true, "towards": true,
	"toward": true, "language": true, "models": true, "model": true,
	"learning": true, "neural": true, "network": true, "networks": true,
	"deep": true, "large": true, "analysis": true, "artificial": true,
	"intelligence": true, "data": true,
}

// Normalize lowercases s, folds accents, drops punctuation and collapses
// whitespace, so "Müller-Lüdenscheidt, J." becomes "mullerludenscheidt j".
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func normalizeDOI(doi string) string {
	d := strings.ToLower(strings.TrimSpace(doi))
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "doi:"} {
		d = strings.TrimPrefix(d, prefix)
	}
	return strings.Join(strings.Fields(d), "")
}

// TitleOverlap returns the share of distinctive words two titles have in
// common, relative to the shorter title. Words of three letters or fewer
// and generic research vocabulary are ignored.
func TitleOverlap(a, b string) float64 {
	overlap, _ := titleOverlap(a, b)
	return overlap
}

// titleOverlap also returns how many distinctive words were shared.
func titleOverlap(a, b string) (float64, int) {
	aw, bw := titleWords(a), titleWords(b)
	shorter := min(len(aw), len(bw))
	if shorter == 0 {
		return 0, 0
	}
	set := make(map[string]bool, len(bw))
	for _, w := range bw {
		set[w] = true
	}
	matches := 0
	counted := make(map[string]bool, len(aw))
	for _, w := range aw {
		if set[w] && !counted[w] {
			counted[w] = true
			matches++
		}
	}
	return float64(matches) / float64(shorter), matches
}

func titleWords(title string) []string {
	var words []string
	for _, w := range strings.Fields(Normalize(title)) {
		if len(w) > 3 && !genericWords[w] {
			words = append(words, w)
		}
	}
	return words
}
