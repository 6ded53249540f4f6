// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"

	"github.com/pdiddy/citeverify/pkg/types"
)

var (
	corporateAuthorRe = regexp.MustCompile(`^((?:\p{Lu}[\p{L}.&-]*\s+){0,6}(?:Organization|Organisation|Institute|Association|Agency|Department|Committee|Council|Foundation|Society|Bureau|Commission|Office|Academy|Centers?|Centres?)(?:\s+(?:of|for|on)(?:\s+the)?(?:\s+(?:and|&|\p{Lu}[\p{L}&-]*)){1,6})?)\s*[.,(]`)

	acronymAuthorRe = regexp.MustCompile(`^(WHO|CDC|NIH|NIST|NASA|UNESCO|UNICEF|OECD|IEEE|ACM|APA|FDA|EPA|IMF|IPCC|NHS|NICE|UN|EU)\s*[.,(]`)

	particleAuthorRe = regexp.MustCompile(`^((?i:van|von|de|der|den|del|della|di|da|la|le|du|dos|das|bin|ibn|al|el|ter|ten|zu)(?:\s+(?i:van|von|de|der|den|del|la|le|du|dos|das|ter|ten|zu))*\s+\p{Lu}[\p{L}'’-]+)\s*[,(]`)

	twoWordAuthorRe = regexp.MustCompile(`^(\p{Lu}[\p{L}'’-]+\s+\p{Lu}[\p{L}'’-]+),\s*\p{Lu}\.`)

	hyphenAuthorRe = regexp.MustCompile(`^(\p{Lu}\p{L}+-\p{Lu}\p{L}+)\s*[,(]`)

	apostropheAuthorRe = regexp.MustCompile(`^(\p{Lu}['’]\p{Lu}\p{L}+|\p{Lu}\p{L}+['’]\p{L}+)\s*[,(]`)

	commaAuthorRe = regexp.MustCompile(`^(\p{Lu}\p{L}+),`)

	// vancouverAuthorRe matches "Smith J, Jones K." and "Smith JK."
	vancouverAuthorRe = regexp.MustCompile(`^(\p{Lu}\p{L}+)\s+\p{Lu}{1,3}[,.]`)

	parenAuthorRe = regexp.MustCompile(`^(\p{Lu}[\p{L}'’-]+)(?:,?\s+(?:et\s+al\.?|\p{Lu}\.(?:\s*\p{Lu}\.)*))?\s*\(`)

	yearAuthorRe = regexp.MustCompile(`^(\p{Lu}[\p{L}'’-]+)(?:\s+et\s+al\.?)?,?\s+(?:1[5-9]|20)\d{2}\b`)
)

// authorStopwords are capitalized words that open titles, never surnames.
var authorStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "in": true, "on": true, "of": true,
	"and": true, "for": true, "to": true, "with": true, "from": true,
	"by": true, "at": true, "as": true, "this": true, "that": true,
	"these": true, "those": true, "is": true, "are": true, "toward": true,
	"towards": true, "introduction": true, "chapter": true, "vol": true,
	"volume": true, "retrieved": true, "available": true, "see": true,
	"page": true, "hello": true,
}

// authorRules run from the most specific shape to the least.
var authorRules = []rule{
	{"corporate", authorRule(corporateAuthorRe)},
	{"acronym", authorRule(acronymAuthorRe)},
	{"particle", authorRule(particleAuthorRe)},
	{"two-word", authorRule(twoWordAuthorRe)},
	{"hyphenated", authorRule(hyphenAuthorRe)},
	{"apostrophe", authorRule(apostropheAuthorRe)},
	{"comma", authorRule(commaAuthorRe)},
	{"vancouver", authorRule(vancouverAuthorRe)},
	{"paren", authorRule(parenAuthorRe)},
	{"year", authorRule(yearAuthorRe)},
}

// authorRule wraps a pattern with the stopword rejection every author rule
// shares.
func authorRule(re *regexp.Regexp) func(string, *types.ParsedCitation) string {
	match := submatch(re)
	return func(text string, p *types.ParsedCitation) string {
		candidate := match(text, p)
		if candidate == "" || isStopword(candidate) {
			return ""
		}
		return candidate
	}
}

// isStopword rejects a candidate equal to a stopword, or a multi-word
// candidate whose first word is one (particles excepted).
func isStopword(candidate string) bool {
	lower := strings.ToLower(candidate)
	if authorStopwords[lower] {
		return true
	}
	first, _, found := strings.Cut(lower, " ")
	return found && authorStopwords[first]
}
