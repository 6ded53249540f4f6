// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fix

import (
	"fmt"
	"strings"

	"github.com/pdiddy/citeverify/internal/search"
	"github.com/pdiddy/citeverify/pkg/types"
)

// Style is a citation output style.
type Style string

const (
	StyleAPA     Style = "APA"
	StyleMLA     Style = "MLA"
	StyleChicago Style = "Chicago"
	StyleHarvard Style = "Harvard"
)

// Styles lists every supported style.
var Styles = []Style{StyleAPA, StyleMLA, StyleChicago, StyleHarvard}

// ParseStyle matches name case-insensitively against the supported styles.
func ParseStyle(name string) (Style, error) {
	for _, s := range Styles {
		if strings.EqualFold(name, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown citation style %q (want APA, MLA, Chicago or Harvard)", name)
}

// FormatAll renders work in every style.
func FormatAll(work types.CandidateWork) *types.Suggestions {
	return &types.Suggestions{
		APA:     Format(work, StyleAPA),
		MLA:     Format(work, StyleMLA),
		Chicago: Format(work, StyleChicago),
		Harvard: Format(work, StyleHarvard),
	}
}

// Format renders work as a reference list entry in style. Books (works
// with an ISBN or from Google Books) use the publisher in place of the
// journal and omit volume and pages.
func Format(work types.CandidateWork, style Style) string {
	names := make([]search.CSLName, 0, len(work.Authors))
	for _, a := range work.Authors {
		if n := search.ParseAuthorName(a); n != (search.CSLName{}) {
			names = append(names, n)
		}
	}
	year := "n.d."
	if work.Year > 0 {
		year = fmt.Sprint(work.Year)
	}
	book := search.IsBook(work)

	var b strings.Builder
	switch style {
	case StyleMLA:
		b.WriteString(sentence(mlaAuthors(names)))
		if book {
			b.WriteString(" " + sentence(work.Title) + " " + joinNonEmpty(", ", work.Journal, year) + ".")
		} else {
			b.WriteString(` "` + sentence(work.Title) + `" `)
			b.WriteString(joinNonEmpty(", ", work.Journal, prefixed("vol. ", work.Volume),
				prefixed("no. ", work.Issue), year, prefixed("pp. ", work.Pages)) + ".")
		}
	case StyleChicago:
		b.WriteString(sentence(chicagoAuthors(names)))
		if book {
			b.WriteString(" " + sentence(work.Title) + " " + joinNonEmpty(", ", work.Journal, year) + ".")
		} else {
			b.WriteString(` "` + sentence(work.Title) + `"`)
			if work.Journal != "" {
				b.WriteString(" " + work.Journal)
			}
			if work.Volume != "" {
				b.WriteString(" " + work.Volume)
			}
			if work.Issue != "" {
				b.WriteString(", no. " + work.Issue)
			}
			b.WriteString(" (" + year + ")")
			if work.Pages != "" {
				b.WriteString(": " + work.Pages)
			}
			b.WriteString(".")
		}
	case StyleHarvard:
		b.WriteString(apaAuthors(names, " and ") + " (" + year + ")")
		if book {
			b.WriteString(" " + sentence(work.Title))
			if work.Journal != "" {
				b.WriteString(" " + sentence(work.Journal))
			}
		} else {
			b.WriteString(" '" + strings.TrimRight(work.Title, ".") + "'")
			writeParts(&b, ", ", work.Journal, volumeIssue(work), prefixed("pp. ", work.Pages))
			b.WriteString(".")
		}
		if work.DOI != "" {
			b.WriteString(" Available at: https://doi.org/" + work.DOI + ".")
		}
		return b.String()
	default:
		b.WriteString(apaAuthors(names, "& ") + " (" + year + "). " + sentence(work.Title))
		if book {
			if work.Journal != "" {
				b.WriteString(" " + sentence(work.Journal))
			}
		} else if work.Journal != "" {
			b.WriteString(" " + work.Journal)
			writeParts(&b, ", ", volumeIssue(work), work.Pages)
			b.WriteString(".")
		}
	}

	if work.DOI != "" {
		b.WriteString(" https://doi.org/" + work.DOI)
	}
	return b.String()
}

// writeParts appends each non-empty part preceded by sep.
func writeParts(b *strings.Builder, sep string, parts ...string) {
	for _, p := range parts {
		if p != "" {
			b.WriteString(sep + p)
		}
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func prefixed(prefix, s string) string {
	if s == "" {
		return ""
	}
	return prefix + s
}

// volumeIssue renders "47(2)", "47" or "".
func volumeIssue(work types.CandidateWork) string {
	if work.Volume == "" {
		return ""
	}
	if work.Issue != "" {
		return work.Volume + "(" + work.Issue + ")"
	}
	return work.Volume
}

// sentence terminates s with a period unless it already ends in
// terminal punctuation.
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, ".") || strings.HasSuffix(s, "?") || strings.HasSuffix(s, "!") {
		return s
	}
	return s + "."
}

// initials turns "John Ronald" into "J. R.".
func initials(given string) string {
	var parts []string
	for _, g := range strings.FieldsFunc(given, func(r rune) bool { return r == ' ' || r == '.' }) {
		parts = append(parts, string([]rune(g)[0])+".")
	}
	return strings.Join(parts, " ")
}

// invertedInitials renders "Family, G." or a literal name.
func invertedInitials(n search.CSLName) string {
	if n.Literal != "" {
		return n.Literal
	}
	if n.Given == "" {
		return n.Family
	}
	return n.Family + ", " + initials(n.Given)
}

func inverted(n search.CSLName) string {
	if n.Literal != "" {
		return n.Literal
	}
	if n.Given == "" {
		return n.Family
	}
	return n.Family + ", " + n.Given
}

func natural(n search.CSLName) string {
	if n.Literal != "" {
		return n.Literal
	}
	return strings.TrimSpace(n.Given + " " + n.Family)
}

// apaAuthors lists up to three authors as "Family, G." and abbreviates
// longer lists with et al. conj joins the last name ("& " or " and ").
func apaAuthors(names []search.CSLName, conj string) string {
	switch len(names) {
	case 0:
		return "Unknown"
	case 1:
		return invertedInitials(names[0])
	}
	if len(names) > 3 {
		out := make([]string, 3)
		for i := range out {
			out[i] = invertedInitials(names[i])
		}
		return strings.Join(out, ", ") + ", et al."
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = invertedInitials(n)
	}
	if conj == "& " {
		return strings.Join(out[:len(out)-1], ", ") + ", & " + out[len(out)-1]
	}
	return strings.Join(out[:len(out)-1], ", ") + conj + out[len(out)-1]
}

func mlaAuthors(names []search.CSLName) string {
	switch len(names) {
	case 0:
		return "Unknown"
	case 1:
		return inverted(names[0])
	case 2:
		return inverted(names[0]) + ", and " + natural(names[1])
	default:
		return inverted(names[0]) + ", et al"
	}
}

func chicagoAuthors(names []search.CSLName) string {
	switch len(names) {
	case 0:
		return "Unknown"
	case 1:
		return inverted(names[0])
	case 2:
		return inverted(names[0]) + ", and " + natural(names[1])
	case 3:
		return inverted(names[0]) + ", " + natural(names[1]) + ", and " + natural(names[2])
	default:
		return inverted(names[0]) + " et al"
	}
}
