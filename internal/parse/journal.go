// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/citeverify/pkg/types"
)

var (
	namedVenueRe = regexp.MustCompile(`\b((?:The\s+)?(?:(?:IEEE|ACM)\s+)?(?:Journal|Proceedings|Advances|Transactions|Annals|Bulletin|Reviews?)\s+(?:of|in|on)\s+(?:the\s+)?[\p{L}&\- ]+?)\s*(?:[,.(:;\d]|$)`)

	// standardVenueRe matches "Title. Journal Name, 47(2)".
	standardVenueRe = regexp.MustCompile(`\.\s+(\p{Lu}[\p{L}&:'\- ]{2,}?),\s*\d+`)

	bareVenueRe = regexp.MustCompile(`\b(New England Journal of Medicine|Proceedings of the National Academy of Sciences|The Lancet|Lancet|Nature|Science|Cell|JAMA|NEJM|PNAS|BMJ)\b`)

	publisherRe = regexp.MustCompile(`(?i)\b(Addison-Wesley|Springer|Wiley|O'Reilly|MIT Press|(?:[A-Z][a-z]+\s+)?University Press|Pearson|McGraw-Hill|Elsevier|Routledge|Penguin|HarperCollins|Sage Publications|Basic Books|W\. W\. Norton|Norton|Macmillan|Prentice Hall|Academic Press|Harvard Business Review Press)\b`)

	volIssuePagesRe = regexp.MustCompile(`\b(\d{1,4})\s*\((\d{1,4}(?:[-–]\d{1,4})?)\)\s*[,:]\s*(e?\d+(?:\s*[-–]\s*e?\d+)?)`)
	volPagesRe      = regexp.MustCompile(`,\s*(\d{1,4}),\s*(\d+\s*[-–]\s*\d+)`)
	pagesRe         = regexp.MustCompile(`(?i)\bpp?\.\s*(\d+\s*[-–]\s*\d+)`)
)

var journalRules = []rule{
	{"named-venue", submatch(namedVenueRe)},
	{"standard", submatch(standardVenueRe)},
	{"bare-venue", submatch(bareVenueRe)},
}

// extractJournal searches the text after the title so that venue words
// inside the title itself are not mistaken for the journal. Without a title
// the whole body is searched.
func extractJournal(body, title string) string {
	rest := body
	if title != "" {
		if idx := strings.Index(body, title); idx >= 0 {
			rest = body[idx+len(title):]
		}
	}
	var p types.ParsedCitation
	journal, _ := firstMatch(journalRules, rest, &p)
	journal = strings.Trim(journal, " .,;:")
	if journal == title || len(journal) < 2 {
		return ""
	}
	return journal
}

// extractPublisher returns the first well-known publisher named in text.
func extractPublisher(body string) string {
	return publisherRe.FindString(body)
}

// extractLocator returns volume, issue and page range. An issue equal to
// the publication year is discarded.
func extractLocator(body string, year int) (volume, issue, pages string) {
	if m := volIssuePagesRe.FindStringSubmatch(body); m != nil && m[2] != strconv.Itoa(year) {
		volume, issue, pages = m[1], m[2], m[3]
	} else if m := volPagesRe.FindStringSubmatch(body); m != nil && m[1] != strconv.Itoa(year) {
		volume, pages = m[1], m[2]
	}
	if pages == "" {
		if m := pagesRe.FindStringSubmatch(body); m != nil {
			pages = m[1]
		}
	}
	return volume, issue, normalizePages(pages)
}

func normalizePages(pages string) string {
	return strings.NewReplacer("–", "-", " ", "").Replace(pages)
}
