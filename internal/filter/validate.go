// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/citeverify/internal/parse"
)

var pageRangeRe = regexp.MustCompile(`^(\d+)[-–](\d+)$`)

// ValidDOI reports whether doi is a bare DOI in canonical 10.NNNN/suffix
// form.
func ValidDOI(doi string) bool {
	return parse.ValidDOI(doi)
}

// ValidISBN checks the ISBN-10 or ISBN-13 checksum. Hyphens and spaces are
// ignored.
func ValidISBN(isbn string) bool {
	digits := strings.NewReplacer("-", "", " ", "").Replace(strings.ToUpper(isbn))
	switch len(digits) {
	case 10:
		sum := 0
		for i := 0; i < 9; i++ {
			d, ok := digit(digits[i])
			if !ok {
				return false
			}
			sum += d * (10 - i)
		}
		check, ok := digit(digits[9])
		if digits[9] == 'X' {
			check, ok = 10, true
		}
		if !ok {
			return false
		}
		return (sum+check)%11 == 0
	case 13:
		sum := 0
		for i := 0; i < 12; i++ {
			d, ok := digit(digits[i])
			if !ok {
				return false
			}
			if i%2 == 0 {
				sum += d
			} else {
				sum += 3 * d
			}
		}
		check, ok := digit(digits[12])
		return ok && (10-sum%10)%10 == check
	default:
		return false
	}
}

func digit(c byte) (int, bool) {
	if c < '0' || c > '9' {
		return 0, false
	}
	return int(c - '0'), true
}

// ValidYear reports whether year lies in [1400, currentYear+1].
func ValidYear(year, currentYear int) bool {
	return year >= MinYear && year <= currentYear+1
}

// ValidPageRange reports whether pages is an ascending "start-end" range.
// An empty range is valid.
func ValidPageRange(pages string) bool {
	if pages == "" {
		return true
	}
	m := pageRangeRe.FindStringSubmatch(pages)
	if m == nil {
		return false
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	return start > 0 && start < end && end < 100000
}
