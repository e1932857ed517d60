// Package dates classifies and normalizes the free-text date strings users
// type into the assistant. Chat input is frequently partial ("2024", "May
// 2024" typed as 2024-05), so rather than guessing a day we classify the
// string and let the caller prompt for the rest.
package dates

import (
	"fmt"
	"regexp"
	"time"
)

// Canonical is the layout of a fully-resolved date.
const Canonical = "2006-01-02"

// Kind is the classification of a user-supplied date string.
type Kind int

const (
	// KindFull is a syntactically valid calendar date (YYYY-MM-DD).
	KindFull Kind = iota
	// KindYearMonth is a year and month with no day (YYYY-MM).
	KindYearMonth
	// KindYearOnly is a bare year (YYYY).
	KindYearOnly
	// KindInvalid is anything else, including well-formed strings that do
	// not name a real calendar date (2024-05-40).
	KindInvalid
)

var (
	yearMonthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)
	yearOnlyRe  = regexp.MustCompile(`^\d{4}$`)
)

// Classify reports which shape of date the trimmed input is. Partial shapes
// win over validity: "2024-13" classifies as KindYearMonth even though month
// 13 does not exist, because the user is mid-entry and will be re-prompted
// with the echo.
func Classify(s string) Kind {
	switch {
	case yearMonthRe.MatchString(s):
		return KindYearMonth
	case yearOnlyRe.MatchString(s):
		return KindYearOnly
	default:
		if _, err := time.Parse(Canonical, s); err != nil {
			return KindInvalid
		}
		return KindFull
	}
}

// Normalize strictly parses a full calendar date and returns its canonical
// form. Normalize is stable: feeding its output back in yields the same
// string.
func Normalize(s string) (string, error) {
	t, err := time.Parse(Canonical, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t.Format(Canonical), nil
}

// SplitYearMonth returns the year and month components of a KindYearMonth
// string for prompt construction.
func SplitYearMonth(s string) (year, month string) {
	return s[:4], s[5:7]
}
