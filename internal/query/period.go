package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bobmcallan/finquery/internal/models"
)

var (
	// Explicit provider-style tokens: 1mo, 3mo, 6mo, 1y, 5y.
	explicitPeriodRe = regexp.MustCompile(`(?i)\b(-?\d+)\s?(mo|y)\b`)

	// Relative phrases: "last 3 months", "past 2 years", "previous 6 months".
	relativePeriodRe = regexp.MustCompile(`(?i)\b(?:last|past|previous)\s+(-?\d+)\s+(month|year)s?\b`)

	// Bare relative phrases: "last month", "past year".
	bareRelativeRe = regexp.MustCompile(`(?i)\b(?:last|past|previous)\s+(month|year)\b`)

	// Year-to-date phrasings.
	ytdRe = regexp.MustCompile(`(?i)\b(?:ytd|year[\s-]to[\s-]date|this year|so far this year)\b`)

	// Bare 4-digit calendar years.
	calendarYearRe = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
)

// ParsePeriod extracts a bounded time window from the text. The absence of
// any period phrase is not an error: the default is year-to-date. It fails
// only on internally contradictory input such as a non-positive duration.
func ParsePeriod(text string) (models.PeriodSpec, error) {
	if m := relativePeriodRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return models.PeriodSpec{}, models.NewQueryError(models.ErrInvalidPeriod, "duration must be positive, got %q", m[1])
		}
		if strings.EqualFold(m[2], "year") {
			return models.RelativeYears(n), nil
		}
		return models.RelativeMonths(n), nil
	}

	if m := explicitPeriodRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return models.PeriodSpec{}, models.NewQueryError(models.ErrInvalidPeriod, "duration must be positive, got %q", m[1])
		}
		if strings.EqualFold(m[2], "y") {
			return models.RelativeYears(n), nil
		}
		return models.RelativeMonths(n), nil
	}

	if m := bareRelativeRe.FindStringSubmatch(text); m != nil {
		if strings.EqualFold(m[1], "year") {
			return models.RelativeYears(1), nil
		}
		return models.RelativeMonths(1), nil
	}

	if ytdRe.MatchString(text) {
		return models.YearToDate(), nil
	}

	if m := calendarYearRe.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		return models.CalendarYear(year), nil
	}

	return models.YearToDate(), nil
}
