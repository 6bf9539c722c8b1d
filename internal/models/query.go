// Package models defines data structures for FinQuery
package models

import (
	"strconv"
	"time"
)

// Metric identifies a computable financial metric.
type Metric string

const (
	MetricReturn       Metric = "return"
	MetricVolatility   Metric = "volatility"
	MetricFundamentals Metric = "fundamentals"
	MetricHighLow      Metric = "high_low"
)

// Mode distinguishes single-ticker questions from comparative ones.
type Mode string

const (
	ModeSingle  Mode = "single"
	ModeCompare Mode = "compare"
)

// PeriodKind tags the variants of PeriodSpec.
type PeriodKind string

const (
	PeriodYearToDate     PeriodKind = "ytd"
	PeriodRelativeMonths PeriodKind = "months"
	PeriodRelativeYears  PeriodKind = "years"
	PeriodCalendarYear   PeriodKind = "calendar"
)

// PeriodSpec is a tagged time-window specification. It is always resolvable
// to a concrete date range via Range.
type PeriodSpec struct {
	Kind  PeriodKind `json:"kind"`
	Count int        `json:"count,omitempty"` // months or years for relative kinds
	Year  int        `json:"year,omitempty"`  // calendar year
}

// YearToDate returns a period spanning January 1 of the current year to now.
func YearToDate() PeriodSpec {
	return PeriodSpec{Kind: PeriodYearToDate}
}

// RelativeMonths returns a period spanning the last n months.
func RelativeMonths(n int) PeriodSpec {
	return PeriodSpec{Kind: PeriodRelativeMonths, Count: n}
}

// RelativeYears returns a period spanning the last n years.
func RelativeYears(n int) PeriodSpec {
	return PeriodSpec{Kind: PeriodRelativeYears, Count: n}
}

// CalendarYear returns a period covering a whole calendar year.
func CalendarYear(year int) PeriodSpec {
	return PeriodSpec{Kind: PeriodCalendarYear, Year: year}
}

// Range resolves the period to a concrete [from, to] date range anchored at now.
func (p PeriodSpec) Range(now time.Time) (from, to time.Time) {
	switch p.Kind {
	case PeriodRelativeMonths:
		return now.AddDate(0, -p.Count, 0), now
	case PeriodRelativeYears:
		return now.AddDate(-p.Count, 0, 0), now
	case PeriodCalendarYear:
		from = time.Date(p.Year, time.January, 1, 0, 0, 0, 0, now.Location())
		to = time.Date(p.Year, time.December, 31, 0, 0, 0, 0, now.Location())
		if to.After(now) {
			to = now
		}
		return from, to
	default: // year-to-date
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), now
	}
}

// Label returns the normalized period token used in response payloads,
// e.g. "3mo", "1y", "ytd", "2022".
func (p PeriodSpec) Label() string {
	switch p.Kind {
	case PeriodRelativeMonths:
		return strconv.Itoa(p.Count) + "mo"
	case PeriodRelativeYears:
		return strconv.Itoa(p.Count) + "y"
	case PeriodCalendarYear:
		return strconv.Itoa(p.Year)
	default:
		return "ytd"
	}
}

// Query is the structured interpretation of a free-form question.
// Tickers preserve first-mention order and contain no duplicates.
type Query struct {
	Tickers []string   `json:"tickers"`
	Metric  Metric     `json:"metric"`
	Period  PeriodSpec `json:"period"`
	Mode    Mode       `json:"mode"`

	// Riskiest is set when a volatility question asks for the most volatile
	// ticker, flipping the comparison direction.
	Riskiest bool `json:"riskiest,omitempty"`
}
