package metrics

import (
	"sort"

	"github.com/bobmcallan/finquery/internal/models"
)

// tieEpsilon groups results whose values differ by less than this amount.
// Tied tickers are reported together, never arbitrarily ordered.
const tieEpsilon = 1e-9

// Compare ranks per-ticker results for a comparative query. Tickers whose
// fetch or computation failed are excluded from the ranking and reported in
// the Errors map. Fundamentals have no single winner; their results are
// returned side by side with no ranking. Fails with IncomparableMetric only
// when no ticker produced a valid result.
func Compare(q *models.Query, results map[string]*models.MetricResult, failures map[string]*models.QueryError) (*models.ComparisonResult, error) {
	if len(results) == 0 {
		return nil, models.NewQueryError(models.ErrIncomparableMetric, "no ticker produced a valid %s result", q.Metric)
	}

	comparison := &models.ComparisonResult{
		Metric:  q.Metric,
		Period:  q.Period,
		Results: results,
		Errors:  failures,
	}

	if q.Metric == models.MetricFundamentals {
		return comparison, nil
	}

	type ranked struct {
		ticker string
		value  float64
	}
	entries := make([]ranked, 0, len(results))
	for ticker, result := range results {
		entries = append(entries, ranked{ticker: ticker, value: sortValue(q.Metric, result)})
	}

	// Ascending only for "least risky" volatility questions; a riskiest cue
	// flips it back to descending. Sorting by (value, ticker) makes the
	// ranking invariant to input order.
	ascending := q.Metric == models.MetricVolatility && !q.Riskiest
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].value != entries[j].value {
			if ascending {
				return entries[i].value < entries[j].value
			}
			return entries[i].value > entries[j].value
		}
		return entries[i].ticker < entries[j].ticker
	})

	var ranking [][]string
	for i, entry := range entries {
		if i > 0 && absDiff(entry.value, entries[i-1].value) < tieEpsilon {
			last := len(ranking) - 1
			ranking[last] = append(ranking[last], entry.ticker)
			continue
		}
		ranking = append(ranking, []string{entry.ticker})
	}
	for _, group := range ranking {
		sort.Strings(group)
	}
	comparison.Ranking = ranking

	return comparison, nil
}

// sortValue extracts the comparable value for a metric result.
func sortValue(metric models.Metric, result *models.MetricResult) float64 {
	if metric == models.MetricHighLow {
		return result.HighLow.High.Price
	}
	return *result.Value
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
