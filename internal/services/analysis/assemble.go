package analysis

import (
	"math"

	"github.com/bobmcallan/finquery/internal/models"
)

// snapshotPeriodLabel keys fundamentals values, which have no time window.
const snapshotPeriodLabel = "snapshot"

// assembleSingle merges one computed result into the response schema:
// metric -> ticker -> period label -> display value.
func assembleSingle(q *models.Query, result *models.MetricResult) *models.Response {
	return &models.Response{
		Status: "ok",
		Result: map[string]map[string]map[string]any{
			string(q.Metric): {
				result.Ticker: periodValue(q, result),
			},
		},
	}
}

// assembleComparison merges a comparison into the response schema, keeping
// per-ticker values under the metric key and the ranking alongside.
func assembleComparison(q *models.Query, comparison *models.ComparisonResult) *models.Response {
	tickerValues := make(map[string]map[string]any, len(comparison.Results))
	for ticker, result := range comparison.Results {
		tickerValues[ticker] = periodValue(q, result)
	}

	payload := &models.ComparisonPayload{
		Metric:  string(q.Metric),
		Period:  periodLabel(q),
		Ranking: comparison.Ranking,
	}
	if len(comparison.Errors) > 0 {
		payload.Errors = make(map[string]models.ErrorBody, len(comparison.Errors))
		for ticker, failure := range comparison.Errors {
			payload.Errors[ticker] = models.ErrorBody{
				Kind:    string(failure.Kind),
				Message: failure.Message,
			}
		}
	}

	return &models.Response{
		Status:     "ok",
		Result:     map[string]map[string]map[string]any{string(q.Metric): tickerValues},
		Comparison: payload,
	}
}

// periodValue renders a result as its period-keyed display value. Rounding
// to two decimals happens here, at the output boundary, never earlier.
func periodValue(q *models.Query, result *models.MetricResult) map[string]any {
	return map[string]any{periodLabel(q): displayValue(result)}
}

func periodLabel(q *models.Query) string {
	if q.Metric == models.MetricFundamentals {
		return snapshotPeriodLabel
	}
	return q.Period.Label()
}

func displayValue(result *models.MetricResult) any {
	switch {
	case result.Value != nil:
		return round2(*result.Value)

	case result.HighLow != nil:
		return map[string]any{
			"high": map[string]any{
				"price": round2(result.HighLow.High.Price),
				"date":  result.HighLow.High.Date.Format("2006-01-02"),
			},
			"low": map[string]any{
				"price": round2(result.HighLow.Low.Price),
				"date":  result.HighLow.Low.Date.Format("2006-01-02"),
			},
		}

	case result.Fundamentals != nil:
		f := result.Fundamentals
		value := map[string]any{
			"name":           f.Name,
			"market_cap":     roundPtr(f.MarketCap),
			"pe_ratio":       roundPtr(f.PERatio),
			"eps":            roundPtr(f.EPS),
			"dividend_yield": roundPtr(f.DividendYield),
			"debt_to_equity": roundPtr(f.DebtToEquity),
		}
		return value
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// roundPtr rounds a nullable value, preserving null for omitted fields.
func roundPtr(v *float64) any {
	if v == nil {
		return nil
	}
	return round2(*v)
}
