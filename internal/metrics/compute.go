// Package metrics computes financial metrics from raw price series
package metrics

import (
	"math"

	"github.com/bobmcallan/finquery/internal/models"
)

// tradingDaysPerYear is the annualization factor for daily volatility.
const tradingDaysPerYear = 252

// Compute derives the requested metric from a raw series. Values are kept
// at full precision; rounding to display precision happens at the output
// boundary only.
func Compute(metric models.Metric, series *models.RawSeries) (*models.MetricResult, error) {
	result := &models.MetricResult{
		Ticker: series.Ticker,
		Metric: metric,
		Period: series.Period,
	}

	switch metric {
	case models.MetricReturn:
		value, err := periodReturn(series)
		if err != nil {
			return nil, err
		}
		result.Value = &value

	case models.MetricVolatility:
		value, err := annualizedVolatility(series)
		if err != nil {
			return nil, err
		}
		result.Value = &value

	case models.MetricHighLow:
		highLow, err := periodHighLow(series)
		if err != nil {
			return nil, err
		}
		result.HighLow = highLow

	case models.MetricFundamentals:
		if series.Fundamentals == nil {
			return nil, models.NewQueryError(models.ErrInsufficientData, "no fundamentals available for %s", series.Ticker)
		}
		result.Fundamentals = series.Fundamentals

	default:
		return nil, models.NewQueryError(models.ErrUnrecognizedIntent, "unsupported metric %q", metric)
	}

	return result, nil
}

// periodReturn computes the percentage return between the first and last
// available closes inside the period.
func periodReturn(series *models.RawSeries) (float64, error) {
	closes := validCloses(series.Bars)
	if len(closes) < 2 {
		return 0, models.NewQueryError(models.ErrInsufficientData, "need at least 2 price points for %s, got %d", series.Ticker, len(closes))
	}
	first := closes[0]
	last := closes[len(closes)-1]
	return (last - first) / first * 100, nil
}

// annualizedVolatility computes the sample standard deviation of daily
// log-returns scaled by sqrt(252), as a percentage.
func annualizedVolatility(series *models.RawSeries) (float64, error) {
	closes := validCloses(series.Bars)

	returns := make([]float64, 0, len(closes))
	for i := 1; i < len(closes); i++ {
		returns = append(returns, math.Log(closes[i]/closes[i-1]))
	}
	if len(returns) < 2 {
		return 0, models.NewQueryError(models.ErrInsufficientData, "need at least 2 return observations for %s, got %d", series.Ticker, len(returns))
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var sumSq float64
	for _, r := range returns {
		d := r - mean
		sumSq += d * d
	}
	stddev := math.Sqrt(sumSq / float64(len(returns)-1))

	return stddev * math.Sqrt(tradingDaysPerYear) * 100, nil
}

// periodHighLow finds the maximum and minimum closing price in the period,
// each with its date.
func periodHighLow(series *models.RawSeries) (*models.HighLow, error) {
	var high, low *models.PricePoint
	for _, bar := range series.Bars {
		if bar.Close <= 0 {
			continue
		}
		if high == nil || bar.Close > high.Price {
			high = &models.PricePoint{Price: bar.Close, Date: bar.Date}
		}
		if low == nil || bar.Close < low.Price {
			low = &models.PricePoint{Price: bar.Close, Date: bar.Date}
		}
	}
	if high == nil || low == nil {
		return nil, models.NewQueryError(models.ErrInsufficientData, "no price points for %s in period", series.Ticker)
	}
	return &models.HighLow{High: *high, Low: *low}, nil
}

// validCloses extracts positive closing prices in series order. Bars with
// non-positive closes are provider artifacts and are skipped.
func validCloses(bars []models.EODBar) []float64 {
	closes := make([]float64, 0, len(bars))
	for _, bar := range bars {
		if bar.Close > 0 {
			closes = append(closes, bar.Close)
		}
	}
	return closes
}
