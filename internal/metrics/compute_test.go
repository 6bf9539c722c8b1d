package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finquery/internal/models"
)

func barsFromCloses(closes ...float64) []models.EODBar {
	bars := make([]models.EODBar, len(closes))
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = models.EODBar{Date: start.AddDate(0, 0, i), Close: c}
	}
	return bars
}

func priceSeries(ticker string, closes ...float64) *models.RawSeries {
	return &models.RawSeries{
		Ticker: ticker,
		Period: models.RelativeMonths(3),
		Bars:   barsFromCloses(closes...),
	}
}

func TestCompute_Return(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{"three month scenario", []float64{150.00, 155.20, 149.80, 168.75}, 12.5},
		{"strictly increasing is positive", []float64{100, 101, 102, 103}, 3},
		{"strictly decreasing is negative", []float64{100, 99, 98, 97}, -3},
		{"constant series is exactly zero", []float64{100, 100, 100}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Compute(models.MetricReturn, priceSeries("AAPL", tt.closes...))
			require.NoError(t, err)
			require.NotNil(t, result.Value)
			assert.InDelta(t, tt.want, *result.Value, 1e-9)
			assert.Equal(t, "AAPL", result.Ticker)
			assert.Equal(t, models.MetricReturn, result.Metric)
		})
	}
}

func TestCompute_Return_InsufficientData(t *testing.T) {
	_, err := Compute(models.MetricReturn, priceSeries("AAPL", 150.00))
	require.Error(t, err)
	assert.Equal(t, models.ErrInsufficientData, models.KindOf(err))

	_, err = Compute(models.MetricReturn, priceSeries("AAPL"))
	require.Error(t, err)
	assert.Equal(t, models.ErrInsufficientData, models.KindOf(err))
}

func TestCompute_Volatility(t *testing.T) {
	t.Run("is non-negative", func(t *testing.T) {
		result, err := Compute(models.MetricVolatility, priceSeries("TSLA", 100, 104, 98, 103, 99))
		require.NoError(t, err)
		require.NotNil(t, result.Value)
		assert.GreaterOrEqual(t, *result.Value, 0.0)
	})

	t.Run("zero only when all daily returns identical", func(t *testing.T) {
		// Constant growth factor: every log-return equals ln(1.1).
		result, err := Compute(models.MetricVolatility, priceSeries("TSLA", 100, 110, 121, 133.1))
		require.NoError(t, err)
		assert.InDelta(t, 0, *result.Value, 1e-9)
	})

	t.Run("known two-observation value", func(t *testing.T) {
		// Log-returns ln(1.1) and -ln(1.1): mean 0, sample stddev √2·ln(1.1).
		result, err := Compute(models.MetricVolatility, priceSeries("TSLA", 100, 110, 100))
		require.NoError(t, err)
		want := math.Log(1.1) * math.Sqrt2 * math.Sqrt(252) * 100
		assert.InDelta(t, want, *result.Value, 1e-9)
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		a, err := Compute(models.MetricVolatility, priceSeries("TSLA", 100, 104, 98, 103))
		require.NoError(t, err)
		b, err := Compute(models.MetricVolatility, priceSeries("TSLA", 100, 104, 98, 103))
		require.NoError(t, err)
		assert.Equal(t, *a.Value, *b.Value)
	})
}

func TestCompute_Volatility_InsufficientData(t *testing.T) {
	// Two prices produce a single return observation, not enough for a
	// standard deviation.
	_, err := Compute(models.MetricVolatility, priceSeries("TSLA", 100, 110))
	require.Error(t, err)
	assert.Equal(t, models.ErrInsufficientData, models.KindOf(err))
}

func TestCompute_HighLow(t *testing.T) {
	series := priceSeries("AAPL", 150, 172.4, 161, 144.2, 158)

	result, err := Compute(models.MetricHighLow, series)
	require.NoError(t, err)
	require.NotNil(t, result.HighLow)

	assert.Equal(t, 172.4, result.HighLow.High.Price)
	assert.Equal(t, series.Bars[1].Date, result.HighLow.High.Date)
	assert.Equal(t, 144.2, result.HighLow.Low.Price)
	assert.Equal(t, series.Bars[3].Date, result.HighLow.Low.Date)
}

func TestCompute_HighLow_Empty(t *testing.T) {
	_, err := Compute(models.MetricHighLow, priceSeries("AAPL"))
	require.Error(t, err)
	assert.Equal(t, models.ErrInsufficientData, models.KindOf(err))
}

func TestCompute_Fundamentals(t *testing.T) {
	marketCap := 3.1e12
	snapshot := &models.FundamentalsSnapshot{
		Ticker:    "AAPL",
		Name:      "Apple Inc",
		MarketCap: &marketCap,
		// Remaining fields deliberately nil: provider omissions are not errors.
	}
	series := &models.RawSeries{
		Ticker:       "AAPL",
		Period:       models.YearToDate(),
		Fundamentals: snapshot,
	}

	result, err := Compute(models.MetricFundamentals, series)
	require.NoError(t, err)
	assert.Equal(t, snapshot, result.Fundamentals)
	assert.Nil(t, result.Fundamentals.PERatio)
}

func TestCompute_Fundamentals_Missing(t *testing.T) {
	series := &models.RawSeries{Ticker: "AAPL", Period: models.YearToDate()}

	_, err := Compute(models.MetricFundamentals, series)
	require.Error(t, err)
	assert.Equal(t, models.ErrInsufficientData, models.KindOf(err))
}

func TestCompute_SkipsNonPositiveCloses(t *testing.T) {
	series := priceSeries("AAPL", 0, 150, 0, 168.75)

	result, err := Compute(models.MetricReturn, series)
	require.NoError(t, err)
	assert.InDelta(t, 12.5, *result.Value, 1e-9)
}
