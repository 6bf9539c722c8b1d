package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finquery/internal/models"
)

func TestClassifyMetric(t *testing.T) {
	tables := NewTables(nil)

	tests := []struct {
		name string
		text string
		want models.Metric
	}{
		{"return keyword", "What is Apple's return over the last 3 months?", models.MetricReturn},
		{"performance keyword", "How has Tesla performed this year?", models.MetricReturn},
		{"volatility keyword", "Compare Tesla and Ford's volatility", models.MetricVolatility},
		{"volatile keyword", "How volatile is AAPL?", models.MetricVolatility},
		{"risky keyword", "Which is less risky, Apple or Ford?", models.MetricVolatility},
		{"fundamentals keyword", "Show me Apple's fundamentals", models.MetricFundamentals},
		{"market cap keyword", "What is Microsoft's market cap?", models.MetricFundamentals},
		{"pe keyword", "What's the P/E of Apple?", models.MetricFundamentals},
		{"dividend keyword", "Apple dividend yield please", models.MetricFundamentals},
		{"debt keyword", "How much debt does Ford carry?", models.MetricFundamentals},
		{"high keyword", "What was Tesla's highest price this year?", models.MetricHighLow},
		{"low keyword", "AAPL lowest close in 2022", models.MetricHighLow},
		{"return beats high", "Was the return higher for Apple or Tesla?", models.MetricReturn},
		{"volatility beats low", "Which had the lowest volatility, Apple or Ford?", models.MetricVolatility},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyMetric(tables, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyMetric_Unrecognized(t *testing.T) {
	tables := NewTables(nil)

	_, err := ClassifyMetric(tables, "Tell me something interesting about Apple")
	require.Error(t, err)
	assert.Equal(t, models.ErrUnrecognizedIntent, models.KindOf(err))
}

func TestClassifyIntent_Mode(t *testing.T) {
	tables := NewTables(nil)

	tests := []struct {
		name        string
		text        string
		tickerCount int
		requireCue  bool
		wantMode    models.Mode
	}{
		{"one ticker is single", "What is Apple's return?", 1, false, models.ModeSingle},
		{"two tickers imply compare without cue", "Apple and Tesla returns this year", 2, false, models.ModeCompare},
		{"explicit compare wording", "Compare Tesla and Ford's volatility", 2, false, models.ModeCompare},
		{"cue required and present", "Compare Tesla and Ford's volatility", 2, true, models.ModeCompare},
		{"cue required and absent", "Apple and Tesla returns this year", 2, true, models.ModeSingle},
		{"cue alone never forces compare", "compare returns for Apple", 1, false, models.ModeSingle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, err := ClassifyIntent(tables, tt.text, tt.tickerCount, tt.requireCue)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, intent.Mode)
		})
	}
}

func TestClassifyIntent_RiskCue(t *testing.T) {
	tables := NewTables(nil)

	intent, err := ClassifyIntent(tables, "Which is the most volatile, Tesla or Ford?", 2, false)
	require.NoError(t, err)
	assert.Equal(t, models.MetricVolatility, intent.Metric)
	assert.True(t, intent.Riskiest)

	intent, err = ClassifyIntent(tables, "Which is less risky, Tesla or Ford?", 2, false)
	require.NoError(t, err)
	assert.Equal(t, models.MetricVolatility, intent.Metric)
	assert.False(t, intent.Riskiest)
}
