// Package interfaces defines service contracts for FinQuery
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/finquery/internal/models"
)

// MarketDataClient supplies raw price and fundamentals data per ticker.
type MarketDataClient interface {
	// GetEOD retrieves end-of-day price data, sorted ascending by date
	GetEOD(ctx context.Context, ticker string, opts ...EODOption) (*models.EODResponse, error)

	// GetFundamentals retrieves a fundamentals snapshot
	GetFundamentals(ctx context.Context, ticker string) (*models.FundamentalsSnapshot, error)
}

// EODOption configures EOD data requests
type EODOption func(*EODParams)

// EODParams holds EOD query parameters
type EODParams struct {
	From time.Time
	To   time.Time
}

// WithDateRange sets the date range for EOD query
func WithDateRange(from, to time.Time) EODOption {
	return func(p *EODParams) {
		p.From = from
		p.To = to
	}
}

// NLGClient turns structured results into prose. It is optional enrichment:
// callers must tolerate failure without invalidating the structured result.
type NLGClient interface {
	// Summarize produces a prose summary of a structured result for the
	// original question.
	Summarize(ctx context.Context, question string, payload any) (string, error)
}
