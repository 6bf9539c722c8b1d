// Package interfaces defines service contracts for FinQuery
package interfaces

import (
	"context"

	"github.com/bobmcallan/finquery/internal/models"
)

// AnalysisService answers free-form questions about equity markets.
type AnalysisService interface {
	// Analyze interprets the question, computes the requested metric(s) and
	// returns the structured response. Extraction failures are returned as
	// an error; per-ticker failures inside a comparison are reported in the
	// response instead.
	Analyze(ctx context.Context, question string) (*models.Response, error)
}

// QueryExtractor turns free-form text into a structured Query.
type QueryExtractor interface {
	// Parse extracts tickers, period and intent from the question text.
	Parse(ctx context.Context, text string) (*models.Query, error)
}
