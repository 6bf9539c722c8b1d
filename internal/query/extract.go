package query

import (
	"context"
	"strings"
	"sync"

	"github.com/bobmcallan/finquery/internal/common"
	"github.com/bobmcallan/finquery/internal/models"
)

// Extractor turns free-form question text into a structured Query. The
// three extraction steps are pure functions over the text and run
// concurrently; all must complete before a Query is produced.
type Extractor struct {
	tables             *Tables
	compareRequiresCue bool
	logger             *common.Logger
}

// NewExtractor creates an extractor over the given lookup tables.
func NewExtractor(tables *Tables, cfg common.QueryConfig, logger *common.Logger) *Extractor {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Extractor{
		tables:             tables,
		compareRequiresCue: cfg.CompareRequiresCue,
		logger:             logger,
	}
}

// Parse extracts tickers, period and intent from the question text.
func (e *Extractor) Parse(ctx context.Context, text string) (*models.Query, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewQueryError(models.ErrUnresolvedEntity, "question is empty")
	}

	var (
		wg        sync.WaitGroup
		tickers   []string
		tickerErr error
		period    models.PeriodSpec
		periodErr error
		metric    models.Metric
		metricErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		tickers, tickerErr = ResolveTickers(e.tables, text)
	}()
	go func() {
		defer wg.Done()
		period, periodErr = ParsePeriod(text)
	}()
	go func() {
		defer wg.Done()
		metric, metricErr = ClassifyMetric(e.tables, text)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, models.WrapQueryError(models.ErrTimeout, err, "query extraction canceled")
	}
	if tickerErr != nil {
		return nil, tickerErr
	}
	if metricErr != nil {
		return nil, metricErr
	}
	if periodErr != nil {
		return nil, periodErr
	}

	q := &models.Query{
		Tickers:  tickers,
		Metric:   metric,
		Period:   period,
		Mode:     decideMode(e.tables, text, len(tickers), e.compareRequiresCue),
		Riskiest: metric == models.MetricVolatility && HasRiskCue(e.tables, text),
	}

	e.logger.Debug().
		Strs("tickers", q.Tickers).
		Str("metric", string(q.Metric)).
		Str("period", q.Period.Label()).
		Str("mode", string(q.Mode)).
		Msg("Extracted query")

	return q, nil
}
