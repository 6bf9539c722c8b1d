// Package analysis orchestrates question answering: extraction, data
// fetch, metric computation, comparison and response assembly.
package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/bobmcallan/finquery/internal/common"
	"github.com/bobmcallan/finquery/internal/interfaces"
	"github.com/bobmcallan/finquery/internal/metrics"
	"github.com/bobmcallan/finquery/internal/models"
)

const (
	defaultFetchTimeout = 10 * time.Second
	defaultNLGTimeout   = 20 * time.Second
	defaultRetryDelay   = 500 * time.Millisecond
)

// Service implements AnalysisService
type Service struct {
	extractor interfaces.QueryExtractor
	market    interfaces.MarketDataClient
	nlg       interfaces.NLGClient
	logger    *common.Logger

	fetchTimeout time.Duration
	nlgTimeout   time.Duration
	retryDelay   time.Duration
	now          func() time.Time
}

// NewService creates a new analysis service. nlg may be nil, in which case
// responses carry no prose summary.
func NewService(
	extractor interfaces.QueryExtractor,
	market interfaces.MarketDataClient,
	nlg interfaces.NLGClient,
	logger *common.Logger,
) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		extractor:    extractor,
		market:       market,
		nlg:          nlg,
		logger:       logger,
		fetchTimeout: defaultFetchTimeout,
		nlgTimeout:   defaultNLGTimeout,
		retryDelay:   defaultRetryDelay,
		now:          time.Now,
	}
}

// SetFetchTimeout sets the per-ticker market data timeout.
func (s *Service) SetFetchTimeout(d time.Duration) {
	s.fetchTimeout = d
}

// SetNLGTimeout sets the timeout for the summary call.
func (s *Service) SetNLGTimeout(d time.Duration) {
	s.nlgTimeout = d
}

// SetRetryDelay sets the backoff before the single transient-error retry.
func (s *Service) SetRetryDelay(d time.Duration) {
	s.retryDelay = d
}

// SetClock overrides the period anchor clock.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Analyze interprets the question, computes the requested metric(s) and
// returns the structured response. Extraction failures are returned as an
// error; per-ticker failures inside a comparison are reported in the
// response instead.
func (s *Service) Analyze(ctx context.Context, question string) (*models.Response, error) {
	q, err := s.extractor.Parse(ctx, question)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Strs("tickers", q.Tickers).
		Str("metric", string(q.Metric)).
		Str("period", q.Period.Label()).
		Str("mode", string(q.Mode)).
		Msg("Processing question")

	results, failures := s.fetchAndCompute(ctx, q)

	var response *models.Response
	switch q.Mode {
	case models.ModeCompare:
		comparison, err := metrics.Compare(q, results, failures)
		if err != nil {
			return nil, err
		}
		response = assembleComparison(q, comparison)
	default:
		result, ok := results[q.Tickers[0]]
		if !ok {
			return nil, failures[q.Tickers[0]]
		}
		response = assembleSingle(q, result)
	}

	s.summarize(ctx, question, response)

	return response, nil
}

// fetchOutcome carries one ticker's fetch-and-compute result across the
// fan-in join.
type fetchOutcome struct {
	ticker  string
	result  *models.MetricResult
	failure *models.QueryError
}

// fetchAndCompute fans out one fetch per ticker under independent timeouts
// and waits for every outcome, success or failure. One slow or failing
// ticker never blocks or aborts the others.
func (s *Service) fetchAndCompute(ctx context.Context, q *models.Query) (map[string]*models.MetricResult, map[string]*models.QueryError) {
	outcomes := make(chan fetchOutcome, len(q.Tickers))

	var wg sync.WaitGroup
	for _, ticker := range q.Tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			outcomes <- s.fetchOne(ctx, q, ticker)
		}(ticker)
	}
	wg.Wait()
	close(outcomes)

	results := make(map[string]*models.MetricResult)
	failures := make(map[string]*models.QueryError)
	for outcome := range outcomes {
		if outcome.failure != nil {
			s.logger.Warn().
				Str("ticker", outcome.ticker).
				Str("kind", string(outcome.failure.Kind)).
				Msg("Ticker failed")
			failures[outcome.ticker] = outcome.failure
			continue
		}
		results[outcome.ticker] = outcome.result
	}

	return results, failures
}

// fetchOne fetches the raw series for a ticker and computes the metric.
// Transient provider failures get one retry after a short backoff.
func (s *Service) fetchOne(ctx context.Context, q *models.Query, ticker string) fetchOutcome {
	series, err := s.fetchSeries(ctx, q, ticker)
	if err != nil {
		qerr := models.AsQueryError(err, models.ErrNotFound)
		if models.IsTransient(qerr.Kind) {
			select {
			case <-time.After(s.retryDelay):
			case <-ctx.Done():
				return fetchOutcome{ticker: ticker, failure: qerr}
			}
			series, err = s.fetchSeries(ctx, q, ticker)
		}
		if err != nil {
			return fetchOutcome{ticker: ticker, failure: models.AsQueryError(err, models.ErrNotFound)}
		}
	}

	result, err := metrics.Compute(q.Metric, series)
	if err != nil {
		return fetchOutcome{ticker: ticker, failure: models.AsQueryError(err, models.ErrInsufficientData)}
	}
	return fetchOutcome{ticker: ticker, result: result}
}

// fetchSeries retrieves the raw data a metric needs: a fundamentals
// snapshot for fundamentals questions, an EOD series otherwise.
func (s *Service) fetchSeries(ctx context.Context, q *models.Query, ticker string) (*models.RawSeries, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	series := &models.RawSeries{Ticker: ticker, Period: q.Period}

	if q.Metric == models.MetricFundamentals {
		snapshot, err := s.market.GetFundamentals(fetchCtx, ticker)
		if err != nil {
			return nil, err
		}
		series.Fundamentals = snapshot
		return series, nil
	}

	from, to := q.Period.Range(s.now())
	resp, err := s.market.GetEOD(fetchCtx, ticker, interfaces.WithDateRange(from, to))
	if err != nil {
		return nil, err
	}
	series.Bars = resp.Data
	return series, nil
}

// summarize requests the prose summary. Failure never invalidates the
// structured result; natural_language simply stays null.
func (s *Service) summarize(ctx context.Context, question string, response *models.Response) {
	if s.nlg == nil {
		return
	}

	nlgCtx, cancel := context.WithTimeout(ctx, s.nlgTimeout)
	defer cancel()

	payload := map[string]any{"result": response.Result}
	if response.Comparison != nil {
		payload["comparison"] = response.Comparison
	}

	text, err := s.nlg.Summarize(nlgCtx, question, payload)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Summary unavailable, returning structured result only")
		return
	}
	response.NaturalLanguage = &text
}
