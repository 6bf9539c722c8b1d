package query

import (
	"strings"

	"github.com/bobmcallan/finquery/internal/models"
)

// Intent is the classified metric and mode for a question.
type Intent struct {
	Metric   models.Metric
	Mode     models.Mode
	Riskiest bool
}

// ClassifyMetric picks the requested metric by priority-ordered keyword
// match. Returns UnrecognizedIntent when no metric keyword is present.
func ClassifyMetric(tables *Tables, text string) (models.Metric, error) {
	lower := strings.ToLower(text)
	for _, rule := range tables.metricRules {
		for _, keyword := range rule.keywords {
			if containsPhrase(lower, keyword) {
				return rule.metric, nil
			}
		}
	}
	return "", models.NewQueryError(models.ErrUnrecognizedIntent, "question does not name a supported metric")
}

// HasCompareCue reports whether the text carries explicit comparison wording.
func HasCompareCue(tables *Tables, text string) bool {
	lower := strings.ToLower(text)
	for _, cue := range tables.compareCues {
		if containsPhrase(lower, cue) {
			return true
		}
	}
	return false
}

// HasRiskCue reports whether the text asks for the most volatile ticker.
func HasRiskCue(tables *Tables, text string) bool {
	lower := strings.ToLower(text)
	for _, cue := range tables.riskCues {
		if containsPhrase(lower, cue) {
			return true
		}
	}
	return false
}

// ClassifyIntent determines the metric and the single-vs-compare mode.
// Plurality of tickers alone implies comparison; explicit comparison cues
// reinforce but are not required. Setting compareRequiresCue makes the cue
// mandatory, for callers who find the plurality rule too eager.
func ClassifyIntent(tables *Tables, text string, tickerCount int, compareRequiresCue bool) (Intent, error) {
	metric, err := ClassifyMetric(tables, text)
	if err != nil {
		return Intent{}, err
	}

	return Intent{
		Metric:   metric,
		Mode:     decideMode(tables, text, tickerCount, compareRequiresCue),
		Riskiest: metric == models.MetricVolatility && HasRiskCue(tables, text),
	}, nil
}

// decideMode applies the plurality rule: two or more tickers imply a
// comparison unless the caller demands an explicit cue as well.
func decideMode(tables *Tables, text string, tickerCount int, compareRequiresCue bool) models.Mode {
	if tickerCount >= 2 && (!compareRequiresCue || HasCompareCue(tables, text)) {
		return models.ModeCompare
	}
	return models.ModeSingle
}

// containsPhrase reports whether the phrase occurs in text on word
// boundaries. Both arguments must already be lowercase.
func containsPhrase(text, phrase string) bool {
	offset := 0
	for {
		i := strings.Index(text[offset:], phrase)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(phrase)
		if wordBounded(text, start, end) {
			return true
		}
		offset = start + 1
	}
}

