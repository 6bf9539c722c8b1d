// Package query extracts structured queries from free-form questions
package query

import (
	"sort"
	"strings"

	"github.com/bobmcallan/finquery/internal/models"
)

// Tables holds the static lookup state used by query extraction: the
// company-alias table, the known-symbol set and the metric keyword rules.
// Built once at startup and never mutated afterwards; safe for concurrent use.
type Tables struct {
	aliases     []aliasEntry
	symbols     map[string]struct{}
	metricRules []metricRule
	compareCues []string
	riskCues    []string
}

type aliasEntry struct {
	name   string
	symbol string
}

type metricRule struct {
	metric   models.Metric
	keywords []string
}

// defaultAliases maps lowercase company names and nicknames to symbols.
var defaultAliases = map[string]string{
	"apple":              "AAPL",
	"microsoft":          "MSFT",
	"google":             "GOOGL",
	"alphabet":           "GOOGL",
	"amazon":             "AMZN",
	"tesla":              "TSLA",
	"ford":               "F",
	"meta":               "META",
	"facebook":           "META",
	"netflix":            "NFLX",
	"nvidia":             "NVDA",
	"intel":              "INTC",
	"ibm":                "IBM",
	"oracle":             "ORCL",
	"adobe":              "ADBE",
	"salesforce":         "CRM",
	"disney":             "DIS",
	"walmart":            "WMT",
	"coca cola":          "KO",
	"coca-cola":          "KO",
	"pepsi":              "PEP",
	"pepsico":            "PEP",
	"mcdonald's":         "MCD",
	"mcdonalds":          "MCD",
	"nike":               "NKE",
	"starbucks":          "SBUX",
	"boeing":             "BA",
	"general motors":     "GM",
	"exxon":              "XOM",
	"exxon mobil":        "XOM",
	"jpmorgan":           "JPM",
	"jp morgan":          "JPM",
	"goldman sachs":      "GS",
	"visa":               "V",
	"mastercard":         "MA",
	"paypal":             "PYPL",
	"uber":               "UBER",
	"airbnb":             "ABNB",
	"palantir":           "PLTR",
	"broadcom":           "AVGO",
	"qualcomm":           "QCOM",
	"cisco":              "CSCO",
	"berkshire hathaway": "BRK-B",
}

// extraSymbols are valid bare tickers with no alias entry of their own.
var extraSymbols = []string{"GOOG", "SPY", "QQQ", "AMD", "T", "GE", "GME"}

// NewTables builds the lookup tables from the built-in defaults plus any
// extra aliases from configuration. Aliases are ordered longest-first so
// overlapping names resolve to the most specific match.
func NewTables(extraAliases map[string]string) *Tables {
	t := &Tables{
		symbols: make(map[string]struct{}),
		metricRules: []metricRule{
			{models.MetricReturn, []string{"return", "returns", "performance", "performed", "gain", "gains", "grew", "growth"}},
			{models.MetricVolatility, []string{"volatility", "volatile", "risky", "riskiest", "risk"}},
			{models.MetricFundamentals, []string{"fundamental", "fundamentals", "market cap", "p/e", "pe ratio", "eps", "earnings per share", "dividend", "dividends", "debt"}},
			{models.MetricHighLow, []string{"high", "highest", "low", "lowest", "max", "maximum", "min", "minimum", "peak"}},
		},
		compareCues: []string{"compare", "compared", "comparison", "versus", "vs", "between", "better", "which"},
		riskCues:    []string{"most risky", "riskiest", "most volatile", "highest volatility"},
	}

	add := func(name, symbol string) {
		name = strings.ToLower(strings.TrimSpace(name))
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if name == "" || symbol == "" {
			return
		}
		t.aliases = append(t.aliases, aliasEntry{name: name, symbol: symbol})
		t.symbols[symbol] = struct{}{}
	}

	for name, symbol := range defaultAliases {
		add(name, symbol)
	}
	for name, symbol := range extraAliases {
		add(name, symbol)
	}
	for _, symbol := range extraSymbols {
		t.symbols[symbol] = struct{}{}
	}

	// Longest alias first; name as tie-break keeps ordering deterministic.
	sort.Slice(t.aliases, func(i, j int) bool {
		if len(t.aliases[i].name) != len(t.aliases[j].name) {
			return len(t.aliases[i].name) > len(t.aliases[j].name)
		}
		return t.aliases[i].name < t.aliases[j].name
	})

	return t
}

// KnownSymbol reports whether the symbol is in the known-symbol set.
func (t *Tables) KnownSymbol(symbol string) bool {
	_, ok := t.symbols[symbol]
	return ok
}
