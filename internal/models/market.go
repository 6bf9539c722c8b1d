package models

import "time"

// EODBar represents a single day's price data
type EODBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adjusted_close"`
	Volume   int64     `json:"volume"`
}

// EODResponse represents a provider response of end-of-day bars,
// sorted ascending by date.
type EODResponse struct {
	Data []EODBar `json:"data"`
}

// FundamentalsSnapshot holds the fundamental figures for a company at fetch
// time. Fields the provider omits stay nil; that alone is not an error.
type FundamentalsSnapshot struct {
	Ticker        string   `json:"ticker"`
	Name          string   `json:"name,omitempty"`
	MarketCap     *float64 `json:"market_cap"`
	PERatio       *float64 `json:"pe_ratio"`
	EPS           *float64 `json:"eps"`
	DividendYield *float64 `json:"dividend_yield"`
	DebtToEquity  *float64 `json:"debt_to_equity"`
}

// RawSeries is the per-ticker raw data a metric is computed from. It is
// request-scoped: fetched fresh for every question and discarded after the
// response is emitted. Exactly one of Bars or Fundamentals is populated,
// depending on the requested metric.
type RawSeries struct {
	Ticker       string                `json:"ticker"`
	Period       PeriodSpec            `json:"period"`
	Bars         []EODBar              `json:"bars,omitempty"`
	Fundamentals *FundamentalsSnapshot `json:"fundamentals,omitempty"`
}
