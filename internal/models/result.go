package models

import "time"

// PricePoint pairs a price with the date it was observed.
type PricePoint struct {
	Price float64   `json:"price"`
	Date  time.Time `json:"date"`
}

// HighLow holds the period's extreme closing prices.
type HighLow struct {
	High PricePoint `json:"high"`
	Low  PricePoint `json:"low"`
}

// MetricResult is one computed metric for one ticker over one period.
// Exactly one of Value, Fundamentals or HighLow is set, depending on Metric.
// Values are kept at full precision; rounding happens at the output boundary.
type MetricResult struct {
	Ticker       string                `json:"ticker"`
	Metric       Metric                `json:"metric"`
	Period       PeriodSpec            `json:"period"`
	Value        *float64              `json:"value,omitempty"`
	Fundamentals *FundamentalsSnapshot `json:"fundamentals,omitempty"`
	HighLow      *HighLow              `json:"high_low,omitempty"`
}

// ComparisonResult ranks per-ticker results for a comparative question.
// Ranking holds groups of tickers, best first; tickers inside a group are
// tied and listed alphabetically. Tickers whose fetch or computation failed
// appear only in Errors.
type ComparisonResult struct {
	Metric  Metric                   `json:"metric"`
	Period  PeriodSpec               `json:"period"`
	Ranking [][]string               `json:"ranking,omitempty"`
	Results map[string]*MetricResult `json:"results"`
	Errors  map[string]*QueryError   `json:"errors,omitempty"`
}

// ErrorBody is the wire form of a classified error.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ComparisonPayload is the wire form of a ComparisonResult.
type ComparisonPayload struct {
	Metric  string               `json:"metric"`
	Period  string               `json:"period"`
	Ranking [][]string           `json:"ranking,omitempty"`
	Errors  map[string]ErrorBody `json:"errors,omitempty"`
}

// Response is the caller-facing payload. Result maps metric -> ticker ->
// period label -> display value, rounded to two decimals.
type Response struct {
	Status          string                               `json:"status"`
	Result          map[string]map[string]map[string]any `json:"result,omitempty"`
	Comparison      *ComparisonPayload                   `json:"comparison,omitempty"`
	NaturalLanguage *string                              `json:"natural_language"`
	Error           *ErrorBody                           `json:"error,omitempty"`
}
