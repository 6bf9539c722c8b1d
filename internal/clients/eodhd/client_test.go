package eodhd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finquery/internal/interfaces"
	"github.com/bobmcallan/finquery/internal/models"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient("test-key", WithBaseURL(srv.URL))
	return client, srv
}

func TestGetEOD_RequestAndParsing(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"api_token": r.URL.Query().Get("api_token"),
			"fmt":       r.URL.Query().Get("fmt"),
			"order":     r.URL.Query().Get("order"),
			"from":      r.URL.Query().Get("from"),
			"to":        r.URL.Query().Get("to"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"date": "2025-05-01", "open": 149.0, "high": 151.0, "low": 148.5, "close": 150.0, "adjusted_close": 150.0, "volume": 1000},
			{"date": "2025-05-02", "open": 150.5, "high": 169.0, "low": 150.0, "close": 168.75, "adjusted_close": 168.75, "volume": 2000}
		]`))
	})
	defer srv.Close()

	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	resp, err := client.GetEOD(context.Background(), "AAPL", interfaces.WithDateRange(from, to))
	require.NoError(t, err)

	assert.Equal(t, "/eod/AAPL", gotPath)
	assert.Equal(t, "test-key", gotQuery["api_token"])
	assert.Equal(t, "json", gotQuery["fmt"])
	assert.Equal(t, "a", gotQuery["order"])
	assert.Equal(t, "2025-05-01", gotQuery["from"])
	assert.Equal(t, "2025-08-01", gotQuery["to"])

	require.Len(t, resp.Data, 2)
	assert.Equal(t, 150.0, resp.Data[0].Close)
	assert.Equal(t, 168.75, resp.Data[1].Close)
	assert.Equal(t, from, resp.Data[0].Date)
	assert.Equal(t, int64(2000), resp.Data[1].Volume)
}

func TestGetEOD_NotFound(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Symbol not found", http.StatusNotFound)
	})
	defer srv.Close()

	_, err := client.GetEOD(context.Background(), "ZZZZ")
	require.Error(t, err)
	assert.Equal(t, models.ErrNotFound, models.KindOf(err))
}

func TestGetEOD_RateLimited(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Too many requests", http.StatusTooManyRequests)
	})
	defer srv.Close()

	_, err := client.GetEOD(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Equal(t, models.ErrRateLimited, models.KindOf(err))
	assert.True(t, models.IsTransient(models.KindOf(err)))
}

func TestGetEOD_UpstreamTimeout(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Gateway timeout", http.StatusGatewayTimeout)
	})
	defer srv.Close()

	_, err := client.GetEOD(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Equal(t, models.ErrTimeout, models.KindOf(err))
}

func TestGetEOD_ContextDeadline(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	})
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.GetEOD(ctx, "AAPL")
	require.Error(t, err)
	assert.Equal(t, models.ErrTimeout, models.KindOf(err))
}

func TestGetFundamentals_FlexibleFieldParsing(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fundamentals/AAPL", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"General": {"Code": "AAPL", "Name": "Apple Inc"},
			"Highlights": {
				"MarketCapitalization": 3100000000000,
				"PERatio": "32.45",
				"EarningsShare": null,
				"DividendYield": "N/A"
			},
			"Valuation": {}
		}`))
	})
	defer srv.Close()

	snapshot, err := client.GetFundamentals(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", snapshot.Ticker)
	assert.Equal(t, "Apple Inc", snapshot.Name)
	require.NotNil(t, snapshot.MarketCap)
	assert.Equal(t, 3.1e12, *snapshot.MarketCap)
	require.NotNil(t, snapshot.PERatio)
	assert.Equal(t, 32.45, *snapshot.PERatio)
	assert.Nil(t, snapshot.EPS)
	assert.Nil(t, snapshot.DividendYield)
	assert.Nil(t, snapshot.DebtToEquity)
}

func TestGetFundamentals_ServerError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})
	defer srv.Close()

	_, err := client.GetFundamentals(context.Background(), "AAPL")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}
