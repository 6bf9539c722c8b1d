package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finquery/internal/app"
	"github.com/bobmcallan/finquery/internal/common"
	"github.com/bobmcallan/finquery/internal/models"
)

// mockAnalysis returns a canned response or error for any question.
type mockAnalysis struct {
	response *models.Response
	err      error
	lastQ    string
}

func (m *mockAnalysis) Analyze(ctx context.Context, question string) (*models.Response, error) {
	m.lastQ = question
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func newTestHandler(analysis *mockAnalysis) http.Handler {
	a := &app.App{
		Config:          common.NewDefaultConfig(),
		Logger:          common.NewSilentLogger(),
		AnalysisService: analysis,
	}
	return NewServer(a).Handler()
}

func postPrompt(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/prompt", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandlePrompt_Success(t *testing.T) {
	prose := "Apple gained 12.50% year to date."
	analysis := &mockAnalysis{
		response: &models.Response{
			Status: "ok",
			Result: map[string]map[string]map[string]any{
				"return": {"AAPL": {"ytd": 12.5}},
			},
			NaturalLanguage: &prose,
		},
	}
	handler := newTestHandler(analysis)

	rec := postPrompt(t, handler, `{"prompt": "What is Apple's return this year?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "What is Apple's return this year?", analysis.lastQ)

	var body models.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	require.NotNil(t, body.NaturalLanguage)
	assert.Equal(t, prose, *body.NaturalLanguage)
	assert.Equal(t, 12.5, body.Result["return"]["AAPL"]["ytd"])
}

func TestHandlePrompt_ErrorKindStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		kind       models.ErrorKind
		wantStatus int
	}{
		{"unresolved entity", models.ErrUnresolvedEntity, http.StatusBadRequest},
		{"unrecognized intent", models.ErrUnrecognizedIntent, http.StatusBadRequest},
		{"invalid period", models.ErrInvalidPeriod, http.StatusBadRequest},
		{"not found", models.ErrNotFound, http.StatusNotFound},
		{"rate limited", models.ErrRateLimited, http.StatusTooManyRequests},
		{"timeout", models.ErrTimeout, http.StatusBadGateway},
		{"incomparable metric", models.ErrIncomparableMetric, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := &mockAnalysis{err: models.NewQueryError(tt.kind, "boom")}
			rec := postPrompt(t, newTestHandler(analysis), `{"prompt": "anything"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body models.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "error", body.Status)
			require.NotNil(t, body.Error)
			assert.Equal(t, string(tt.kind), body.Error.Kind)
		})
	}
}

func TestHandlePrompt_EmptyPromptRejected(t *testing.T) {
	rec := postPrompt(t, newTestHandler(&mockAnalysis{}), `{"prompt": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePrompt_MalformedBodyRejected(t *testing.T) {
	rec := postPrompt(t, newTestHandler(&mockAnalysis{}), `{"prompt": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePrompt_MethodNotAllowed(t *testing.T) {
	handler := newTestHandler(&mockAnalysis{})
	req := httptest.NewRequest(http.MethodGet, "/api/prompt", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	handler := newTestHandler(&mockAnalysis{})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHandleVersion(t *testing.T) {
	handler := newTestHandler(&mockAnalysis{})
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "version")
}

func TestHandleRoot_UnknownPath(t *testing.T) {
	handler := newTestHandler(&mockAnalysis{})
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCorrelationIDHeader(t *testing.T) {
	handler := newTestHandler(&mockAnalysis{})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}
