package server

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/bobmcallan/finquery/internal/common"
	"github.com/bobmcallan/finquery/internal/models"
)

// PromptRequest is the single-field analysis request body.
type PromptRequest struct {
	Prompt string `json:"prompt" validate:"required,min=1,max=2000"`
}

var validate = validator.New()

// handlePrompt handles POST /api/prompt: the natural-language analysis
// endpoint. Extraction failures come back as status="error" with the
// classified kind; per-ticker failures inside comparisons come back inside
// a status="ok" payload.
func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req PromptRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(&req); err != nil {
		WriteQueryError(w, http.StatusBadRequest, models.NewQueryError(models.ErrUnrecognizedIntent, "prompt is required"))
		return
	}

	s.logger.Info().Str("prompt", req.Prompt).Msg("Received prompt")

	response, err := s.app.AnalysisService.Analyze(r.Context(), req.Prompt)
	if err != nil {
		qerr := models.AsQueryError(err, models.ErrNotFound)
		WriteQueryError(w, statusCodeFor(qerr.Kind), qerr)
		return
	}

	WriteJSON(w, http.StatusOK, response)
}

// WriteQueryError writes a classified failure in the response schema.
func WriteQueryError(w http.ResponseWriter, statusCode int, qerr *models.QueryError) {
	WriteJSON(w, statusCode, &models.Response{
		Status: "error",
		Error: &models.ErrorBody{
			Kind:    string(qerr.Kind),
			Message: qerr.Message,
		},
	})
}

// statusCodeFor maps error kinds to HTTP status codes.
func statusCodeFor(kind models.ErrorKind) int {
	switch {
	case models.IsBadRequest(kind):
		return http.StatusBadRequest
	case kind == models.ErrNotFound:
		return http.StatusNotFound
	case kind == models.ErrRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

// handleHealth responds to GET/HEAD /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion responds to GET /api/version with build information.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleRoot responds with service information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "FinQuery API",
		"version": common.GetVersion(),
		"endpoints": map[string]string{
			"POST /api/prompt": "Natural-language market analysis",
			"GET /api/health":  "Health check",
			"GET /api/version": "Build information",
		},
	})
}
