// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/bobmcallan/finquery/internal/common"
	"github.com/bobmcallan/finquery/internal/models"
)

const DefaultModel = "gemini-3-flash-preview"

// Client implements the NLGClient interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Summarize produces a prose summary of a structured result for the
// original question. Failures are classified NLGUnavailable so callers can
// degrade instead of aborting.
func (c *Client) Summarize(ctx context.Context, question string, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", models.WrapQueryError(models.ErrNLGUnavailable, err, "failed to encode result for summary")
	}

	prompt := buildSummaryPrompt(question, string(data))

	c.logger.Debug().Str("model", c.model).Int("payload_bytes", len(data)).Msg("Generating summary")

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", models.WrapQueryError(models.ErrNLGUnavailable, err, "failed to generate summary")
	}

	text, err := extractTextFromResponse(result)
	if err != nil {
		return "", models.WrapQueryError(models.ErrNLGUnavailable, err, "empty summary response")
	}
	return text, nil
}

// buildSummaryPrompt frames the structured result for the model: a short
// introduction, the headline numbers, comparative analysis when present,
// and a conclusion. The computed values must be quoted verbatim.
func buildSummaryPrompt(question, resultJSON string) string {
	var sb strings.Builder
	sb.WriteString("You are a financial analyst writing for a professional but non-specialist reader.\n")
	sb.WriteString("Summarize the following computed market data as a clear, well-structured answer to the user's question.\n")
	sb.WriteString("Always quote the specific numeric values and percentages from the data; never invent figures.\n")
	sb.WriteString("Structure: 1) one-sentence introduction, 2) the key figures, 3) comparative analysis if a ranking is present, 4) a short conclusion.\n\n")
	sb.WriteString("Question: ")
	sb.WriteString(question)
	sb.WriteString("\n\nComputed data (JSON):\n")
	sb.WriteString(resultJSON)
	return sb.String()
}

// extractTextFromResponse concatenates the text parts of a generation response.
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	var sb strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("no text in response")
	}
	return text, nil
}
