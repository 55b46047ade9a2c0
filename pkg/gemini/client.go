package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/angelmondragon/pharmaline-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/pharmaline-backend/pkg/errors"
	"github.com/angelmondragon/pharmaline-backend/pkg/logger"
)

var (
	errAPIKeyRequired = errors.New("gemini api key is required")
	errLoggerRequired = errors.New("gemini logger is required")
)

// Client calls the Gemini generateContent REST endpoint with centralized
// auth, timeouts, logging, and error mapping.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	logger     *logger.Logger
}

// NewClient initializes the Gemini wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.GeminiConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("gemini endpoint is required")
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		endpoint:   endpoint,
		apiKey:     apiKey,
		logger:     logg,
	}

	logg.Info(ctx, "gemini client initialized")
	return c, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends one prompt and returns the model's text output. The response
// carries no structural guarantee; callers must parse defensively.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encoding gemini request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building gemini request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling gemini")
	}
	defer resp.Body.Close()

	var decoded generateResponse
	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		c.logger.Warn(ctx, "gemini overloaded (503)")
		return "", pkgerrors.New(pkgerrors.CodeDependency, "gemini model overloaded")
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.Warn(ctx, "gemini rate limited (429)")
		return "", pkgerrors.New(pkgerrors.CodeDependency, "gemini rate limited")
	case resp.StatusCode >= http.StatusBadRequest:
		return "", pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("gemini http %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding gemini response")
	}

	text := decoded.text()
	if text == "" {
		c.logger.Warn(ctx, "gemini returned empty text")
	}
	return text, nil
}

func (r generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return parts[0].Text
}

const classifyPrompt = `You are a strict JSON command parser for a pharmacy inventory admin tool.

Return ONLY a single JSON object. No markdown. No explanation. No extra text.

Allowed actions: ADD, REMOVE, SET, LIST, LOW_STOCK, UPDATE_PRICE, UNKNOWN

Rules:
- quantity MUST be an integer number. Convert words to numbers (e.g., "five" -> 5).
- expiry MUST be DD-MM-YYYY. If user gives YYYY-MM-DD, convert it to DD-MM-YYYY.
- If expiry is missing for ADD, set expiry to null.
- price MUST be a number (double). If missing, null.
- If user asks "what's in stock", action=LIST.
- If user asks "low stock" optionally with a number, action=LOW_STOCK and quantity=threshold.
- If user asks to change price, action=UPDATE_PRICE and price must be set.

Output schema:
{"action":"...","name":"...","quantity":123,"expiry":"DD-MM-YYYY","price":12.34}

Input:
`

// ClassifyCommand asks the model to map free operator text onto the command
// schema. Transport failures (including timeouts) surface as errors so the
// caller can treat them like any other classification failure.
func (c *Client) ClassifyCommand(ctx context.Context, input string) (string, error) {
	out, err := c.Generate(ctx, classifyPrompt+input)
	if err != nil {
		c.logger.Error(ctx, "gemini classification failed", err)
		return "", err
	}
	return out, nil
}
