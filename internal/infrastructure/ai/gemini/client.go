// Package gemini calls the Google Generative Language generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clinic-backend/config"
	"clinic-backend/pkg/retry"

	"github.com/sirupsen/logrus"
)

var (
	ErrNotConfigured   = errors.New("gemini api key is not configured")
	ErrRateLimited     = errors.New("gemini model rate limited")
	ErrEmptyResponse   = errors.New("gemini response has no text")
	ErrAllModelsFailed = errors.New("all gemini models failed")
)

// Client tries each configured model in order until one answers.
type Client struct {
	apiKey     string
	baseURL    string
	models     []string
	httpClient *http.Client
	retry      retry.Config
	log        *logrus.Logger
}

func NewClient(cfg config.AIConfig, log *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxTotalTimeout = timeout

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		models:  cfg.Models,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retry: retryCfg,
		log:   log,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

var defaultSafety = []safetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

// Generate answers a medical question. It returns the reply and the model
// that produced it. A 429 moves on to the next model; 5xx and transport
// errors are retried on the same model with backoff.
func (c *Client) Generate(ctx context.Context, question string) (string, string, error) {
	if c.apiKey == "" {
		return "", "", ErrNotConfigured
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(question)}}}},
		GenerationConfig: generationConfig{
			MaxOutputTokens: 800,
			Temperature:     0.3,
			TopP:            0.8,
			TopK:            40,
		},
		SafetySettings: defaultSafety,
	})
	if err != nil {
		return "", "", err
	}

	for _, model := range c.models {
		var text string
		err := retry.DoWithLog(ctx, c.retry, func() error {
			var callErr error
			text, callErr = c.call(ctx, model, body)
			return callErr
		}, func(attempt int, err error, next time.Duration) {
			c.log.WithField("model", model).Warnf("Gemini attempt %d failed, retrying in %v: %+v", attempt, next, err)
		})
		if err == nil {
			c.log.WithField("model", model).Debug("Gemini reply generated")
			return text, model, nil
		}
		if errors.Is(err, ErrRateLimited) {
			c.log.WithField("model", model).Warn("Gemini rate limit hit, trying next model")
			continue
		}
		if ctx.Err() != nil {
			return "", "", ctx.Err()
		}
		c.log.WithField("model", model).Warnf("Gemini model failed: %+v", err)
	}

	return "", "", ErrAllModelsFailed
}

func (c *Client) call(ctx context.Context, model string, body []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(model), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", retry.Permanent(ErrRateLimited)
	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("gemini request failed with status %d", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", retry.Permanent(fmt.Errorf("gemini request failed with status %d", resp.StatusCode))
	}

	var envelope generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", retry.Permanent(fmt.Errorf("decode gemini response: %w", err))
	}

	for _, cand := range envelope.Candidates {
		var sb strings.Builder
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			return text, nil
		}
	}
	return "", retry.Permanent(ErrEmptyResponse)
}
