package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to a Replicate-compatible predictions API. A generation is
// one prediction: created with the image URL and prompt, then polled until
// it reaches a terminal status.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.replicate.com"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 300
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}

	return &Client{
		httpClient: &http.Client{},
		cfg:        cfg,
	}
}

type predictionInput struct {
	Image       string  `json:"image"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type predictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

type predictionResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error"`
}

func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if req.ImageURL == "" {
		return "", fmt.Errorf("no image url provided")
	}

	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	body, err := json.Marshal(predictionRequest{
		Version: model,
		Input: predictionInput{
			Image:       req.ImageURL,
			Prompt:      req.Prompt,
			MaxTokens:   c.cfg.MaxTokens,
			Temperature: c.cfg.Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal prediction: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/v1/predictions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	httpReq.Header.Set("Prefer", "wait")

	pred, err := c.doPrediction(httpReq)
	if err != nil {
		return "", err
	}

	for !isTerminal(pred.Status) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.cfg.PollInterval):
		}

		pollReq, err := http.NewRequestWithContext(ctx, "GET", c.cfg.BaseURL+"/v1/predictions/"+pred.ID, nil)
		if err != nil {
			return "", fmt.Errorf("create poll request: %w", err)
		}
		pollReq.Header.Set("Authorization", "Bearer "+c.cfg.Token)

		pred, err = c.doPrediction(pollReq)
		if err != nil {
			return "", err
		}
	}

	if pred.Status != "succeeded" {
		if pred.Error != "" {
			return "", fmt.Errorf("prediction %s: %s", pred.Status, pred.Error)
		}
		return "", fmt.Errorf("prediction %s", pred.Status)
	}

	text, err := decodeOutput(pred.Output)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("prediction succeeded with empty output")
	}
	return text, nil
}

func (c *Client) doPrediction(req *http.Request) (*predictionResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("inference provider returned status %d", resp.StatusCode)
	}

	var pred predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, fmt.Errorf("decode prediction: %w", err)
	}
	return &pred, nil
}

func isTerminal(status string) bool {
	switch status {
	case "succeeded", "failed", "canceled":
		return true
	}
	return false
}

// decodeOutput handles the provider's two output shapes: a single string,
// or an array of text chunks that concatenate into the caption.
func decodeOutput(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("prediction has no output")
	}

	var chunks []string
	if err := json.Unmarshal(raw, &chunks); err == nil {
		return strings.Join(chunks, ""), nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}

	return "", fmt.Errorf("unexpected output shape: %s", string(raw))
}

// IsAvailable reports whether the provider answers an authenticated
// request. Used by the readiness probe.
func (c *Client) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", c.cfg.BaseURL+"/v1/account", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
