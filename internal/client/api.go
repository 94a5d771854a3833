// Package client drives the capture pipeline from the edge: upload slot
// provisioning, byte transfer, caption submission, and history reads
// against the server API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/eleven-am/caption-backend/internal/dto"
)

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

type API struct {
	baseURL string
	http    *http.Client
}

func NewAPI(cfg Config) *API {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &API{baseURL: cfg.BaseURL, http: httpClient}
}

func (a *API) BaseURL() string { return a.baseURL }

// RequestUploadSlot provisions a single-use write location for a frame.
func (a *API) RequestUploadSlot(ctx context.Context) (*dto.SignedUploadResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/signed-upload", nil)
	if err != nil {
		return nil, err
	}

	var slot dto.SignedUploadResponse
	if err := a.do(req, &slot); err != nil {
		return nil, fmt.Errorf("failed to request upload slot: %w", err)
	}
	return &slot, nil
}

// Transfer writes the encoded frame to its provisioned slot. The slot is
// single-use; a failed transfer drops the frame, it is never retried.
func (a *API) Transfer(ctx context.Context, uploadURL string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to transfer frame: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("transfer rejected with status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// SubmitCaption asks the server to caption an uploaded frame.
func (a *API) SubmitCaption(ctx context.Context, request dto.CaptionRequest) (*dto.CaptionResponse, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/caption", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp dto.CaptionResponse
	if err := a.do(req, &resp); err != nil {
		return nil, fmt.Errorf("failed to submit caption: %w", err)
	}
	return &resp, nil
}

// History fetches one newest-first page of captions for a session.
func (a *API) History(ctx context.Context, sessionID, cursor string, limit int) (*dto.HistoryResponse, error) {
	q := url.Values{}
	q.Set("session", sessionID)
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/history?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp dto.HistoryResponse
	if err := a.do(req, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	return &resp, nil
}

func (a *API) do(req *http.Request, out any) error {
	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
