package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultFileSizeLimit = 5 * 1024 * 1024

// Client issues single-use signed upload slots against a Supabase-compatible
// storage API and composes public retrieval URLs by convention, so readers
// never need an extra round trip to resolve an image.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

func NewClient(cfg Config) *Client {
	if cfg.FileSizeLimit == 0 {
		cfg.FileSizeLimit = defaultFileSizeLimit
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cfg:        cfg,
	}
}

func (c *Client) Bucket() string {
	return c.cfg.Bucket
}

type createBucketRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Public        bool   `json:"public"`
	FileSizeLimit int64  `json:"file_size_limit,omitempty"`
}

type storageError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// EnsureBucket creates the public bucket if it does not exist. An
// already-exists answer from the provider is success.
func (c *Client) EnsureBucket(ctx context.Context) error {
	body, err := json.Marshal(createBucketRequest{
		ID:            c.cfg.Bucket,
		Name:          c.cfg.Bucket,
		Public:        true,
		FileSizeLimit: c.cfg.FileSizeLimit,
	})
	if err != nil {
		return fmt.Errorf("marshal bucket request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/storage/v1/bucket", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var serr storageError
	data, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(data, &serr)
	if bucketExists(serr) {
		return nil
	}

	return fmt.Errorf("create bucket: status %d: %s", resp.StatusCode, serr.Message)
}

func bucketExists(serr storageError) bool {
	msg := strings.ToLower(serr.Message + " " + serr.Error)
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate")
}

type signUploadResponse struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

// CreateSignedUploadURL requests a single-use write location for path and
// returns the absolute upload URL.
func (c *Client) CreateSignedUploadURL(ctx context.Context, path string) (string, error) {
	endpoint := fmt.Sprintf("%s/storage/v1/object/upload/sign/%s/%s", c.cfg.BaseURL, c.cfg.Bucket, path)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sign upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("sign upload: status %d", resp.StatusCode)
	}

	var signed signUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", fmt.Errorf("decode signed url: %w", err)
	}
	if signed.URL == "" {
		return "", fmt.Errorf("provider returned no upload url")
	}

	if strings.HasPrefix(signed.URL, "http://") || strings.HasPrefix(signed.URL, "https://") {
		return signed.URL, nil
	}
	return c.cfg.BaseURL + "/storage/v1" + signed.URL, nil
}

// PublicURL composes the public retrieval URL for a stored path. Pure
// string composition; the bucket is public-read.
func (c *Client) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.cfg.BaseURL, c.cfg.Bucket, path)
}

// IsAvailable reports whether the storage API answers. Used by the
// readiness probe.
func (c *Client) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", c.cfg.BaseURL+"/storage/v1/bucket", nil)
	if err != nil {
		return false
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.ServiceKey)
	req.Header.Set("apikey", c.cfg.ServiceKey)
}
