package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/chirpnet/chirp/pkg/config"
	"github.com/chirpnet/chirp/pkg/logging"
	"github.com/chirpnet/chirp/pkg/telemetry"
)

// Client talks to the image-host collaborator. Upload stores raw image
// bytes and returns the public URL; Destroy removes a previously
// uploaded image. The client is nil-safe: when no storage URL is
// configured both operations are no-ops, posts simply carry no image.
type Client struct {
	baseURL    string
	maxRetries int
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a new storage client
func New(cfg *config.StorageConfig) *Client {
	if cfg.URL == "" {
		logging.GetLogger().Info("Image storage disabled")
		return nil
	}

	logger := logging.GetLogger().With(zap.String("component", "storage-client"))

	client := &Client{
		baseURL:    cfg.URL,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}

	logger.Info("Storage client initialized", zap.String("url", cfg.URL))

	return client
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload stores image bytes and returns the hosted URL
func (c *Client) Upload(ctx context.Context, data []byte) (string, error) {
	if c == nil {
		return "", fmt.Errorf("storage is disabled")
	}

	ctx, span := telemetry.StartSpan(ctx, "storage.upload")
	defer span.End()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("failed to build upload request: %w", err)
		}
		req.Header.Set("Content-Type", "application/octet-stream")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			c.logger.Warn("Upload attempt failed", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			lastErr = fmt.Errorf("upload returned status %d", resp.StatusCode)
			// Client errors will not improve on retry
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return "", lastErr
			}
			continue
		}

		var parsed uploadResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", fmt.Errorf("failed to unmarshal upload response: %w", err)
		}
		if parsed.URL == "" {
			return "", fmt.Errorf("upload response missing url")
		}
		return parsed.URL, nil
	}

	return "", fmt.Errorf("upload failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// Destroy removes a hosted image. Failures are logged and returned but
// callers treat them as best-effort; the post row is the source of truth.
func (c *Client) Destroy(ctx context.Context, imageURL string) error {
	if c == nil || imageURL == "" {
		return nil
	}

	ctx, span := telemetry.StartSpan(ctx, "storage.destroy")
	defer span.End()

	endpoint := c.baseURL + "/destroy?url=" + url.QueryEscape(imageURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build destroy request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("destroy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("destroy returned status %d", resp.StatusCode)
	}

	return nil
}
