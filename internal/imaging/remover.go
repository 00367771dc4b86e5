package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aimd54/wardrobe-stylist/internal/config"
	"github.com/aimd54/wardrobe-stylist/pkg/logger"
)

// maxResponseBytes caps the size of a background removal response.
const maxResponseBytes = 32 << 20

// ErrRemoverDisabled is returned by a client built without a service URL.
var ErrRemoverDisabled = errors.New("background removal is not configured")

// BackgroundRemover strips the background from an image and returns a PNG
// with a transparent backdrop.
type BackgroundRemover interface {
	RemoveBackground(ctx context.Context, data []byte) ([]byte, error)
}

// RemoverClient calls an HTTP background removal service that accepts the
// raw image as the request body and answers with a PNG.
type RemoverClient struct {
	url     string
	timeout time.Duration
	http    *http.Client
	log     *logger.Logger
}

// NewRemoverClient creates a new background removal client.
func NewRemoverClient(cfg *config.ImagingConfig, log *logger.Logger) *RemoverClient {
	return &RemoverClient{
		url:     cfg.BackgroundRemovalURL,
		timeout: cfg.Timeout(),
		http:    &http.Client{},
		log:     log,
	}
}

// Enabled reports whether a service URL is configured.
func (c *RemoverClient) Enabled() bool {
	return c.url != ""
}

// RemoveBackground implements BackgroundRemover.
func (c *RemoverClient) RemoveBackground(ctx context.Context, data []byte) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrRemoverDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", http.DetectContentType(data))
	req.Header.Set("Accept", "image/png")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call background removal: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("background removal returned status %d", resp.StatusCode)
	}

	out, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read background removal response: %w", err)
	}

	c.log.Debug().
		Int("in_bytes", len(data)).
		Int("out_bytes", len(out)).
		Dur("duration", time.Since(start)).
		Msg("Background removed")

	return out, nil
}
