package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultClientTimeout bounds one inference call. The remote model can take a
// while on large images, but a stuck call must not hold the photo gate
// forever.
const DefaultClientTimeout = 60 * time.Second

// Client calls a remote detection service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a Client for the service at baseURL. A non-positive
// timeout falls back to DefaultClientTimeout.
func NewClient(log *slog.Logger, baseURL string, timeout time.Duration) *Client {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultClientTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  log.With(slog.String("client", "detector")),
	}
}

// Predict asks the service to run detection over the stored image imgName.
// A non-2xx status is reported as ErrNoDetections, deliberately downgraded
// from a hard failure; transport-level errors propagate as-is.
func (c *Client) Predict(ctx context.Context, imgName string) (Response, error) {
	endpoint := c.baseURL + "/predict?imgName=" + url.QueryEscape(imgName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return Response{}, fmt.Errorf("build predict request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("call detection service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.logger.Info("detection service returned no result",
			slog.String("img", imgName),
			slog.Int("status", resp.StatusCode))
		return Response{}, fmt.Errorf("%w: status %d", ErrNoDetections, resp.StatusCode)
	}
	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Response{}, fmt.Errorf("decode predict response: %w", err)
	}
	return out, nil
}
