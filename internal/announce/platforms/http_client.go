package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"
)

type HTTPClient struct {
	inner *http.Client
}

func NewHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClient{inner: &http.Client{Timeout: timeout}}
}

// rateLimitBody is the JSON Discord returns with a 429.
type rateLimitBody struct {
	RetryAfter float64 `json:"retry_after"`
}

// PostJSON posts body and returns a *WebhookError for any non-2xx status.
func (c *HTTPClient) PostJSON(ctx context.Context, endpoint string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.inner.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	werr := &WebhookError{Status: resp.StatusCode}
	if resp.StatusCode == http.StatusTooManyRequests {
		werr.RetryAfter = retryAfter(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return werr
}

// retryAfter prefers the body's fractional seconds and falls back to the
// Retry-After header.
func retryAfter(resp *http.Response) time.Duration {
	var rl rateLimitBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&rl); err == nil && rl.RetryAfter > 0 {
		return time.Duration(rl.RetryAfter * float64(time.Second))
	}
	if secs, err := strconv.ParseFloat(resp.Header.Get("Retry-After"), 64); err == nil && secs > 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return 0
}
