package platforms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Message is one webhook post: optional plain content above a single embed.
type Message struct {
	Title       string
	Content     string
	Description string
	Color       int
	Timestamp   string
	Footer      string
	Fields      []Field
}

// Adapter delivers a message to one webhook endpoint.
type Adapter interface {
	Name() string
	Send(ctx context.Context, endpoint string, msg Message) error
}

// WebhookError is a non-2xx webhook response.
type WebhookError struct {
	Status int
	// RetryAfter is the wait the platform asked for on a 429, if any.
	RetryAfter time.Duration
}

func (e *WebhookError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("webhook failed with status %d (retry after %s)", e.Status, e.RetryAfter)
	}
	return fmt.Sprintf("webhook failed with status %d", e.Status)
}

// Retryable is false for responses that will not change on resend, such as a
// deleted webhook (404) or a payload the platform refuses (400).
func (e *WebhookError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// Permanent reports whether err is a webhook response that no retry can fix.
// Transport errors and timeouts are never permanent.
func Permanent(err error) bool {
	var we *WebhookError
	return errors.As(err, &we) && !we.Retryable()
}

// RetryAfter returns the wait requested by a rate-limited response.
func RetryAfter(err error) time.Duration {
	var we *WebhookError
	if errors.As(err, &we) {
		return we.RetryAfter
	}
	return 0
}
