package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexandre-bismuth/PickYourCourses/internal/router"
)

const (
	clientMaxRetries = 3
	clientBaseDelay  = 200 * time.Millisecond
)

// HTTPSender delivers responses by POSTing them to the platform's send API.
// Delivery failures are retried with bounded exponential backoff; exhaustion
// is returned to the caller, never to the end user as a raw error.
type HTTPSender struct {
	apiURL string
	client *http.Client
}

// NewHTTPSender creates a sender for the given platform API URL.
func NewHTTPSender(apiURL string) *HTTPSender {
	return &HTTPSender{
		apiURL: apiURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type outboundPayload struct {
	UserID   int64            `json:"user_id"`
	Text     string           `json:"text"`
	Keyboard [][]router.Button `json:"keyboard,omitempty"`
}

// Send implements Sender.
func (s *HTTPSender) Send(ctx context.Context, userID int64, resp *router.Response) error {
	body, err := json.Marshal(outboundPayload{
		UserID:   userID,
		Text:     resp.Text,
		Keyboard: resp.Keyboard,
	})
	if err != nil {
		return fmt.Errorf("encode outbound message: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < clientMaxRetries; attempt++ {
		if attempt > 0 {
			delay := clientBaseDelay * time.Duration(1<<(attempt-1))
			slog.Debug("retrying message delivery",
				"user_id", userID,
				"attempt", attempt+1,
				"delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = s.post(ctx, body)
		if lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("deliver message to %d after %d attempts: %w", userID, clientMaxRetries, lastErr)
}

func (s *HTTPSender) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Debug("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("platform API returned %d", resp.StatusCode)
	}
	return nil
}
