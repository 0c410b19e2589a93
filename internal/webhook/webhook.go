package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cardrelay/cardrelay/pkg/card"
)

// StatusError reports a webhook response with an HTTP error status.
// Delivery failures that never produced a response are returned as
// plain wrapped errors instead.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook returned HTTP %d", e.Code)
}

// Client posts card messages to a single webhook URL.
type Client struct {
	url    string
	client *http.Client
}

// New creates a Client for url. The timeout bounds each delivery attempt
// end to end.
func New(url string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Send posts msg as JSON. A response with status >= 400 is returned as a
// *StatusError; transport failures are wrapped as-is.
func (c *Client) Send(ctx context.Context, msg card.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode >= 400 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}
