package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Event is a push notification about an order or charge state change.
// Delivery is best-effort; correctness never depends on it.
type Event struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	RefID   string `json:"ref_id,omitempty"`
}

// Notifier delivers events to operators' devices.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// WebhookNotifier posts events as JSON to a configured endpoint.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier constructs a webhook notifier.
func NewWebhookNotifier(url string) (*WebhookNotifier, error) {
	if url == "" {
		return nil, errors.New("webhook notifier: empty url")
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Notify posts the event.
func (n *WebhookNotifier) Notify(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook notifier: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// NoopNotifier discards all events. Used when no webhook is configured and
// in tests.
type NoopNotifier struct{}

// Notify discards the event.
func (NoopNotifier) Notify(ctx context.Context, event Event) error { return nil }
