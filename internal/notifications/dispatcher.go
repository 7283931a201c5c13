package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Dispatcher persists notifications and delivers them to a webhook.
type Dispatcher struct {
	store      *Store
	webhookURL string
	client     *http.Client
}

// NewDispatcher creates a Dispatcher backed by the given store. An empty
// webhookURL disables delivery; notifications are still persisted.
func NewDispatcher(store *Store, webhookURL string) *Dispatcher {
	return &Dispatcher{
		store:      store,
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Dispatch persists a notification and, if a webhook is configured, POSTs it.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) error {
	created, err := d.store.Create(ctx, n)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}

	if d.webhookURL == "" {
		return nil
	}

	payload, err := json.Marshal(created)
	if err != nil {
		return fmt.Errorf("marshalling notification: %w", err)
	}
	if err := d.sendWebhook(ctx, payload); err != nil {
		return err
	}
	return d.store.MarkDelivered(ctx, created.ID)
}

// sendWebhook POSTs payload to the configured URL.
func (d *Dispatcher) sendWebhook(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
