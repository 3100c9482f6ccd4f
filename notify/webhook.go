// Package notify tells an external endpoint about generated QR codes.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Payload is the JSON body POSTed for each generated QR code.
type Payload struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	Format    string `json:"format"`
	Timestamp int64  `json:"timestamp"`
}

// WebhookSender delivers payloads to an HTTP endpoint, dropping repeats of
// an ID seen within seenTTL.
type WebhookSender struct {
	url    string
	seen   map[string]time.Time // payload ID -> first seen time
	mu     sync.Mutex
	client *http.Client
	log    *slog.Logger
}

// seenTTL is the time-to-live for entries in the deduplication map.
const seenTTL = 5 * time.Minute

// NewWebhookSender creates a WebhookSender ready to POST payloads to url.
// If url is empty the sender is a no-op. A nil log uses slog.Default.
func NewWebhookSender(url string, log *slog.Logger) *WebhookSender {
	if log == nil {
		log = slog.Default()
	}
	return &WebhookSender{
		url:  url,
		seen: make(map[string]time.Time),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Enabled reports whether a webhook URL is configured.
func (w *WebhookSender) Enabled() bool {
	return w != nil && w.url != ""
}

// Send delivers payload. It returns nil without sending when no URL is
// configured or the ID was already sent.
func (w *WebhookSender) Send(ctx context.Context, payload *Payload) error {
	if !w.Enabled() {
		return nil
	}

	w.mu.Lock()
	w.cleanupSeenLocked()
	if _, ok := w.seen[payload.ID]; ok {
		w.mu.Unlock()
		w.log.Debug("webhook skipping duplicate", "id", payload.ID)
		return nil
	}
	w.seen[payload.ID] = time.Now()
	w.mu.Unlock()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		w.log.Error("webhook delivery failed", "error", err, "id", payload.ID)
		return fmt.Errorf("webhook POST: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		w.log.Info("webhook delivered", "status", resp.StatusCode, "id", payload.ID)
	} else {
		w.log.Warn("webhook non-2xx response", "status", resp.StatusCode, "id", payload.ID)
	}
	return nil
}

// cleanupSeenLocked removes stale entries from the seen map. The caller MUST
// hold w.mu.
func (w *WebhookSender) cleanupSeenLocked() {
	cutoff := time.Now().Add(-seenTTL)
	for id, t := range w.seen {
		if t.Before(cutoff) {
			delete(w.seen, id)
		}
	}
}
