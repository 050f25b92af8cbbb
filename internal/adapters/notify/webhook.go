package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/placementhub/portal-api/internal/ports"
)

// WebhookConfig captures the webhook notifier behaviour.
type WebhookConfig struct {
	URL        string
	Channel    string
	Username   string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
	Logger     *slog.Logger
}

// WebhookNotifier posts notifications to a chat webhook. Delivery is best
// effort: failures are logged and never surfaced to the caller, matching
// the fire-and-forget Notifier contract.
type WebhookNotifier struct {
	url        string
	channel    string
	username   string
	retryLimit int
	client     *http.Client
	logger     *slog.Logger
}

var _ ports.Notifier = (*WebhookNotifier)(nil)

// NewWebhookNotifier builds a webhook notifier.
func NewWebhookNotifier(cfg WebhookConfig) (*WebhookNotifier, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, errors.New("webhook url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	retries := cfg.RetryLimit
	if retries < 0 {
		retries = 0
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	username := strings.TrimSpace(cfg.Username)
	if username == "" {
		username = "placement-portal"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &WebhookNotifier{
		url:        url,
		channel:    strings.TrimSpace(cfg.Channel),
		username:   username,
		retryLimit: retries,
		client:     hc,
		logger:     logger,
	}, nil
}

func (n *WebhookNotifier) Notify(ctx context.Context, kind ports.NotifyKind, message string) {
	if err := n.send(ctx, kind, message); err != nil {
		n.logger.WarnContext(ctx, "webhook notification failed", "kind", kind, "error", err)
	}
}

func (n *WebhookNotifier) send(ctx context.Context, kind ports.NotifyKind, message string) error {
	msg := map[string]any{
		"text":     fmt.Sprintf("[%s] %s", kind, message),
		"username": n.username,
	}
	if n.channel != "" {
		msg["channel"] = n.channel
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	attempts := n.retryLimit + 1
	var lastErr error
	for attempt := range attempts {
		lastErr = n.post(ctx, body)
		if lastErr == nil {
			return nil
		}
		if attempt < attempts-1 {
			// Linear backoff to avoid thundering retries.
			delay := time.Duration(attempt+1) * 200 * time.Millisecond
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return lastErr
}

func (n *WebhookNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
