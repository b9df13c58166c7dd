package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/atlaserp/atlas/internal/logger"
)

const (
	defaultAttempts   = 3
	defaultRetryDelay = 500 * time.Millisecond
)

// Client posts notifications to an incoming webhook.
type Client struct {
	webhookURL string
	channel    string
	enabled    bool
	httpClient *http.Client
	notifyOn   NotifySettings

	attempts   uint
	retryDelay time.Duration
	now        func() time.Time
}

// NewClient creates a client from configuration. A nil or incomplete config
// yields a disabled client whose methods are no-ops.
func NewClient(cfg *Config) *Client {
	if cfg == nil || !cfg.Enabled || cfg.WebhookURL == "" {
		return &Client{enabled: false}
	}

	return &Client{
		webhookURL: cfg.WebhookURL,
		channel:    cfg.Channel,
		enabled:    true,
		notifyOn:   cfg.NotifyOn,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		attempts:   defaultAttempts,
		retryDelay: defaultRetryDelay,
		now:        time.Now,
	}
}

// Enabled reports whether the client will send anything.
func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// Post sends an event, retrying transport errors and 5xx responses.
// A 4xx response is not retried.
func (c *Client) Post(ctx context.Context, event EventType, fields map[string]string) error {
	if !c.Enabled() || !c.shouldNotify(event) {
		return nil
	}

	msg := formatMessage(event, fields, c.now())
	if c.channel != "" {
		msg.Channel = c.channel
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling notification: %w", err)
	}

	return retry.Do(
		func() error { return c.send(ctx, payload) },
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.FromContext(ctx).Debugw("retrying notification", "event", event, "attempt", n+1, "error", err)
		}),
	)
}

func (c *Client) send(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return retry.Unrecoverable(fmt.Errorf("webhook returned status %d", resp.StatusCode))
	}
	return nil
}

// Notify posts an event and logs failures instead of returning them.
// Notifications are best-effort and must never interrupt a session.
func (c *Client) Notify(ctx context.Context, event EventType, fields map[string]string) {
	if err := c.Post(ctx, event, fields); err != nil {
		logger.FromContext(ctx).Warnw("notification failed", "event", event, "error", err)
	}
}

// shouldNotify checks if the given event type should trigger a notification.
func (c *Client) shouldNotify(event EventType) bool {
	switch event {
	case EventLogin:
		return c.notifyOn.Login
	case EventLogout:
		return c.notifyOn.Logout
	case EventModuleInitFailed:
		return c.notifyOn.ModuleInitFailed
	default:
		return true
	}
}
