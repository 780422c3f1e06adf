// Package notify pushes enacted moderation verdicts to an admin webhook
// ("incoming webhook" style: POST a JSON body with a text field).
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/blitzboy11/Xsin/moderation"
)

type WebhookBody struct {
	Text string `json:"text"`
}

// WebhookNotifier implements moderation.VerdictNotifier over an incoming
// webhook. Alerts are rate-limited: a ban wave must not turn into a webhook
// flood, so over-limit alerts are dropped (counted, logged at debug).
type WebhookNotifier struct {
	logger     *slog.Logger
	webhookURL string
	limiter    *rate.Limiter
	httpClient *http.Client
}

var _ moderation.VerdictNotifier = (*WebhookNotifier)(nil)

func NewWebhookNotifier(logger *slog.Logger, webhookURL string) *WebhookNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = retryablehttp.LeveledLogger(leveledSlog{inner: logger})
	client := retryClient.StandardClient()
	client.Timeout = 20 * time.Second
	return &WebhookNotifier{
		logger:     logger.With("component", "notify"),
		webhookURL: webhookURL,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 10),
		httpClient: client,
	}
}

func (n *WebhookNotifier) SendVerdict(ctx context.Context, subject string, v moderation.Verdict) error {
	if n == nil || n.webhookURL == "" {
		return nil
	}
	if !n.limiter.Allow() {
		alertsDropped.Inc()
		n.logger.Debug("webhook alert dropped by rate limit", "subject", subject)
		return nil
	}
	msg := fmt.Sprintf("⚠️ Xsin Mod Action ⚠️\nAction: %s\nReason: %s\nSubject: %s", v.Action, v.Reason, subject)
	return n.send(ctx, msg)
}

func (n *WebhookNotifier) send(ctx context.Context, msg string) error {
	body, err := json.Marshal(WebhookBody{Text: msg})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook request failed, status: %d", resp.StatusCode)
	}
	return nil
}

// adapts slog to retryablehttp's leveled logger. HTTP client ERROR is
// re-written to WARN (the client retries), DEBUG to INFO (retries are
// logged at debug).
type leveledSlog struct {
	inner *slog.Logger
}

func (l leveledSlog) Error(msg string, keysAndValues ...interface{}) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Warn(msg string, keysAndValues ...interface{}) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Info(msg string, keysAndValues ...interface{}) {
	l.inner.Info(msg, keysAndValues...)
}

func (l leveledSlog) Debug(msg string, keysAndValues ...interface{}) {
	l.inner.Info(msg, keysAndValues...)
}
