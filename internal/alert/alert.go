// Package alert delivers operator notifications raised by the shipment
// workflow. Alert delivery is best effort: a failed delivery is logged
// and never propagated to the caller.
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Alerter sends a notification to an operator.
type Alerter interface {
	Send(ctx context.Context, message, recipient string) error
}

// LogAlerter writes alerts to the service log. It is the fallback when no
// webhook is configured.
type LogAlerter struct {
	logger *otelzap.Logger
}

func NewLogAlerter(logger *otelzap.Logger) *LogAlerter {
	return &LogAlerter{logger: logger}
}

func (a *LogAlerter) Send(ctx context.Context, message, recipient string) error {
	a.logger.Ctx(ctx).Warn("operator alert",
		zap.String("recipient", recipient),
		zap.String("message", message))
	return nil
}

// WebhookAlerter posts alerts as JSON to a configured HTTP endpoint.
type WebhookAlerter struct {
	url        string
	httpClient *http.Client
	logger     *otelzap.Logger
}

func NewWebhookAlerter(url string, logger *otelzap.Logger) *WebhookAlerter {
	return &WebhookAlerter{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type webhookPayload struct {
	Message   string    `json:"message"`
	Recipient string    `json:"recipient"`
	Timestamp time.Time `json:"timestamp"`
}

func (a *WebhookAlerter) Send(ctx context.Context, message, recipient string) error {
	body, err := json.Marshal(webhookPayload{
		Message:   message,
		Recipient: recipient,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Ctx(ctx).Error("alert webhook delivery failed", zap.Error(err))
		return fmt.Errorf("posting alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		a.logger.Ctx(ctx).Error("alert webhook rejected",
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("alert webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Recorder captures alerts in memory for tests.
type Recorder struct {
	Alerts []RecordedAlert
}

type RecordedAlert struct {
	Message   string
	Recipient string
}

func (r *Recorder) Send(_ context.Context, message, recipient string) error {
	r.Alerts = append(r.Alerts, RecordedAlert{Message: message, Recipient: recipient})
	return nil
}
