// Package alert fires fire-and-forget webhook/email notifications when the
// scanner reports a violation. Transport failures are logged, never
// retried, and never propagated back to a pump (spec.md §4.5, §7
// "Alert-transport-failed").
// file: internal/alert/dispatcher.go
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cowgnition-labs/mcp-gateway/internal/gwjsonrpc"
	"github.com/cowgnition-labs/mcp-gateway/internal/logging"
	"github.com/cowgnition-labs/mcp-gateway/internal/scanner"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// webhookTimeout bounds the POST per spec.md §4.5.
const webhookTimeout = 5 * time.Second

// EmailSender hands an alert payload to an email backend. The original
// implementation leaves this transport unimplemented (spec.md §9); callers
// without one configured should pass a nil EmailSender and the dispatcher
// skips email delivery.
type EmailSender interface {
	Send(ctx context.Context, to string, payload map[string]interface{}) error
}

// Config is the subset of the alerting section the Dispatcher needs.
type Config struct {
	Enabled    bool
	WebhookURL string
	Email      string
}

// Dispatcher POSTs violation payloads to a webhook and/or hands them to an
// injected EmailSender, guarding the webhook call with a circuit breaker so
// a dead endpoint doesn't add per-violation latency, and a rate limiter so
// a noisy rule can't flood the webhook.
type Dispatcher struct {
	config      Config
	serverName  string
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker
	limiter     *rate.Limiter
	emailSender EmailSender
	logger      logging.Logger
}

// New returns a Dispatcher for the named child server. emailSender may be
// nil when no email backend is configured.
func New(config Config, serverName string, emailSender EmailSender, logger logging.Logger) *Dispatcher {
	breakerSettings := gobreaker.Settings{
		Name:        "alert-webhook",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("alert webhook circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &Dispatcher{
		config:      config,
		serverName:  serverName,
		httpClient:  &http.Client{Timeout: webhookTimeout},
		breaker:     gobreaker.NewCircuitBreaker(breakerSettings),
		limiter:     rate.NewLimiter(rate.Every(time.Second), 5),
		emailSender: emailSender,
		logger:      logger,
	}
}

// SendAlert builds the violation payload and dispatches it to every
// configured transport. It never returns an error: every failure is logged
// and swallowed, matching the fire-and-forget contract.
func (d *Dispatcher) SendAlert(ctx context.Context, message *gwjsonrpc.ParsedMessage, result *scanner.Result, direction gwjsonrpc.Direction) {
	if !d.config.Enabled || !result.HasViolations() {
		return
	}

	payload := d.buildPayload(message, result, direction)

	if d.config.WebhookURL != "" {
		d.sendWebhook(ctx, payload)
	}
	if d.config.Email != "" && d.emailSender != nil {
		if err := d.emailSender.Send(ctx, d.config.Email, payload); err != nil {
			d.logger.Warn("alert email delivery failed", "error", err.Error())
		}
	}
}

func (d *Dispatcher) buildPayload(message *gwjsonrpc.ParsedMessage, result *scanner.Result, direction gwjsonrpc.Direction) map[string]interface{} {
	violations := make([]map[string]interface{}, 0, len(result.Violations))
	for _, v := range result.Violations {
		violations = append(violations, map[string]interface{}{
			"rule":        v.RuleName,
			"severity":    v.Severity,
			"description": v.Description,
		})
	}

	return map[string]interface{}{
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"server":       d.serverName,
		"direction":    direction,
		"message_type": message.Kind,
		"method":       message.Method,
		"violations":   violations,
	}
}

// sendWebhook POSTs payload through the circuit breaker and rate limiter.
// A tripped breaker or a denied reservation is treated the same as a
// transport failure: logged, never retried.
func (d *Dispatcher) sendWebhook(ctx context.Context, payload map[string]interface{}) {
	if !d.limiter.Allow() {
		d.logger.Warn("alert webhook throttled, dropping alert")
		return
	}

	_, err := d.breaker.Execute(func() (interface{}, error) {
		return nil, d.postWebhook(ctx, payload)
	})
	if err != nil {
		d.logger.Warn("alert webhook delivery failed", "error", err.Error())
	}
}

func (d *Dispatcher) postWebhook(ctx context.Context, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	reqCtx, cancel := context.WithTimeout(ctx, webhookTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, d.config.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &httpStatusError{status: resp.StatusCode}
	}
	return nil
}

type httpStatusError struct {
	status int
}

func (e *httpStatusError) Error() string {
	return http.StatusText(e.status)
}
