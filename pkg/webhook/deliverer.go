package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pitabwire/frame/workerpool"

	"github.com/docvoice/docvoice/pkg/events"
)

// DelivererConfig holds delivery-related settings.
type DelivererConfig struct {
	MaxRetries        int
	TimeoutSec        int
	BackoffInitialSec int
	BackoffMaxSec     int
}

// Deliverer delivers webhook events to registered endpoints.
type Deliverer struct {
	repo       *Repository
	httpClient *http.Client
	config     DelivererConfig
	pool       workerpool.WorkerPool
}

// NewDeliverer creates a new webhook deliverer. A nil repo disables
// delivery-attempt persistence; deliveries still go out.
func NewDeliverer(repo *Repository, cfg DelivererConfig, pool workerpool.WorkerPool) *Deliverer {
	return &Deliverer{
		repo: repo,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		config: cfg,
		pool:   pool,
	}
}

// Deliver attempts to POST an event envelope to a webhook endpoint.
func (d *Deliverer) Deliver(ctx context.Context, wh Endpoint, env events.Envelope) {
	d.deliverWithRetry(ctx, wh, env, 1)
}

func (d *Deliverer) deliverWithRetry(ctx context.Context, wh Endpoint, env events.Envelope, attempt int) {
	body, err := json.Marshal(env)
	if err != nil {
		d.handleFailure(ctx, wh, env, attempt, fmt.Sprintf("marshal: %v", err))
		return
	}

	sig := Sign(wh.Secret, body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wh.URL, bytes.NewReader(body))
	if err != nil {
		d.handleFailure(ctx, wh, env, attempt, fmt.Sprintf("create request: %v", err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, sig)
	req.Header.Set("X-Docvoice-Event", string(env.Type))
	req.Header.Set("X-Docvoice-Delivery", env.ID)

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	durationMs := time.Since(start).Milliseconds()

	da := &DeliveryAttempt{
		WebhookID:     wh.ID,
		EventID:       env.ID,
		EventType:     string(env.Type),
		RequestBody:   string(body),
		AttemptNumber: attempt,
		DurationMs:    durationMs,
	}

	if err != nil {
		da.Status = "failed"
		da.Error = err.Error()
		d.recordDelivery(ctx, da)
		d.handleFailure(ctx, wh, env, attempt, da.Error)
		return
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	// Drain remainder for connection reuse.
	io.Copy(io.Discard, resp.Body)

	da.ResponseCode = resp.StatusCode
	da.ResponseBody = string(respBody)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		da.Status = "success"
		d.recordDelivery(ctx, da)
		return
	}

	da.Status = "failed"
	da.Error = fmt.Sprintf("HTTP %d", resp.StatusCode)
	d.recordDelivery(ctx, da)
	d.handleFailure(ctx, wh, env, attempt, da.Error)
}

func (d *Deliverer) recordDelivery(ctx context.Context, da *DeliveryAttempt) {
	if d.repo == nil {
		return
	}
	if err := d.repo.RecordDelivery(ctx, da); err != nil {
		slog.ErrorContext(ctx, "record delivery failed", slog.String("error", err.Error()))
	}
}

func (d *Deliverer) handleFailure(ctx context.Context, wh Endpoint, env events.Envelope, attempt int, errMsg string) {
	if attempt >= d.config.MaxRetries {
		slog.WarnContext(ctx, "webhook delivery exhausted retries",
			slog.String("webhook_id", wh.ID),
			slog.String("event_id", env.ID),
			slog.Int("attempts", attempt),
			slog.String("error", errMsg))
		return
	}

	// Schedule retry with exponential backoff via worker pool.
	backoff := d.config.BackoffInitialSec * (1 << (attempt - 1))
	if backoff > d.config.BackoffMaxSec {
		backoff = d.config.BackoffMaxSec
	}

	retryFunc := func() {
		timer := time.NewTimer(time.Duration(backoff) * time.Second)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			d.deliverWithRetry(ctx, wh, env, attempt+1)
		}
	}

	if d.pool != nil {
		if err := d.pool.Submit(ctx, retryFunc); err != nil {
			slog.WarnContext(ctx, "retry pool full, dropping retry",
				slog.String("webhook_id", wh.ID),
				slog.Int("attempt", attempt))
		}
	} else {
		time.AfterFunc(time.Duration(backoff)*time.Second, func() {
			d.deliverWithRetry(ctx, wh, env, attempt+1)
		})
	}
}
