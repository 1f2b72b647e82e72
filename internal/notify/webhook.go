package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	dbgen "github.com/schooney/backend-portal/internal/db/gen"
	"github.com/schooney/backend-portal/internal/obs"
	"github.com/schooney/backend-portal/internal/resilience"
)

// Delivery lifecycle states stored on webhook_deliveries rows. Retries are
// driven by asynq, so a failed row simply records the last attempt.
const (
	DeliveryPending    = "pending"
	DeliveryDelivering = "delivering"
	DeliveryDelivered  = "delivered"
	DeliveryFailed     = "failed"
)

// Dispatcher coordinates webhook scheduling and delivery.
type Dispatcher struct {
	Store              Store
	HTTP               *resilience.HTTPClient
	Tasks              TaskEnqueuer
	DefaultMaxAttempts int
	Enabled            bool
	Replay             ReplayProtector
	ReplayTTL          time.Duration
}

// Schedule records one delivery per subscribed endpoint and hands each off to
// the task queue.
func (d *Dispatcher) Schedule(ctx context.Context, event dbgen.DomainEvent) error {
	if d == nil || !d.Enabled || d.Store == nil {
		return nil
	}
	if strings.TrimSpace(event.Topic) == "" {
		return nil
	}
	endpoints, err := d.Store.ListEnabledWebhookEndpointsByTopic(ctx, event.Topic)
	if err != nil {
		return err
	}
	var joined error
	for _, ep := range endpoints {
		delivery, err := d.Store.CreateWebhookDelivery(ctx, dbgen.CreateWebhookDeliveryParams{
			EndpointID: ep.ID,
			EventID:    event.ID,
			Topic:      event.Topic,
			Status:     DeliveryPending,
		})
		if err != nil {
			joined = errors.Join(joined, fmt.Errorf("create delivery for %s: %w", uuidFrom(ep.ID), err))
			continue
		}
		if err := d.enqueue(ctx, uuidFrom(delivery.ID), 0); err != nil {
			joined = errors.Join(joined, fmt.Errorf("enqueue delivery %s: %w", uuidFrom(delivery.ID), err))
		}
	}
	return joined
}

// DeliverByID loads a delivery and attempts it once. A non-nil return makes
// the task queue retry with its own backoff.
func (d *Dispatcher) DeliverByID(ctx context.Context, deliveryID string) error {
	if d == nil || !d.Enabled || d.Store == nil {
		return nil
	}
	id, err := parseUUID(deliveryID)
	if err != nil {
		return fmt.Errorf("invalid delivery id %q: %w", deliveryID, err)
	}
	delivery, err := d.Store.GetWebhookDelivery(ctx, id)
	if err != nil {
		return fmt.Errorf("load delivery: %w", err)
	}
	if delivery.Status == DeliveryDelivered {
		return nil
	}
	if obs.WebhookDispatchAttempts != nil {
		obs.WebhookDispatchAttempts.Inc()
	}
	attemptStart := time.Now()
	_ = d.Store.UpdateWebhookDelivery(ctx, dbgen.UpdateWebhookDeliveryParams{
		ID:       delivery.ID,
		Status:   DeliveryDelivering,
		Attempts: delivery.Attempts,
	})
	endpoint, err := d.Store.GetWebhookEndpoint(ctx, delivery.EndpointID)
	if err != nil {
		return d.failDelivery(ctx, delivery, fmt.Errorf("load endpoint: %w", err))
	}
	event, err := d.Store.GetDomainEvent(ctx, delivery.EventID)
	if err != nil {
		return d.failDelivery(ctx, delivery, fmt.Errorf("load event: %w", err))
	}
	status, _, deliverErr := d.deliver(ctx, endpoint, event, delivery)
	if deliverErr == nil && status >= 200 && status < 300 {
		if obs.WebhookDeliveriesTotal != nil {
			obs.WebhookDeliveriesTotal.WithLabelValues("delivered").Inc()
		}
		if obs.WebhookAttemptLatency != nil {
			obs.WebhookAttemptLatency.WithLabelValues("delivered").Observe(obs.DurationMillis(time.Since(attemptStart)))
		}
		return d.Store.UpdateWebhookDelivery(ctx, dbgen.UpdateWebhookDeliveryParams{
			ID:       delivery.ID,
			Status:   DeliveryDelivered,
			Attempts: delivery.Attempts + 1,
		})
	}
	if obs.WebhookDeliveriesTotal != nil {
		obs.WebhookDeliveriesTotal.WithLabelValues("failed").Inc()
	}
	if obs.WebhookAttemptLatency != nil {
		obs.WebhookAttemptLatency.WithLabelValues("failed").Observe(obs.DurationMillis(time.Since(attemptStart)))
	}
	return d.failDelivery(ctx, delivery, fmt.Errorf("status=%d err=%v", status, deliverErr))
}

func (d *Dispatcher) failDelivery(ctx context.Context, delivery dbgen.WebhookDelivery, cause error) error {
	reason := pgtype.Text{String: cause.Error(), Valid: true}
	if err := d.Store.UpdateWebhookDelivery(ctx, dbgen.UpdateWebhookDeliveryParams{
		ID:        delivery.ID,
		Status:    DeliveryFailed,
		Attempts:  delivery.Attempts + 1,
		LastError: reason,
	}); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

func (d *Dispatcher) deliver(ctx context.Context, ep dbgen.WebhookEndpoint, ev dbgen.DomainEvent, del dbgen.WebhookDelivery) (int, string, error) {
	ctx, span := otel.Tracer("notify.Dispatcher").Start(ctx, "Dispatcher.deliver")
	defer span.End()
	span.SetAttributes(
		attribute.String("webhook.endpoint_id", uuidFrom(ep.ID)),
		attribute.String("webhook.delivery_id", uuidFrom(del.ID)),
		attribute.String("webhook.topic", ev.Topic),
	)
	if err := validateURL(ep.Url); err != nil {
		span.RecordError(err)
		return 0, "", err
	}
	var occurred time.Time
	if ev.OccurredAt.Valid {
		occurred = ev.OccurredAt.Time
	} else {
		occurred = time.Now()
	}
	payload := struct {
		EventID    string          `json:"eventId"`
		Topic      string          `json:"topic"`
		Data       json.RawMessage `json:"data"`
		OccurredAt time.Time       `json:"occurredAt"`
	}{
		EventID:    uuidFrom(ev.ID),
		Topic:      ev.Topic,
		Data:       json.RawMessage(ev.Payload),
		OccurredAt: occurred,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		return 0, "", err
	}
	ts := time.Now().Unix()
	if d.Replay != nil && d.ReplayTTL > 0 {
		key := replayKey(ep.ID, ev.ID)
		ok, err := d.Replay.Acquire(ctx, key, d.ReplayTTL)
		if err != nil {
			span.RecordError(err)
			return 0, "", err
		}
		if !ok {
			span.AddEvent("delivery replay prevented")
			return http.StatusOK, "replay-suppressed", nil
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.Url, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "portal-api-webhooks/1.0")
	eventID := uuidFrom(ev.ID)
	deliveryID := uuidFrom(del.ID)
	req.Header.Set("X-Event-ID", eventID)
	req.Header.Set("X-Timestamp", fmt.Sprintf("%d", ts))
	req.Header.Set("X-Idempotency-Key", deliveryID)
	req.Header.Set("X-Signature", ComputeSignature(ep.Secret, ts, eventID, body))
	client := d.HTTP
	if client == nil {
		client = &resilience.HTTPClient{Client: HttpClient(5000, false)}
	}
	resp, err := client.Do(ctx, req)
	if err != nil {
		span.RecordError(err)
		return 0, "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return resp.StatusCode, "", err
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	return resp.StatusCode, string(responseBody), nil
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid endpoint url: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return errors.New("webhook url must be http or https")
	}
	if parsed.Scheme == "http" {
		host := parsed.Hostname()
		if host != "localhost" && host != "127.0.0.1" {
			return errors.New("http webhook only allowed for localhost")
		}
	}
	if parsed.Host == "" {
		return errors.New("webhook url must include host")
	}
	return nil
}

// Deliver exposes the low-level delivery routine to allow manual replays and testing.
func (d *Dispatcher) Deliver(ctx context.Context, ep dbgen.WebhookEndpoint, ev dbgen.DomainEvent, del dbgen.WebhookDelivery) (int, string, error) {
	return d.deliver(ctx, ep, ev, del)
}

// ComputeSignature calculates the webhook signature for the provided payload. The
// format is HMAC-SHA256 over "<ts>.<eventID>.<body>" using the endpoint secret.
func ComputeSignature(secret string, ts int64, eventID string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(strconv.FormatInt(ts, 10)))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write([]byte(eventID))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// HttpClient returns an HTTP client configured for webhook delivery.
func HttpClient(timeoutMs int, insecure bool) *http.Client {
	if timeoutMs <= 0 {
		timeoutMs = 5000
	}
	transport := &http.Transport{}
	if insecure {
		transport.TLSClientConfig = insecureTLSConfig
	}
	return &http.Client{
		Timeout:   time.Duration(timeoutMs) * time.Millisecond,
		Transport: otelhttp.NewTransport(transport),
	}
}

var insecureTLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec

// ReplayProtector guards against sending duplicate deliveries within a TTL.
type ReplayProtector interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

func replayKey(endpointID, eventID pgtype.UUID) string {
	return fmt.Sprintf("wh:%s:%s", uuidFrom(endpointID), uuidFrom(eventID))
}

func uuidFrom(value pgtype.UUID) string {
	if !value.Valid {
		return ""
	}
	id, err := uuid.FromBytes(value.Bytes[:])
	if err != nil {
		return ""
	}
	return id.String()
}
