package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/schooney/backend-portal/internal/cart"
	dbgen "github.com/schooney/backend-portal/internal/db/gen"
	"github.com/schooney/backend-portal/internal/obs"
)

var ErrNotFound = errors.New("payment: not found")

// Internal method codes that settle without an upstream provider.
const (
	MethodCreditNote = "credit_note"
	MethodCash       = "cash"
)

// Service coordinates provider charges and payment retrieval.
type Service struct {
	Q         *dbgen.Queries
	Providers map[string]Provider
	ChargeTTL time.Duration
	Currency  string
}

// ProviderFor maps a payment method code to the provider that charges it.
// Internal methods (cash, credit note) return an empty key and nil provider.
func (s *Service) ProviderFor(methodCode string) (string, Provider) {
	switch methodCode {
	case "promptpay":
		return "promptpay", s.Providers["promptpay"]
	case "credit_card", "bank_transfer":
		return "gateway", s.Providers["gateway"]
	default:
		return "", nil
	}
}

// Charge opens a provider charge for a freshly created payment row.
func (s *Service) Charge(ctx context.Context, p dbgen.Payment, card *Card) (ChargeResponse, error) {
	if s == nil || s.Q == nil {
		return ChargeResponse{}, errors.New("payment service not configured")
	}
	ctx, span := otel.Tracer("payment.Service").Start(ctx, "PaymentService.Charge")
	defer span.End()

	providerName, provider := s.ProviderFor(p.MethodCode)
	result := "error"
	start := time.Now()
	defer func() {
		span.SetAttributes(
			attribute.String("payment.provider", providerName),
			attribute.String("payment.method", p.MethodCode),
			attribute.Float64("payment.charge.duration_ms", obs.DurationMillis(time.Since(start))),
			attribute.String("payment.charge.result", result),
		)
		if obs.PaymentChargeTotal != nil {
			obs.PaymentChargeTotal.WithLabelValues(providerName, p.MethodCode, result).Inc()
		}
	}()
	if provider == nil {
		return ChargeResponse{}, fmt.Errorf("method %s has no charge provider", p.MethodCode)
	}
	ttl := s.ChargeTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	resp, err := provider.CreateCharge(ctx, ChargeRequest{
		PaymentID:    cart.UUIDString(p.ID),
		Amount:       p.Total,
		Currency:     s.Currency,
		ExpiresAtSec: int(ttl.Seconds()),
		Card:         card,
	})
	if err != nil {
		span.RecordError(err)
		return ChargeResponse{}, err
	}
	result = "ok"
	return resp, nil
}

// List returns the guardian's payments, newest first.
func (s *Service) List(ctx context.Context, guardianID string, limit, offset int32) ([]dbgen.Payment, error) {
	gID, err := cart.ToUUID(guardianID)
	if err != nil {
		return nil, fmt.Errorf("payment: %w", err)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.Q.ListPaymentsByGuardian(ctx, dbgen.ListPaymentsByGuardianParams{
		GuardianID:  gID,
		LimitValue:  limit,
		OffsetValue: offset,
	})
}

// Get returns one payment with its line items, scoped to the guardian.
func (s *Service) Get(ctx context.Context, guardianID, paymentID string) (dbgen.Payment, []dbgen.PaymentItem, error) {
	gID, err := cart.ToUUID(guardianID)
	if err != nil {
		return dbgen.Payment{}, nil, fmt.Errorf("payment: %w", err)
	}
	pID, err := cart.ToUUID(paymentID)
	if err != nil {
		return dbgen.Payment{}, nil, fmt.Errorf("payment: %w", err)
	}
	p, err := s.Q.GetPaymentByID(ctx, pID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Payment{}, nil, ErrNotFound
		}
		return dbgen.Payment{}, nil, err
	}
	if !cart.UUIDEqual(p.GuardianID, gID) {
		return dbgen.Payment{}, nil, ErrNotFound
	}
	items, err := s.Q.ListPaymentItems(ctx, p.ID)
	if err != nil {
		return dbgen.Payment{}, nil, err
	}
	return p, items, nil
}

func normaliseLabel(value string) string {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
