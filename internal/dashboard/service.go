package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"

	dbgen "github.com/schooney/backend-portal/internal/db/gen"
)

// Querier defines the database access required for the guardian dashboard.
type Querier interface {
	SumOutstandingByGuardian(ctx context.Context, guardianID pgtype.UUID) (int64, error)
	CountOverdueInvoicesByGuardian(ctx context.Context, arg dbgen.CountOverdueInvoicesByGuardianParams) (int64, error)
	SumCreditByGuardian(ctx context.Context, guardianID pgtype.UUID) (int64, error)
	ListPaymentsByGuardian(ctx context.Context, arg dbgen.ListPaymentsByGuardianParams) ([]dbgen.Payment, error)
}

// Summary is the aggregate view a guardian sees after signing in.
type Summary struct {
	OutstandingTotal int64           `json:"outstanding_total"`
	OverdueInvoices  int64           `json:"overdue_invoices"`
	AvailableCredit  int64           `json:"available_credit"`
	RecentPayments   []dbgen.Payment `json:"recent_payments"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

// Service provides cached access to per-guardian aggregates.
type Service struct {
	Q   Querier
	R   *redis.Client
	TTL time.Duration
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func cacheKey(guardianID string) string {
	return "dash:summary:" + guardianID
}

// Summary builds the dashboard aggregates for the guardian, serving from
// cache when a recent copy exists.
func (s *Service) Summary(ctx context.Context, guardianID pgtype.UUID) (Summary, error) {
	if s == nil || s.Q == nil {
		return Summary{}, fmt.Errorf("dashboard service not configured")
	}
	key := cacheKey(uuidString(guardianID))
	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	outstanding, err := s.Q.SumOutstandingByGuardian(ctx, guardianID)
	if err != nil {
		return Summary{}, fmt.Errorf("sum outstanding: %w", err)
	}
	now := s.now()
	overdue, err := s.Q.CountOverdueInvoicesByGuardian(ctx, dbgen.CountOverdueInvoicesByGuardianParams{
		GuardianID: guardianID,
		DueDate:    pgtype.Date{Time: now, Valid: true},
	})
	if err != nil {
		return Summary{}, fmt.Errorf("count overdue: %w", err)
	}
	credit, err := s.Q.SumCreditByGuardian(ctx, guardianID)
	if err != nil {
		return Summary{}, fmt.Errorf("sum credit: %w", err)
	}
	payments, err := s.Q.ListPaymentsByGuardian(ctx, dbgen.ListPaymentsByGuardianParams{
		GuardianID: guardianID,
		LimitValue: 5,
	})
	if err != nil {
		return Summary{}, fmt.Errorf("recent payments: %w", err)
	}
	if payments == nil {
		payments = []dbgen.Payment{}
	}

	summary := Summary{
		OutstandingTotal: outstanding,
		OverdueInvoices:  overdue,
		AvailableCredit:  credit,
		RecentPayments:   payments,
		GeneratedAt:      now,
	}
	s.store(ctx, key, summary)
	return summary, nil
}

// Invalidate drops the cached summary, called after a payment settles or a
// credit note is granted.
func (s *Service) Invalidate(ctx context.Context, guardianID pgtype.UUID) {
	if s == nil || s.R == nil {
		return
	}
	_ = s.R.Del(ctx, cacheKey(uuidString(guardianID))).Err()
}

func (s *Service) fromCache(ctx context.Context, key string) (Summary, bool) {
	if s.R == nil || s.TTL <= 0 {
		return Summary{}, false
	}
	data, err := s.R.Get(ctx, key).Bytes()
	if err != nil {
		return Summary{}, false
	}
	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return Summary{}, false
	}
	return summary, true
}

func (s *Service) store(ctx context.Context, key string, value Summary) {
	if s.R == nil || s.TTL <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.R.Set(ctx, key, data, s.TTL).Err()
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	value, err := id.Value()
	if err != nil {
		return ""
	}
	str, _ := value.(string)
	return str
}
