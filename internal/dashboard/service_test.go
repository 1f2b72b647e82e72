package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	dbgen "github.com/schooney/backend-portal/internal/db/gen"
)

type stubQuerier struct {
	outstanding int64
	overdue     int64
	credit      int64
	payments    []dbgen.Payment
	calls       int
}

func (s *stubQuerier) SumOutstandingByGuardian(context.Context, pgtype.UUID) (int64, error) {
	s.calls++
	return s.outstanding, nil
}

func (s *stubQuerier) CountOverdueInvoicesByGuardian(context.Context, dbgen.CountOverdueInvoicesByGuardianParams) (int64, error) {
	return s.overdue, nil
}

func (s *stubQuerier) SumCreditByGuardian(context.Context, pgtype.UUID) (int64, error) {
	return s.credit, nil
}

func (s *stubQuerier) ListPaymentsByGuardian(context.Context, dbgen.ListPaymentsByGuardianParams) ([]dbgen.Payment, error) {
	return s.payments, nil
}

func TestSummaryAggregates(t *testing.T) {
	q := &stubQuerier{outstanding: 120000, overdue: 2, credit: 30000}
	svc := &Service{Q: q}
	id := pgtype.UUID{Bytes: uuid.New(), Valid: true}

	summary, err := svc.Summary(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, int64(120000), summary.OutstandingTotal)
	require.Equal(t, int64(2), summary.OverdueInvoices)
	require.Equal(t, int64(30000), summary.AvailableCredit)
	require.Empty(t, summary.RecentPayments)
}

func TestSummaryServedFromCacheUntilInvalidated(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	q := &stubQuerier{outstanding: 50000}
	svc := &Service{Q: q, R: client, TTL: time.Minute}
	id := pgtype.UUID{Bytes: uuid.New(), Valid: true}

	first, err := svc.Summary(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, int64(50000), first.OutstandingTotal)
	require.Equal(t, 1, q.calls)

	q.outstanding = 0
	second, err := svc.Summary(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, int64(50000), second.OutstandingTotal, "cached value should win")
	require.Equal(t, 1, q.calls)

	svc.Invalidate(context.Background(), id)
	third, err := svc.Summary(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, int64(0), third.OutstandingTotal)
	require.Equal(t, 2, q.calls)
}
