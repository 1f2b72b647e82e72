package credit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/schooney/backend-portal/internal/cart"
	dbgen "github.com/schooney/backend-portal/internal/db/gen"
	"github.com/schooney/backend-portal/internal/lock"
)

var (
	// ErrInsufficientCredit is returned when a spend would push the ledger
	// below zero.
	ErrInsufficientCredit = errors.New("credit: insufficient balance")
	// ErrInvalidAmount is returned for zero or negative grant/spend amounts.
	ErrInvalidAmount = errors.New("credit: amount must be positive")
)

// Service manages the guardian credit ledger. The ledger is append only:
// grants are positive entries, spends are negative entries, and the balance
// is the sum over all entries. Concurrent spends for the same guardian are
// serialised with a Redis lock so the balance can never go negative.
type Service struct {
	Q       *dbgen.Queries
	Locker  lock.Locker
	LockTTL time.Duration
}

func (s *Service) lockTTL() time.Duration {
	if s.LockTTL > 0 {
		return s.LockTTL
	}
	return 15 * time.Second
}

func lockKey(guardianID string) string {
	return "credit:guardian:" + guardianID
}

// WithGuardianLock runs fn while holding the per-guardian credit lock.
// Checkout uses this to keep balance reads and spends atomic.
func (s *Service) WithGuardianLock(ctx context.Context, guardianID string, fn func(context.Context) error) error {
	if s.Locker.R == nil {
		// No Redis configured, fall through without serialisation.
		return fn(ctx)
	}
	return s.Locker.WithLock(ctx, lockKey(guardianID), s.lockTTL(), fn)
}

// Balance returns the guardian's current credit balance in minor units.
func (s *Service) Balance(ctx context.Context, guardianID string) (int64, error) {
	if s.Q == nil {
		return 0, errors.New("credit: queries not configured")
	}
	gID, err := cart.ToUUID(guardianID)
	if err != nil {
		return 0, fmt.Errorf("credit: %w", err)
	}
	return s.Q.SumCreditByGuardian(ctx, gID)
}

// Grant appends a positive ledger entry, for example a refund issued by the
// school office.
func (s *Service) Grant(ctx context.Context, guardianID string, amount int64, note string) (dbgen.CreditEntry, error) {
	if amount <= 0 {
		return dbgen.CreditEntry{}, ErrInvalidAmount
	}
	gID, err := cart.ToUUID(guardianID)
	if err != nil {
		return dbgen.CreditEntry{}, fmt.Errorf("credit: %w", err)
	}
	return s.Q.InsertCreditEntry(ctx, dbgen.InsertCreditEntryParams{
		GuardianID: gID,
		Amount:     amount,
		Note:       pgtype.Text{String: note, Valid: note != ""},
	})
}

// Spend appends a negative ledger entry tied to a payment. The queries
// argument lets the caller run the spend inside an open transaction so the
// entry commits together with the payment. Callers must hold the guardian
// lock while deciding the amount.
func (s *Service) Spend(ctx context.Context, q *dbgen.Queries, guardianID string, amount int64, paymentID pgtype.UUID, note string) (dbgen.CreditEntry, error) {
	if amount <= 0 {
		return dbgen.CreditEntry{}, ErrInvalidAmount
	}
	if q == nil {
		q = s.Q
	}
	gID, err := cart.ToUUID(guardianID)
	if err != nil {
		return dbgen.CreditEntry{}, fmt.Errorf("credit: %w", err)
	}
	balance, err := q.SumCreditByGuardian(ctx, gID)
	if err != nil {
		return dbgen.CreditEntry{}, err
	}
	if balance < amount {
		return dbgen.CreditEntry{}, ErrInsufficientCredit
	}
	return q.InsertCreditEntry(ctx, dbgen.InsertCreditEntryParams{
		GuardianID: gID,
		Amount:     -amount,
		PaymentID:  paymentID,
		Note:       pgtype.Text{String: note, Valid: note != ""},
	})
}

// History lists recent ledger entries for the guardian, newest first.
func (s *Service) History(ctx context.Context, guardianID string, limit, offset int32) ([]dbgen.CreditEntry, error) {
	gID, err := cart.ToUUID(guardianID)
	if err != nil {
		return nil, fmt.Errorf("credit: %w", err)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.Q.ListCreditEntriesByGuardian(ctx, dbgen.ListCreditEntriesByGuardianParams{
		GuardianID:  gID,
		LimitValue:  limit,
		OffsetValue: offset,
	})
}

// Release returns previously spent credit to the guardian, for example when
// a provider reports a failed payment. Like Spend it accepts the caller's
// transaction-bound queries.
func (s *Service) Release(ctx context.Context, q *dbgen.Queries, guardianID string, amount int64, paymentID pgtype.UUID, note string) (dbgen.CreditEntry, error) {
	if amount <= 0 {
		return dbgen.CreditEntry{}, ErrInvalidAmount
	}
	if q == nil {
		q = s.Q
	}
	gID, err := cart.ToUUID(guardianID)
	if err != nil {
		return dbgen.CreditEntry{}, fmt.Errorf("credit: %w", err)
	}
	return q.InsertCreditEntry(ctx, dbgen.InsertCreditEntryParams{
		GuardianID: gID,
		Amount:     amount,
		PaymentID:  paymentID,
		Note:       pgtype.Text{String: note, Valid: note != ""},
	})
}
