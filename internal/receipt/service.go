package receipt

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/schooney/backend-portal/internal/cart"
	dbgen "github.com/schooney/backend-portal/internal/db/gen"
	"github.com/schooney/backend-portal/internal/obs"
)

var ErrNotFound = errors.New("receipt: not found")

const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Service issues and reads receipts. One receipt exists per settled payment.
type Service struct {
	Q   *dbgen.Queries
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Reference builds a receipt reference of the form RCP-YYYYMMDD-XXXXXX.
// The suffix is random so references do not leak issue order within a day.
func Reference(at time.Time) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("receipt: reference entropy: %w", err)
	}
	for i, b := range buf {
		buf[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}
	return fmt.Sprintf("RCP-%s-%s", at.Format("20060102"), string(buf)), nil
}

// Issue creates the receipt for a settled payment. It is idempotent: when a
// receipt already exists for the payment it is returned unchanged. The
// queries argument carries the caller's settlement transaction.
func (s *Service) Issue(ctx context.Context, q *dbgen.Queries, payment dbgen.Payment) (dbgen.Receipt, error) {
	if q == nil {
		q = s.Q
	}
	if q == nil {
		return dbgen.Receipt{}, errors.New("receipt: queries not configured")
	}
	existing, err := q.GetReceiptByPayment(ctx, payment.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return dbgen.Receipt{}, err
	}
	now := s.now()
	ref, err := Reference(now)
	if err != nil {
		return dbgen.Receipt{}, err
	}
	created, err := q.CreateReceipt(ctx, dbgen.CreateReceiptParams{
		PaymentID:       payment.ID,
		ReferenceNumber: ref,
		Amount:          payment.Total,
		MethodCode:      payment.MethodCode,
		PaidAt:          pgtype.Timestamptz{Time: now, Valid: true},
	})
	if err != nil {
		return dbgen.Receipt{}, err
	}
	if obs.ReceiptIssuedTotal != nil {
		obs.ReceiptIssuedTotal.Inc()
	}
	return created, nil
}

// Get returns one receipt scoped to the guardian via its payment.
func (s *Service) Get(ctx context.Context, guardianID, receiptID string) (dbgen.Receipt, dbgen.Payment, error) {
	gID, err := cart.ToUUID(guardianID)
	if err != nil {
		return dbgen.Receipt{}, dbgen.Payment{}, fmt.Errorf("receipt: %w", err)
	}
	rID, err := cart.ToUUID(receiptID)
	if err != nil {
		return dbgen.Receipt{}, dbgen.Payment{}, fmt.Errorf("receipt: %w", err)
	}
	rec, err := s.Q.GetReceiptByID(ctx, rID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Receipt{}, dbgen.Payment{}, ErrNotFound
		}
		return dbgen.Receipt{}, dbgen.Payment{}, err
	}
	payment, err := s.Q.GetPaymentByID(ctx, rec.PaymentID)
	if err != nil {
		return dbgen.Receipt{}, dbgen.Payment{}, err
	}
	if !cart.UUIDEqual(payment.GuardianID, gID) {
		return dbgen.Receipt{}, dbgen.Payment{}, ErrNotFound
	}
	return rec, payment, nil
}

// List returns the guardian's receipts, newest first.
func (s *Service) List(ctx context.Context, guardianID string, limit, offset int32) ([]dbgen.Receipt, error) {
	gID, err := cart.ToUUID(guardianID)
	if err != nil {
		return nil, fmt.Errorf("receipt: %w", err)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.Q.ListReceiptsByGuardian(ctx, dbgen.ListReceiptsByGuardianParams{
		GuardianID:  gID,
		LimitValue:  limit,
		OffsetValue: offset,
	})
}
