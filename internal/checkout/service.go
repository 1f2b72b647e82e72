package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schooney/backend-portal/internal/cart"
	"github.com/schooney/backend-portal/internal/credit"
	dbgen "github.com/schooney/backend-portal/internal/db/gen"
	"github.com/schooney/backend-portal/internal/events"
	"github.com/schooney/backend-portal/internal/obs"
	"github.com/schooney/backend-portal/internal/payment"
	"github.com/schooney/backend-portal/internal/pricing"
	"github.com/schooney/backend-portal/internal/receipt"
)

var (
	ErrEmptyCart     = errors.New("checkout: cart is empty")
	ErrUnknownMethod = errors.New("checkout: unknown payment method")
)

// CardInput mirrors payment.Card for JSON decoding.
type CardInput struct {
	Number   string `json:"number"`
	Holder   string `json:"holder"`
	ExpMonth int    `json:"expMonth"`
	ExpYear  int    `json:"expYear"`
	CVC      string `json:"cvc"`
}

// Input is the checkout request body.
type Input struct {
	Method    string     `json:"method" validate:"required"`
	UseCredit bool       `json:"useCredit"`
	Card      *CardInput `json:"card,omitempty"`
}

// Output summarises the created payment.
type Output struct {
	PaymentID string              `json:"paymentId"`
	Status    dbgen.PaymentStatus `json:"status"`
	Pricing   pricing.Summary     `json:"pricing"`
	ReceiptID string              `json:"receiptId,omitempty"`
	Payment   struct {
		Provider    string `json:"provider,omitempty"`
		Ref         string `json:"ref,omitempty"`
		RedirectURL string `json:"redirectUrl,omitempty"`
		QRPayload   string `json:"qrPayload,omitempty"`
		ExpiresAt   int64  `json:"expiresAt,omitempty"`
	} `json:"payment"`
}

// Service turns the guardian's cart into a payment. The whole flow runs
// under the guardian's credit lock and a single database transaction, so a
// concurrent checkout can never apply the same credit twice.
type Service struct {
	Q          *dbgen.Queries
	Pool       *pgxpool.Pool
	CartSvc    *cart.Service
	CreditSvc  *credit.Service
	PaymentSvc *payment.Service
	ReceiptSvc *receipt.Service
	Events     *events.Bus
}

// Create processes the checkout for the guardian's active cart.
func (s *Service) Create(ctx context.Context, guardianID string, in Input) (Output, error) {
	var out Output
	if s == nil || s.Q == nil || s.Pool == nil {
		return out, errors.New("checkout service not configured")
	}
	if guardianID == "" {
		return out, errors.New("guardian is required for checkout")
	}
	result := "error"
	defer func() {
		if obs.CheckoutTotal != nil {
			obs.CheckoutTotal.WithLabelValues(normaliseMethod(in.Method), result).Inc()
		}
	}()

	method, err := s.Q.GetPaymentMethodByCode(ctx, in.Method)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, ErrUnknownMethod
		}
		return out, err
	}
	if !method.Enabled {
		return out, ErrUnknownMethod
	}
	var card *payment.Card
	if in.Card != nil {
		card = &payment.Card{
			Number:   in.Card.Number,
			Holder:   in.Card.Holder,
			ExpMonth: in.Card.ExpMonth,
			ExpYear:  in.Card.ExpYear,
			CVC:      in.Card.CVC,
		}
		if err := card.Validate(time.Now()); err != nil {
			return out, err
		}
	}

	var emitted []func()
	lockErr := s.withCreditLock(ctx, guardianID, in.UseCredit, func(ctx context.Context) error {
		tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(ctx) }()
		qtx := s.Q.WithTx(tx)

		gID, err := cart.ToUUID(guardianID)
		if err != nil {
			return fmt.Errorf("invalid guardian id: %w", err)
		}
		cartRow, err := qtx.GetActiveCartByGuardian(ctx, gID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrEmptyCart
			}
			return err
		}
		items, err := qtx.ListCartItems(ctx, cartRow.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		pricingItems := make([]pricing.Item, 0, len(items))
		for _, it := range items {
			pricingItems = append(pricingItems, pricing.Item{Amount: it.Amount})
		}
		var balance int64
		if in.UseCredit {
			balance, err = qtx.SumCreditByGuardian(ctx, gID)
			if err != nil {
				return err
			}
		}
		summary := pricing.Compute(pricingItems, balance, in.UseCredit, pricing.Method{
			Code:    method.Code,
			Kind:    pricing.FeeKind(method.FeeKind),
			FeeRate: method.FeeRate,
		})

		internal := s.settlesInternally(method.Code, summary.Total)
		status := dbgen.PaymentStatusProcessing
		if internal {
			status = dbgen.PaymentStatusCompleted
		}
		p, err := qtx.CreatePayment(ctx, dbgen.CreatePaymentParams{
			GuardianID:    gID,
			MethodCode:    method.Code,
			Status:        status,
			Subtotal:      summary.Subtotal,
			CreditApplied: summary.CreditApplied,
			Fee:           summary.Fee,
			Total:         summary.Total,
		})
		if err != nil {
			return err
		}
		for _, it := range items {
			if err := qtx.CreatePaymentItem(ctx, dbgen.CreatePaymentItemParams{
				PaymentID: p.ID,
				InvoiceID: it.InvoiceID,
				StudentID: it.StudentID,
				Title:     it.Title,
				Kind:      it.Kind,
				Amount:    it.Amount,
			}); err != nil {
				return err
			}
		}
		if summary.CreditApplied > 0 && s.CreditSvc != nil {
			if _, err := s.CreditSvc.Spend(ctx, qtx, guardianID, summary.CreditApplied, p.ID, "applied at checkout"); err != nil {
				return err
			}
		}

		if internal {
			for _, it := range items {
				if _, err := qtx.UpdateInvoiceStatus(ctx, dbgen.UpdateInvoiceStatusParams{
					ID:     it.InvoiceID,
					Status: dbgen.InvoiceStatusPaid,
				}); err != nil {
					return err
				}
			}
			if s.ReceiptSvc != nil {
				rec, err := s.ReceiptSvc.Issue(ctx, qtx, p)
				if err != nil {
					return err
				}
				out.ReceiptID = cart.UUIDString(rec.ID)
				emitted = append(emitted, s.emitReceipt(ctx, rec, p))
			}
			emitted = append(emitted, s.emitPayment(ctx, events.TopicPaymentCompleted, p, guardianID))
		} else {
			resp, err := s.PaymentSvc.Charge(ctx, p, card)
			if err != nil {
				return err
			}
			p, err = qtx.UpdatePaymentProviderRef(ctx, dbgen.UpdatePaymentProviderRefParams{
				ID:          p.ID,
				ProviderRef: pgtype.Text{String: resp.Ref, Valid: true},
			})
			if err != nil {
				return err
			}
			out.Payment.Provider = resp.Provider
			out.Payment.Ref = resp.Ref
			out.Payment.RedirectURL = resp.RedirectURL
			out.Payment.QRPayload = resp.QRPayload
			out.Payment.ExpiresAt = resp.ExpiresAt
			emitted = append(emitted, s.emitPayment(ctx, events.TopicPaymentStarted, p, guardianID))
		}

		if err := qtx.DeleteCartItems(ctx, cartRow.ID); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return err
		}
		out.PaymentID = cart.UUIDString(p.ID)
		out.Status = p.Status
		out.Pricing = summary
		return nil
	})
	if lockErr != nil {
		return Output{}, lockErr
	}
	for _, emit := range emitted {
		emit()
	}
	result = "ok"
	return out, nil
}

// withCreditLock serialises checkouts per guardian only when credit is in
// play; plain checkouts do not contend on the lock.
func (s *Service) withCreditLock(ctx context.Context, guardianID string, useCredit bool, fn func(context.Context) error) error {
	if !useCredit || s.CreditSvc == nil {
		return fn(ctx)
	}
	return s.CreditSvc.WithGuardianLock(ctx, guardianID, fn)
}

func (s *Service) settlesInternally(methodCode string, total int64) bool {
	if total == 0 {
		return true
	}
	switch methodCode {
	case payment.MethodCash, payment.MethodCreditNote:
		return true
	default:
		return false
	}
}

func (s *Service) emitPayment(ctx context.Context, topic string, p dbgen.Payment, guardianID string) func() {
	return func() {
		if s.Events == nil {
			return
		}
		_, _ = s.Events.Emit(ctx, topic, p.ID, map[string]any{
			"paymentId":  cart.UUIDString(p.ID),
			"guardianId": guardianID,
			"method":     p.MethodCode,
			"total":      p.Total,
			"status":     string(p.Status),
		})
	}
}

func (s *Service) emitReceipt(ctx context.Context, rec dbgen.Receipt, p dbgen.Payment) func() {
	return func() {
		if s.Events == nil {
			return
		}
		_, _ = s.Events.Emit(ctx, events.TopicReceiptIssued, rec.ID, map[string]any{
			"receiptId":       cart.UUIDString(rec.ID),
			"referenceNumber": rec.ReferenceNumber,
			"paymentId":       cart.UUIDString(p.ID),
		})
	}
}

func normaliseMethod(method string) string {
	if method == "" {
		return "unknown"
	}
	return method
}
