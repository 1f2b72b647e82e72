package payment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"

	"github.com/schooney/backend-portal/internal/cart"
	"github.com/schooney/backend-portal/internal/common"
	dbgen "github.com/schooney/backend-portal/internal/db/gen"
	"github.com/schooney/backend-portal/internal/events"
	"github.com/schooney/backend-portal/internal/obs"
)

// ReceiptIssuer creates the receipt once a payment settles. The queries
// argument carries the settlement transaction.
type ReceiptIssuer interface {
	Issue(ctx context.Context, q *dbgen.Queries, payment dbgen.Payment) (dbgen.Receipt, error)
}

// CreditReleaser returns applied credit to the ledger when a payment fails.
type CreditReleaser interface {
	Release(ctx context.Context, q *dbgen.Queries, guardianID string, amount int64, paymentID pgtype.UUID, note string) (dbgen.CreditEntry, error)
}

// Webhook handles provider callbacks: signature verification, replay
// protection and settlement.
type Webhook struct {
	Q         *dbgen.Queries
	Pool      *pgxpool.Pool
	Providers map[string]Provider
	Replay    *redis.Client
	ReplayTTL time.Duration
	Receipts  ReceiptIssuer
	Credit    CreditReleaser
	Events    *events.Bus
}

// Handle processes webhook callbacks for the configured payment provider(s).
func (h Webhook) Handle(w http.ResponseWriter, r *http.Request) {
	providerKey := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "provider")))
	outcome := "error"
	defer func() {
		if obs.PaymentWebhookTotal != nil {
			obs.PaymentWebhookTotal.WithLabelValues(normaliseLabel(providerKey), outcome).Inc()
		}
	}()
	if h.Q == nil || h.Providers == nil {
		common.JSONError(w, http.StatusInternalServerError, "PAYMENT_NOT_CONFIGURED", "webhook unavailable", nil)
		return
	}
	provider, ok := h.Providers[providerKey]
	if !ok {
		common.JSONError(w, http.StatusNotFound, "PROVIDER_NOT_SUPPORTED", "unknown provider", nil)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to read payload", nil)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	result, err := provider.VerifyWebhook(r, body)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "WEBHOOK_INVALID", err.Error(), nil)
		return
	}
	if !result.Valid {
		outcome = "invalid_signature"
		common.JSONError(w, http.StatusUnauthorized, "INVALID_SIGNATURE", "signature verification failed", nil)
		return
	}
	if h.Replay != nil && h.ReplayTTL > 0 {
		key := fmt.Sprintf("wh:%s:%s", providerKey, common.Sha256Hex(string(body)))
		ok, err := h.Replay.SetNX(r.Context(), key, "1", h.ReplayTTL).Result()
		if err != nil {
			common.JSONError(w, http.StatusInternalServerError, "REPLAY_STORE_ERROR", err.Error(), nil)
			return
		}
		if !ok {
			outcome = "replay"
			common.JSONError(w, http.StatusConflict, "REPLAY", "duplicate webhook", nil)
			return
		}
	}
	if result.ProviderPayload == nil {
		result.ProviderPayload = body
	}

	ctx := r.Context()
	q := h.Q
	var tx pgx.Tx
	if h.Pool != nil {
		tx, err = h.Pool.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			common.JSONError(w, http.StatusInternalServerError, "TX_ERROR", err.Error(), nil)
			return
		}
		defer func() { _ = tx.Rollback(ctx) }()
		q = h.Q.WithTx(tx)
	}

	p, err := q.GetPaymentByProviderRef(ctx, pgtype.Text{String: result.Ref, Valid: true})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, "PAYMENT_NOT_FOUND", "payment not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "PAYMENT_FETCH_ERROR", err.Error(), nil)
		return
	}
	if result.Amount > 0 && p.Total != result.Amount {
		common.JSONError(w, http.StatusBadRequest, "AMOUNT_MISMATCH", "provider amount mismatch", nil)
		return
	}
	newStatus := normaliseWebhookStatus(result.Status)
	if p.Status == newStatus || p.Status == dbgen.PaymentStatusCompleted {
		// Settled payments never change again; acknowledge and move on.
		outcome = "noop"
		w.WriteHeader(http.StatusNoContent)
		return
	}

	p, err = q.UpdatePaymentStatus(ctx, dbgen.UpdatePaymentStatusParams{
		ID:              p.ID,
		Status:          newStatus,
		ProviderPayload: result.ProviderPayload,
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "PAYMENT_UPDATE_ERROR", err.Error(), nil)
		return
	}

	var receipt dbgen.Receipt
	switch newStatus {
	case dbgen.PaymentStatusCompleted:
		items, err := q.ListPaymentItems(ctx, p.ID)
		if err != nil {
			common.JSONError(w, http.StatusInternalServerError, "PAYMENT_ITEMS_ERROR", err.Error(), nil)
			return
		}
		for _, it := range items {
			if _, err := q.UpdateInvoiceStatus(ctx, dbgen.UpdateInvoiceStatusParams{
				ID:     it.InvoiceID,
				Status: dbgen.InvoiceStatusPaid,
			}); err != nil {
				common.JSONError(w, http.StatusInternalServerError, "INVOICE_UPDATE_ERROR", err.Error(), nil)
				return
			}
		}
		if h.Receipts != nil {
			receipt, err = h.Receipts.Issue(ctx, q, p)
			if err != nil {
				common.JSONError(w, http.StatusInternalServerError, "RECEIPT_ISSUE_ERROR", err.Error(), nil)
				return
			}
		}
	case dbgen.PaymentStatusFailed:
		if h.Credit != nil && p.CreditApplied > 0 {
			if _, err := h.Credit.Release(ctx, q, cart.UUIDString(p.GuardianID), p.CreditApplied, p.ID, "released after failed payment"); err != nil {
				common.JSONError(w, http.StatusInternalServerError, "CREDIT_RELEASE_ERROR", err.Error(), nil)
				return
			}
		}
	}

	if tx != nil {
		if err := tx.Commit(ctx); err != nil {
			common.JSONError(w, http.StatusInternalServerError, "TX_COMMIT_ERROR", err.Error(), nil)
			return
		}
	}
	if h.Events != nil {
		payload := map[string]any{
			"paymentId":  cart.UUIDString(p.ID),
			"guardianId": cart.UUIDString(p.GuardianID),
			"method":     p.MethodCode,
			"total":      p.Total,
			"status":     string(newStatus),
		}
		switch newStatus {
		case dbgen.PaymentStatusCompleted:
			_, _ = h.Events.Emit(ctx, events.TopicPaymentCompleted, p.ID, payload)
			if receipt.ID.Valid {
				_, _ = h.Events.Emit(ctx, events.TopicReceiptIssued, receipt.ID, map[string]any{
					"receiptId":       cart.UUIDString(receipt.ID),
					"referenceNumber": receipt.ReferenceNumber,
					"paymentId":       cart.UUIDString(p.ID),
				})
			}
		case dbgen.PaymentStatusFailed:
			_, _ = h.Events.Emit(ctx, events.TopicPaymentFailed, p.ID, payload)
		}
	}
	outcome = "ok"
	w.WriteHeader(http.StatusNoContent)
}

func normaliseWebhookStatus(status string) dbgen.PaymentStatus {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "PAID", "SUCCESS", "SETTLED", "COMPLETED":
		return dbgen.PaymentStatusCompleted
	case "FAILED", "CANCELED", "DENY", "EXPIRED":
		return dbgen.PaymentStatusFailed
	default:
		return dbgen.PaymentStatusProcessing
	}
}
