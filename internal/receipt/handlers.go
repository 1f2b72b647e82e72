package receipt

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/schooney/backend-portal/internal/cart"
	"github.com/schooney/backend-portal/internal/common"
	dbgen "github.com/schooney/backend-portal/internal/db/gen"
)

// Handler exposes receipt reads, including the printable document.
type Handler struct {
	Svc        *Service
	Q          *dbgen.Queries
	SchoolName string
	Currency   string
}

// List returns the guardian's receipts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	guardianID, ok := common.GuardianID(r.Context())
	if !ok || strings.TrimSpace(guardianID) == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	receipts, err := h.Svc.List(r.Context(), guardianID, int32(perPage), int32((page-1)*perPage))
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load receipts", nil)
		return
	}
	views := make([]map[string]any, 0, len(receipts))
	for _, rec := range receipts {
		views = append(views, receiptView(rec))
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}

// Get returns a single receipt summary.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	guardianID, ok := common.GuardianID(r.Context())
	if !ok || strings.TrimSpace(guardianID) == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	rec, payment, err := h.Svc.Get(r.Context(), guardianID, chi.URLParam(r, "receiptID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	view := receiptView(rec)
	view["paymentId"] = cart.UUIDString(payment.ID)
	view["subtotal"] = payment.Subtotal
	view["creditApplied"] = payment.CreditApplied
	view["fee"] = payment.Fee
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// Document returns the printable receipt as plain text.
func (h *Handler) Document(w http.ResponseWriter, r *http.Request) {
	guardianID, ok := common.GuardianID(r.Context())
	if !ok || strings.TrimSpace(guardianID) == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	rec, payment, err := h.Svc.Get(r.Context(), guardianID, chi.URLParam(r, "receiptID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	doc, err := h.buildDocument(r, rec, payment)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to build receipt document", nil)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc.Render()))
}

func (h *Handler) buildDocument(r *http.Request, rec dbgen.Receipt, payment dbgen.Payment) (Document, error) {
	ctx := r.Context()
	guardian, err := h.Q.GetGuardianByID(ctx, payment.GuardianID)
	if err != nil {
		return Document{}, err
	}
	method, err := h.Q.GetPaymentMethodByCode(ctx, payment.MethodCode)
	if err != nil {
		return Document{}, err
	}
	items, err := h.Q.ListPaymentItems(ctx, payment.ID)
	if err != nil {
		return Document{}, err
	}
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		line := Line{Title: it.Title, Amount: it.Amount}
		if student, err := h.Q.GetStudentByID(ctx, it.StudentID); err == nil {
			line.StudentName = student.FirstName + " " + student.LastName
		}
		lines = append(lines, line)
	}
	return Document{
		SchoolName:      h.SchoolName,
		ReferenceNumber: rec.ReferenceNumber,
		PaidAt:          rec.PaidAt.Time,
		GuardianName:    guardian.Name,
		MethodLabel:     method.Label,
		Currency:        h.Currency,
		Lines:           lines,
		Subtotal:        payment.Subtotal,
		CreditApplied:   payment.CreditApplied,
		Fee:             payment.Fee,
		Total:           payment.Total,
	}, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "receipt not found", nil)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load receipt", nil)
}

func receiptView(rec dbgen.Receipt) map[string]any {
	return map[string]any{
		"id":              cart.UUIDString(rec.ID),
		"referenceNumber": rec.ReferenceNumber,
		"amount":          rec.Amount,
		"method":          rec.MethodCode,
		"paidAt":          rec.PaidAt.Time,
	}
}
