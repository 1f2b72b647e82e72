package payment

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/schooney/backend-portal/internal/cart"
	"github.com/schooney/backend-portal/internal/common"
	dbgen "github.com/schooney/backend-portal/internal/db/gen"
)

// Handler exposes payment reads and the payment method catalogue.
type Handler struct {
	Svc *Service
	Q   *dbgen.Queries
}

// Methods lists the enabled payment methods with their fee schedule.
func (h *Handler) Methods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.Q.ListPaymentMethods(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load payment methods", nil)
		return
	}
	views := make([]map[string]any, 0, len(methods))
	for _, m := range methods {
		views = append(views, map[string]any{
			"code":    m.Code,
			"label":   m.Label,
			"feeKind": m.FeeKind,
			"feeRate": m.FeeRate,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}

// List returns the guardian's payment history.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	guardianID, ok := common.GuardianID(r.Context())
	if !ok || strings.TrimSpace(guardianID) == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	payments, err := h.Svc.List(r.Context(), guardianID, int32(perPage), int32((page-1)*perPage))
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load payments", nil)
		return
	}
	views := make([]map[string]any, 0, len(payments))
	for _, p := range payments {
		views = append(views, paymentView(p))
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": views,
		"pagination": common.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: len(views),
		},
	})
}

// Get returns a single payment with its line items.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	guardianID, ok := common.GuardianID(r.Context())
	if !ok || strings.TrimSpace(guardianID) == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	p, items, err := h.Svc.Get(r.Context(), guardianID, chi.URLParam(r, "paymentID"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "payment not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load payment", nil)
		return
	}
	view := paymentView(p)
	lines := make([]map[string]any, 0, len(items))
	for _, it := range items {
		lines = append(lines, map[string]any{
			"invoiceId": cart.UUIDString(it.InvoiceID),
			"studentId": cart.UUIDString(it.StudentID),
			"title":     it.Title,
			"kind":      it.Kind,
			"amount":    it.Amount,
		})
	}
	view["items"] = lines
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

func paymentView(p dbgen.Payment) map[string]any {
	view := map[string]any{
		"id":            cart.UUIDString(p.ID),
		"method":        p.MethodCode,
		"status":        p.Status,
		"subtotal":      p.Subtotal,
		"creditApplied": p.CreditApplied,
		"fee":           p.Fee,
		"total":         p.Total,
		"createdAt":     p.CreatedAt.Time,
	}
	if p.ProviderRef.Valid {
		view["providerRef"] = p.ProviderRef.String
	}
	return view
}
