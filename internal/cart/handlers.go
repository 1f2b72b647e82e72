package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/schooney/backend-portal/internal/common"
	dbgen "github.com/schooney/backend-portal/internal/db/gen"
	"github.com/schooney/backend-portal/internal/pricing"
)

// Handler wires cart services to HTTP.
type Handler struct {
	Q        *dbgen.Queries
	Svc      *Service
	Currency string
}

// Get returns the guardian's active cart: filtered items, display groups,
// and a pricing preview for the requested payment method.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil || h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	guardianID, ok := common.GuardianID(r.Context())
	if !ok || guardianID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	cart, err := h.Svc.EnsureCart(r.Context(), guardianID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	items, err := h.Q.ListCartItems(r.Context(), cart.ID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load cart items", nil)
		return
	}

	active := ParseType(r.URL.Query().Get("type"))
	filtered := Filter(items, active)
	groups := GroupByKind(filtered)

	useCredit := r.URL.Query().Get("useCredit") == "true"
	method := pricing.Method{}
	if code := strings.TrimSpace(r.URL.Query().Get("method")); code != "" {
		m, err := h.Q.GetPaymentMethodByCode(r.Context(), code)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown payment method", nil)
				return
			}
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load payment method", nil)
			return
		}
		method = pricing.Method{Code: m.Code, Kind: pricing.FeeKind(m.FeeKind), FeeRate: m.FeeRate}
	}
	var creditBalance int64
	if useCredit {
		gID, err := toUUID(guardianID)
		if err == nil {
			creditBalance, _ = h.Q.SumCreditByGuardian(r.Context(), gID)
		}
	}

	pricingItems := make([]pricing.Item, 0, len(filtered))
	for _, it := range filtered {
		pricingItems = append(pricingItems, pricing.Item{Amount: it.Amount})
	}
	summary := pricing.Compute(pricingItems, creditBalance, useCredit, method)

	groupViews := make([]map[string]any, 0, len(groups))
	for _, g := range groups {
		groupViews = append(groupViews, map[string]any{
			"kind":  g.Kind,
			"items": itemViews(g.Items),
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"id":     UUIDString(cart.ID),
			"type":   active,
			"items":  itemViews(filtered),
			"groups": groupViews,
			"pricing": map[string]any{
				"subtotal":      summary.Subtotal,
				"creditApplied": summary.CreditApplied,
				"taxable":       summary.Taxable,
				"fee":           summary.Fee,
				"total":         summary.Total,
			},
			"currency": h.Currency,
		},
	})
}

// AddItem adds an invoice to the guardian's active cart.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	guardianID, ok := common.GuardianID(r.Context())
	if !ok || guardianID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var payload struct {
		InvoiceID string `json:"invoiceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	payload.InvoiceID = strings.TrimSpace(payload.InvoiceID)
	if payload.InvoiceID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invoiceId is required", nil)
		return
	}
	cart, err := h.Svc.EnsureCart(r.Context(), guardianID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	item, err := h.Svc.AddInvoice(r.Context(), UUIDString(cart.ID), payload.InvoiceID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": itemView(item)})
}

// RemoveItem removes a line from the cart by (invoice, student).
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	guardianID, ok := common.GuardianID(r.Context())
	if !ok || guardianID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	cart, err := h.Svc.EnsureCart(r.Context(), guardianID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	invoiceID := chi.URLParam(r, "invoiceID")
	studentID := chi.URLParam(r, "studentID")
	removed, err := h.Svc.RemoveItem(r.Context(), UUIDString(cart.ID), invoiceID, studentID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"removed": removed}})
}

func itemViews(items []dbgen.CartItem) []map[string]any {
	views := make([]map[string]any, 0, len(items))
	for _, it := range items {
		views = append(views, itemView(it))
	}
	return views
}

func itemView(it dbgen.CartItem) map[string]any {
	view := map[string]any{
		"invoiceId": UUIDString(it.InvoiceID),
		"studentId": UUIDString(it.StudentID),
		"title":     it.Title,
		"kind":      it.Kind,
		"amount":    it.Amount,
	}
	if it.Category.Valid {
		view["category"] = it.Category.InvoiceCategory
	}
	return view
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if err == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unknown error", nil)
		return
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	switch {
	case errors.Is(err, ErrDuplicateItem):
		common.JSONError(w, http.StatusConflict, "CONFLICT", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
	}
}
