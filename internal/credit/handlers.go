package credit

import (
	"net/http"

	"github.com/schooney/backend-portal/internal/cart"
	"github.com/schooney/backend-portal/internal/common"
	dbgen "github.com/schooney/backend-portal/internal/db/gen"
)

// Handler exposes the guardian credit ledger over HTTP.
type Handler struct {
	Svc *Service
}

// Get returns the guardian's balance together with recent ledger entries.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "credit service not configured", nil)
		return
	}
	guardianID, ok := common.GuardianID(r.Context())
	if !ok || guardianID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	balance, err := h.Svc.Balance(r.Context(), guardianID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load credit balance", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	entries, err := h.Svc.History(r.Context(), guardianID, int32(perPage), int32((page-1)*perPage))
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load credit history", nil)
		return
	}
	views := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		views = append(views, entryView(e))
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"balance": balance,
			"entries": views,
		},
	})
}

func entryView(e dbgen.CreditEntry) map[string]any {
	view := map[string]any{
		"id":        cart.UUIDString(e.ID),
		"amount":    e.Amount,
		"createdAt": e.CreatedAt.Time,
	}
	if e.PaymentID.Valid {
		view["paymentId"] = cart.UUIDString(e.PaymentID)
	}
	if e.Note.Valid {
		view["note"] = e.Note.String
	}
	return view
}
