package dashboard

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/schooney/backend-portal/internal/common"
)

// Handler exposes the guardian dashboard read endpoint.
type Handler struct {
	Svc *Service
}

// Summary handles GET /api/v1/dashboard.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "DASHBOARD_NOT_CONFIGURED", "dashboard service not configured", nil)
		return
	}
	guardianID, ok := common.GuardianID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
		return
	}
	parsed, err := uuid.Parse(guardianID)
	if err != nil {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
		return
	}
	summary, err := h.Svc.Summary(r.Context(), pgtype.UUID{Bytes: parsed, Valid: true})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "DASHBOARD_QUERY_FAILED", "unable to build dashboard", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": summary})
}
