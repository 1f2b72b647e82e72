package student

import (
	"net/http"

	"github.com/schooney/backend-portal/internal/cart"
	"github.com/schooney/backend-portal/internal/common"
	dbgen "github.com/schooney/backend-portal/internal/db/gen"
)

// Handler lists the students attached to the authenticated guardian.
type Handler struct {
	Q *dbgen.Queries
}

// List returns the guardian's students.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	guardianID, ok := common.GuardianID(r.Context())
	if !ok || guardianID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	gID, err := cart.ToUUID(guardianID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid guardian identifier", nil)
		return
	}
	students, err := h.Q.ListStudentsByGuardian(r.Context(), gID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load students", nil)
		return
	}
	views := make([]map[string]any, 0, len(students))
	for _, s := range students {
		view := map[string]any{
			"id":          cart.UUIDString(s.ID),
			"firstName":   s.FirstName,
			"lastName":    s.LastName,
			"studentCode": s.StudentCode,
		}
		if s.YearGroup.Valid {
			view["yearGroup"] = s.YearGroup.String
		}
		if s.Campus.Valid {
			view["campus"] = s.Campus.String
		}
		views = append(views, view)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}
