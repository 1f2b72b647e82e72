package invoice

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/schooney/backend-portal/internal/common"
)

// Handler exposes invoice reads for guardians.
type Handler struct {
	Svc *Service
}

// List returns all invoices across the guardian's students.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	guardianID, ok := common.GuardianID(r.Context())
	if !ok || guardianID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 50)
	views, err := h.Svc.ListByGuardian(r.Context(), guardianID, int32(perPage), int32((page-1)*perPage))
	if err != nil {
		h.writeError(w, err)
		return
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

// ListByStudent returns the invoices of one of the guardian's students.
func (h *Handler) ListByStudent(w http.ResponseWriter, r *http.Request) {
	guardianID, ok := common.GuardianID(r.Context())
	if !ok || guardianID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	studentID := chi.URLParam(r, "studentID")
	views, err := h.Svc.ListByStudent(r.Context(), guardianID, studentID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}

// Get returns a single invoice scoped to the guardian.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	guardianID, ok := common.GuardianID(r.Context())
	if !ok || guardianID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	view, err := h.Svc.Get(r.Context(), guardianID, chi.URLParam(r, "invoiceID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "invoice not found", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load invoices", nil)
	}
}
