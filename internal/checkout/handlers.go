package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/schooney/backend-portal/internal/common"
	"github.com/schooney/backend-portal/internal/credit"
	"github.com/schooney/backend-portal/internal/payment"
)

type Handler struct {
	Svc *Service
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	guardianID, ok := common.GuardianID(r.Context())
	if !ok || guardianID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var payload Input
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := common.ValidateStruct(payload); err != nil {
		h.writeError(w, err)
		return
	}
	out, err := h.Svc.Create(r.Context(), guardianID, payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": out})
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
		code := appErr.Code
		if code == "" {
			code = "BAD_REQUEST"
		}
		common.JSONError(w, status, code, appErr.Message, appErr.Details)
		return
	}
	switch {
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusBadRequest, "EMPTY_CART", err.Error(), nil)
	case errors.Is(err, ErrUnknownMethod):
		common.JSONError(w, http.StatusBadRequest, "UNKNOWN_METHOD", err.Error(), nil)
	case errors.Is(err, credit.ErrInsufficientCredit):
		common.JSONError(w, http.StatusConflict, "INSUFFICIENT_CREDIT", err.Error(), nil)
	case errors.Is(err, payment.ErrCardNumber),
		errors.Is(err, payment.ErrCardExpiry),
		errors.Is(err, payment.ErrCardCVC),
		errors.Is(err, payment.ErrCardHolder):
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_CARD", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	}
}
