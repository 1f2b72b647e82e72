package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/schooney/backend-portal/internal/common"
	dbgen "github.com/schooney/backend-portal/internal/db/gen"
)

type listStore struct {
	stubStore
	receivedGuardian string
	receivedLimit    int32
	receivedOffset   int32
}

func (l *listStore) ListAuditLogsByGuardian(_ context.Context, arg dbgen.ListAuditLogsByGuardianParams) ([]dbgen.AuditLog, error) {
	l.receivedGuardian = uuid.UUID(arg.GuardianID.Bytes).String()
	l.receivedLimit = arg.LimitValue
	l.receivedOffset = arg.OffsetValue
	return []dbgen.AuditLog{{Action: "POST /api/v1/checkout"}}, nil
}

func TestHandlerList(t *testing.T) {
	store := &listStore{}
	h := Handler{Store: store}
	guardianID := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit?limit=25&offset=10", nil)
	req = req.WithContext(common.WithGuardianID(req.Context(), guardianID))
	rr := httptest.NewRecorder()
	h.List(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if store.receivedGuardian != guardianID {
		t.Fatalf("unexpected guardian filter: %s", store.receivedGuardian)
	}
	if store.receivedLimit != 25 || store.receivedOffset != 10 {
		t.Fatalf("unexpected pagination params: %d/%d", store.receivedLimit, store.receivedOffset)
	}
	var payload struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Data) != 1 {
		t.Fatalf("expected one log entry, got %d", len(payload.Data))
	}
}

func TestHandlerListRequiresAuth(t *testing.T) {
	h := Handler{Store: &listStore{}}
	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/audit", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
