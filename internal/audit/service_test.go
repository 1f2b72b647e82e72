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
	"github.com/schooney/backend-portal/internal/obs"
)

type stubStore struct {
	lastInsert dbgen.InsertAuditLogParams
	called     bool
}

func (s *stubStore) InsertAuditLog(_ context.Context, arg dbgen.InsertAuditLogParams) (dbgen.AuditLog, error) {
	s.called = true
	s.lastInsert = arg
	return dbgen.AuditLog{}, nil
}

func (s *stubStore) ListAuditLogsByGuardian(context.Context, dbgen.ListAuditLogsByGuardianParams) ([]dbgen.AuditLog, error) {
	return nil, nil
}

func TestServiceRecord(t *testing.T) {
	store := &stubStore{}
	svc := Service{Store: store, Enabled: true, SamplingRate: 1}
	guardianID := uuid.NewString()

	req := httptest.NewRequest(http.MethodPost, "https://api.test/api/v1/checkout?dry_run=false", nil)
	req.Header.Set("User-Agent", "tester")
	req.Header.Set("X-Request-ID", "req-123")
	req.RemoteAddr = "10.0.0.2:54321"
	ctx := common.WithGuardianID(req.Context(), guardianID)
	ctx = obs.WithRoutePattern(ctx, "/api/v1/checkout")
	req = req.WithContext(ctx)

	if err := svc.Record(req.Context(), guardianID, "", "", "", req, http.StatusCreated, nil); err != nil {
		t.Fatalf("record: %v", err)
	}
	if !store.called {
		t.Fatal("expected store to be called")
	}
	if !store.lastInsert.GuardianID.Valid {
		t.Fatal("expected guardian id to be stored")
	}
	stored, err := uuid.FromBytes(store.lastInsert.GuardianID.Bytes[:])
	if err != nil {
		t.Fatalf("decode uuid: %v", err)
	}
	if stored.String() != guardianID {
		t.Fatalf("unexpected stored guardian id: %s", stored.String())
	}
	if store.lastInsert.Action != "POST /api/v1/checkout" {
		t.Fatalf("unexpected action: %s", store.lastInsert.Action)
	}
	if store.lastInsert.EntityType != "checkout" {
		t.Fatalf("unexpected entity type: %s", store.lastInsert.EntityType)
	}

	var detail map[string]any
	if err := json.Unmarshal(store.lastInsert.Detail, &detail); err != nil {
		t.Fatalf("detail json: %v", err)
	}
	if detail["ip"] != "10.0.0.2" {
		t.Fatalf("expected ip capture, got %v", detail["ip"])
	}
	if detail["request_id"] != "req-123" {
		t.Fatalf("expected request id, got %v", detail["request_id"])
	}
	if detail["query"] != "dry_run=false" {
		t.Fatalf("unexpected query: %v", detail["query"])
	}
	if detail["status"] != float64(http.StatusCreated) {
		t.Fatalf("unexpected status: %v", detail["status"])
	}
}

func TestServiceRecordAnonymous(t *testing.T) {
	store := &stubStore{}
	svc := Service{Store: store, Enabled: true}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)

	if err := svc.Record(req.Context(), "", "auth.login_failed", "auth", "", req, http.StatusUnauthorized, nil); err != nil {
		t.Fatalf("record: %v", err)
	}
	if store.lastInsert.GuardianID.Valid {
		t.Fatal("expected null guardian id for anonymous actions")
	}
	if store.lastInsert.Action != "auth.login_failed" {
		t.Fatalf("unexpected action: %s", store.lastInsert.Action)
	}
}

func TestServiceRecordDisabled(t *testing.T) {
	store := &stubStore{}
	svc := Service{Store: store, Enabled: false}
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if err := svc.Record(req.Context(), "", "", "", "", req, http.StatusOK, nil); err != nil {
		t.Fatalf("record: %v", err)
	}
	if store.called {
		t.Fatal("expected no insert when disabled")
	}
}
