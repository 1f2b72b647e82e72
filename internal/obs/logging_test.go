package obs_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/schooney/backend-portal/internal/common"
	"github.com/schooney/backend-portal/internal/obs"
)

func TestRequestLoggerEmitsGuardianID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := obs.RequestLogger{Logger: logger}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req = req.WithContext(common.WithGuardianID(req.Context(), "4f9b0d52-5a86-4e2a-9a07-0a4f6f1c2d31"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["guardian_id"] != "4f9b0d52-5a86-4e2a-9a07-0a4f6f1c2d31" {
		t.Fatalf("unexpected guardian_id: %v", entry["guardian_id"])
	}
	if entry["status"] != float64(http.StatusOK) {
		t.Fatalf("unexpected status: %v", entry["status"])
	}
	if entry["path"] != "/api/v1/dashboard" {
		t.Fatalf("unexpected path: %v", entry["path"])
	}
}

func TestRequestLoggerOmitsGuardianIDWhenAnonymous(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := obs.RequestLogger{Logger: logger}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if _, present := entry["guardian_id"]; present {
		t.Fatal("expected no guardian_id on anonymous request")
	}
}
