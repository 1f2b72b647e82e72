package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type errorResponse struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	svc, _, _, _ := newOtpTestService(t)
	handler := &Handler{Service: svc}

	payload := `{"name":"Somchai Prasert","email":"dup@example.com","password":"password123"}`
	first := httptest.NewRecorder()
	handler.Register(first, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(payload)))
	if first.Code != http.StatusCreated {
		t.Fatalf("unexpected first register status: %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.Register(second, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(payload)))
	if second.Code != http.StatusConflict {
		t.Fatalf("expected conflict on duplicate email, got %d", second.Code)
	}
	var body errorResponse
	if err := json.NewDecoder(second.Body).Decode(&body); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if body.Error.Code != "EMAIL_ALREADY_USED" {
		t.Fatalf("unexpected error code: %s", body.Error.Code)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _, _, _ := newOtpTestService(t)
	handler := &Handler{Service: svc}

	payload := `{"name":"Somchai Prasert","email":"short@example.com","password":"short"}`
	rec := httptest.NewRecorder()
	handler.Register(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(payload)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if body.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error code: %s", body.Error.Code)
	}
}

func TestLoginUnknownEmailUnauthorized(t *testing.T) {
	svc, _, _, _ := newOtpTestService(t)
	handler := &Handler{Service: svc}

	rec := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"email":"nobody@example.com","password":"password123"}`)
	handler.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized, got %d", rec.Code)
	}
}

func TestRegisterRejectsInvalidEmail(t *testing.T) {
	svc, _, _, _ := newOtpTestService(t)
	handler := &Handler{Service: svc}

	payload := `{"name":"Somchai Prasert","email":"not-an-email","password":"password123"}`
	rec := httptest.NewRecorder()
	handler.Register(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(payload)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if body.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error code: %s", body.Error.Code)
	}
}

func TestVerifyOtpRejectsNonNumericCode(t *testing.T) {
	svc, _, _, _ := newOtpTestService(t)
	handler := &Handler{Service: svc}

	payload := `{"challenge_id":"abc","code":"12ab56"}`
	rec := httptest.NewRecorder()
	handler.VerifyOtp(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/otp/verify", bytes.NewBufferString(payload)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if body.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error code: %s", body.Error.Code)
	}
}

func TestAuthCookiesIncludeCsrfToken(t *testing.T) {
	handler := &Handler{RefreshCookieName: "rt", CSRFCookieName: "X-CSRF-Token"}

	rec := httptest.NewRecorder()
	handler.setAuthCookies(rec, LoginResult{RefreshToken: "refresh", RefreshExpiry: time.Now().Add(time.Hour)})
	res := rec.Result()
	defer func() { _ = res.Body.Close() }()

	var csrf *http.Cookie
	for _, cookie := range res.Cookies() {
		if cookie.Name == "X-CSRF-Token" {
			csrf = cookie
		}
	}
	if csrf == nil || csrf.Value == "" {
		t.Fatal("expected csrf cookie to be set with a token")
	}
	if csrf.HttpOnly {
		t.Fatal("csrf cookie must be readable by the frontend")
	}

	clearRec := httptest.NewRecorder()
	handler.clearAuthCookies(clearRec)
	clearRes := clearRec.Result()
	defer func() { _ = clearRes.Body.Close() }()
	cleared := false
	for _, cookie := range clearRes.Cookies() {
		if cookie.Name == "X-CSRF-Token" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected csrf cookie to be cleared")
	}
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	svc, _, _, _ := newOtpTestService(t)
	handler := &Handler{Service: svc}

	rec := httptest.NewRecorder()
	handler.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"email":`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %d", rec.Code)
	}
}
