package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

type verifyOtpResponse struct {
	Data struct {
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

type refreshResponse struct {
	Data struct {
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

func TestRefreshRotateAndLogout(t *testing.T) {
	svc, queries, mailer, _ := newOtpTestService(t)
	seedGuardian(t, svc, "parent@example.com", "password123")

	handler := &Handler{
		Service:           svc,
		RefreshCookieName: "rt",
		CookieSameSite:    http.SameSiteLaxMode,
	}

	// Login opens the OTP challenge; no tokens yet.
	loginBody := bytes.NewBufferString(`{"email":"parent@example.com","password":"password123"}`)
	loginReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", loginBody)
	loginRec := httptest.NewRecorder()
	handler.Login(loginRec, loginReq)
	loginRes := loginRec.Result()
	if loginRes.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status: %d", loginRes.StatusCode)
	}
	var loginPayload struct {
		Data Challenge `json:"data"`
	}
	if err := json.NewDecoder(loginRes.Body).Decode(&loginPayload); err != nil {
		t.Fatalf("decode login payload: %v", err)
	}
	_ = loginRes.Body.Close()
	if loginPayload.Data.ChallengeID == "" {
		t.Fatal("expected challenge id in login response")
	}
	if findCookie(loginRes.Cookies(), "rt") != nil {
		t.Fatal("login must not set the refresh cookie before otp verification")
	}

	// Verifying the emailed code issues the cookies.
	code := extractOtpCode(mailer.Outbox[0].HTML)
	verifyBody := bytes.NewBufferString(fmt.Sprintf(`{"challenge_id":%q,"code":%q}`, loginPayload.Data.ChallengeID, code))
	verifyReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/otp/verify", verifyBody)
	verifyRec := httptest.NewRecorder()
	handler.VerifyOtp(verifyRec, verifyReq)
	verifyRes := verifyRec.Result()
	if verifyRes.StatusCode != http.StatusOK {
		t.Fatalf("unexpected verify status: %d", verifyRes.StatusCode)
	}
	var verifyPayload verifyOtpResponse
	if err := json.NewDecoder(verifyRes.Body).Decode(&verifyPayload); err != nil {
		t.Fatalf("decode verify payload: %v", err)
	}
	_ = verifyRes.Body.Close()
	if verifyPayload.Data.AccessToken == "" {
		t.Fatal("expected access token after otp verification")
	}

	cookie := findCookie(verifyRes.Cookies(), "rt")
	if cookie == nil {
		t.Fatal("expected refresh cookie after otp verification")
	}
	originalRefresh := cookie.Value
	originalHashed := hashRefreshToken(originalRefresh)
	if _, ok := queries.sessionsByToken[originalHashed]; !ok {
		t.Fatal("expected session stored for initial refresh token")
	}

	// Perform refresh to rotate the token.
	refreshReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	refreshReq.AddCookie(cookie)
	refreshRec := httptest.NewRecorder()
	handler.Refresh(refreshRec, refreshReq)
	refreshRes := refreshRec.Result()
	if refreshRes.StatusCode != http.StatusOK {
		t.Fatalf("unexpected refresh status: %d", refreshRes.StatusCode)
	}
	var refreshPayload refreshResponse
	if err := json.NewDecoder(refreshRes.Body).Decode(&refreshPayload); err != nil {
		t.Fatalf("decode refresh payload: %v", err)
	}
	_ = refreshRes.Body.Close()
	if refreshPayload.Data.AccessToken == "" {
		t.Fatal("expected access token in refresh response")
	}
	rotatedCookie := findCookie(refreshRes.Cookies(), "rt")
	if rotatedCookie == nil {
		t.Fatal("expected rotated refresh cookie")
	}
	if rotatedCookie.Value == originalRefresh {
		t.Fatal("expected refresh token rotation")
	}
	rotatedHashed := hashRefreshToken(rotatedCookie.Value)
	if _, ok := queries.sessionsByToken[rotatedHashed]; !ok {
		t.Fatal("expected session stored for rotated token")
	}
	if _, ok := queries.sessionsByToken[originalHashed]; ok {
		t.Fatal("expected old session removed after rotation")
	}

	// Attempted reuse of the old refresh token should fail.
	reuseReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	reuseReq.AddCookie(&http.Cookie{Name: "rt", Value: originalRefresh})
	reuseRec := httptest.NewRecorder()
	handler.Refresh(reuseRec, reuseReq)
	reuseRes := reuseRec.Result()
	if reuseRes.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized on token reuse, got %d", reuseRes.StatusCode)
	}
	_ = reuseRes.Body.Close()

	// Logout should revoke the session and clear the cookie.
	logoutReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	logoutReq.AddCookie(rotatedCookie)
	logoutRec := httptest.NewRecorder()
	handler.Logout(logoutRec, logoutReq)
	logoutRes := logoutRec.Result()
	if logoutRes.StatusCode != http.StatusNoContent {
		t.Fatalf("unexpected logout status: %d", logoutRes.StatusCode)
	}
	clearedCookie := findCookie(logoutRes.Cookies(), "rt")
	if clearedCookie == nil {
		t.Fatal("expected cookie clearing on logout")
	}
	if clearedCookie.MaxAge != -1 {
		t.Fatalf("expected logout cookie MaxAge -1, got %d", clearedCookie.MaxAge)
	}
	if _, ok := queries.sessionsByToken[rotatedHashed]; ok {
		t.Fatal("expected session removed after logout")
	}
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
