package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// PromptPay implements the Provider interface for PromptPay QR payments.
type PromptPay struct {
	Secret    string
	BillerID  string
	ExpirySec int
}

// CreateCharge synthesises a deterministic QR payload without a network
// call. The real integration would request a dynamic QR from the bank, but
// the deterministic form drives the rest of the flow and the tests.
func (p PromptPay) CreateCharge(_ context.Context, req ChargeRequest) (ChargeResponse, error) {
	if strings.TrimSpace(req.PaymentID) == "" {
		return ChargeResponse{}, errors.New("payment id is required")
	}
	if req.Amount <= 0 {
		return ChargeResponse{}, errors.New("amount must be positive")
	}
	ttl := req.ExpiresAtSec
	if ttl <= 0 {
		ttl = p.ExpirySec
	}
	if ttl <= 0 {
		ttl = 900
	}
	ref := fmt.Sprintf("PP-%s", req.PaymentID)
	expiresAt := time.Now().Add(time.Duration(ttl) * time.Second)
	return ChargeResponse{
		Provider:  "promptpay",
		Ref:       ref,
		QRPayload: fmt.Sprintf("00020101021230%s5303764%011d", p.biller(), req.Amount),
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

func (p PromptPay) biller() string {
	if strings.TrimSpace(p.BillerID) != "" {
		return p.BillerID
	}
	return "0000000000000"
}

// VerifyWebhook checks the X-Signature header (hex HMAC-SHA256 over the raw
// body) and normalises the payload.
func (p PromptPay) VerifyWebhook(r *http.Request, body []byte) (WebhookVerifyResult, error) {
	provided := strings.TrimSpace(r.Header.Get("X-Signature"))
	if provided == "" {
		return WebhookVerifyResult{Valid: false, Err: errors.New("missing signature")}, nil
	}
	mac := hmac.New(sha256.New, []byte(p.Secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(provided)) {
		return WebhookVerifyResult{Valid: false, Err: errors.New("invalid signature")}, nil
	}
	var payload struct {
		Ref    string `json:"ref"`
		Amount int64  `json:"amount"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return WebhookVerifyResult{Valid: false, Err: err}, nil
	}
	if payload.Ref == "" {
		return WebhookVerifyResult{Valid: false, Err: errors.New("missing ref")}, nil
	}
	return WebhookVerifyResult{
		Valid:           true,
		Ref:             payload.Ref,
		Amount:          payload.Amount,
		Status:          payload.Status,
		ProviderPayload: body,
	}, nil
}
