package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CardGateway implements the Provider interface for the card acquirer. It
// also backs bank transfer charges, which the acquirer exposes through the
// same API.
type CardGateway struct {
	SecretKey string
	BaseURL   string
	Sandbox   bool
}

// CreateCharge validates the card when present and issues a deterministic
// charge reference. The real implementation calls the acquirer API.
func (g CardGateway) CreateCharge(_ context.Context, req ChargeRequest) (ChargeResponse, error) {
	if strings.TrimSpace(req.PaymentID) == "" {
		return ChargeResponse{}, errors.New("payment id is required")
	}
	if req.Card != nil {
		if err := req.Card.Validate(time.Now()); err != nil {
			return ChargeResponse{}, err
		}
	}
	ttl := req.ExpiresAtSec
	if ttl <= 0 {
		ttl = 3600
	}
	ref := fmt.Sprintf("CH-%s", req.PaymentID)
	expiresAt := time.Now().Add(time.Duration(ttl) * time.Second)
	return ChargeResponse{
		Provider:    "gateway",
		Ref:         ref,
		RedirectURL: fmt.Sprintf("%s/charges/%s/confirm", strings.TrimRight(g.host(), "/"), ref),
		ExpiresAt:   expiresAt.Unix(),
	}, nil
}

func (g CardGateway) host() string {
	host := strings.TrimSpace(g.BaseURL)
	if host == "" {
		if g.Sandbox {
			return "https://api.sandbox.gateway.test"
		}
		return "https://api.gateway.test"
	}
	return host
}

// VerifyWebhook validates the gateway signature and normalises the payload.
// The signature is hex HMAC-SHA512 over ref, status and amount, keyed with
// the secret, matching the acquirer's callback contract.
func (g CardGateway) VerifyWebhook(_ *http.Request, body []byte) (WebhookVerifyResult, error) {
	var payload struct {
		Ref       string `json:"ref"`
		Amount    int64  `json:"amount"`
		Status    string `json:"status"`
		Signature string `json:"signature"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return WebhookVerifyResult{Valid: false, Err: err}, nil
	}
	if payload.Ref == "" {
		return WebhookVerifyResult{Valid: false, Err: errors.New("missing ref")}, nil
	}
	expected := g.computeSignature(payload.Ref, payload.Status, payload.Amount)
	provided := strings.TrimSpace(payload.Signature)
	if expected == "" || provided == "" || !hmac.Equal([]byte(expected), []byte(provided)) {
		return WebhookVerifyResult{Valid: false, Err: errors.New("invalid signature")}, nil
	}
	return WebhookVerifyResult{
		Valid:           true,
		Ref:             payload.Ref,
		Amount:          payload.Amount,
		Status:          payload.Status,
		ProviderPayload: body,
	}, nil
}

func (g CardGateway) computeSignature(ref, status string, amount int64) string {
	key := strings.TrimSpace(g.SecretKey)
	if key == "" {
		return ""
	}
	mac := hmac.New(sha512.New, []byte(key))
	mac.Write([]byte(ref))
	mac.Write([]byte(status))
	fmt.Fprintf(mac, "%d", amount)
	mac.Write([]byte(key))
	return hex.EncodeToString(mac.Sum(nil))
}
