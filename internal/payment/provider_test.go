package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPromptPayVerifyWebhook(t *testing.T) {
	p := PromptPay{Secret: "topsecret"}
	body := []byte(`{"ref":"PP-abc","amount":92610,"status":"PAID"}`)

	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write(body)
	sig := hex.EncodeToString(mac.Sum(nil))

	r := httptest.NewRequest("POST", "/webhooks/payments/promptpay", strings.NewReader(string(body)))
	r.Header.Set("X-Signature", sig)

	result, err := p.VerifyWebhook(r, body)
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Equal(t, "PP-abc", result.Ref)
	require.Equal(t, int64(92610), result.Amount)
}

func TestPromptPayVerifyWebhookBadSignature(t *testing.T) {
	p := PromptPay{Secret: "topsecret"}
	body := []byte(`{"ref":"PP-abc","amount":92610,"status":"PAID"}`)
	r := httptest.NewRequest("POST", "/webhooks/payments/promptpay", strings.NewReader(string(body)))
	r.Header.Set("X-Signature", "deadbeef")

	result, err := p.VerifyWebhook(r, body)
	require.NoError(t, err)
	require.False(t, result.Valid)
}

func TestGatewayVerifyWebhook(t *testing.T) {
	g := CardGateway{SecretKey: "sk_test"}
	sig := g.computeSignature("CH-abc", "SETTLED", 92610)
	body := []byte(`{"ref":"CH-abc","amount":92610,"status":"SETTLED","signature":"` + sig + `"}`)

	result, err := g.VerifyWebhook(nil, body)
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Equal(t, "CH-abc", result.Ref)

	tampered := []byte(`{"ref":"CH-abc","amount":1,"status":"SETTLED","signature":"` + sig + `"}`)
	result, err = g.VerifyWebhook(nil, tampered)
	require.NoError(t, err)
	require.False(t, result.Valid)
}

func TestGatewayCreateChargeValidatesCard(t *testing.T) {
	g := CardGateway{SecretKey: "sk_test", Sandbox: true}
	bad := validCard()
	bad.Number = "4242424242424241"
	_, err := g.CreateCharge(context.Background(), ChargeRequest{
		PaymentID: "pay-1",
		Amount:    92610,
		Card:      &bad,
	})
	require.ErrorIs(t, err, ErrCardNumber)

	good := validCard()
	resp, err := g.CreateCharge(context.Background(), ChargeRequest{
		PaymentID: "pay-1",
		Amount:    92610,
		Card:      &good,
	})
	require.NoError(t, err)
	require.Equal(t, "CH-pay-1", resp.Ref)
	require.Contains(t, resp.RedirectURL, "sandbox")
}

func TestNormaliseWebhookStatus(t *testing.T) {
	require.Equal(t, "completed", string(normaliseWebhookStatus("PAID")))
	require.Equal(t, "completed", string(normaliseWebhookStatus(" settled ")))
	require.Equal(t, "failed", string(normaliseWebhookStatus("expired")))
	require.Equal(t, "processing", string(normaliseWebhookStatus("whatever")))
}
