package payment

import (
	"context"
	"net/http"
)

// ChargeRequest captures the information required to open a charge with a provider.
type ChargeRequest struct {
	PaymentID    string
	Amount       int64
	Currency     string
	ExpiresAtSec int
	Card         *Card
}

// ChargeResponse represents the minimal information returned by a provider when creating a charge.
type ChargeResponse struct {
	Provider    string
	Ref         string
	RedirectURL string
	QRPayload   string
	ExpiresAt   int64
}

// WebhookVerifyResult contains the normalised data extracted from a webhook
// notification after signature verification.
type WebhookVerifyResult struct {
	Valid           bool
	Ref             string
	Amount          int64
	Status          string
	ProviderPayload []byte
	Err             error
}

// Provider abstracts the operations required from an upstream payment provider.
type Provider interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (ChargeResponse, error)
	VerifyWebhook(r *http.Request, body []byte) (WebhookVerifyResult, error)
}
