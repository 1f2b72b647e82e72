package notify

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/schooney/backend-portal/internal/db/gen"
)

// Store defines the persistence operations required for webhook management.
type Store interface {
	CreateWebhookEndpoint(ctx context.Context, arg dbgen.CreateWebhookEndpointParams) (dbgen.WebhookEndpoint, error)
	UpdateWebhookEndpoint(ctx context.Context, arg dbgen.UpdateWebhookEndpointParams) (dbgen.WebhookEndpoint, error)
	GetWebhookEndpoint(ctx context.Context, id pgtype.UUID) (dbgen.WebhookEndpoint, error)
	ListWebhookEndpoints(ctx context.Context, arg dbgen.ListWebhookEndpointsParams) ([]dbgen.WebhookEndpoint, error)
	DeleteWebhookEndpoint(ctx context.Context, id pgtype.UUID) error

	ListEnabledWebhookEndpointsByTopic(ctx context.Context, topic string) ([]dbgen.WebhookEndpoint, error)
	CreateWebhookDelivery(ctx context.Context, arg dbgen.CreateWebhookDeliveryParams) (dbgen.WebhookDelivery, error)
	GetWebhookDelivery(ctx context.Context, id pgtype.UUID) (dbgen.WebhookDelivery, error)
	UpdateWebhookDelivery(ctx context.Context, arg dbgen.UpdateWebhookDeliveryParams) error
	ListWebhookDeliveries(ctx context.Context, arg dbgen.ListWebhookDeliveriesParams) ([]dbgen.WebhookDelivery, error)
	CountWebhookDeliveries(ctx context.Context, arg dbgen.CountWebhookDeliveriesParams) (int64, error)

	GetDomainEvent(ctx context.Context, id pgtype.UUID) (dbgen.DomainEvent, error)
}

// QueriesStore adapts sqlc generated queries to the Store interface.
type QueriesStore struct {
	*dbgen.Queries
}

// NewStore returns a Store backed by sqlc queries.
func NewStore(q *dbgen.Queries) Store {
	if q == nil {
		return nil
	}
	return QueriesStore{Queries: q}
}
