package ports

import (
	"context"

	"github.com/Apurer/go-gin-shop-api/internal/domains/orders/domain"
)

// EventPublisher announces committed order transitions to downstream consumers.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event domain.StatusChanged) error
}

// NoopEventPublisher drops events; used when no broker is configured.
var NoopEventPublisher EventPublisher = noopEventPublisher{}

type noopEventPublisher struct{}

func (noopEventPublisher) PublishStatusChanged(context.Context, domain.StatusChanged) error {
	return nil
}
