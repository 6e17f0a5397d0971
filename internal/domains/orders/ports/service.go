package ports

import (
	"context"

	"github.com/Apurer/go-gin-shop-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-shop-api/internal/shared/identity"
)

// ItemInput is a requested line before prices are resolved.
type ItemInput struct {
	ProductID int64
	Quantity  int32
}

// CreateOrderInput carries an order placement request.
type CreateOrderInput struct {
	Owner identity.Identity
	Items []ItemInput
}

// UpdateStatusInput carries a requested status change.
type UpdateStatusInput struct {
	OrderID   int64
	Status    string
	Requester identity.Identity
}

// Service exposes order use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64, requester identity.Identity) (*domain.Order, error)
	ListOrdersForUser(ctx context.Context, requester identity.Identity) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*domain.Order, error)
	// DeleteOrder reports false without error when the order is missing or not owned.
	DeleteOrder(ctx context.Context, id int64, requester identity.Identity) (bool, error)
	// LookupOrder reads an order without ownership checks, for payment initiation.
	LookupOrder(ctx context.Context, id int64) (*domain.Order, error)
	// MarkPaid applies PENDING -> PAID as the system identity. alreadyPaid is true
	// when the order had already been paid and nothing was written.
	MarkPaid(ctx context.Context, id int64) (order *domain.Order, alreadyPaid bool, err error)
}
