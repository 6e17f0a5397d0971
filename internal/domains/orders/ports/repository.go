package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-shop-api/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// ErrSkipUpdate may be returned by a StatusMutation to commit nothing and
// receive the current order back without error.
var ErrSkipUpdate = errors.New("skip order update")

// StatusMutation runs against the freshly locked order; returning an error aborts the update.
type StatusMutation func(order *domain.Order) error

// Repository persists order aggregates together with their line items.
type Repository interface {
	// Create stores the order and all of its items atomically and assigns the ID.
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// ListByOwner returns the owner's orders, newest first.
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Order, error)
	// UpdateStatus serializes concurrent writers on the same order.
	UpdateStatus(ctx context.Context, id int64, mutate StatusMutation) (*domain.Order, error)
	// Delete removes the order and its items.
	Delete(ctx context.Context, id int64) error
}
