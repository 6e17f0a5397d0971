package ports

import (
	"context"

	ordersdomain "github.com/Apurer/go-gin-shop-api/internal/domains/orders/domain"
)

// Orders is the slice of the order service that payment reconciliation relies on.
type Orders interface {
	LookupOrder(ctx context.Context, id int64) (*ordersdomain.Order, error)
	MarkPaid(ctx context.Context, id int64) (*ordersdomain.Order, bool, error)
}
