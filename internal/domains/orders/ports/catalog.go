package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrCatalogUnavailable wraps failures of the product catalog backend.
var ErrCatalogUnavailable = errors.New("product catalog unavailable")

// Catalog resolves current unit prices. Unknown product IDs are absent from the result.
type Catalog interface {
	UnitPrices(ctx context.Context, productIDs []int64) (map[int64]decimal.Decimal, error)
}
