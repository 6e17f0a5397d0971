package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-shop-api/internal/domains/orders/ports"
)

var _ ports.Catalog = (*Catalog)(nil)

// Catalog reads unit prices from the products table. It never writes.
type Catalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

type priceRow struct {
	ID        int64           `gorm:"column:id"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price"`
}

// UnitPrices resolves all requested products in a single query.
func (c *Catalog) UnitPrices(ctx context.Context, productIDs []int64) (map[int64]decimal.Decimal, error) {
	if c == nil || c.db == nil {
		return nil, errors.New("postgres catalog not configured")
	}
	result := make(map[int64]decimal.Decimal, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}
	var rows []priceRow
	if err := c.db.WithContext(ctx).
		Table("products").
		Select("id", "unit_price").
		Where("id = ANY(?)", pq.Int64Array(productIDs)).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrCatalogUnavailable, err)
	}
	for _, row := range rows {
		result[row.ID] = row.UnitPrice
	}
	return result, nil
}
