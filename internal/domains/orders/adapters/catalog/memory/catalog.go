package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-shop-api/internal/domains/orders/ports"
)

var _ ports.Catalog = (*Catalog)(nil)

// Catalog is an in-memory price list for development and tests.
type Catalog struct {
	mu     sync.RWMutex
	prices map[int64]decimal.Decimal
}

// NewCatalog builds a catalog from product id to unit price.
func NewCatalog(prices map[int64]decimal.Decimal) *Catalog {
	c := &Catalog{prices: make(map[int64]decimal.Decimal, len(prices))}
	for id, price := range prices {
		c.prices[id] = price
	}
	return c
}

// NewSampleCatalog returns a small seeded catalog used when no database is configured.
func NewSampleCatalog() *Catalog {
	return NewCatalog(map[int64]decimal.Decimal{
		1: decimal.RequireFromString("5.00"),
		2: decimal.RequireFromString("3.50"),
		3: decimal.RequireFromString("12.99"),
		4: decimal.RequireFromString("0.00"),
	})
}

// SetPrice adds or reprices a product.
func (c *Catalog) SetPrice(productID int64, price decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices[productID] = price
}

func (c *Catalog) UnitPrices(_ context.Context, productIDs []int64) (map[int64]decimal.Decimal, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make(map[int64]decimal.Decimal, len(productIDs))
	for _, id := range productIDs {
		if price, ok := c.prices[id]; ok {
			result[id] = price
		}
	}
	return result, nil
}
