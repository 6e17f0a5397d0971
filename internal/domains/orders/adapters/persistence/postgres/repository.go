package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-shop-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-shop-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their items in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and schema.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate root.
type orderRecord struct {
	ID          int64             `gorm:"primaryKey;autoIncrement;column:id"`
	OwnerID     int64             `gorm:"column:owner_id;not null;index:idx_orders_owner_created,priority:1"`
	Status      string            `gorm:"column:status;type:varchar(16);not null;index"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	CreatedAt   time.Time         `gorm:"column:created_at;index:idx_orders_owner_created,priority:2"`
	UpdatedAt   time.Time         `gorm:"column:updated_at"`
	Items       []orderItemRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (orderRecord) TableName() string { return "orders" }

// orderItemRecord maps one line item; rows live and die with their order.
type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;autoIncrement;column:id"`
	OrderID   int64           `gorm:"column:order_id;not null;index"`
	ProductID int64           `gorm:"column:product_id;not null"`
	Quantity  int32           `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Create inserts the order and all its items in one transaction.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := record.Items
		record.Items = nil
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = record.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		record.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches an order with its items.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).Preload("Items", orderItemsByID).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListByOwner returns the owner's orders, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByID).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

// UpdateStatus locks the order row with SELECT ... FOR UPDATE, applies mutate and
// persists the new status before the lock is released.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, mutate ports.StatusMutation) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var result *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record orderRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		if err := tx.Where("order_id = ?", id).Order("id").Find(&record.Items).Error; err != nil {
			return err
		}
		order := record.toDomain()
		if err := mutate(order); err != nil {
			if errors.Is(err, ports.ErrSkipUpdate) {
				result = record.toDomain()
				return nil
			}
			return err
		}
		if err := tx.Model(&orderRecord{}).Where("id = ?", id).Updates(map[string]any{
			"status":     string(order.Status),
			"updated_at": order.UpdatedAt,
		}).Error; err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes an order; its items follow in the same transaction.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&orderItemRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&orderRecord{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func orderItemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func toRecord(order *domain.Order) orderRecord {
	rec := orderRecord{
		ID:          order.ID,
		OwnerID:     order.OwnerID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
		Items:       make([]orderItemRecord, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		rec.Items = append(rec.Items, orderItemRecord{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return rec
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Status:      domain.Status(r.Status),
		TotalAmount: r.TotalAmount,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Items:       make([]domain.Item, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return order
}
