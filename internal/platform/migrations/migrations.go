package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&paymentCaptureRecord{},
		&sessionRecord{},
	)
}

// Product schema backs the read-only catalog adapter. Rows are maintained by the catalog owner.
type productRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	Name      string          `gorm:"column:name;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Order schema mirrors the orders Postgres adapter.
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

type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;autoIncrement;column:id"`
	OrderID   int64           `gorm:"column:order_id;not null;index"`
	ProductID int64           `gorm:"column:product_id;not null"`
	Quantity  int32           `gorm:"column:quantity;not null;check:chk_order_items_quantity,quantity > 0"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null;check:chk_order_items_price,unit_price >= 0"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Payment capture schema mirrors the payments capture store.
type paymentCaptureRecord struct {
	IntentID      string    `gorm:"primaryKey;column:intent_id;size:128"`
	RequestHash   string    `gorm:"column:request_hash;size:128"`
	OrderID       int64     `gorm:"column:order_id;index"`
	State         string    `gorm:"column:state;type:varchar(32)"`
	TransactionID string    `gorm:"column:transaction_id;size:128"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (paymentCaptureRecord) TableName() string { return "payment_captures" }

// Session schema mirrors the session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	UserID    int64      `gorm:"column:user_id;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "user_sessions" }
