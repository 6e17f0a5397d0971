package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
)

var _ ports.CaptureStore = (*CaptureStore)(nil)

// CaptureStore persists executed intents in PostgreSQL.
type CaptureStore struct {
	db *gorm.DB
}

// NewCaptureStore wires a PostgreSQL-backed capture store.
func NewCaptureStore(db *gorm.DB) *CaptureStore {
	return &CaptureStore{db: db}
}

// Get loads the capture for an intent, returning nil when absent.
func (s *CaptureStore) Get(ctx context.Context, intentID string) (*ports.CaptureRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record captureRecord
	if err := s.db.WithContext(ctx).First(&record, "intent_id = ?", intentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toPortRecord(&record), nil
}

// Save inserts the capture. A row already stored for the intent wins: it is returned as is
// when hash and order match, otherwise with ErrCaptureConflict.
func (s *CaptureStore) Save(ctx context.Context, record ports.CaptureRecord) (*ports.CaptureRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	dbRecord := toDBRecord(record)
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "intent_id"}}, DoNothing: true}).
		Create(&dbRecord)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		return toPortRecord(&dbRecord), nil
	}

	existing, err := s.Get(ctx, record.IntentID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("capture %s vanished after conflicting insert", record.IntentID)
	}
	if existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID {
		return existing, ports.ErrCaptureConflict
	}
	return existing, nil
}

func (s *CaptureStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres capture store not configured")
	}
	return nil
}

type captureRecord struct {
	IntentID      string    `gorm:"primaryKey;column:intent_id;size:128"`
	RequestHash   string    `gorm:"column:request_hash;size:128"`
	OrderID       int64     `gorm:"column:order_id;index"`
	State         string    `gorm:"column:state;type:varchar(32)"`
	TransactionID string    `gorm:"column:transaction_id;size:128"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (captureRecord) TableName() string { return "payment_captures" }

func toDBRecord(rec ports.CaptureRecord) captureRecord {
	return captureRecord{
		IntentID:      rec.IntentID,
		RequestHash:   rec.RequestHash,
		OrderID:       rec.OrderID,
		State:         rec.State,
		TransactionID: rec.TransactionID,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

func toPortRecord(rec *captureRecord) *ports.CaptureRecord {
	if rec == nil {
		return nil
	}
	return &ports.CaptureRecord{
		IntentID:      rec.IntentID,
		RequestHash:   rec.RequestHash,
		OrderID:       rec.OrderID,
		State:         rec.State,
		TransactionID: rec.TransactionID,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}
