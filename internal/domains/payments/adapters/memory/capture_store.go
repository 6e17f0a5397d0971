package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
)

var _ ports.CaptureStore = (*CaptureStore)(nil)

// CaptureStore keeps executed intents in memory for development and tests.
type CaptureStore struct {
	mu      sync.RWMutex
	records map[string]ports.CaptureRecord
	now     func() time.Time
}

// NewCaptureStore constructs an empty in-memory store.
func NewCaptureStore() *CaptureStore {
	return &CaptureStore{
		records: map[string]ports.CaptureRecord{},
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *CaptureStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Get returns the capture for the intent, or nil when none was recorded.
func (s *CaptureStore) Get(_ context.Context, intentID string) (*ports.CaptureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[intentID]
	if !ok {
		return nil, nil
	}
	found := record
	return &found, nil
}

// Save records the capture or returns the stored one if it matches.
func (s *CaptureStore) Save(_ context.Context, record ports.CaptureRecord) (*ports.CaptureRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.records[record.IntentID]; ok {
		stored := existing
		if existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID {
			return &stored, ports.ErrCaptureConflict
		}
		return &stored, nil
	}

	now := s.now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	s.records[record.IntentID] = record
	saved := record
	return &saved, nil
}

// Len reports how many captures are stored.
func (s *CaptureStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
