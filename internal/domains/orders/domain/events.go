package domain

import "time"

const (
	EventStatusChanged = "order.status_changed"
	EventPaid          = "order.paid"
)

// StatusChanged records a committed status transition.
type StatusChanged struct {
	OrderID    int64
	OwnerID    int64
	From       Status
	To         Status
	OccurredAt time.Time
}

// EventType returns the published event name for the transition.
func (e StatusChanged) EventType() string {
	if e.To == StatusPaid {
		return EventPaid
	}
	return EventStatusChanged
}
