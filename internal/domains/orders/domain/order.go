package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusCompleted Status = "COMPLETED"
	StatusCanceled  Status = "CANCELED"
)

var (
	ErrInvalidOwner      = errors.New("order owner must be greater than zero")
	ErrEmptyItems        = errors.New("order must contain at least one item")
	ErrInvalidProductID  = errors.New("product id must be greater than zero")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrNegativePrice     = errors.New("unit price must not be negative")
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidTransition = errors.New("order status transition is not allowed")
	ErrAmountTooLarge    = errors.New("order amount exceeds the supported maximum")
)

// MaxAmount is the largest subtotal or total an order can carry (numeric(12,2) in storage).
var MaxAmount = decimal.New(999999999999, -2)

// transitions is the allow-list of status moves. Anything absent is rejected.
var transitions = map[Status][]Status{
	StatusPending: {StatusPaid, StatusCanceled},
	StatusPaid:    {StatusShipped},
	StatusShipped: {StatusCompleted},
}

// Item is one purchased product line with the unit price captured at creation.
type Item struct {
	ProductID int64
	Quantity  int32
	UnitPrice decimal.Decimal
}

// Subtotal returns unit price times quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt32(i.Quantity))
}

// Validate enforces line-item invariants.
func (i Item) Validate() error {
	if i.ProductID <= 0 {
		return ErrInvalidProductID
	}
	if i.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.UnitPrice.IsNegative() {
		return ErrNegativePrice
	}
	if i.Subtotal().GreaterThan(MaxAmount) {
		return ErrAmountTooLarge
	}
	return nil
}

// Order models a customer purchase aggregate.
type Order struct {
	ID          int64
	OwnerID     int64
	Status      Status
	Items       []Item
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrder validates and constructs a PENDING order for owner.
func NewOrder(ownerID int64, items []Item, now time.Time) (*Order, error) {
	if ownerID <= 0 {
		return nil, ErrInvalidOwner
	}
	order := &Order{
		OwnerID:   ownerID,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := order.SetItems(items); err != nil {
		return nil, err
	}
	return order, nil
}

// SetItems replaces the line items and recomputes the total.
func (o *Order) SetItems(items []Item) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	if total.GreaterThan(MaxAmount) {
		return ErrAmountTooLarge
	}
	o.Items = append([]Item(nil), items...)
	o.TotalAmount = total
	return nil
}

// Total recomputes the sum of item subtotals.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// OwnedBy reports whether userID placed the order.
func (o *Order) OwnedBy(userID int64) bool {
	return o != nil && userID > 0 && o.OwnerID == userID
}

// IsPaid is true once funds were captured, including later fulfilment states.
func (o *Order) IsPaid() bool {
	switch o.Status {
	case StatusPaid, StatusShipped, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition exists.
func (o *Order) IsTerminal() bool {
	return len(transitions[o.Status]) == 0
}

// TransitionTo moves the order to next if the state machine allows it.
func (o *Order) TransitionTo(next Status, now time.Time) error {
	if !IsValidStatus(next) {
		return ErrInvalidStatus
	}
	if !CanTransition(o.Status, next) {
		return ErrInvalidTransition
	}
	o.Status = next
	o.UpdatedAt = now
	return nil
}

// CanTransition reports whether from -> to is an allowed move.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ParseStatus accepts any casing of a known status name.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !IsValidStatus(status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// IsValidStatus reports whether status is one of the known states.
func IsValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusPaid, StatusShipped, StatusCompleted, StatusCanceled:
		return true
	default:
		return false
	}
}
