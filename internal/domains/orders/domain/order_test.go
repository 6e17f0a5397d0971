package domain

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewOrder_ComputesTotal(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	order, err := NewOrder(7, []Item{
		{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
		{ProductID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("3.50")},
	}, now)

	require.NoError(t, err)
	require.Equal(t, StatusPending, order.Status)
	require.True(t, order.TotalAmount.Equal(decimal.RequireFromString("13.50")))
	require.Equal(t, now, order.CreatedAt)
	require.Len(t, order.Items, 2)
}

func TestNewOrder_RejectsInvalidItems(t *testing.T) {
	now := time.Now()
	price := decimal.NewFromInt(1)

	_, err := NewOrder(1, nil, now)
	require.ErrorIs(t, err, ErrEmptyItems)

	_, err = NewOrder(1, []Item{{ProductID: 1, Quantity: 0, UnitPrice: price}}, now)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrder(1, []Item{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}}, now)
	require.ErrorIs(t, err, ErrNegativePrice)

	_, err = NewOrder(0, []Item{{ProductID: 1, Quantity: 1, UnitPrice: price}}, now)
	require.ErrorIs(t, err, ErrInvalidOwner)
}

func TestNewOrder_RejectsAmountsBeyondStorage(t *testing.T) {
	now := time.Now()

	_, err := NewOrder(1, []Item{{ProductID: 1, Quantity: math.MaxInt32, UnitPrice: decimal.RequireFromString("5.00")}}, now)
	require.ErrorIs(t, err, ErrAmountTooLarge)

	half := decimal.RequireFromString("6000000000.00")
	_, err = NewOrder(1, []Item{
		{ProductID: 1, Quantity: 1, UnitPrice: half},
		{ProductID: 2, Quantity: 1, UnitPrice: half},
	}, now)
	require.ErrorIs(t, err, ErrAmountTooLarge)

	order, err := NewOrder(1, []Item{{ProductID: 1, Quantity: 1, UnitPrice: MaxAmount}}, now)
	require.NoError(t, err)
	require.True(t, order.TotalAmount.Equal(MaxAmount))
}

func TestSetItems_RecomputesTotal(t *testing.T) {
	order, err := NewOrder(1, []Item{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(10)}}, time.Now())
	require.NoError(t, err)

	require.NoError(t, order.SetItems([]Item{{ProductID: 3, Quantity: 4, UnitPrice: decimal.RequireFromString("0.25")}}))
	require.True(t, order.TotalAmount.Equal(decimal.NewFromInt(1)))
	require.True(t, order.TotalAmount.Equal(order.Total()))
}

func TestZeroPriceItemsAllowed(t *testing.T) {
	order, err := NewOrder(1, []Item{{ProductID: 1, Quantity: 3, UnitPrice: decimal.Zero}}, time.Now())
	require.NoError(t, err)
	require.True(t, order.TotalAmount.IsZero())
}

func TestCanTransition_Matrix(t *testing.T) {
	all := []Status{StatusPending, StatusPaid, StatusShipped, StatusCompleted, StatusCanceled}
	allowed := map[[2]Status]bool{
		{StatusPending, StatusPaid}:      true,
		{StatusPending, StatusCanceled}:  true,
		{StatusPaid, StatusShipped}:      true,
		{StatusShipped, StatusCompleted}: true,
	}
	for _, from := range all {
		for _, to := range all {
			require.Equal(t, allowed[[2]Status{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTransitionTo(t *testing.T) {
	order, err := NewOrder(1, []Item{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}}, time.Now())
	require.NoError(t, err)

	later := time.Now().Add(time.Minute)
	require.NoError(t, order.TransitionTo(StatusPaid, later))
	require.Equal(t, StatusPaid, order.Status)
	require.Equal(t, later, order.UpdatedAt)
	require.True(t, order.IsPaid())

	require.ErrorIs(t, order.TransitionTo(StatusPending, later), ErrInvalidTransition)
	require.ErrorIs(t, order.TransitionTo(Status("LOST"), later), ErrInvalidStatus)

	require.NoError(t, order.TransitionTo(StatusShipped, later))
	require.NoError(t, order.TransitionTo(StatusCompleted, later))
	require.True(t, order.IsTerminal())
	require.ErrorIs(t, order.TransitionTo(StatusCanceled, later), ErrInvalidTransition)
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus(" shipped ")
	require.NoError(t, err)
	require.Equal(t, StatusShipped, status)

	_, err = ParseStatus("refunded")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatusChangedEventType(t *testing.T) {
	require.Equal(t, EventPaid, StatusChanged{From: StatusPending, To: StatusPaid}.EventType())
	require.Equal(t, EventStatusChanged, StatusChanged{From: StatusPaid, To: StatusShipped}.EventType())
}
