package application

import "errors"

var (
	// ErrInvalidInput signals a malformed payment request or callback.
	ErrInvalidInput = errors.New("invalid payment input")
	// ErrOrderNotFound is returned when the order to pay or settle does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderNotPayable is returned when payment is initiated for an order that is not PENDING.
	ErrOrderNotPayable = errors.New("order is not awaiting payment")
	// ErrPaymentNotApproved is returned when the provider did not approve the capture.
	ErrPaymentNotApproved = errors.New("payment not approved")
)
