package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the only currency payments are collected in.
const Currency = "USD"

// StateApproved is the provider state of a successfully executed intent.
const StateApproved = "approved"

var (
	ErrInvalidAmount     = errors.New("payment amount must be greater than zero")
	ErrInvalidReference  = errors.New("payment reference does not identify an order")
	ErrGateway           = errors.New("payment gateway failure")
	ErrMissingRedirect   = errors.New("payment intent has no approval url")
	ErrMissingReturnURLs = errors.New("payment return and cancel urls are required")
	// ErrAlreadyExecuted is reported by a gateway asked to execute an intent a second time.
	ErrAlreadyExecuted = errors.New("payment intent already executed")
)

// GatewayError wraps any failure reported by, or while talking to, the payment provider.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Is lets callers match any gateway failure with errors.Is(err, ErrGateway).
func (e *GatewayError) Is(target error) bool { return target == ErrGateway }

// NewGatewayError wraps err unless it already is a gateway error.
func NewGatewayError(op string, err error) error {
	if err == nil {
		return nil
	}
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return err
	}
	return &GatewayError{Op: op, Err: err}
}

// IntentRequest describes a payment to be approved by the payer.
type IntentRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	Reference   string
	ReturnURL   string
	CancelURL   string
}

// Validate checks the request before any provider call.
func (r IntentRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(r.ReturnURL) == "" || strings.TrimSpace(r.CancelURL) == "" {
		return ErrMissingReturnURLs
	}
	return nil
}

// Intent is a created payment awaiting payer approval.
type Intent struct {
	ID          string
	ApprovalURL string
	Reference   string
	State       string
}

// Capture is the outcome of executing an approved intent.
type Capture struct {
	IntentID      string
	State         string
	Reference     string
	TransactionID string
	// PayerID is the approving payer when the provider reports it.
	PayerID string
}

// Approved reports whether funds were captured.
func (c *Capture) Approved() bool {
	return c != nil && strings.EqualFold(c.State, StateApproved)
}

// OrderID recovers the order id embedded as the intent reference.
func (c *Capture) OrderID() (int64, error) {
	if c == nil {
		return 0, ErrInvalidReference
	}
	return ParseReference(c.Reference)
}

// OrderReference encodes an order id as a payment reference.
func OrderReference(orderID int64) string {
	return strconv.FormatInt(orderID, 10)
}

// ParseReference decodes a reference produced by OrderReference.
func ParseReference(reference string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(reference), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidReference, reference)
	}
	return id, nil
}

// OrderDescription is the human readable intent description shown to the payer.
func OrderDescription(orderID int64) string {
	return fmt.Sprintf("Order Payment for Order ID: %d", orderID)
}
