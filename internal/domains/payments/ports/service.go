package ports

import "context"

// InitiateResult is returned to the payer so they can approve the payment.
type InitiateResult struct {
	OrderID     int64  `json:"orderId"`
	IntentID    string `json:"intentId"`
	RedirectURL string `json:"redirectUrl"`
}

// ConfirmInput identifies a gateway completion callback.
type ConfirmInput struct {
	IntentID   string `json:"intentId"`
	PayerToken string `json:"payerToken"`
}

// CaptureOutcome is the result of executing an intent, before the order is settled.
type CaptureOutcome struct {
	IntentID      string `json:"intentId"`
	OrderID       int64  `json:"orderId"`
	State         string `json:"state"`
	TransactionID string `json:"transactionId"`
	Replayed      bool   `json:"replayed"`
}

// ConfirmResult reports a settled payment.
type ConfirmResult struct {
	IntentID      string `json:"intentId"`
	OrderID       int64  `json:"orderId"`
	OrderStatus   string `json:"orderStatus"`
	State         string `json:"state"`
	TransactionID string `json:"transactionId"`
	AlreadyPaid   bool   `json:"alreadyPaid"`
	Replayed      bool   `json:"replayed"`
}

// CancelResult acknowledges a payer abandoning the approval page.
type CancelResult struct {
	Message string `json:"message"`
}

// Service exposes payment reconciliation use cases.
type Service interface {
	InitiatePayment(ctx context.Context, orderID int64) (*InitiateResult, error)
	// CapturePayment executes the intent once; duplicates replay the recorded capture.
	CapturePayment(ctx context.Context, input ConfirmInput) (*CaptureOutcome, error)
	// SettleOrder applies an approved capture to its order. Safe to repeat.
	SettleOrder(ctx context.Context, outcome CaptureOutcome) (*ConfirmResult, error)
	ConfirmPayment(ctx context.Context, input ConfirmInput) (*ConfirmResult, error)
	CancelPayment(ctx context.Context) CancelResult
}

// ConfirmationOrchestrator runs payment confirmation, inline or as a durable workflow.
type ConfirmationOrchestrator interface {
	Confirm(ctx context.Context, input ConfirmInput) (*ConfirmResult, error)
}
