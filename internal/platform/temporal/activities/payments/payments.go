package payments

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersdomain "github.com/Apurer/go-gin-shop-api/internal/domains/orders/domain"
	paymentsapp "github.com/Apurer/go-gin-shop-api/internal/domains/payments/application"
	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/domain"
	paymentsports "github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
)

const (
	// CapturePaymentActivityName executes the intent at the provider.
	CapturePaymentActivityName = "payments.activities.CapturePayment"
	// SettleOrderActivityName marks the captured order as paid.
	SettleOrderActivityName = "payments.activities.SettleOrder"
)

// Application error types carried across the workflow boundary.
const (
	ErrTypeInvalidInput       = "InvalidInput"
	ErrTypeCaptureConflict    = "CaptureConflict"
	ErrTypePaymentNotApproved = "PaymentNotApproved"
	ErrTypeGateway            = "GatewayFailure"
	ErrTypeInvalidReference   = "InvalidReference"
	ErrTypeOrderNotFound      = "OrderNotFound"
	ErrTypeInvalidTransition  = "InvalidTransition"
)

// Activities groups activities that reconcile payments with orders.
type Activities struct {
	service paymentsports.Service
}

// NewActivities wires the payments service into the Temporal activities bundle.
func NewActivities(service paymentsports.Service) *Activities {
	return &Activities{service: service}
}

// CapturePayment executes the intent once. Replays of a recorded capture never reach the provider.
func (a *Activities) CapturePayment(ctx context.Context, input paymentsports.ConfirmInput) (*paymentsports.CaptureOutcome, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("capture activity not initialized", "intentId", input.IntentID)
		return nil, errors.New("capture activity not initialized")
	}
	logger.Info("CapturePayment activity started", "intentId", input.IntentID)
	outcome, err := a.service.CapturePayment(ctx, input)
	if err != nil {
		logger.Error("CapturePayment activity failed", "intentId", input.IntentID, "error", err)
		return nil, toApplicationError(err)
	}
	logger.Info("CapturePayment activity completed", "intentId", input.IntentID, "orderId", outcome.OrderID, "replayed", outcome.Replayed)
	return outcome, nil
}

// SettleOrder applies the capture to the order. Safe to retry.
func (a *Activities) SettleOrder(ctx context.Context, outcome paymentsports.CaptureOutcome) (*paymentsports.ConfirmResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("settle activity not initialized", "orderId", outcome.OrderID)
		return nil, errors.New("settle activity not initialized")
	}
	logger.Info("SettleOrder activity started", "orderId", outcome.OrderID)
	result, err := a.service.SettleOrder(ctx, outcome)
	if err != nil {
		logger.Error("SettleOrder activity failed", "orderId", outcome.OrderID, "error", err)
		return nil, toApplicationError(err)
	}
	logger.Info("SettleOrder activity completed", "orderId", result.OrderID, "alreadyPaid", result.AlreadyPaid)
	return result, nil
}

// toApplicationError marks business failures non-retryable. Anything else is left to the retry policy.
func toApplicationError(err error) error {
	errType := classify(err)
	if errType == "" {
		return err
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), errType, err)
}

func classify(err error) string {
	switch {
	case errors.Is(err, paymentsapp.ErrInvalidInput):
		return ErrTypeInvalidInput
	case errors.Is(err, paymentsports.ErrCaptureConflict):
		return ErrTypeCaptureConflict
	case errors.Is(err, paymentsapp.ErrPaymentNotApproved):
		return ErrTypePaymentNotApproved
	case errors.Is(err, domain.ErrGateway):
		return ErrTypeGateway
	case errors.Is(err, domain.ErrInvalidReference):
		return ErrTypeInvalidReference
	case errors.Is(err, paymentsapp.ErrOrderNotFound):
		return ErrTypeOrderNotFound
	case errors.Is(err, ordersdomain.ErrInvalidTransition):
		return ErrTypeInvalidTransition
	default:
		return ""
	}
}

// FromWorkflowError restores the sentinel carried by a failed workflow so callers can match it with errors.Is.
func FromWorkflowError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	msg := appErr.Error()
	switch appErr.Type() {
	case ErrTypeInvalidInput:
		return wrapMessage(paymentsapp.ErrInvalidInput, msg)
	case ErrTypeCaptureConflict:
		return wrapMessage(paymentsports.ErrCaptureConflict, msg)
	case ErrTypePaymentNotApproved:
		return wrapMessage(paymentsapp.ErrPaymentNotApproved, msg)
	case ErrTypeGateway:
		return &domain.GatewayError{Op: "execute", Err: errors.New(msg)}
	case ErrTypeInvalidReference:
		return wrapMessage(domain.ErrInvalidReference, msg)
	case ErrTypeOrderNotFound:
		return wrapMessage(paymentsapp.ErrOrderNotFound, msg)
	case ErrTypeInvalidTransition:
		return wrapMessage(ordersdomain.ErrInvalidTransition, msg)
	default:
		return err
	}
}

type workflowError struct {
	sentinel error
	msg      string
}

func (e *workflowError) Error() string { return e.msg }
func (e *workflowError) Unwrap() error { return e.sentinel }

func wrapMessage(sentinel error, msg string) error {
	return &workflowError{sentinel: sentinel, msg: msg}
}
