package payments

import (
	"go.temporal.io/sdk/workflow"

	paymentsports "github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
	"github.com/Apurer/go-gin-shop-api/internal/platform/temporal/sequences"
)

const (
	// PaymentConfirmationWorkflowName is the public identifier for registering the workflow.
	PaymentConfirmationWorkflowName = "payments.workflows.Confirmation"
	// PaymentConfirmationTaskQueue is the queue consumed by the worker processing payment workflows.
	PaymentConfirmationTaskQueue = "PAYMENT_CONFIRMATION"
)

// PaymentConfirmationWorkflowInput captures the provider callback being confirmed.
type PaymentConfirmationWorkflowInput struct {
	Confirm paymentsports.ConfirmInput
	TraceID string
}

// PaymentConfirmationWorkflow durably reconciles a completed payment with its order.
func PaymentConfirmationWorkflow(ctx workflow.Context, input PaymentConfirmationWorkflowInput) (*paymentsports.ConfirmResult, error) {
	logger := workflow.GetLogger(ctx)
	intentID := input.Confirm.IntentID
	logger.Info("PaymentConfirmationWorkflow started", withTraceID(input.TraceID, "intentId", intentID)...)
	result, err := sequences.RunPaymentConfirmationSequence(ctx, input.Confirm)
	if err != nil {
		logger.Error("PaymentConfirmationWorkflow failed", withTraceID(input.TraceID, "intentId", intentID, "error", err)...)
		return nil, err
	}
	logger.Info("PaymentConfirmationWorkflow completed", withTraceID(input.TraceID, "intentId", intentID, "orderId", result.OrderID)...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
