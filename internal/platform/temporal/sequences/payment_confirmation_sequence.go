package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	paymentsports "github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
	paymentactivities "github.com/Apurer/go-gin-shop-api/internal/platform/temporal/activities/payments"
)

// RunPaymentConfirmationSequence captures the payment and then settles the order.
// The capture is attempted once; settlement is retried because it is idempotent.
func RunPaymentConfirmationSequence(ctx workflow.Context, input paymentsports.ConfirmInput) (*paymentsports.ConfirmResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("payment confirmation sequence started", "intentId", input.IntentID)
	captureOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	settleOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var outcome paymentsports.CaptureOutcome
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, captureOptions), paymentactivities.CapturePaymentActivityName, input).Get(ctx, &outcome)
	if err != nil {
		logger.Error("payment confirmation sequence capture failed", "intentId", input.IntentID, "error", err)
		return nil, err
	}
	logger.Info("payment confirmation sequence captured", "intentId", input.IntentID, "orderId", outcome.OrderID)

	var result paymentsports.ConfirmResult
	err = workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, settleOptions), paymentactivities.SettleOrderActivityName, outcome).Get(ctx, &result)
	if err != nil {
		logger.Error("payment confirmation sequence settle failed", "intentId", input.IntentID, "orderId", outcome.OrderID, "error", err)
		return nil, err
	}
	logger.Info("payment confirmation sequence settled", "orderId", result.OrderID, "alreadyPaid", result.AlreadyPaid)
	return &result, nil
}
