package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
	paymentactivities "github.com/Apurer/go-gin-shop-api/internal/platform/temporal/activities/payments"
	paymentworkflows "github.com/Apurer/go-gin-shop-api/internal/platform/temporal/workflows/payments"
)

var (
	_ ports.ConfirmationOrchestrator = (*TemporalConfirmations)(nil)
	_ ports.ConfirmationOrchestrator = (*InlineConfirmations)(nil)
)

// TemporalConfirmations runs payment confirmation as a Temporal workflow.
// The workflow id is derived from the intent id, so duplicate callbacks join the same run.
type TemporalConfirmations struct {
	client    client.Client
	taskQueue string
}

// NewTemporalConfirmations wires a Temporal client into the orchestrator.
func NewTemporalConfirmations(c client.Client) *TemporalConfirmations {
	return &TemporalConfirmations{client: c, taskQueue: paymentworkflows.PaymentConfirmationTaskQueue}
}

// Confirm starts, or joins, the confirmation workflow for the intent and waits for its result.
func (o *TemporalConfirmations) Confirm(ctx context.Context, input ports.ConfirmInput) (*ports.ConfirmResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal payment confirmations not configured")
	}
	workflowID := BuildConfirmationWorkflowID(input.IntentID)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		paymentworkflows.PaymentConfirmationWorkflow,
		paymentworkflows.PaymentConfirmationWorkflowInput{Confirm: input, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var result ports.ConfirmResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, paymentactivities.FromWorkflowError(err)
	}
	return &result, nil
}

// InlineConfirmations confirms payments synchronously without Temporal, useful for tests or dev fallbacks.
type InlineConfirmations struct {
	service ports.Service
}

// NewInlineConfirmations wraps the payments service for synchronous execution.
func NewInlineConfirmations(service ports.Service) *InlineConfirmations {
	return &InlineConfirmations{service: service}
}

// Confirm delegates to the application service.
func (o *InlineConfirmations) Confirm(ctx context.Context, input ports.ConfirmInput) (*ports.ConfirmResult, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline payment confirmations not configured")
	}
	return o.service.ConfirmPayment(ctx, input)
}

// BuildConfirmationWorkflowID maps an intent to its deterministic workflow id.
func BuildConfirmationWorkflowID(intentID string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(intentID)))
	// First 16 hex chars keep ids readable while staying deterministic.
	return fmt.Sprintf("payment-confirm-%s", hex.EncodeToString(sum[:8]))
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
