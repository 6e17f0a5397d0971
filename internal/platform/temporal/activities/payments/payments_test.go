package payments

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	ordersdomain "github.com/Apurer/go-gin-shop-api/internal/domains/orders/domain"
	paymentsapp "github.com/Apurer/go-gin-shop-api/internal/domains/payments/application"
	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/domain"
	paymentsports "github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
)

func TestToApplicationError_RoundTrip(t *testing.T) {
	cases := []error{
		fmt.Errorf("%w: payment id required", paymentsapp.ErrInvalidInput),
		paymentsports.ErrCaptureConflict,
		fmt.Errorf("%w: provider state %q", paymentsapp.ErrPaymentNotApproved, "failed"),
		domain.ErrInvalidReference,
		paymentsapp.ErrOrderNotFound,
		ordersdomain.ErrInvalidTransition,
	}
	for _, original := range cases {
		converted := toApplicationError(original)
		var appErr *temporal.ApplicationError
		require.ErrorAs(t, converted, &appErr)
		require.True(t, appErr.NonRetryable())

		restored := FromWorkflowError(converted)
		require.True(t, errors.Is(restored, unwrapSentinel(original)), "restored %v from %v", restored, original)
	}
}

func TestToApplicationError_GatewayFailure(t *testing.T) {
	converted := toApplicationError(domain.NewGatewayError("execute", context.DeadlineExceeded))
	restored := FromWorkflowError(converted)
	require.ErrorIs(t, restored, domain.ErrGateway)
}

func TestToApplicationError_InfrastructureErrorsStayRetryable(t *testing.T) {
	boom := errors.New("connection refused")
	require.Same(t, boom, toApplicationError(boom))
	require.Same(t, boom, FromWorkflowError(boom))
}

func unwrapSentinel(err error) error {
	for _, sentinel := range []error{
		paymentsapp.ErrInvalidInput,
		paymentsports.ErrCaptureConflict,
		paymentsapp.ErrPaymentNotApproved,
		domain.ErrInvalidReference,
		paymentsapp.ErrOrderNotFound,
		ordersdomain.ErrInvalidTransition,
	} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return err
}
