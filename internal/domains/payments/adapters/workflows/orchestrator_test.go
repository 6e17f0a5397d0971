package workflows

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
)

type stubService struct {
	ports.Service
	calls int
}

func (s *stubService) ConfirmPayment(_ context.Context, input ports.ConfirmInput) (*ports.ConfirmResult, error) {
	s.calls++
	return &ports.ConfirmResult{IntentID: input.IntentID, OrderID: 7, OrderStatus: "PAID"}, nil
}

func TestBuildConfirmationWorkflowID_IsDeterministic(t *testing.T) {
	a := BuildConfirmationWorkflowID("PAY-1")
	require.Equal(t, a, BuildConfirmationWorkflowID(" PAY-1 "))
	require.NotEqual(t, a, BuildConfirmationWorkflowID("PAY-2"))
	require.Len(t, a, len("payment-confirm-")+16)
}

func TestInlineConfirmations_DelegatesToService(t *testing.T) {
	svc := &stubService{}
	result, err := NewInlineConfirmations(svc).Confirm(context.Background(), ports.ConfirmInput{IntentID: "PAY-1", PayerToken: "p"})
	require.NoError(t, err)
	require.Equal(t, int64(7), result.OrderID)
	require.Equal(t, 1, svc.calls)

	_, err = (*InlineConfirmations)(nil).Confirm(context.Background(), ports.ConfirmInput{})
	require.Error(t, err)
}
