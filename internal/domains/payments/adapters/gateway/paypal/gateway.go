// Package paypal adapts the PayPal payments client to the gateway port.
package paypal

import (
	"context"
	"errors"
	"fmt"

	paypalclient "github.com/Apurer/go-gin-shop-api/internal/clients/http/paypal"
	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
)

// Gateway implements the payment gateway port against PayPal.
type Gateway struct {
	client *paypalclient.Client
}

// NewGateway wires a PayPal client into the gateway adapter.
func NewGateway(client *paypalclient.Client) *Gateway {
	return &Gateway{client: client}
}

// CreateIntent creates a sale payment for the payer to approve.
func (g *Gateway) CreateIntent(ctx context.Context, req domain.IntentRequest) (*domain.Intent, error) {
	if g == nil || g.client == nil {
		return nil, domain.NewGatewayError("create", errors.New("paypal gateway not configured"))
	}
	payment, err := g.client.CreatePayment(ctx, toPaymentRequest(req))
	if err != nil {
		return nil, domain.NewGatewayError("create", err)
	}
	return &domain.Intent{
		ID:          payment.ID,
		ApprovalURL: payment.ApprovalURL(),
		Reference:   req.Reference,
		State:       payment.State,
	}, nil
}

// ExecuteIntent captures the approved payment.
func (g *Gateway) ExecuteIntent(ctx context.Context, intentID, payerToken string) (*domain.Capture, error) {
	if g == nil || g.client == nil {
		return nil, domain.NewGatewayError("execute", errors.New("paypal gateway not configured"))
	}
	payment, err := g.client.ExecutePayment(ctx, intentID, payerToken)
	if err != nil {
		var apiErr *paypalclient.APIError
		if errors.As(err, &apiErr) && apiErr.AlreadyExecuted() {
			err = fmt.Errorf("%w: %w", domain.ErrAlreadyExecuted, err)
		}
		return nil, domain.NewGatewayError("execute", err)
	}
	return toCapture(payment), nil
}

// LookupCapture shows the payment without executing it.
func (g *Gateway) LookupCapture(ctx context.Context, intentID string) (*domain.Capture, error) {
	if g == nil || g.client == nil {
		return nil, domain.NewGatewayError("lookup", errors.New("paypal gateway not configured"))
	}
	payment, err := g.client.GetPayment(ctx, intentID)
	if err != nil {
		return nil, domain.NewGatewayError("lookup", err)
	}
	return toCapture(payment), nil
}

var _ ports.Gateway = (*Gateway)(nil)
