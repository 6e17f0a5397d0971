package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	ordersdomain "github.com/Apurer/go-gin-shop-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-shop-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
)

// DefaultGatewayTimeout bounds each provider call when none is configured.
const DefaultGatewayTimeout = 15 * time.Second

// Config carries the URLs the payer is sent back to after approval.
type Config struct {
	ReturnURL      string
	CancelURL      string
	GatewayTimeout time.Duration
}

// Service reconciles gateway payments with the order lifecycle.
type Service struct {
	orders   ports.Orders
	gateway  ports.Gateway
	captures ports.CaptureStore
	cfg      Config
	inflight singleflight.Group
}

// NewService wires the reconciler with its collaborators.
func NewService(orders ports.Orders, gateway ports.Gateway, captures ports.CaptureStore, cfg Config) *Service {
	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = DefaultGatewayTimeout
	}
	return &Service{orders: orders, gateway: gateway, captures: captures, cfg: cfg}
}

// InitiatePayment creates a provider intent for the order total. The order stays PENDING.
func (s *Service) InitiatePayment(ctx context.Context, orderID int64) (*ports.InitiateResult, error) {
	if orderID <= 0 {
		return nil, fmt.Errorf("%w: order id must be positive", ErrInvalidInput)
	}
	order, err := s.orders.LookupOrder(ctx, orderID)
	if err != nil {
		return nil, mapOrderError(err)
	}
	req := domain.IntentRequest{
		Amount:      order.TotalAmount,
		Currency:    domain.Currency,
		Description: domain.OrderDescription(order.ID),
		Reference:   domain.OrderReference(order.ID),
		ReturnURL:   s.cfg.ReturnURL,
		CancelURL:   s.cfg.CancelURL,
	}
	if !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if order.Status != ordersdomain.StatusPending {
		return nil, fmt.Errorf("%w: status %s", ErrOrderNotPayable, order.Status)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()
	intent, err := s.gateway.CreateIntent(callCtx, req)
	if err != nil {
		return nil, domain.NewGatewayError("create", err)
	}
	if intent == nil || strings.TrimSpace(intent.ApprovalURL) == "" {
		return nil, domain.NewGatewayError("create", domain.ErrMissingRedirect)
	}
	return &ports.InitiateResult{
		OrderID:     order.ID,
		IntentID:    intent.ID,
		RedirectURL: intent.ApprovalURL,
	}, nil
}

// CapturePayment executes the intent at the provider and records the capture.
// A capture already recorded for the intent is replayed without calling the provider,
// and concurrent duplicates in this process share one provider call. An intent the
// provider already executed but the ledger never recorded is read back and recorded.
func (s *Service) CapturePayment(ctx context.Context, input ports.ConfirmInput) (*ports.CaptureOutcome, error) {
	input.IntentID = strings.TrimSpace(input.IntentID)
	input.PayerToken = strings.TrimSpace(input.PayerToken)
	if input.IntentID == "" || input.PayerToken == "" {
		return nil, fmt.Errorf("%w: payment id and payer id are required", ErrInvalidInput)
	}
	result, err, _ := s.inflight.Do(input.IntentID, func() (any, error) {
		return s.capture(ctx, input)
	})
	if err != nil {
		return nil, err
	}
	outcome := *result.(*ports.CaptureOutcome)
	return &outcome, nil
}

func (s *Service) capture(ctx context.Context, input ports.ConfirmInput) (*ports.CaptureOutcome, error) {
	hash, err := FingerprintConfirmation(input)
	if err != nil {
		return nil, err
	}
	existing, err := s.captures.Get(ctx, input.IntentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.RequestHash != hash {
			return nil, ports.ErrCaptureConflict
		}
		return outcomeFromRecord(existing, true), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()
	capture, err := s.gateway.ExecuteIntent(callCtx, input.IntentID, input.PayerToken)
	switch {
	case errors.Is(err, domain.ErrAlreadyExecuted):
		// Executed earlier but never recorded, e.g. the ledger write failed.
		if capture, err = s.lookupExecuted(callCtx, input); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, domain.NewGatewayError("execute", err)
	}
	if !capture.Approved() {
		return nil, fmt.Errorf("%w: provider state %q", ErrPaymentNotApproved, capture.State)
	}
	orderID, err := capture.OrderID()
	if err != nil {
		return nil, err
	}
	stored, err := s.captures.Save(ctx, ports.CaptureRecord{
		IntentID:      input.IntentID,
		RequestHash:   hash,
		OrderID:       orderID,
		State:         capture.State,
		TransactionID: capture.TransactionID,
	})
	if err != nil {
		return nil, err
	}
	return outcomeFromRecord(stored, false), nil
}

func (s *Service) lookupExecuted(ctx context.Context, input ports.ConfirmInput) (*domain.Capture, error) {
	capture, err := s.gateway.LookupCapture(ctx, input.IntentID)
	if err != nil {
		return nil, domain.NewGatewayError("lookup", err)
	}
	if capture.PayerID != "" && capture.PayerID != input.PayerToken {
		return nil, ports.ErrCaptureConflict
	}
	return capture, nil
}

// SettleOrder marks the captured order PAID as the system identity.
func (s *Service) SettleOrder(ctx context.Context, outcome ports.CaptureOutcome) (*ports.ConfirmResult, error) {
	if outcome.OrderID <= 0 {
		return nil, domain.ErrInvalidReference
	}
	order, alreadyPaid, err := s.orders.MarkPaid(ctx, outcome.OrderID)
	if err != nil {
		return nil, mapOrderError(err)
	}
	return &ports.ConfirmResult{
		IntentID:      outcome.IntentID,
		OrderID:       order.ID,
		OrderStatus:   string(order.Status),
		State:         outcome.State,
		TransactionID: outcome.TransactionID,
		AlreadyPaid:   alreadyPaid,
		Replayed:      outcome.Replayed,
	}, nil
}

// ConfirmPayment handles the provider's completion callback end to end.
func (s *Service) ConfirmPayment(ctx context.Context, input ports.ConfirmInput) (*ports.ConfirmResult, error) {
	outcome, err := s.CapturePayment(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.SettleOrder(ctx, *outcome)
}

// CancelPayment acknowledges that the payer abandoned approval. Nothing changes.
func (s *Service) CancelPayment(context.Context) ports.CancelResult {
	return ports.CancelResult{Message: "Payment cancelled"}
}

func outcomeFromRecord(record *ports.CaptureRecord, replayed bool) *ports.CaptureOutcome {
	return &ports.CaptureOutcome{
		IntentID:      record.IntentID,
		OrderID:       record.OrderID,
		State:         record.State,
		TransactionID: record.TransactionID,
		Replayed:      replayed,
	}
}

func mapOrderError(err error) error {
	if errors.Is(err, ordersports.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrOrderNotFound, err)
	}
	return err
}

var _ ports.Service = (*Service)(nil)
