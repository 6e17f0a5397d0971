// Package sandbox provides an in-process payment gateway for local runs and tests.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
)

var _ ports.Gateway = (*Gateway)(nil)

var (
	ErrUnknownIntent   = errors.New("sandbox: unknown payment intent")
	ErrAlreadyExecuted = fmt.Errorf("sandbox: %w", domain.ErrAlreadyExecuted)
)

// SandboxPayerID is the payer token the sandbox embeds in its approval links.
const SandboxPayerID = "SANDBOX-PAYER"

type intent struct {
	request  domain.IntentRequest
	executed bool
	state    string
	payer    string
}

// Gateway approves every intent unless told otherwise.
type Gateway struct {
	mu       sync.Mutex
	seq      int
	intents  map[string]*intent
	declined map[string]string
	failNext error

	creates  int
	executes int
	lookups  int
}

// New returns an empty sandbox gateway.
func New() *Gateway {
	return &Gateway{
		intents:  map[string]*intent{},
		declined: map[string]string{},
	}
}

// CreateIntent registers the intent and returns an approval link pointing straight at the return URL.
func (g *Gateway) CreateIntent(ctx context.Context, req domain.IntentRequest) (*domain.Intent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.creates++
	if err := g.takeFailure(); err != nil {
		return nil, err
	}

	g.seq++
	id := fmt.Sprintf("PAY-SBX-%06d", g.seq)
	g.intents[id] = &intent{request: req, state: "created"}

	approval, err := url.Parse(req.ReturnURL)
	if err != nil {
		return nil, fmt.Errorf("sandbox: return url: %w", err)
	}
	query := approval.Query()
	query.Set("paymentId", id)
	query.Set("PayerID", SandboxPayerID)
	approval.RawQuery = query.Encode()

	return &domain.Intent{ID: id, ApprovalURL: approval.String(), Reference: req.Reference, State: "created"}, nil
}

// ExecuteIntent captures a previously created intent.
func (g *Gateway) ExecuteIntent(ctx context.Context, intentID, payerToken string) (*domain.Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.executes++
	if err := g.takeFailure(); err != nil {
		return nil, err
	}

	found, ok := g.intents[intentID]
	if !ok {
		return nil, ErrUnknownIntent
	}
	if found.executed {
		return nil, ErrAlreadyExecuted
	}
	found.executed = true
	found.payer = payerToken
	found.state = domain.StateApproved
	if state, declined := g.declined[intentID]; declined {
		found.state = state
	}
	return found.capture(intentID), nil
}

// LookupCapture reports the intent as the provider currently sees it.
func (g *Gateway) LookupCapture(ctx context.Context, intentID string) (*domain.Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lookups++
	if err := g.takeFailure(); err != nil {
		return nil, err
	}

	found, ok := g.intents[intentID]
	if !ok {
		return nil, ErrUnknownIntent
	}
	return found.capture(intentID), nil
}

func (i *intent) capture(intentID string) *domain.Capture {
	capture := &domain.Capture{
		IntentID:  intentID,
		State:     i.state,
		Reference: i.request.Reference,
		PayerID:   i.payer,
	}
	if i.executed {
		capture.TransactionID = "SALE-" + intentID
	}
	return capture
}

// Decline makes the next execution of the intent report the given provider state.
func (g *Gateway) Decline(intentID, state string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.declined[intentID] = state
}

// FailNext makes the next provider call fail with err.
func (g *Gateway) FailNext(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failNext = err
}

// Lookups reports how many lookup calls reached the sandbox.
func (g *Gateway) Lookups() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lookups
}

// Calls reports how many create and execute calls reached the sandbox.
func (g *Gateway) Calls() (creates, executes int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.creates, g.executes
}

func (g *Gateway) takeFailure() error {
	err := g.failNext
	g.failNext = nil
	return err
}
