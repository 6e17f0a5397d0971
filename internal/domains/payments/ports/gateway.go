package ports

import (
	"context"

	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/domain"
)

// Gateway isolates the external payment provider. Implementations wrap every
// provider failure in *domain.GatewayError and never retry on their own.
type Gateway interface {
	CreateIntent(ctx context.Context, req domain.IntentRequest) (*domain.Intent, error)
	// ExecuteIntent fails with domain.ErrAlreadyExecuted when the intent was executed before.
	ExecuteIntent(ctx context.Context, intentID, payerToken string) (*domain.Capture, error)
	// LookupCapture reads the current provider state of an intent without changing it.
	LookupCapture(ctx context.Context, intentID string) (*domain.Capture, error)
}
