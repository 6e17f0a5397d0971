//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pacttest "github.com/Apurer/go-gin-shop-api/test/pact"

	shopserver "github.com/Apurer/go-gin-shop-api/go"
	catalogmemory "github.com/Apurer/go-gin-shop-api/internal/domains/orders/adapters/catalog/memory"
	ordersmemory "github.com/Apurer/go-gin-shop-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/go-gin-shop-api/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Apurer/go-gin-shop-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-gin-shop-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/adapters/gateway/sandbox"
	paymentsmemory "github.com/Apurer/go-gin-shop-api/internal/domains/payments/adapters/memory"
	paymentsobs "github.com/Apurer/go-gin-shop-api/internal/domains/payments/adapters/observability"
	paymentsworkflows "github.com/Apurer/go-gin-shop-api/internal/domains/payments/adapters/workflows"
	paymentsapp "github.com/Apurer/go-gin-shop-api/internal/domains/payments/application"
	sessionsmemory "github.com/Apurer/go-gin-shop-api/internal/domains/sessions/adapters/memory"
	"github.com/Apurer/go-gin-shop-api/internal/shared/identity"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestShopProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	resetOnly := func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
		app.reset(t)
		return nil, nil
	}
	withOrder := func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
		app.reset(t)
		if setup {
			app.seedOrder(t)
		}
		return nil, nil
	}
	stateHandlers := models.StateHandlers{
		pacttest.StateOrdersBaseline: resetOnly,
		pacttest.StateOrderMissing:   resetOnly,
		pacttest.StateOrderExists:    withOrder,
		pacttest.StatePayableOrder:   withOrder,
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds its in-memory stores per provider state so order ids restart at 1.
type contractProviderApp struct {
	mu      sync.RWMutex
	orders  ordersports.Service
	handler http.Handler
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		handler := app.handler
		app.mu.RUnlock()
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	orders := ordersobs.New(ordersapp.NewService(ordersmemory.NewRepository(), catalogmemory.NewSampleCatalog()))
	payments := paymentsobs.New(paymentsapp.NewService(orders, sandbox.New(), paymentsmemory.NewCaptureStore(), paymentsapp.Config{
		ReturnURL: "http://localhost:8080/payment/success",
		CancelURL: "http://localhost:8080/payment/cancel",
	}))
	sessions := sessionsmemory.NewSessionStore(0)
	require.NoError(t, sessions.Save(context.Background(), pacttest.PactUserID, pacttest.PactToken))

	handlers := shopserver.ApiHandleFunctions{
		OrderAPI:   shopserver.NewOrderAPI(orders),
		PaymentAPI: shopserver.NewPaymentAPI(payments, paymentsworkflows.NewInlineConfirmations(payments)),
	}
	router := shopserver.NewRouterWithGinEngine(gin.New(), handlers, shopserver.WithSessions(sessions))

	a.mu.Lock()
	defer a.mu.Unlock()
	a.orders = orders
	a.handler = router
}

func (a *contractProviderApp) seedOrder(t testing.TB) {
	t.Helper()
	a.mu.RLock()
	orders := a.orders
	a.mu.RUnlock()
	order, err := orders.CreateOrder(context.Background(), ordersports.CreateOrderInput{
		Owner: identity.User(pacttest.PactUserID),
		Items: []ordersports.ItemInput{
			{ProductID: pacttest.ProductBookID, Quantity: 2},
			{ProductID: pacttest.ProductPenID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, pacttest.ExistingOrderID, order.ID)
}
