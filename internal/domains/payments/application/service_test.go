package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/go-gin-shop-api/internal/domains/orders/adapters/catalog/memory"
	ordersmemory "github.com/Apurer/go-gin-shop-api/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/go-gin-shop-api/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/go-gin-shop-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-shop-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/adapters/gateway/sandbox"
	paymentsmemory "github.com/Apurer/go-gin-shop-api/internal/domains/payments/adapters/memory"
	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
	"github.com/Apurer/go-gin-shop-api/internal/shared/identity"
)

var testConfig = Config{
	ReturnURL: "http://localhost:8080/payment/success",
	CancelURL: "http://localhost:8080/payment/cancel",
}

type fixture struct {
	svc      *Service
	orders   *ordersapp.Service
	gateway  *sandbox.Gateway
	captures *paymentsmemory.CaptureStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog := catalogmemory.NewCatalog(map[int64]decimal.Decimal{
		1: decimal.RequireFromString("5.00"),
		2: decimal.RequireFromString("3.50"),
		3: decimal.Zero,
	})
	orders := ordersapp.NewService(ordersmemory.NewRepository(), catalog)
	gateway := sandbox.New()
	captures := paymentsmemory.NewCaptureStore()
	return &fixture{
		svc:      NewService(orders, gateway, captures, testConfig),
		orders:   orders,
		gateway:  gateway,
		captures: captures,
	}
}

func (f *fixture) placeOrder(t *testing.T, items ...ordersports.ItemInput) *ordersdomain.Order {
	t.Helper()
	if len(items) == 0 {
		items = []ordersports.ItemInput{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}}
	}
	order, err := f.orders.CreateOrder(context.Background(), ordersports.CreateOrderInput{
		Owner: identity.User(1),
		Items: items,
	})
	require.NoError(t, err)
	return order
}

func (f *fixture) orderStatus(t *testing.T, id int64) ordersdomain.Status {
	t.Helper()
	order, err := f.orders.LookupOrder(context.Background(), id)
	require.NoError(t, err)
	return order.Status
}

func TestPaymentLifecycle_InitiateThenConfirm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.placeOrder(t)
	require.True(t, order.TotalAmount.Equal(decimal.RequireFromString("13.50")))

	initiated, err := f.svc.InitiatePayment(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, initiated.OrderID)
	require.NotEmpty(t, initiated.IntentID)
	require.NotEmpty(t, initiated.RedirectURL)
	require.Equal(t, ordersdomain.StatusPending, f.orderStatus(t, order.ID))

	result, err := f.svc.ConfirmPayment(ctx, ports.ConfirmInput{IntentID: initiated.IntentID, PayerToken: sandbox.SandboxPayerID})
	require.NoError(t, err)
	require.Equal(t, order.ID, result.OrderID)
	require.Equal(t, string(ordersdomain.StatusPaid), result.OrderStatus)
	require.Equal(t, domain.StateApproved, result.State)
	require.False(t, result.AlreadyPaid)
	require.False(t, result.Replayed)
	require.Equal(t, ordersdomain.StatusPaid, f.orderStatus(t, order.ID))
}

func TestConfirmPayment_DuplicateCallbackIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.placeOrder(t)
	initiated, err := f.svc.InitiatePayment(ctx, order.ID)
	require.NoError(t, err)
	input := ports.ConfirmInput{IntentID: initiated.IntentID, PayerToken: sandbox.SandboxPayerID}

	_, err = f.svc.ConfirmPayment(ctx, input)
	require.NoError(t, err)

	again, err := f.svc.ConfirmPayment(ctx, input)
	require.NoError(t, err)
	require.True(t, again.Replayed)
	require.True(t, again.AlreadyPaid)
	require.Equal(t, string(ordersdomain.StatusPaid), again.OrderStatus)

	_, executes := f.gateway.Calls()
	require.Equal(t, 1, executes)
}

func TestConfirmPayment_ConcurrentDuplicatesExecuteOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.placeOrder(t)
	initiated, err := f.svc.InitiatePayment(ctx, order.ID)
	require.NoError(t, err)
	input := ports.ConfirmInput{IntentID: initiated.IntentID, PayerToken: sandbox.SandboxPayerID}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.ConfirmPayment(ctx, input)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	_, executes := f.gateway.Calls()
	require.Equal(t, 1, executes)
	require.Equal(t, 1, f.captures.Len())
	require.Equal(t, ordersdomain.StatusPaid, f.orderStatus(t, order.ID))
}

func TestConfirmPayment_ConflictingPayerToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.placeOrder(t)
	initiated, err := f.svc.InitiatePayment(ctx, order.ID)
	require.NoError(t, err)

	_, err = f.svc.ConfirmPayment(ctx, ports.ConfirmInput{IntentID: initiated.IntentID, PayerToken: sandbox.SandboxPayerID})
	require.NoError(t, err)

	_, err = f.svc.ConfirmPayment(ctx, ports.ConfirmInput{IntentID: initiated.IntentID, PayerToken: "someone-else"})
	require.ErrorIs(t, err, ports.ErrCaptureConflict)
}

type flakyCaptureStore struct {
	ports.CaptureStore
	failSaves int
}

func (s *flakyCaptureStore) Save(ctx context.Context, record ports.CaptureRecord) (*ports.CaptureRecord, error) {
	if s.failSaves > 0 {
		s.failSaves--
		return nil, errors.New("db: connection reset")
	}
	return s.CaptureStore.Save(ctx, record)
}

func TestConfirmPayment_RedeliveryAfterLostLedgerWriteSettles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.placeOrder(t)
	store := &flakyCaptureStore{CaptureStore: f.captures, failSaves: 1}
	svc := NewService(f.orders, f.gateway, store, testConfig)

	initiated, err := svc.InitiatePayment(ctx, order.ID)
	require.NoError(t, err)
	input := ports.ConfirmInput{IntentID: initiated.IntentID, PayerToken: sandbox.SandboxPayerID}

	_, err = svc.ConfirmPayment(ctx, input)
	require.ErrorContains(t, err, "connection reset")
	require.Equal(t, ordersdomain.StatusPending, f.orderStatus(t, order.ID))

	result, err := svc.ConfirmPayment(ctx, input)
	require.NoError(t, err)
	require.Equal(t, string(ordersdomain.StatusPaid), result.OrderStatus)
	require.Equal(t, "SALE-"+initiated.IntentID, result.TransactionID)
	require.Equal(t, ordersdomain.StatusPaid, f.orderStatus(t, order.ID))
	require.Equal(t, 1, f.captures.Len())
	require.Equal(t, 1, f.gateway.Lookups())

	again, err := svc.ConfirmPayment(ctx, input)
	require.NoError(t, err)
	require.True(t, again.Replayed)
	require.True(t, again.AlreadyPaid)
}

func TestConfirmPayment_RecoveredCaptureForOtherPayerConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.placeOrder(t)
	store := &flakyCaptureStore{CaptureStore: f.captures, failSaves: 1}
	svc := NewService(f.orders, f.gateway, store, testConfig)

	initiated, err := svc.InitiatePayment(ctx, order.ID)
	require.NoError(t, err)
	_, err = svc.ConfirmPayment(ctx, ports.ConfirmInput{IntentID: initiated.IntentID, PayerToken: sandbox.SandboxPayerID})
	require.Error(t, err)

	_, err = svc.ConfirmPayment(ctx, ports.ConfirmInput{IntentID: initiated.IntentID, PayerToken: "someone-else"})
	require.ErrorIs(t, err, ports.ErrCaptureConflict)
	require.Equal(t, ordersdomain.StatusPending, f.orderStatus(t, order.ID))
	require.Zero(t, f.captures.Len())
}

func TestInitiatePayment_ZeroTotalNeverReachesGateway(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder(t, ordersports.ItemInput{ProductID: 3, Quantity: 1})

	_, err := f.svc.InitiatePayment(context.Background(), order.ID)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	creates, _ := f.gateway.Calls()
	require.Zero(t, creates)
}

func TestInitiatePayment_OrderErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.InitiatePayment(ctx, 0)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.InitiatePayment(ctx, 999)
	require.ErrorIs(t, err, ErrOrderNotFound)

	order := f.placeOrder(t)
	_, err = f.orders.UpdateStatus(ctx, ordersports.UpdateStatusInput{OrderID: order.ID, Status: "CANCELED", Requester: identity.User(1)})
	require.NoError(t, err)
	_, err = f.svc.InitiatePayment(ctx, order.ID)
	require.ErrorIs(t, err, ErrOrderNotPayable)
}

func TestInitiatePayment_GatewayFailureIsWrapped(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder(t)
	f.gateway.FailNext(errors.New("connection reset"))

	_, err := f.svc.InitiatePayment(context.Background(), order.ID)
	require.ErrorIs(t, err, domain.ErrGateway)
	var gwErr *domain.GatewayError
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, "create", gwErr.Op)
}

type missingRedirectGateway struct{ ports.Gateway }

func (missingRedirectGateway) CreateIntent(context.Context, domain.IntentRequest) (*domain.Intent, error) {
	return &domain.Intent{ID: "PAY-1"}, nil
}

func TestInitiatePayment_MissingRedirect(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder(t)
	svc := NewService(f.orders, missingRedirectGateway{}, f.captures, testConfig)

	_, err := svc.InitiatePayment(context.Background(), order.ID)
	require.ErrorIs(t, err, domain.ErrGateway)
	require.ErrorIs(t, err, domain.ErrMissingRedirect)
}

type blockingGateway struct{ ports.Gateway }

func (blockingGateway) ExecuteIntent(ctx context.Context, _, _ string) (*domain.Capture, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestConfirmPayment_GatewayTimeoutLeavesOrderPending(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder(t)
	cfg := testConfig
	cfg.GatewayTimeout = 20 * time.Millisecond
	svc := NewService(f.orders, blockingGateway{}, f.captures, cfg)

	_, err := svc.ConfirmPayment(context.Background(), ports.ConfirmInput{IntentID: "PAY-1", PayerToken: "p"})
	require.ErrorIs(t, err, domain.ErrGateway)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, ordersdomain.StatusPending, f.orderStatus(t, order.ID))
	require.Zero(t, f.captures.Len())
}

func TestConfirmPayment_NotApprovedLeavesOrderUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.placeOrder(t)
	initiated, err := f.svc.InitiatePayment(ctx, order.ID)
	require.NoError(t, err)
	f.gateway.Decline(initiated.IntentID, "failed")

	_, err = f.svc.ConfirmPayment(ctx, ports.ConfirmInput{IntentID: initiated.IntentID, PayerToken: sandbox.SandboxPayerID})
	require.ErrorIs(t, err, ErrPaymentNotApproved)
	require.Equal(t, ordersdomain.StatusPending, f.orderStatus(t, order.ID))
	require.Zero(t, f.captures.Len())
}

func TestConfirmPayment_RequiresIdentifiers(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ConfirmPayment(context.Background(), ports.ConfirmInput{IntentID: " ", PayerToken: "p"})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.ConfirmPayment(context.Background(), ports.ConfirmInput{IntentID: "PAY-1"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSettleOrder_UnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SettleOrder(context.Background(), ports.CaptureOutcome{IntentID: "PAY-1", OrderID: 404, State: domain.StateApproved})
	require.ErrorIs(t, err, ErrOrderNotFound)

	_, err = f.svc.SettleOrder(context.Background(), ports.CaptureOutcome{IntentID: "PAY-1"})
	require.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestCancelPayment(t *testing.T) {
	f := newFixture(t)
	order := f.placeOrder(t)

	result := f.svc.CancelPayment(context.Background())
	require.Equal(t, "Payment cancelled", result.Message)
	require.Equal(t, ordersdomain.StatusPending, f.orderStatus(t, order.ID))
}

func TestFingerprintConfirmation_TrimsInput(t *testing.T) {
	a, err := FingerprintConfirmation(ports.ConfirmInput{IntentID: "PAY-1", PayerToken: "p"})
	require.NoError(t, err)
	b, err := FingerprintConfirmation(ports.ConfirmInput{IntentID: " PAY-1 ", PayerToken: "p\n"})
	require.NoError(t, err)
	c, err := FingerprintConfirmation(ports.ConfirmInput{IntentID: "PAY-1", PayerToken: "q"})
	require.NoError(t, err)

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}
