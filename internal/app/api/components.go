package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	paypalclient "github.com/Apurer/go-gin-shop-api/internal/clients/http/paypal"
	catalogmemory "github.com/Apurer/go-gin-shop-api/internal/domains/orders/adapters/catalog/memory"
	catalogpostgres "github.com/Apurer/go-gin-shop-api/internal/domains/orders/adapters/catalog/postgres"
	orderevents "github.com/Apurer/go-gin-shop-api/internal/domains/orders/adapters/events"
	ordersmemory "github.com/Apurer/go-gin-shop-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/go-gin-shop-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/go-gin-shop-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/go-gin-shop-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-gin-shop-api/internal/domains/orders/ports"
	paypalgateway "github.com/Apurer/go-gin-shop-api/internal/domains/payments/adapters/gateway/paypal"
	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/adapters/gateway/sandbox"
	paymentsmemory "github.com/Apurer/go-gin-shop-api/internal/domains/payments/adapters/memory"
	paymentsobs "github.com/Apurer/go-gin-shop-api/internal/domains/payments/adapters/observability"
	paymentspostgres "github.com/Apurer/go-gin-shop-api/internal/domains/payments/adapters/persistence/postgres"
	paymentsapp "github.com/Apurer/go-gin-shop-api/internal/domains/payments/application"
	paymentsports "github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
	sessionsmemory "github.com/Apurer/go-gin-shop-api/internal/domains/sessions/adapters/memory"
	sessionspostgres "github.com/Apurer/go-gin-shop-api/internal/domains/sessions/adapters/persistence/postgres"
	sessionports "github.com/Apurer/go-gin-shop-api/internal/domains/sessions/ports"
	platformkafka "github.com/Apurer/go-gin-shop-api/internal/platform/kafka"
	"github.com/Apurer/go-gin-shop-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-shop-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-shop-api/internal/platform/postgres"
)

// Components are the wired application services shared by the API and the worker.
type Components struct {
	Orders   ordersports.Service
	Payments paymentsports.Service
	Sessions sessionports.SessionStore
	// Shared is true when state lives in Postgres and is therefore visible to other processes.
	Shared bool
}

// BuildComponents selects Postgres or in-memory adapters, the Kafka or noop publisher,
// and the PayPal or sandbox gateway, then wraps the services with observability.
// The returned cleanup closes every opened connection.
func BuildComponents(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Components, func(), error) {
	logger := effectiveLogger(instruments)
	cleanups := []func(){}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	db, closeDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	cleanups = append(cleanups, closeDB)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	var (
		orderRepo ordersports.Repository
		catalog   ordersports.Catalog
		captures  paymentsports.CaptureStore
		sessions  sessionports.SessionStore
	)
	if db != nil {
		orderRepo = orderspostgres.NewRepository(db)
		catalog = catalogpostgres.NewCatalog(db)
		captures = paymentspostgres.NewCaptureStore(db)
		sessions = sessionspostgres.NewSessionStore(db, cfg.SessionTTL)
	} else {
		orderRepo = ordersmemory.NewRepository()
		catalog = catalogmemory.NewSampleCatalog()
		captures = paymentsmemory.NewCaptureStore()
		sessions = sessionsmemory.NewSessionStore(cfg.SessionTTL)
	}
	for token, userID := range cfg.SessionSeedTokens {
		if err := sessions.Save(ctx, userID, token); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to seed session: %w", err)
		}
	}

	publisher := ordersports.NoopEventPublisher
	if kafkaClient := platformkafka.NewClient(cfg.KafkaBrokers); kafkaClient.Enabled() {
		writer := kafkaClient.NewWriter(cfg.KafkaOrderTopic)
		cleanups = append(cleanups, func() { _ = writer.Close() })
		publisher = orderevents.NewKafkaPublisher(writer)
		logger.Info("order events published to kafka", slog.String("topic", cfg.KafkaOrderTopic))
	}

	coreOrders := ordersapp.NewService(orderRepo, catalog,
		ordersapp.WithEventPublisher(publisher),
		ordersapp.WithLogger(logger),
	)
	orders := ordersobs.New(
		coreOrders,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	gateway, err := buildGateway(cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	corePayments := paymentsapp.NewService(orders, gateway, captures, paymentsapp.Config{
		ReturnURL:      cfg.PaymentReturnURL,
		CancelURL:      cfg.PaymentCancelURL,
		GatewayTimeout: cfg.PaymentGatewayTimeout,
	})
	payments := paymentsobs.New(
		corePayments,
		paymentsobs.WithLogger(logger),
		paymentsobs.WithTracer(instruments.Tracer("internal.payments.application")),
		paymentsobs.WithMeter(instruments.Meter("internal.payments.application")),
	)

	return &Components{Orders: orders, Payments: payments, Sessions: sessions, Shared: db != nil}, cleanup, nil
}

func buildGateway(cfg Config, logger *slog.Logger) (paymentsports.Gateway, error) {
	if !cfg.PayPalEnabled() {
		logger.Warn("PAYPAL_CLIENT_ID/PAYPAL_CLIENT_SECRET not set, using the sandbox gateway")
		return sandbox.New(), nil
	}
	ppClient, err := paypalclient.NewClient(paypalclient.Config{
		ClientID:     cfg.PayPalClientID,
		ClientSecret: cfg.PayPalClientSecret,
		Mode:         cfg.PayPalMode,
		Timeout:      cfg.PaymentGatewayTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure paypal client: %w", err)
	}
	logger.Info("payment gateway configured", slog.String("provider", "paypal"), slog.String("mode", cfg.PayPalMode))
	return paypalgateway.NewGateway(ppClient), nil
}

// ConnectTemporal dials Temporal with OpenTelemetry tracing and the process logger.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
