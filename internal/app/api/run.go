package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	shopserver "github.com/Apurer/go-gin-shop-api/go"
	paymentsworkflows "github.com/Apurer/go-gin-shop-api/internal/domains/payments/adapters/workflows"
	paymentsports "github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
	platformobservability "github.com/Apurer/go-gin-shop-api/internal/platform/observability"
)

const serviceName = "shop-api"

// Run boots the shop HTTP API and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.OptionsFromEnv(serviceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	components, cleanup, err := BuildComponents(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer cleanup()

	var confirmations paymentsports.ConfirmationOrchestrator = paymentsworkflows.NewInlineConfirmations(components.Payments)
	if !components.Shared {
		logger.Warn("in-memory state is not visible to the Temporal worker, confirming payments inline")
	} else if temporalClient, err := ConnectTemporal(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, confirming payments inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		confirmations = paymentsworkflows.NewTemporalConfirmations(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := shopserver.ApiHandleFunctions{
		OrderAPI:   shopserver.NewOrderAPI(components.Orders),
		PaymentAPI: shopserver.NewPaymentAPI(components.Payments, confirmations),
	}
	router := shopserver.NewRouter(handlers,
		shopserver.WithLogger(logger),
		shopserver.WithSessions(components.Sessions),
		shopserver.WithMetrics(shopserver.NewServerMetrics("api")),
		shopserver.WithMiddleware(otelgin.Middleware(serviceName)),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("shop API listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("shop API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	logger.Info("shop API stopped")
	return nil
}
