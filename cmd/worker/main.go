package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-shop-api/internal/app/api"
	platformobservability "github.com/Apurer/go-gin-shop-api/internal/platform/observability"
	paymentactivities "github.com/Apurer/go-gin-shop-api/internal/platform/temporal/activities/payments"
	paymentworkflows "github.com/Apurer/go-gin-shop-api/internal/platform/temporal/workflows/payments"
)

func main() {
	ctx := context.Background()
	const serviceName = "shop-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.OptionsFromEnv(serviceName))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	components, cleanup, err := api.BuildComponents(ctx, cfg, instruments)
	if err != nil {
		logger.Error("failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()
	if !components.Shared {
		logger.Warn("worker running without postgres; captures and orders will not be shared with the API")
	}
	activities := paymentactivities.NewActivities(components.Payments)

	temporalClient, err := api.ConnectTemporal(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, paymentworkflows.PaymentConfirmationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(paymentworkflows.PaymentConfirmationWorkflow, workflow.RegisterOptions{Name: paymentworkflows.PaymentConfirmationWorkflowName})
	w.RegisterActivityWithOptions(activities.CapturePayment, activity.RegisterOptions{Name: paymentactivities.CapturePaymentActivityName})
	w.RegisterActivityWithOptions(activities.SettleOrder, activity.RegisterOptions{Name: paymentactivities.SettleOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", paymentworkflows.PaymentConfirmationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
