package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	paymentsports "github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
)

const tracerName = "github.com/Apurer/go-gin-shop-api/internal/domains/payments/adapters/observability/service"

// Service decorates the payments service with tracing, logging, and metrics.
type Service struct {
	inner   paymentsports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core payments service.
func New(inner paymentsports.Service, opts ...Option) paymentsports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.Default(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) InitiatePayment(ctx context.Context, orderID int64) (*paymentsports.InitiateResult, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.InitiatePayment", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	s.logInfo(ctx, "initiating payment", slog.Int64("order.id", orderID))
	result, err := s.inner.InitiatePayment(ctx, orderID)
	if err != nil {
		s.metrics.recordOutcome(ctx, "initiate", "error")
		return nil, s.handleError(ctx, span, err, "failed to initiate payment", slog.Int64("order.id", orderID))
	}
	span.SetAttributes(attribute.String("payment.intent_id", result.IntentID))
	s.metrics.recordOutcome(ctx, "initiate", "ok")
	s.logInfo(ctx, "payment initiated", slog.Int64("order.id", orderID), slog.String("payment.intent_id", result.IntentID))
	return result, nil
}

func (s *Service) CapturePayment(ctx context.Context, input paymentsports.ConfirmInput) (*paymentsports.CaptureOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.CapturePayment", trace.WithAttributes(attribute.String("payment.intent_id", input.IntentID)))
	defer span.End()

	result, err := s.inner.CapturePayment(ctx, input)
	if err != nil {
		s.metrics.recordOutcome(ctx, "capture", "error")
		return nil, s.handleError(ctx, span, err, "failed to capture payment", slog.String("payment.intent_id", input.IntentID))
	}
	span.SetAttributes(attribute.Int64("order.id", result.OrderID), attribute.Bool("payment.replayed", result.Replayed))
	s.metrics.recordOutcome(ctx, "capture", replayLabel(result.Replayed))
	s.logInfo(ctx, "payment captured", slog.String("payment.intent_id", input.IntentID), slog.Int64("order.id", result.OrderID), slog.Bool("replayed", result.Replayed))
	return result, nil
}

func (s *Service) SettleOrder(ctx context.Context, outcome paymentsports.CaptureOutcome) (*paymentsports.ConfirmResult, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.SettleOrder", trace.WithAttributes(attribute.Int64("order.id", outcome.OrderID)))
	defer span.End()

	result, err := s.inner.SettleOrder(ctx, outcome)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to settle order", slog.Int64("order.id", outcome.OrderID))
	}
	span.SetAttributes(attribute.Bool("order.already_paid", result.AlreadyPaid))
	return result, nil
}

func (s *Service) ConfirmPayment(ctx context.Context, input paymentsports.ConfirmInput) (*paymentsports.ConfirmResult, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.ConfirmPayment", trace.WithAttributes(attribute.String("payment.intent_id", input.IntentID)))
	defer span.End()

	s.logInfo(ctx, "confirming payment", slog.String("payment.intent_id", input.IntentID))
	result, err := s.inner.ConfirmPayment(ctx, input)
	if err != nil {
		s.metrics.recordOutcome(ctx, "confirm", "error")
		return nil, s.handleError(ctx, span, err, "failed to confirm payment", slog.String("payment.intent_id", input.IntentID))
	}
	span.SetAttributes(attribute.Int64("order.id", result.OrderID), attribute.Bool("order.already_paid", result.AlreadyPaid))
	s.metrics.recordOutcome(ctx, "confirm", replayLabel(result.Replayed))
	s.logInfo(ctx, "payment confirmed", slog.Int64("order.id", result.OrderID), slog.String("order.status", result.OrderStatus), slog.Bool("already_paid", result.AlreadyPaid))
	return result, nil
}

func (s *Service) CancelPayment(ctx context.Context) paymentsports.CancelResult {
	ctx, span := s.tracer.Start(ctx, "PaymentService.CancelPayment")
	defer span.End()

	s.metrics.recordOutcome(ctx, "cancel", "ok")
	s.logInfo(ctx, "payment cancelled by payer")
	return s.inner.CancelPayment(ctx)
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func replayLabel(replayed bool) string {
	if replayed {
		return "replayed"
	}
	return "ok"
}

type serviceMetrics struct {
	operations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	operations, _ := m.Int64Counter("payments.service.operations", metric.WithDescription("Payment operations by step and outcome"))
	return serviceMetrics{operations: operations}
}

func (m serviceMetrics) recordOutcome(ctx context.Context, step, outcome string) {
	if m.operations != nil {
		m.operations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("payment.step", step),
			attribute.String("payment.outcome", outcome),
		))
	}
}

var _ paymentsports.Service = (*Service)(nil)
