package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersdomain "github.com/Apurer/go-gin-shop-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-shop-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-shop-api/internal/shared/identity"
)

const tracerName = "github.com/Apurer/go-gin-shop-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
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

// New wraps the core order service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
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

func (s *Service) CreateOrder(ctx context.Context, input ordersports.CreateOrderInput) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(attribute.Int64("user.id", input.Owner.UserID), attribute.Int("order.item_count", len(input.Items))))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.Int64("user.id", input.Owner.UserID), slog.Int("order.item_count", len(input.Items)))
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.Int64("user.id", input.Owner.UserID))
	}
	span.SetAttributes(attribute.Int64("order.id", result.ID))
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "order created", slog.Int64("order.id", result.ID), slog.String("order.total", result.TotalAmount.StringFixed(2)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64, requester identity.Identity) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id, requester)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id), slog.Int64("user.id", requester.UserID))
	}
	return result, nil
}

func (s *Service) ListOrdersForUser(ctx context.Context, requester identity.Identity) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrdersForUser", trace.WithAttributes(attribute.Int64("user.id", requester.UserID)))
	defer span.End()

	result, err := s.inner.ListOrdersForUser(ctx, requester)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.Int64("user.id", requester.UserID))
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, input ordersports.UpdateStatusInput) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateStatus",
		trace.WithAttributes(attribute.Int64("order.id", input.OrderID), attribute.String("order.status.requested", input.Status)))
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.Int64("order.id", input.OrderID), slog.String("status", input.Status))
	result, err := s.inner.UpdateStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.Int64("order.id", input.OrderID))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logInfo(ctx, "order status updated", slog.Int64("order.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int64, requester identity.Identity) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.DeleteOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.Int64("order.id", id))
	deleted, err := s.inner.DeleteOrder(ctx, id, requester)
	if err != nil {
		return false, s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", id))
	}
	span.SetAttributes(attribute.Bool("order.deleted", deleted))
	if deleted {
		s.metrics.recordDeleted(ctx)
		s.logInfo(ctx, "order deleted", slog.Int64("order.id", id))
	}
	return deleted, nil
}

func (s *Service) LookupOrder(ctx context.Context, id int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.LookupOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.LookupOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to look up order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) MarkPaid(ctx context.Context, id int64) (*ordersdomain.Order, bool, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.MarkPaid", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, alreadyPaid, err := s.inner.MarkPaid(ctx, id)
	if err != nil {
		return nil, false, s.handleError(ctx, span, err, "failed to mark order paid", slog.Int64("order.id", id))
	}
	span.SetAttributes(attribute.Bool("order.already_paid", alreadyPaid))
	if !alreadyPaid {
		s.metrics.recordTransition(ctx, result.Status)
	}
	s.logInfo(ctx, "order marked paid", slog.Int64("order.id", id), slog.Bool("already_paid", alreadyPaid))
	return result, alreadyPaid, nil
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

type serviceMetrics struct {
	ordersCreated     metric.Int64Counter
	ordersDeleted     metric.Int64Counter
	statusTransitions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.orders_created", metric.WithDescription("Number of orders created"))
	ordersDeleted, _ := m.Int64Counter("orders.service.orders_deleted", metric.WithDescription("Number of orders deleted"))
	statusTransitions, _ := m.Int64Counter("orders.service.status_transitions", metric.WithDescription("Committed order status transitions"))
	return serviceMetrics{ordersCreated: ordersCreated, ordersDeleted: ordersDeleted, statusTransitions: statusTransitions}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ordersDeleted != nil {
		m.ordersDeleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status ordersdomain.Status) {
	if m.statusTransitions != nil {
		m.statusTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

var _ ordersports.Service = (*Service)(nil)
