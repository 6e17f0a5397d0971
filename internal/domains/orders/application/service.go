package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Apurer/go-gin-shop-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-shop-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-shop-api/internal/shared/clock"
	"github.com/Apurer/go-gin-shop-api/internal/shared/identity"
)

// Service orchestrates the order lifecycle use cases.
type Service struct {
	repo    ports.Repository
	catalog ports.Catalog
	events  ports.EventPublisher
	clock   clock.Clock
	logger  *slog.Logger
}

// Option customizes the service.
type Option func(*Service)

// WithEventPublisher publishes committed status transitions.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.events = publisher
		}
	}
}

// WithClock overrides the time source.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger used for best-effort side effects.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires the order service with its collaborators.
func NewService(repo ports.Repository, catalog ports.Catalog, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		catalog: catalog,
		events:  ports.NoopEventPublisher,
		clock:   clock.NewSystem(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOrder prices the requested items from the catalog and persists a PENDING order.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	owner := input.Owner
	if owner.System || owner.UserID <= 0 {
		return nil, ErrUnauthenticated
	}
	if len(input.Items) == 0 {
		return nil, mapError(domain.ErrEmptyItems)
	}
	ids := make([]int64, 0, len(input.Items))
	seen := make(map[int64]struct{}, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID <= 0 {
			return nil, mapError(domain.ErrInvalidProductID)
		}
		if item.Quantity <= 0 {
			return nil, mapError(domain.ErrInvalidQuantity)
		}
		if _, ok := seen[item.ProductID]; !ok {
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}

	prices, err := s.catalog.UnitPrices(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0, len(input.Items))
	for _, item := range input.Items {
		price, ok := prices[item.ProductID]
		if !ok {
			return nil, productNotFound(item.ProductID)
		}
		items = append(items, domain.Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: price.Round(2),
		})
	}

	order, err := domain.NewOrder(owner.UserID, items, s.clock.Now())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetOrder returns the order when requester owns it.
func (s *Service) GetOrder(ctx context.Context, id int64, requester identity.Identity) (*domain.Order, error) {
	if requester.UserID <= 0 {
		return nil, ErrUnauthenticated
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.OwnedBy(requester.UserID) {
		return nil, ErrAccessDenied
	}
	return order, nil
}

// ListOrdersForUser returns every order placed by requester.
func (s *Service) ListOrdersForUser(ctx context.Context, requester identity.Identity) ([]*domain.Order, error) {
	if requester.UserID <= 0 {
		return nil, ErrUnauthenticated
	}
	return s.repo.ListByOwner(ctx, requester.UserID)
}

// UpdateStatus applies a requested transition. Ownership and the state machine are
// checked against the locked row, so concurrent updates cannot skip a state.
func (s *Service) UpdateStatus(ctx context.Context, input ports.UpdateStatusInput) (*domain.Order, error) {
	if !input.Requester.Authenticated() {
		return nil, ErrUnauthenticated
	}
	next, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	updated, _, err := s.transition(ctx, input.OrderID, next, input.Requester)
	return updated, err
}

// DeleteOrder removes an owned order. Missing and foreign orders both yield false.
func (s *Service) DeleteOrder(ctx context.Context, id int64, requester identity.Identity) (bool, error) {
	if requester.UserID <= 0 {
		return false, ErrUnauthenticated
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !order.OwnedBy(requester.UserID) {
		return false, nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// LookupOrder loads an order regardless of owner.
func (s *Service) LookupOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// MarkPaid records a captured payment as the system identity. Repeated calls for a
// paid order are no-ops.
func (s *Service) MarkPaid(ctx context.Context, id int64) (*domain.Order, bool, error) {
	return s.transition(ctx, id, domain.StatusPaid, identity.SystemIdentity())
}

// transition moves the order to next on behalf of requester. Users may only touch
// their own orders; the system may only mark orders PAID, and does so idempotently.
func (s *Service) transition(ctx context.Context, id int64, next domain.Status, requester identity.Identity) (*domain.Order, bool, error) {
	if !requester.Authenticated() {
		return nil, false, ErrUnauthenticated
	}
	if requester.System && next != domain.StatusPaid {
		return nil, false, ErrAccessDenied
	}

	now := s.clock.Now()
	unchanged := false
	var from domain.Status
	updated, err := s.repo.UpdateStatus(ctx, id, func(order *domain.Order) error {
		switch {
		case requester.System && order.IsPaid():
			unchanged = true
			return ports.ErrSkipUpdate
		case !requester.System && !order.OwnedBy(requester.UserID):
			return ErrAccessDenied
		}
		from = order.Status
		return order.TransitionTo(next, now)
	})
	if err != nil {
		return nil, false, mapError(err)
	}
	if !unchanged {
		s.publish(ctx, domain.StatusChanged{
			OrderID:    updated.ID,
			OwnerID:    updated.OwnerID,
			From:       from,
			To:         updated.Status,
			OccurredAt: now,
		})
	}
	return updated, unchanged, nil
}

func (s *Service) publish(ctx context.Context, event domain.StatusChanged) {
	if err := s.events.PublishStatusChanged(ctx, event); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish order event",
			slog.Int64("order.id", event.OrderID),
			slog.String("event.type", event.EventType()),
			slog.String("error", err.Error()))
	}
}

var _ ports.Service = (*Service)(nil)
