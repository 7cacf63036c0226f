package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	types "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

// RoleAdmin is the role allowed to see every order.
const RoleAdmin = "admin"

const (
	maxStatusAttempts = 3

	defaultClaimAttempts = 40
	defaultClaimPoll     = 50 * time.Millisecond
)

// Service orchestrates the orders bounded context use cases.
type Service struct {
	repo        ports.Repository
	customers   ports.CustomerDirectory
	idempotency ports.IdempotencyStore
	policy      domain.StatusPolicy
	now         func() time.Time

	claimAttempts int
	claimPoll     time.Duration
}

type Option func(*Service)

// WithCustomerDirectory resolves usernames and emails for order views.
func WithCustomerDirectory(directory ports.CustomerDirectory) Option {
	return func(s *Service) {
		s.customers = directory
	}
}

// WithIdempotencyStore enables Idempotency-Key replay for PlaceOrder.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithIdempotencyWait bounds how long a request waits on the same key held by a placement in
// flight before giving up with ErrIdempotencyInProgress.
func WithIdempotencyWait(attempts int, poll time.Duration) Option {
	return func(s *Service) {
		if attempts > 0 && poll > 0 {
			s.claimAttempts = attempts
			s.claimPoll = poll
		}
	}
}

// WithStatusPolicy swaps the admin transition policy.
func WithStatusPolicy(policy domain.StatusPolicy) Option {
	return func(s *Service) {
		if policy != nil {
			s.policy = policy
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		policy: domain.PermissivePolicy{},
		now:    time.Now,

		claimAttempts: defaultClaimAttempts,
		claimPoll:     defaultClaimPoll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder validates the checkout request and persists order, items and stock decrements as one
// unit. With an idempotency key the key is claimed first: a repeat with the same payload replays
// the original order, a different payload is rejected before anything is written.
func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.PlacementResult, error) {
	order, err := domain.NewOrder(toDraft(input), s.now())
	if err != nil {
		return nil, mapError(err)
	}
	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" || s.idempotency == nil {
		return s.create(ctx, order)
	}

	requestHash, err := FingerprintPlacement(input)
	if err != nil {
		return nil, err
	}
	claim, replayed, err := s.claim(ctx, key, requestHash)
	if err != nil || replayed != nil {
		return replayed, mapError(err)
	}

	result, err := s.create(ctx, order)
	if err != nil {
		// Failure to release only delays retries until the key expires.
		_ = s.idempotency.Release(context.WithoutCancel(ctx), *claim)
		return nil, err
	}
	// The order is committed; a failed completion leaves the key pending until it expires.
	_ = s.idempotency.Complete(context.WithoutCancel(ctx), *claim, result.Order.ID)
	return result, nil
}

func (s *Service) create(ctx context.Context, order *domain.Order) (*types.PlacementResult, error) {
	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	return &types.PlacementResult{Order: saved}, nil
}

// claim returns the caller's claim on key, or the replayed placement when the key already produced
// an order. A claim held by a placement still in flight is polled until it completes or is released.
func (s *Service) claim(ctx context.Context, key, requestHash string) (*ports.IdempotencyRecord, *types.PlacementResult, error) {
	for attempt := 0; attempt < s.claimAttempts; attempt++ {
		record, claimed, err := s.idempotency.Claim(ctx, key, requestHash)
		if err != nil {
			if errors.Is(err, ports.ErrIdempotencyConflict) {
				return nil, nil, fmt.Errorf("%w: key %q was used with a different payload", ports.ErrIdempotencyConflict, key)
			}
			return nil, nil, err
		}
		if claimed {
			return record, nil, nil
		}
		if !record.Pending() {
			order, err := s.repo.GetByID(ctx, record.OrderID)
			if err != nil {
				return nil, nil, err
			}
			return nil, &types.PlacementResult{Order: order, Replayed: true}, nil
		}
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-time.After(s.claimPoll):
		}
	}
	return nil, nil, fmt.Errorf("%w: key %q", ports.ErrIdempotencyInProgress, key)
}

// ListOrders returns every order for admins and only the requester's orders otherwise.
func (s *Service) ListOrders(ctx context.Context, input types.ListOrdersInput) ([]*types.OrderView, error) {
	filter := ports.ListFilter{}
	if !strings.EqualFold(strings.TrimSpace(input.Role), RoleAdmin) {
		if input.RequesterID == nil {
			return nil, mapError(&domain.ValidationError{Fields: map[string]string{"user_id": "is required unless role is admin"}})
		}
		filter.UserID = input.RequesterID
	}
	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapError(err)
	}
	return s.views(ctx, orders)
}

// GetOrder loads one order with its items.
func (s *Service) GetOrder(ctx context.Context, id int64) (*types.OrderView, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	views, err := s.views(ctx, []*domain.Order{order})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// UpdateStatus is the admin transition. The target is validated before any read so an invalid
// value never touches storage.
func (s *Service) UpdateStatus(ctx context.Context, input types.UpdateStatusInput) (*types.OrderView, error) {
	target, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	for attempt := 0; attempt < maxStatusAttempts; attempt++ {
		order, err := s.repo.GetByID(ctx, input.OrderID)
		if err != nil {
			return nil, mapError(err)
		}
		from := order.Status
		if err := order.ChangeStatus(s.policy, target, s.now()); err != nil {
			return nil, mapError(err)
		}
		err = s.repo.UpdateStatus(ctx, order.ID, from, order.Status, order.UpdatedAt)
		if errors.Is(err, ports.ErrStatusConflict) {
			continue
		}
		if err != nil {
			return nil, mapError(err)
		}
		return s.GetOrder(ctx, order.ID)
	}
	return nil, mapError(ports.ErrStatusConflict)
}

// CancelOrder is the customer path: only the owner may cancel and only while pending.
func (s *Service) CancelOrder(ctx context.Context, input types.CancelOrderInput) (*types.OrderView, error) {
	order, err := s.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := order.Cancel(input.UserID, s.now()); err != nil {
		return nil, mapError(err)
	}
	err = s.repo.UpdateStatus(ctx, order.ID, domain.StatusPending, domain.StatusCancelled, order.UpdatedAt)
	if errors.Is(err, ports.ErrStatusConflict) {
		return nil, mapError(domain.ErrNotCancellable)
	}
	if err != nil {
		return nil, mapError(err)
	}
	return s.GetOrder(ctx, order.ID)
}

func (s *Service) views(ctx context.Context, orders []*domain.Order) ([]*types.OrderView, error) {
	customers := map[int64]ports.Customer{}
	if s.customers != nil && len(orders) > 0 {
		ids := make([]int64, 0, len(orders))
		seen := map[int64]struct{}{}
		for _, o := range orders {
			if _, ok := seen[o.UserID]; !ok {
				seen[o.UserID] = struct{}{}
				ids = append(ids, o.UserID)
			}
		}
		found, err := s.customers.LookupCustomers(ctx, ids)
		if err != nil {
			return nil, err
		}
		customers = found
	}
	views := make([]*types.OrderView, 0, len(orders))
	for _, o := range orders {
		customer := customers[o.UserID]
		views = append(views, &types.OrderView{Order: o, Username: customer.Username, Email: customer.Email})
	}
	return views, nil
}

func toDraft(input types.PlaceOrderInput) domain.Draft {
	lines := make([]domain.CartLine, 0, len(input.Items))
	for _, item := range input.Items {
		lines = append(lines, domain.CartLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Name:      item.ProductName,
			Image:     item.ProductImage,
		})
	}
	return domain.Draft{
		UserID:      input.UserID,
		TotalAmount: input.TotalAmount,
		Shipping: domain.Shipping{
			RecipientName: input.CustomerName,
			Phone:         input.CustomerPhone,
			Address:       input.CustomerAddress,
			Notes:         input.Notes,
		},
		Lines: lines,
	}
}

var _ ports.Service = (*Service)(nil)
