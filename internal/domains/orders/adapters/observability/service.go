package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordertypes "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/storefront-api/internal/domains/orders/adapters/observability/service"

// Service decorates an orders application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// PlaceOrder runs the checkout transaction with instrumentation.
func (s *Service) PlaceOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*ordertypes.PlacementResult, error) {
	ctx, span := s.startSpan(ctx, "OrderService.PlaceOrder",
		attribute.Int64("order.user_id", input.UserID),
		attribute.Int("order.lines", len(input.Items)),
		attribute.Bool("order.idempotent", input.IdempotencyKey != ""),
	)
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int64("user_id", input.UserID), slog.Int("lines", len(input.Items)))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		if errors.Is(err, ports.ErrInsufficientStock) {
			s.metrics.recordStockConflict(ctx)
		}
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.Int64("user_id", input.UserID))
	}
	if result != nil && result.Order != nil {
		span.SetAttributes(
			attribute.Int64("order.id", result.Order.ID),
			attribute.Bool("order.replayed", result.Replayed),
		)
		if !result.Replayed {
			s.metrics.recordPlaced(ctx)
		}
		s.logInfo(ctx, "order placed",
			slog.Int64("order_id", result.Order.ID),
			slog.String("total", result.Order.TotalAmount.StringFixed(2)),
			slog.Bool("replayed", result.Replayed),
		)
	}
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, input ordertypes.ListOrdersInput) ([]*ordertypes.OrderView, error) {
	ctx, span := s.startSpan(ctx, "OrderService.ListOrders", attribute.String("order.requester_role", input.Role))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.String("role", input.Role))
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*ordertypes.OrderView, error) {
	ctx, span := s.startSpan(ctx, "OrderService.GetOrder", attribute.Int64("order.id", id))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order_id", id))
	}
	return result, nil
}

// UpdateStatus applies an admin transition with instrumentation.
func (s *Service) UpdateStatus(ctx context.Context, input ordertypes.UpdateStatusInput) (*ordertypes.OrderView, error) {
	ctx, span := s.startSpan(ctx, "OrderService.UpdateStatus",
		attribute.Int64("order.id", input.OrderID),
		attribute.String("order.status.requested", input.Status),
	)
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.Int64("order_id", input.OrderID), slog.String("status", input.Status))
	result, err := s.inner.UpdateStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.Int64("order_id", input.OrderID))
	}
	if result != nil && result.Order != nil {
		s.metrics.recordStatusChanged(ctx, result.Order.Status)
		s.logInfo(ctx, "order status updated", slog.Int64("order_id", input.OrderID), slog.String("status", string(result.Order.Status)))
	}
	return result, nil
}

// CancelOrder runs the customer cancellation with instrumentation.
func (s *Service) CancelOrder(ctx context.Context, input ordertypes.CancelOrderInput) (*ordertypes.OrderView, error) {
	ctx, span := s.startSpan(ctx, "OrderService.CancelOrder",
		attribute.Int64("order.id", input.OrderID),
		attribute.Int64("order.user_id", input.UserID),
	)
	defer span.End()

	s.logInfo(ctx, "cancelling order", slog.Int64("order_id", input.OrderID), slog.Int64("user_id", input.UserID))
	result, err := s.inner.CancelOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel order", slog.Int64("order_id", input.OrderID))
	}
	s.metrics.recordCancelled(ctx)
	s.logInfo(ctx, "order cancelled", slog.Int64("order_id", input.OrderID))
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
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
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	ordersPlaced    metric.Int64Counter
	stockConflicts  metric.Int64Counter
	ordersCancelled metric.Int64Counter
	statusChanges   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders committed"))
	stockConflicts, _ := m.Int64Counter("orders.service.stock_conflicts", metric.WithDescription("Placements rejected by the stock guard"))
	ordersCancelled, _ := m.Int64Counter("orders.service.orders_cancelled", metric.WithDescription("Number of customer cancellations"))
	statusChanges, _ := m.Int64Counter("orders.service.status_changes", metric.WithDescription("Number of admin status transitions"))
	return serviceMetrics{
		ordersPlaced:    ordersPlaced,
		stockConflicts:  stockConflicts,
		ordersCancelled: ordersCancelled,
		statusChanges:   statusChanges,
	}
}

func (m serviceMetrics) recordPlaced(ctx context.Context) {
	addCounter(ctx, m.ordersPlaced, 1)
}

func (m serviceMetrics) recordStockConflict(ctx context.Context) {
	addCounter(ctx, m.stockConflicts, 1)
}

func (m serviceMetrics) recordCancelled(ctx context.Context) {
	addCounter(ctx, m.ordersCancelled, 1)
}

func (m serviceMetrics) recordStatusChanged(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.statusChanges, 1, attribute.String("order.status", string(status)))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
