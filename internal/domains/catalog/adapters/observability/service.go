package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogtypes "github.com/Apurer/storefront-api/internal/domains/catalog/application/types"
	"github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-api/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/storefront-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core catalog service.
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

func (s *Service) ListProducts(ctx context.Context, input catalogtypes.ListProductsInput) ([]*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts", trace.WithAttributes(
		attribute.String("catalog.search", input.Search),
		attribute.String("catalog.sort_by", input.SortBy),
		attribute.Bool("catalog.show_hidden", input.ShowHidden),
	))
	defer span.End()
	result, err := s.inner.ListProducts(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("catalog.result.count", len(result)))
	return result, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()
	result, err := s.inner.GetProduct(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.Int64("product_id", id))
	}
	return result, nil
}

func (s *Service) CreateProduct(ctx context.Context, input catalogtypes.ProductInput) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct", trace.WithAttributes(attribute.String("product.name", input.Name)))
	defer span.End()
	result, err := s.inner.CreateProduct(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("name", input.Name))
	}
	s.metrics.recordProductWrite(ctx, "create")
	s.logInfo(ctx, "product created", slog.Int64("product_id", result.ID), slog.Int64("stock", result.Stock))
	return result, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, input catalogtypes.ProductInput) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()
	result, err := s.inner.UpdateProduct(ctx, id, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.Int64("product_id", id))
	}
	s.metrics.recordProductWrite(ctx, "update")
	s.logInfo(ctx, "product updated", slog.Int64("product_id", id), slog.Int64("stock", result.Stock))
	return result, nil
}

func (s *Service) SetProductVisibility(ctx context.Context, id int64, hidden bool) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.SetProductVisibility", trace.WithAttributes(
		attribute.Int64("product.id", id),
		attribute.Bool("product.hidden", hidden),
	))
	defer span.End()
	result, err := s.inner.SetProductVisibility(ctx, id, hidden)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to change product visibility", slog.Int64("product_id", id))
	}
	s.metrics.recordProductWrite(ctx, "visibility")
	s.logInfo(ctx, "product visibility changed", slog.Int64("product_id", id), slog.Bool("hidden", hidden))
	return result, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()
	if err := s.inner.DeleteProduct(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.Int64("product_id", id))
	}
	s.metrics.recordProductWrite(ctx, "delete")
	s.logInfo(ctx, "product deleted", slog.Int64("product_id", id))
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListCategories")
	defer span.End()
	result, err := s.inner.ListCategories(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list categories")
	}
	span.SetAttributes(attribute.Int("catalog.result.count", len(result)))
	return result, nil
}

func (s *Service) CreateCategory(ctx context.Context, input catalogtypes.CategoryInput) (*domain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateCategory", trace.WithAttributes(attribute.String("category.name", input.Name)))
	defer span.End()
	result, err := s.inner.CreateCategory(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create category", slog.String("name", input.Name))
	}
	s.logInfo(ctx, "category created", slog.Int64("category_id", result.ID))
	return result, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, input catalogtypes.CategoryInput) (*domain.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateCategory", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()
	result, err := s.inner.UpdateCategory(ctx, id, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update category", slog.Int64("category_id", id))
	}
	s.logInfo(ctx, "category updated", slog.Int64("category_id", id))
	return result, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteCategory", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()
	if err := s.inner.DeleteCategory(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete category", slog.Int64("category_id", id))
	}
	s.logInfo(ctx, "category deleted", slog.Int64("category_id", id))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	productWrites metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	productWrites, _ := m.Int64Counter("catalog.service.product_writes", metric.WithDescription("Number of admin product mutations"))
	return serviceMetrics{productWrites: productWrites}
}

func (m serviceMetrics) recordProductWrite(ctx context.Context, op string) {
	if m.productWrites == nil {
		return
	}
	m.productWrites.Add(ctx, 1, metric.WithAttributes(attribute.String("catalog.op", op)))
}

var _ ports.Service = (*Service)(nil)
