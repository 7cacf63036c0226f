package observability

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/storefront-api/internal/domains/statistics/domain"
	"github.com/Apurer/storefront-api/internal/domains/statistics/ports"
)

const tracerName = "github.com/Apurer/storefront-api/internal/domains/statistics/adapters/observability/service"

// Service decorates the statistics service with tracing, logging, and a latency histogram.
type Service struct {
	inner    ports.Service
	tracer   trace.Tracer
	logger   *slog.Logger
	duration metric.Float64Histogram
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		if m == nil {
			return
		}
		s.duration, _ = m.Float64Histogram("statistics.service.report_duration",
			metric.WithDescription("Time spent computing the admin report"),
			metric.WithUnit("s"))
	}
}

func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{inner: inner}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) Report(ctx context.Context) (*domain.Report, error) {
	ctx, span := s.tracer.Start(ctx, "StatisticsService.Report")
	defer span.End()
	started := time.Now()
	report, err := s.inner.Report(ctx)
	if s.duration != nil {
		s.duration.Record(ctx, time.Since(started).Seconds())
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to compute statistics", slog.String("error", err.Error()))
		return nil, err
	}
	span.SetAttributes(
		attribute.Int64("statistics.orders", report.Orders.TotalOrders),
		attribute.Int("statistics.low_stock", len(report.LowStockProducts)),
	)
	return report, nil
}

var _ ports.Service = (*Service)(nil)
