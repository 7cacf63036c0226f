package application

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	orderports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/storefront-api/internal/domains/statistics/domain"
	"github.com/Apurer/storefront-api/internal/domains/statistics/ports"
)

// Service recomputes the admin report from full scans on every call.
type Service struct {
	products   ports.ProductSource
	categories ports.CategorySource
	users      ports.UserSource
	orders     ports.OrderSource
}

func NewService(products ports.ProductSource, categories ports.CategorySource, users ports.UserSource, orders ports.OrderSource) *Service {
	return &Service{products: products, categories: categories, users: users, orders: orders}
}

// Report runs the scans concurrently; the first failing scan cancels the rest.
func (s *Service) Report(ctx context.Context) (*domain.Report, error) {
	var snapshot domain.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := s.products.List(gctx, catalogdomain.ProductQuery{IncludeHidden: true})
		if err != nil {
			return fmt.Errorf("scan products: %w", err)
		}
		snapshot.Products = products
		return nil
	})
	g.Go(func() error {
		categories, err := s.categories.List(gctx)
		if err != nil {
			return fmt.Errorf("scan categories: %w", err)
		}
		snapshot.CategoryCount = int64(len(categories))
		return nil
	})
	g.Go(func() error {
		users, err := s.users.List(gctx)
		if err != nil {
			return fmt.Errorf("scan users: %w", err)
		}
		snapshot.Users = users
		return nil
	})
	g.Go(func() error {
		orders, err := s.orders.List(gctx, orderports.ListFilter{})
		if err != nil {
			return fmt.Errorf("scan orders: %w", err)
		}
		snapshot.Orders = orders
		return nil
	})
	g.Go(func() error {
		items, err := s.orders.ListItems(gctx)
		if err != nil {
			return fmt.Errorf("scan order items: %w", err)
		}
		snapshot.Items = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	report := domain.Aggregate(snapshot)
	return &report, nil
}

var _ ports.Service = (*Service)(nil)
