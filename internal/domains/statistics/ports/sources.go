package ports

import (
	"context"

	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
	orderdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	userdomain "github.com/Apurer/storefront-api/internal/domains/users/domain"
)

// The sources are the read halves of the other contexts' repositories.

type ProductSource interface {
	List(ctx context.Context, query catalogdomain.ProductQuery) ([]*catalogdomain.Product, error)
}

type CategorySource interface {
	List(ctx context.Context) ([]*catalogdomain.Category, error)
}

type UserSource interface {
	List(ctx context.Context) ([]*userdomain.User, error)
}

type OrderSource interface {
	List(ctx context.Context, filter orderports.ListFilter) ([]*orderdomain.Order, error)
	ListItems(ctx context.Context) ([]orderdomain.OrderItem, error)
}
