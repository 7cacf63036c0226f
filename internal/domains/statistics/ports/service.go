package ports

import (
	"context"

	"github.com/Apurer/storefront-api/internal/domains/statistics/domain"
)

type Service interface {
	Report(ctx context.Context) (*domain.Report, error)
}
