package ports

import (
	"context"

	types "github.com/Apurer/storefront-api/internal/domains/users/application/types"
	"github.com/Apurer/storefront-api/internal/domains/users/domain"
)

// Service exposes user bounded context use cases to adapters.
type Service interface {
	Register(ctx context.Context, input types.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// EnsureAdmin creates the admin account when the username is free and returns the stored user.
	EnsureAdmin(ctx context.Context, username, password string) (*domain.User, error)
}
