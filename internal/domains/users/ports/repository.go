package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-api/internal/domains/users/domain"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDuplicateUsername  = errors.New("username already exists")
)

type Repository interface {
	// Create assigns the id. A taken username returns ErrDuplicateUsername.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// ListByIDs skips ids that do not exist.
	ListByIDs(ctx context.Context, ids []int64) ([]*domain.User, error)
}
