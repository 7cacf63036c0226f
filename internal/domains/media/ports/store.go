package ports

import (
	"context"
	"errors"
	"io"

	"github.com/Apurer/storefront-api/internal/domains/media/application/types"
	"github.com/Apurer/storefront-api/internal/domains/media/domain"
)

// ErrExists is returned when the stored name is already taken.
var ErrExists = errors.New("image already exists")

// ImageStore persists image bytes under a file name.
type ImageStore interface {
	Save(ctx context.Context, name string, content io.Reader) error
}

type Service interface {
	Upload(ctx context.Context, input types.UploadInput) (*domain.Image, error)
}
