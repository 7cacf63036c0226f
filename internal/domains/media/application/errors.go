package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/storefront-api/internal/domains/media/domain"
)

var (
	ErrInvalidInput = errors.New("invalid image upload")
	ErrTooLarge     = errors.New("image upload too large")
)

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrTooLarge):
		return fmt.Errorf("%w: %w", ErrTooLarge, err)
	case errors.Is(err, domain.ErrNoFile), errors.Is(err, domain.ErrUnsupportedType):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
