package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated an order invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrForbidden signals an ownership or state precondition failed.
	ErrForbidden = errors.New("order action forbidden")
	// ErrConflict signals the request collided with current state (stock, idempotency, policy).
	ErrConflict = errors.New("order conflict")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidStatus):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrNotOwner),
		errors.Is(err, domain.ErrNotCancellable):
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	case errors.Is(err, ports.ErrInsufficientStock),
		errors.Is(err, ports.ErrIdempotencyConflict),
		errors.Is(err, ports.ErrIdempotencyInProgress),
		errors.Is(err, ports.ErrStatusConflict),
		errors.Is(err, domain.ErrTransitionNotAllowed):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
