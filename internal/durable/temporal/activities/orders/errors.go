package orders

import (
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/storefront-api/internal/domains/orders/application"
	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

// Application error types carried across the workflow boundary.
const (
	ErrTypeValidation          = "orders.Validation"
	ErrTypeInsufficientStock   = "orders.InsufficientStock"
	ErrTypeProductNotFound     = "orders.ProductNotFound"
	ErrTypeIdempotencyConflict = "orders.IdempotencyConflict"
)

// EncodeError converts placement rejections into non-retryable Temporal application errors with
// enough detail to rebuild them on the caller side. Anything else is returned unchanged.
func EncodeError(err error) error {
	if err == nil {
		return nil
	}
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeValidation, nil, validation.Fields)
	}
	var stock *orderports.InsufficientStockError
	if errors.As(err, &stock) {
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInsufficientStock, nil, *stock)
	}
	var missing *orderports.ProductNotFoundError
	if errors.As(err, &missing) {
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeProductNotFound, nil, *missing)
	}
	if errors.Is(err, orderports.ErrIdempotencyConflict) {
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeIdempotencyConflict, nil)
	}
	return err
}

// DecodeError restores the application error wrapped by EncodeError from a workflow failure.
// Errors without a known application error type are returned unchanged.
func DecodeError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case ErrTypeValidation:
		fields := map[string]string{}
		if appErr.HasDetails() {
			_ = appErr.Details(&fields)
		}
		return fmt.Errorf("%w: %w", application.ErrInvalidInput, &domain.ValidationError{Fields: fields})
	case ErrTypeInsufficientStock:
		var stock orderports.InsufficientStockError
		if appErr.HasDetails() {
			_ = appErr.Details(&stock)
		}
		return fmt.Errorf("%w: %w", application.ErrConflict, &stock)
	case ErrTypeProductNotFound:
		var missing orderports.ProductNotFoundError
		if appErr.HasDetails() {
			_ = appErr.Details(&missing)
		}
		return &missing
	case ErrTypeIdempotencyConflict:
		return fmt.Errorf("%w: %w", application.ErrConflict, orderports.ErrIdempotencyConflict)
	}
	return err
}
