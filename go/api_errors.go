package storeserver

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/Apurer/storefront-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	mediaapp "github.com/Apurer/storefront-api/internal/domains/media/application"
	mediadomain "github.com/Apurer/storefront-api/internal/domains/media/domain"
	orderapp "github.com/Apurer/storefront-api/internal/domains/orders/application"
	orderdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	userapp "github.com/Apurer/storefront-api/internal/domains/users/application"
	userports "github.com/Apurer/storefront-api/internal/domains/users/ports"
	apierrors "github.com/Apurer/storefront-api/internal/shared/errors"
)

var problems = apierrors.NewChainedResponder("",
	mapOrderError,
	mapCatalogError,
	mapUserError,
	mapMediaError,
)

// SetProblemLogger routes 5xx problem responses to the given logger.
func SetProblemLogger(logger *slog.Logger) {
	problems.WithLogger(logger)
}

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	problems.Respond(c, problem)
}

// respondServiceError runs an application error through the context mappers. Unmapped errors
// become 500 responses.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problems.RespondError(c, err)
}

func badRequest(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

func mapOrderError(err error) (apierrors.ProblemDetail, bool) {
	var validation *orderdomain.ValidationError
	var stock *orderports.InsufficientStockError
	var missing *orderports.ProductNotFoundError
	switch {
	case errors.As(err, &validation):
		return apierrors.NewValidationProblem(validation.Fields).WithDetail(validation.Error()), true
	case errors.As(err, &stock):
		return apierrors.NewInsufficientStockProblem(stock.ProductID, stock.Requested, stock.Available), true
	case errors.As(err, &missing):
		return apierrors.NewNotFoundProblem("product", missing.ProductID), true
	case errors.Is(err, orderports.ErrIdempotencyConflict):
		return apierrors.NewConflictProblem(apierrors.ReasonIdempotencyConflict, err.Error()), true
	case errors.Is(err, orderports.ErrIdempotencyInProgress):
		return apierrors.NewConflictProblem(apierrors.ReasonIdempotencyInProgress, err.Error()), true
	case errors.Is(err, orderdomain.ErrTransitionNotAllowed):
		return apierrors.NewConflictProblem(apierrors.ReasonTransitionNotAllowed, err.Error()), true
	case errors.Is(err, orderports.ErrStatusConflict):
		return apierrors.NewConflictProblem(apierrors.ReasonStatusConflict, err.Error()), true
	case errors.Is(err, orderapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, orderapp.ErrForbidden):
		return apierrors.NewForbiddenProblem(err.Error()), true
	case errors.Is(err, orderports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCatalogError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, catalogports.ErrProductNotFound),
		errors.Is(err, catalogports.ErrCategoryNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapUserError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, userapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, userapp.ErrAuthentication):
		return apierrors.ErrUnauthorized.WithDetail("invalid username or password"), true
	case errors.Is(err, userapp.ErrConflict):
		return apierrors.NewConflictProblem(apierrors.ReasonDuplicateUsername, err.Error()), true
	case errors.Is(err, userports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapMediaError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, mediaapp.ErrTooLarge):
		return apierrors.NewPayloadTooLargeProblem(mediadomain.MaxImageBytes), true
	case errors.Is(err, mediaapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
