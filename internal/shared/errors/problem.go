// Package errors renders storefront failures as application/problem+json bodies (RFC 7807).
// Conflicts carry a machine-readable reason so checkout clients can tell a stock shortfall
// from a reused idempotency key without parsing the detail text.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail is the body written for every non-2xx storefront response.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	// Extensions carries fields, reason codes and stock figures.
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy carrying the occurrence-specific message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with one more extension member. The receiver's map is never
// mutated, so the package-level templates stay clean.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	extensions := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		extensions[k] = v
	}
	extensions[key] = value
	p.Extensions = extensions
	return p
}

// Problem type references. Relative unless the responder has a base URI.
const (
	TypeValidation = "/problems/validation-error"
	TypeNotFound   = "/problems/not-found"
	TypeConflict   = "/problems/conflict"
	TypeInternal   = "/problems/internal-error"
	TypeAuth       = "/problems/unauthorized"
	TypeForbidden  = "/problems/forbidden"
	TypeBadRequest = "/problems/bad-request"
	TypeTooLarge   = "/problems/payload-too-large"
)

// Conflict reasons surfaced in the "reason" extension of 409 responses.
const (
	ReasonInsufficientStock     = "insufficient_stock"
	ReasonIdempotencyConflict   = "idempotency_conflict"
	ReasonIdempotencyInProgress = "idempotency_in_progress"
	ReasonTransitionNotAllowed  = "transition_not_allowed"
	ReasonStatusConflict        = "status_conflict"
	ReasonDuplicateUsername     = "duplicate_username"
)

var (
	ErrNotFound = ProblemDetail{Type: TypeNotFound, Title: "Resource Not Found", Status: http.StatusNotFound}

	// ErrValidation covers bad carts, prices with sub-cent precision and malformed catalog input.
	ErrValidation = ProblemDetail{Type: TypeValidation, Title: "Validation Error", Status: http.StatusBadRequest}

	// ErrBadRequest is for bodies that never reached validation, such as unparseable JSON.
	ErrBadRequest = ProblemDetail{Type: TypeBadRequest, Title: "Bad Request", Status: http.StatusBadRequest}

	ErrConflict = ProblemDetail{Type: TypeConflict, Title: "Conflict", Status: http.StatusConflict}

	ErrInternal = ProblemDetail{Type: TypeInternal, Title: "Internal Server Error", Status: http.StatusInternalServerError}

	ErrUnauthorized = ProblemDetail{Type: TypeAuth, Title: "Unauthorized", Status: http.StatusUnauthorized}

	// ErrForbidden rejects buyers acting on orders they do not own.
	ErrForbidden = ProblemDetail{Type: TypeForbidden, Title: "Forbidden", Status: http.StatusForbidden}

	ErrPayloadTooLarge = ProblemDetail{Type: TypeTooLarge, Title: "Payload Too Large", Status: http.StatusRequestEntityTooLarge}
)

// NewValidationProblem reports per-field messages keyed by request path, e.g. "items[0].price".
func NewValidationProblem(fieldErrors map[string]string) ProblemDetail {
	return ErrValidation.WithExtension("fields", fieldErrors)
}

// NewConflictProblem reports a 409 tagged with one of the Reason constants.
func NewConflictProblem(reason, detail string) ProblemDetail {
	return ErrConflict.WithDetail(detail).WithExtension("reason", reason)
}

// NewInsufficientStockProblem names the product that could not be reserved and how short it was.
func NewInsufficientStockProblem(productID, requested, available int64) ProblemDetail {
	return NewConflictProblem(ReasonInsufficientStock,
		fmt.Sprintf("product %d has %d in stock, %d requested", productID, available, requested)).
		WithExtension("product_id", productID).
		WithExtension("requested", requested).
		WithExtension("available", available)
}

func NewForbiddenProblem(detail string) ProblemDetail {
	return ErrForbidden.WithDetail(detail)
}

// NewPayloadTooLargeProblem reports a product image over the upload limit.
func NewPayloadTooLargeProblem(limitBytes int64) ProblemDetail {
	return ErrPayloadTooLarge.
		WithDetail(fmt.Sprintf("payload exceeds %d bytes", limitBytes)).
		WithExtension("limitBytes", limitBytes)
}

// NewNotFoundProblem reports a missing order, product, category or user by identifier.
func NewNotFoundProblem(resourceType string, identifier any) ProblemDetail {
	return ErrNotFound.
		WithDetail(fmt.Sprintf("%s %v not found", resourceType, identifier)).
		WithExtension("resourceType", resourceType).
		WithExtension("identifier", identifier)
}
