package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var (
	ErrInvalidStatus        = errors.New("order status is invalid")
	ErrTransitionNotAllowed = errors.New("order status transition is not allowed")
	ErrNotOwner             = errors.New("order belongs to another user")
	ErrNotCancellable       = errors.New("only pending orders can be cancelled")
	ErrUnknownStatusPolicy  = errors.New("unknown order status policy")
)

// Statuses lists every known status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}
}

// ParseStatus accepts exactly one of the five enumerated values.
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// StatusPolicy decides which admin-initiated transitions are legal.
type StatusPolicy interface {
	Allows(from, to Status) bool
	Name() string
}

// PermissivePolicy lets an admin move an order between any two known statuses.
type PermissivePolicy struct{}

func (PermissivePolicy) Allows(from, to Status) bool { return from.Valid() && to.Valid() }
func (PermissivePolicy) Name() string                { return "permissive" }

// StrictPolicy only moves forward along pending, processing, shipped, delivered. Cancellation is
// allowed from pending and processing. Re-applying the current status is a no-op and allowed.
type StrictPolicy struct{}

func (StrictPolicy) Allows(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	if to == StatusCancelled {
		return from == StatusPending || from == StatusProcessing
	}
	rank := map[Status]int{StatusPending: 0, StatusProcessing: 1, StatusShipped: 2, StatusDelivered: 3}
	fromRank, ok := rank[from]
	if !ok {
		return false
	}
	return rank[to] == fromRank+1
}

func (StrictPolicy) Name() string { return "strict" }

// PolicyByName resolves a configured policy name. Empty selects the permissive policy.
func PolicyByName(name string) (StatusPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "permissive":
		return PermissivePolicy{}, nil
	case "strict":
		return StrictPolicy{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStatusPolicy, name)
	}
}
