package ports

import "context"

// Customer is the account data shown next to an order.
type Customer struct {
	ID       int64
	Username string
	Email    string
}

// CustomerDirectory resolves order owners. Unknown identifiers are omitted from the result.
type CustomerDirectory interface {
	LookupCustomers(ctx context.Context, ids []int64) (map[int64]Customer, error)
}
