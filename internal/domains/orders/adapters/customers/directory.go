package customers

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
	userdomain "github.com/Apurer/storefront-api/internal/domains/users/domain"
)

// UserLister is the slice of the user repository the directory needs.
type UserLister interface {
	ListByIDs(ctx context.Context, ids []int64) ([]*userdomain.User, error)
}

// Directory resolves order owners from the users context.
type Directory struct {
	users UserLister
}

func NewDirectory(users UserLister) *Directory {
	return &Directory{users: users}
}

func (d *Directory) LookupCustomers(ctx context.Context, ids []int64) (map[int64]ports.Customer, error) {
	if d == nil || d.users == nil {
		return nil, errors.New("customer directory not configured")
	}
	result := make(map[int64]ports.Customer, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	users, err := d.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = ports.Customer{ID: u.ID, Username: u.Username, Email: u.Email}
	}
	return result, nil
}

var _ ports.CustomerDirectory = (*Directory)(nil)
