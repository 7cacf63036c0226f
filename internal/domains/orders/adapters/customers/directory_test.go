package customers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usermemory "github.com/Apurer/storefront-api/internal/domains/users/adapters/memory"
	userdomain "github.com/Apurer/storefront-api/internal/domains/users/domain"
)

func TestDirectory_LookupCustomersSkipsUnknown(t *testing.T) {
	repo := usermemory.NewRepository()
	user, err := userdomain.NewUser("lan", "hash", userdomain.RoleCustomer, userdomain.Profile{Email: "lan@example.com"}, time.Now())
	require.NoError(t, err)
	saved, err := repo.Create(context.Background(), user)
	require.NoError(t, err)

	found, err := NewDirectory(repo).LookupCustomers(context.Background(), []int64{saved.ID, 99})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "lan", found[saved.ID].Username)
	assert.Equal(t, "lan@example.com", found[saved.ID].Email)
}
