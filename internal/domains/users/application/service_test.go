package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Apurer/storefront-api/internal/domains/users/adapters/memory"
	types "github.com/Apurer/storefront-api/internal/domains/users/application/types"
	"github.com/Apurer/storefront-api/internal/domains/users/domain"
)

func newTestService() *Service {
	return NewService(memory.NewRepository(), WithHashCost(bcrypt.MinCost))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Register(ctx, types.RegisterInput{Username: "alice", Password: "secret", Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, created.Role)
	assert.NotEqual(t, "secret", created.PasswordHash)

	user, err := svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, types.RegisterInput{Username: "bob", Password: "pw"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, types.RegisterInput{Username: "bob", Password: "other"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegister_MissingFields(t *testing.T) {
	svc := newTestService()
	_, err := svc.Register(context.Background(), types.RegisterInput{Username: "bob"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Register(context.Background(), types.RegisterInput{Password: "pw"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	_, err := svc.Register(ctx, types.RegisterInput{Username: "carol", Password: "right"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "carol", "wrong")
	assert.ErrorIs(t, err, ErrAuthentication)

	_, err = svc.Login(ctx, "missing", "secret")
	assert.ErrorIs(t, err, ErrAuthentication)

	_, err = svc.Login(ctx, "carol", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.EnsureAdmin(ctx, "admin", "pw")
	require.NoError(t, err)
	assert.True(t, first.IsAdmin())

	second, err := svc.EnsureAdmin(ctx, "admin", "different")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = svc.Login(ctx, "admin", "pw")
	require.NoError(t, err)
}
