package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser_TrimsAndValidates(t *testing.T) {
	user, err := NewUser("  lan ", "hash", RoleCustomer, Profile{Email: " lan@example.com ", FullName: " Lan "}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "lan", user.Username)
	assert.Equal(t, "lan@example.com", user.Email)
	assert.Equal(t, "Lan", user.FullName)
	assert.False(t, user.IsAdmin())
}

func TestNewUser_Rejects(t *testing.T) {
	_, err := NewUser(" ", "hash", RoleCustomer, Profile{}, time.Now())
	assert.ErrorIs(t, err, ErrEmptyUsername)

	_, err = NewUser("lan", "", RoleCustomer, Profile{}, time.Now())
	assert.ErrorIs(t, err, ErrEmptyPassword)

	_, err = NewUser("lan", "hash", RoleCustomer, Profile{Email: "nope"}, time.Now())
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewUser("lan", "hash", Role("root"), Profile{}, time.Now())
	assert.ErrorIs(t, err, ErrInvalidRole)
}
