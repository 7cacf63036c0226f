package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses() {
		parsed, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	for _, raw := range []string{"", "PENDING", "refunded", " shipped"} {
		_, err := ParseStatus(raw)
		assert.ErrorIs(t, err, ErrInvalidStatus, raw)
	}
}

func TestPermissivePolicy_AllowsAnyKnownPair(t *testing.T) {
	policy := PermissivePolicy{}
	for _, from := range Statuses() {
		for _, to := range Statuses() {
			assert.True(t, policy.Allows(from, to), "%s -> %s", from, to)
		}
	}
}

func TestStrictPolicy(t *testing.T) {
	policy := StrictPolicy{}
	cases := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusPending, StatusShipped, false},
		{StatusDelivered, StatusPending, false},
		{StatusPending, StatusCancelled, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusShipped, StatusCancelled, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusShipped, StatusShipped, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, policy.Allows(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("")
	require.NoError(t, err)
	assert.Equal(t, "permissive", p.Name())

	p, err = PolicyByName("STRICT")
	require.NoError(t, err)
	assert.Equal(t, "strict", p.Name())

	_, err = PolicyByName("chaotic")
	assert.ErrorIs(t, err, ErrUnknownStatusPolicy)
}
