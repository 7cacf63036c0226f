package application

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
)

func TestFingerprintPlacement_IgnoresKeyOrderAndWhitespace(t *testing.T) {
	total := decimal.RequireFromString("30.00")
	a := types.PlaceOrderInput{
		UserID:         1,
		TotalAmount:    &total,
		CustomerName:   "Lan",
		IdempotencyKey: "k1",
		Items: []types.CartLineInput{
			{ProductID: 2, Quantity: 1, Price: decimal.NewFromInt(10)},
			{ProductID: 1, Quantity: 2, Price: decimal.NewFromInt(10)},
		},
	}
	b := a
	b.CustomerName = "  Lan "
	b.IdempotencyKey = "k2"
	b.Items = []types.CartLineInput{a.Items[1], a.Items[0]}

	ha, err := FingerprintPlacement(a)
	require.NoError(t, err)
	hb, err := FingerprintPlacement(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	b.Items[0].Quantity = 3
	hc, err := FingerprintPlacement(b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)
}
