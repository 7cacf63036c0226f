package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var checkoutTime = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func amount(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func validDraft() Draft {
	return Draft{
		UserID:      2,
		TotalAmount: amount(170000),
		Shipping:    Shipping{RecipientName: "Nguyen Van A", Phone: "0987654321", Address: "Hanoi"},
		Lines:       []CartLine{{ProductID: 1, Quantity: 2, Price: decimal.NewFromInt(85000), Name: "Tote"}},
	}
}

func TestNewOrder_ComputesSubtotalsAndTotal(t *testing.T) {
	order, err := NewOrder(validDraft(), checkoutTime)

	require.NoError(t, err)
	assert.Equal(t, StatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].Subtotal.Equal(decimal.NewFromInt(170000)))
	assert.True(t, order.TotalAmount.Equal(order.ItemsTotal()))
	assert.Equal(t, checkoutTime, order.CreatedAt)
	assert.Equal(t, checkoutTime, order.UpdatedAt)
}

func TestNewOrder_EmptyItemsRejected(t *testing.T) {
	draft := validDraft()
	draft.Lines = nil

	_, err := NewOrder(draft, checkoutTime)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, verr.Fields, "items")
}

func TestNewOrder_ReportsEveryMissingField(t *testing.T) {
	_, err := NewOrder(Draft{Lines: validDraft().Lines}, checkoutTime)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"user_id", "total_amount", "customer_name", "customer_phone", "customer_address"} {
		assert.Contains(t, verr.Fields, field)
	}
}

func TestNewOrder_RejectsBadLines(t *testing.T) {
	draft := validDraft()
	draft.Lines = append(draft.Lines,
		CartLine{ProductID: 0, Quantity: 1, Price: decimal.NewFromInt(1)},
		CartLine{ProductID: 3, Quantity: 0, Price: decimal.NewFromInt(1)},
		CartLine{ProductID: 4, Quantity: 1, Price: decimal.NewFromInt(-1)},
	)

	_, err := NewOrder(draft, checkoutTime)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "items[1].product_id")
	assert.Contains(t, verr.Fields, "items[2].quantity")
	assert.Contains(t, verr.Fields, "items[3].price")
}

func TestNewOrder_ClaimedTotalMustMatch(t *testing.T) {
	draft := validDraft()
	draft.TotalAmount = amount(1)

	_, err := NewOrder(draft, checkoutTime)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["total_amount"], "170000")
}

func TestNewOrder_RejectsSubCentAmounts(t *testing.T) {
	draft := validDraft()
	draft.Lines = []CartLine{{ProductID: 1, Quantity: 3, Price: decimal.RequireFromString("0.005")}}
	total := decimal.RequireFromString("0.015")
	draft.TotalAmount = &total

	_, err := NewOrder(draft, checkoutTime)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ErrPricePrecision.Error(), verr.Fields["items[0].price"])
	assert.Contains(t, verr.Fields, "total_amount")

	draft.Lines[0].Price = decimal.RequireFromString("0.25")
	cents := decimal.RequireFromString("0.75")
	draft.TotalAmount = &cents
	order, err := NewOrder(draft, checkoutTime)
	require.NoError(t, err)
	assert.Equal(t, "0.75", order.Items[0].Subtotal.StringFixed(MoneyPlaces))
}

func TestNewOrder_MergesSameProductLines(t *testing.T) {
	draft := validDraft()
	draft.Lines = append(draft.Lines, CartLine{ProductID: 1, Quantity: 1, Price: decimal.NewFromInt(85000)})
	draft.TotalAmount = amount(255000)

	order, err := NewOrder(draft, checkoutTime)

	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(3), order.Items[0].Quantity)
	assert.Equal(t, []StockDemand{{ProductID: 1, Quantity: 3}}, order.StockDemand())
}

func TestOrder_CancelRules(t *testing.T) {
	order, err := NewOrder(validDraft(), checkoutTime)
	require.NoError(t, err)

	assert.ErrorIs(t, order.Cancel(99, checkoutTime), ErrNotOwner)
	assert.Equal(t, StatusPending, order.Status)

	order.Status = StatusProcessing
	assert.ErrorIs(t, order.Cancel(2, checkoutTime), ErrNotCancellable)
	assert.Equal(t, StatusProcessing, order.Status)

	order.Status = StatusPending
	later := checkoutTime.Add(time.Hour)
	require.NoError(t, order.Cancel(2, later))
	assert.Equal(t, StatusCancelled, order.Status)
	assert.Equal(t, later, order.UpdatedAt)
}

func TestOrder_ChangeStatus(t *testing.T) {
	order, err := NewOrder(validDraft(), checkoutTime)
	require.NoError(t, err)
	later := checkoutTime.Add(time.Minute)

	require.NoError(t, order.ChangeStatus(PermissivePolicy{}, StatusShipped, later))
	assert.Equal(t, StatusShipped, order.Status)
	assert.Equal(t, later, order.UpdatedAt)

	assert.ErrorIs(t, order.ChangeStatus(PermissivePolicy{}, Status("lost"), later), ErrInvalidStatus)
	assert.Equal(t, StatusShipped, order.Status)

	assert.ErrorIs(t, order.ChangeStatus(StrictPolicy{}, StatusPending, later), ErrTransitionNotAllowed)
}
