package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	types "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
)

type normalizedPlacement struct {
	UserID      int64            `json:"user_id"`
	TotalAmount string           `json:"total_amount"`
	Name        string           `json:"customer_name"`
	Phone       string           `json:"customer_phone"`
	Address     string           `json:"customer_address"`
	Notes       string           `json:"notes"`
	Items       []normalizedLine `json:"items"`
}

type normalizedLine struct {
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Price     string `json:"price"`
}

// FingerprintPlacement hashes the checkout payload, excluding the idempotency key. Line order and
// surrounding whitespace do not affect the hash.
func FingerprintPlacement(input types.PlaceOrderInput) (string, error) {
	normalized := normalizedPlacement{
		UserID:  input.UserID,
		Name:    strings.TrimSpace(input.CustomerName),
		Phone:   strings.TrimSpace(input.CustomerPhone),
		Address: strings.TrimSpace(input.CustomerAddress),
		Notes:   strings.TrimSpace(input.Notes),
		Items:   make([]normalizedLine, 0, len(input.Items)),
	}
	if input.TotalAmount != nil {
		normalized.TotalAmount = input.TotalAmount.String()
	}
	for _, item := range input.Items {
		normalized.Items = append(normalized.Items, normalizedLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.String(),
		})
	}
	sort.SliceStable(normalized.Items, func(i, j int) bool {
		a, b := normalized.Items[i], normalized.Items[j]
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		return a.Quantity < b.Quantity
	})
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
