//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "storefront-api"
	ConsumerName = "storefront-web"

	StateProductInStock  = "product 101 has 10 units in stock"
	StateProductLowStock = "product 101 has 1 unit in stock"
	StateOrderExists     = "order 1 exists for user 2"
	StateOrderMissing    = "no order with id 999"
	StateCatalogSeeded   = "products priced 85000, 120000, 150000 and 250000 exist"
	StateUsersBaseline   = "no users are registered"
)

const (
	ExistingProductID int64 = 101
	ProductPrice      int64 = 85000
	CustomerID        int64 = 2

	// ExistingOrderID is the first id the provider's order ledger assigns.
	ExistingOrderID int64 = 1
	MissingOrderID  int64 = 999

	ProductName     = "Pact Linen Shirt"
	CustomerName    = "Nguyen Van A"
	CustomerPhone   = "0987654321"
	CustomerAddress = "12 Hang Bac, Hanoi"

	Username = "pact-customer"
	Password = "pact-pass"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront web consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleOrderPayload orders quantity units of the seeded product at list price.
func ExampleOrderPayload(quantity int64) map[string]any {
	return map[string]any{
		"user_id":          CustomerID,
		"total_amount":     ProductPrice * quantity,
		"customer_name":    CustomerName,
		"customer_phone":   CustomerPhone,
		"customer_address": CustomerAddress,
		"items": []map[string]any{
			{"product_id": ExistingProductID, "quantity": quantity, "price": ProductPrice},
		},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
