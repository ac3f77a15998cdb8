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
	ProviderName = "macaroon-market-api"
	ConsumerName = "macaroon-storefront"

	StateCatalogSeeded  = "catalog seeded with default products"
	StateProductMissing = "no product with id 404"
	StateOrdersBaseline = "orders baseline"
	StateOrderExists    = "order with id 1 exists"
	StateOrderMissing   = "no order with id 999"
)

const (
	ExistingProductID int64 = 1
	MissingProductID  int64 = 404

	ExistingOrderID int64 = 1
	MissingOrderID  int64 = 999
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

// PactFile returns the canonical pact file path for the storefront consumer.
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

// ExampleCheckout is the body the storefront posts on checkout.
func ExampleCheckout() map[string]any {
	return map[string]any{
		"name":    "Mika Santos",
		"address": "12 Ube Street, Quezon City",
		"cartItems": []map[string]any{
			{"name": "Ube Macaroon", "price": 2.75, "quantity": 2},
			{"name": "Pistachio Macaroon", "price": 3, "quantity": 1},
		},
	}
}

func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
