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
	ProviderName = "shop-api"
	ConsumerName = "shop-storefront"

	StateOrdersBaseline = "orders baseline"
	StateOrderExists    = "order with id 1 exists for the pact user"
	StateOrderMissing   = "no order with id 999"
	StatePayableOrder   = "pending order with id 1 awaiting payment"
)

const (
	// PactToken is the bearer token the provider seeds for PactUserID.
	PactToken        = "pact-token"
	PactUserID int64 = 7

	ExistingOrderID int64 = 1
	MissingOrderID  int64 = 999

	ProductBookID int64 = 1
	ProductPenID  int64 = 2
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

// ExampleCreateOrderPayload is two books and one pen.
func ExampleCreateOrderPayload() map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"product_id": ProductBookID, "quantity": 2},
			{"product_id": ProductPenID, "quantity": 1},
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
