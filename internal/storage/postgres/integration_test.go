package postgres

import (
	"errors"
	"os"
	"testing"

	"github.com/julianstephens/steadiness/internal/storage"
)

// Set POSTGRES_TEST_URL to run against a real database, e.g.
// POSTGRES_TEST_URL="postgres://steadiness@localhost:5432/steadiness_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	key := "integration_check"
	if err := store.Put(key, []byte(`{"n":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(key, []byte(`{"n":2}`)); err != nil {
		t.Fatalf("upsert Put: %v", err)
	}
	got, err := store.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"n":2}` {
		t.Errorf("Get() = %s", got)
	}
	if _, err := store.Get("never_written"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(key); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
}
