package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	testConnStr := "postgres://testuser@localhost:5432/testdb?sslmode=disable"
	if err := SetConnectionString(testConnStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	retrieved, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if retrieved != testConnStr {
		t.Errorf("GetConnectionString() = %q, want %q", retrieved, testConnStr)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
}

func TestGetConnectionStringNotFound(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteConnectionString()

	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestResolveConfig(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteConnectionString()

	path := "/tmp/steadiness.db"
	if got, err := ResolveConfig(path); err != nil || got != path {
		t.Errorf("ResolveConfig(path) = %q, %v", got, err)
	}

	if _, err := ResolveConfig(ConfigSentinel); !errors.Is(err, ErrNotFound) {
		t.Errorf("ResolveConfig(keyring) with empty keyring error = %v, want ErrNotFound", err)
	}

	conn := "postgres://me@db.internal/habits"
	if err := SetConnectionString(conn); err != nil {
		t.Fatalf("SetConnectionString: %v", err)
	}
	if got, err := ResolveConfig(ConfigSentinel); err != nil || got != conn {
		t.Errorf("ResolveConfig(keyring) = %q, %v, want %q", got, err, conn)
	}
	if !IsAvailable() {
		t.Error("mock keyring should be available")
	}
}
