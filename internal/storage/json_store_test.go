package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newLoadedJSONStore(t *testing.T) *JSONStore {
	t.Helper()
	s := NewJSONStore(filepath.Join(t.TempDir(), "data"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func TestJSONStoreLoadUninitialized(t *testing.T) {
	s := NewJSONStore(filepath.Join(t.TempDir(), "missing"))
	if err := s.Load(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
	if _, err := s.Get("habits"); err == nil {
		t.Error("Get before Load should fail")
	}
}

func TestJSONStoreGetPut(t *testing.T) {
	s := newLoadedJSONStore(t)

	if _, err := s.Get("habits"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	if err := s.Put("habits", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("habits", []byte(`[]`)); err != nil {
		t.Fatalf("second Put: %v", err)
	}
	got, err := s.Get("habits")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("Get() = %s, want []", got)
	}

	info, err := os.Stat(filepath.Join(s.GetConfigPath(), "habits.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %v, want 0600", perm)
	}

	// no temp files left behind
	entries, _ := os.ReadDir(s.GetConfigPath())
	if len(entries) != 1 {
		t.Errorf("data dir has %d entries, want 1", len(entries))
	}

	// reload from disk
	reopened := NewJSONStore(s.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, _ := reopened.Get("habits"); string(got) != "[]" {
		t.Errorf("reloaded Get() = %s", got)
	}
}

func TestJSONStoreKeys(t *testing.T) {
	s := newLoadedJSONStore(t)
	for _, k := range []string{"records", "habits"} {
		if err := s.Put(k, []byte("[]")); err != nil {
			t.Fatalf("Put(%s): %v", k, err)
		}
	}
	if err := os.WriteFile(filepath.Join(s.GetConfigPath(), "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "habits" || keys[1] != "records" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestJSONStoreDelete(t *testing.T) {
	s := newLoadedJSONStore(t)
	if err := s.Put("notes", []byte("[]")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete("notes"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("notes"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete("notes"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestValidateKey(t *testing.T) {
	for _, key := range []string{"habits", "day_notes", "v2"} {
		if err := ValidateKey(key); err != nil {
			t.Errorf("ValidateKey(%q) = %v", key, err)
		}
	}
	for _, key := range []string{"", "../etc", "Habits", "a/b", "1abc"} {
		if err := ValidateKey(key); err == nil {
			t.Errorf("ValidateKey(%q) should fail", key)
		}
	}
}
