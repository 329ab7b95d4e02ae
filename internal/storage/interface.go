// Package storage persists whole serialized documents under fixed keys.
package storage

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrNotFound means the document has never been written.
	ErrNotFound = errors.New("document not found")
	// ErrNotInitialized is returned by Load before Init has ever run at the location.
	ErrNotInitialized = errors.New("storage not initialized, run 'steadiness init' first")
	// ErrCorruptDocument marks a document that exists but could not be decoded.
	// Readers reset the affected collection to its default and keep going.
	ErrCorruptDocument = errors.New("corrupt document")
)

// Provider is a key/value blob store. Each Put replaces the whole document.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Documents
	Get(key string) ([]byte, error)
	Put(key string, body []byte) error
	Delete(key string) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateKey rejects keys that are unsafe as file names or unexpected as row keys.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid document key %q", key)
	}
	return nil
}
