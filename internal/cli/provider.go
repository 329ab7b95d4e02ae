package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/julianstephens/steadiness/internal/errors"
	"github.com/julianstephens/steadiness/internal/keyring"
	"github.com/julianstephens/steadiness/internal/storage"
	"github.com/julianstephens/steadiness/internal/storage/postgres"
	"github.com/julianstephens/steadiness/internal/storage/sqlite"
)

// OpenProvider picks a storage backend from the --config value:
//   - "keyring": the PostgreSQL connection string stored in the OS keyring
//   - postgres:// or postgresql:// URLs: PostgreSQL
//   - paths ending in .db, .sqlite or .sqlite3: SQLite
//   - any other path: a directory of JSON documents
func OpenProvider(config string) (storage.Provider, error) {
	fromKeyring := config == keyring.ConfigSentinel
	config, err := keyring.ResolveConfig(config)
	if err != nil {
		return nil, apperrors.WithHint(err, "store one with 'steadiness keyring set'")
	}

	if postgres.IsConnString(config) {
		// the keyring is allowed to hold a password
		if ok, err := postgres.ValidateConnString(config); !ok && !(fromKeyring && errors.Is(err, postgres.ErrEmbeddedCredentials)) {
			return nil, apperrors.WithHint(err,
				"use 'steadiness keyring set' with a password-free URL and supply the password through PGPASSWORD or .pgpass")
		}
		return postgres.New(config), nil
	}

	path, err := expandHome(config)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return sqlite.NewStore(path), nil
	default:
		return storage.NewJSONStore(path), nil
	}
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
