// Package config loads environment configuration. Values come from the
// process environment first, then from optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/julianstephens/steadiness/internal/constants"
	"github.com/julianstephens/steadiness/internal/models"
)

// EnvPrefix namespaces every variable read by the application.
const EnvPrefix = "STEADINESS_"

// Environment variables bound to global flags.
const (
	EnvConfig   = EnvPrefix + "CONFIG"
	EnvDebug    = EnvPrefix + "DEBUG"
	EnvLogLevel = EnvPrefix + "LOG_LEVEL"
)

// DefaultEnvFiles are checked in order: the working directory, then the
// application config directory.
func DefaultEnvFiles() []string {
	files := []string{".env"}
	if dir, err := os.UserConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, constants.AppName, ".env"))
	}
	return files
}

// LoadEnv reads dotenv files into the process environment. Missing files are
// skipped and variables that are already set keep their value. It returns the
// files that were loaded.
func LoadEnv(files ...string) ([]string, error) {
	var loaded []string
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("failed to load %s: %w", f, err)
		}
		loaded = append(loaded, f)
	}
	return loaded, nil
}

// SettingEnvName is the variable that overrides a setting key,
// e.g. timezone -> STEADINESS_TIMEZONE.
func SettingEnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// SettingOverrides collects STEADINESS_<SETTING> variables and validates them
// against the default settings. Empty values are ignored.
func SettingOverrides() (map[string]string, error) {
	overrides := make(map[string]string)
	for _, key := range models.SettingKeys() {
		if v := strings.TrimSpace(os.Getenv(SettingEnvName(key))); v != "" {
			overrides[key] = v
		}
	}
	if len(overrides) == 0 {
		return nil, nil
	}
	if _, err := models.MapToSettings(models.DefaultSettings(), overrides); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}
	return overrides, nil
}
