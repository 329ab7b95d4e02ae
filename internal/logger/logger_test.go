package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	if _, err := os.Stat(filepath.Dir(LogFilePath(configDir))); os.IsNotExist(err) {
		t.Errorf("Log directory was not created")
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message", "habit", "read")
	Error("Test error message")
}

func TestInitLevelOverride(t *testing.T) {
	configDir := t.TempDir()
	if err := Init(Config{ConfigDir: configDir, Level: "info"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Info("store loaded", "habits", 2)

	data, err := os.ReadFile(LogFilePath(configDir))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "store loaded") {
		t.Errorf("info message missing from log file: %q", data)
	}

	if err := Init(Config{ConfigDir: configDir, Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
	if With("k", "v") != nil {
		t.Error("With() before Init should return nil")
	}
}
