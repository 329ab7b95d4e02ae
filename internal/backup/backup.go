package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/steadiness/internal/constants"
	"github.com/julianstephens/steadiness/internal/logger"
	"github.com/julianstephens/steadiness/internal/storage"
	"github.com/julianstephens/steadiness/internal/storage/sqlite"
)

const (
	minuteLayout = "20060102-1504"
	secondLayout = "20060102-150405"
)

// ErrNothingToBackup is returned when the provider holds no documents.
var ErrNothingToBackup = errors.New("no documents to back up")

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64

	seq int // orders backups taken within the same second
}

// Manager snapshots every document of a provider into standalone SQLite files.
type Manager struct {
	provider  storage.Provider
	backupDir string
	now       func() time.Time
}

// NewManager creates a backup manager writing into backupDir
func NewManager(p storage.Provider, backupDir string) *Manager {
	return &Manager{
		provider:  p,
		backupDir: backupDir,
		now:       time.Now,
	}
}

// DefaultDir places backups next to file-based storage, or under the user
// config directory when the provider is not a local path.
func DefaultDir(p storage.Provider) (string, error) {
	configPath := p.GetConfigPath()
	if filepath.IsAbs(configPath) {
		return filepath.Join(filepath.Dir(configPath), constants.BackupDirName), nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(configDir, constants.AppName, constants.BackupDirName), nil
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup snapshots the current documents and rotates old backups.
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// skipRotation keeps a pre-restore snapshot from evicting the backup being restored.
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	keys, err := m.provider.Keys()
	if err != nil {
		return "", fmt.Errorf("failed to list documents: %w", err)
	}
	if len(keys) == 0 {
		return "", ErrNothingToBackup
	}

	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath, err := m.nextBackupPath()
	if err != nil {
		return "", err
	}

	if err := m.snapshot(backupPath, keys); err != nil {
		return "", fmt.Errorf("failed to back up documents: %w", err)
	}
	logger.Info("backup created", "path", backupPath, "documents", len(keys))

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("failed to rotate old backups", "error", err)
		}
	}

	return backupPath, nil
}

// nextBackupPath tries minute precision, then seconds, then a numeric counter.
func (m *Manager) nextBackupPath() (string, error) {
	now := m.now()
	pathFor := func(stamp string) string {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	}

	backupPath := pathFor(now.Format(minuteLayout))
	if !exists(backupPath) {
		return backupPath, nil
	}

	timestamp := now.Format(secondLayout)
	backupPath = pathFor(timestamp)
	for counter := 1; exists(backupPath); counter++ {
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		backupPath = pathFor(fmt.Sprintf("%s-%d", timestamp, counter))
	}
	return backupPath, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// snapshot writes the documents into a fresh SQLite file. The file only
// appears under its final name once every document is written.
func (m *Manager) snapshot(destPath string, keys []string) error {
	tmpPath := destPath + ".tmp"
	defer os.Remove(tmpPath)

	dst := sqlite.NewStore(tmpPath)
	if err := dst.Init(); err != nil {
		return err
	}
	for _, key := range keys {
		body, err := m.provider.Get(key)
		if err != nil {
			dst.Close()
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := dst.Put(key, body); err != nil {
			dst.Close()
			return err
		}
	}
	if err := dst.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, destPath)
}

// ListBackups returns a list of all available backups, sorted by timestamp (newest first)
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
			continue
		}

		timestamp, seq, ok := parseTimestamp(strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix))
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: timestamp,
			Size:      info.Size(),
			seq:       seq,
		})
	}

	slices.SortStableFunc(backups, func(a, b BackupInfo) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return b.seq - a.seq
	})

	return backups, nil
}

// parseTimestamp accepts YYYYMMDD-HHMM or YYYYMMDD-HHMMSS with an optional -N counter.
func parseTimestamp(stamp string) (time.Time, int, bool) {
	seq := 0
	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		n, err := strconv.Atoi(parts[2])
		if err != nil || n < 1 {
			return time.Time{}, 0, false
		}
		stamp = parts[0] + "-" + parts[1]
		seq = n
	}
	if t, err := time.ParseInLocation(minuteLayout, stamp, time.Local); err == nil && seq == 0 {
		return t, 0, true
	}
	if t, err := time.ParseInLocation(secondLayout, stamp, time.Local); err == nil {
		return t, seq + 1, true
	}
	return time.Time{}, 0, false
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}

	return nil
}

// RestoreBackup replaces every document with the contents of backupPath.
// The current documents are snapshotted first; that snapshot's path is
// returned, or "" when there was nothing to save.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if !exists(backupPath) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}

	docs, err := readBackup(backupPath)
	if err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	current, err := m.provider.Keys()
	if err != nil {
		return "", fmt.Errorf("failed to list documents: %w", err)
	}

	var preRestore string
	if len(current) > 0 {
		preRestore, err = m.createBackup(true)
		if err != nil {
			return "", fmt.Errorf("failed to back up current documents before restore: %w", err)
		}
	}

	for key, body := range docs {
		if err := m.provider.Put(key, body); err != nil {
			return preRestore, fmt.Errorf("failed to restore %s: %w", key, err)
		}
	}
	for _, key := range current {
		if _, ok := docs[key]; ok {
			continue
		}
		if err := m.provider.Delete(key); err != nil {
			return preRestore, fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}

	logger.Info("backup restored", "path", backupPath, "documents", len(docs))
	return preRestore, nil
}

// readBackup opens a backup read-only through the SQLite provider, which also
// checks its schema version.
func readBackup(path string) (map[string][]byte, error) {
	src := sqlite.NewStore(path)
	defer src.Close()
	if err := src.Load(); err != nil {
		return nil, err
	}

	keys, err := src.Keys()
	if err != nil {
		return nil, err
	}
	docs := make(map[string][]byte, len(keys))
	for _, key := range keys {
		body, err := src.Get(key)
		if err != nil {
			return nil, err
		}
		docs[key] = body
	}
	return docs, nil
}
