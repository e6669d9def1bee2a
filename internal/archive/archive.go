package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// sqliteSidecars are the journal files SQLite may keep next to a database
var sqliteSidecars = []string{"-wal", "-shm", "-journal"}

// ArchiveDatabase moves a database file, with any SQLite journal files, into
// an archive directory next to it and returns the archived path
func ArchiveDatabase(dbPath string, now time.Time) (string, error) {
	// Check if the database exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", dbPath)
	}

	// Get parent directory and create archive path
	archiveDir := filepath.Join(filepath.Dir(dbPath), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	ext := filepath.Ext(dbPath)
	base := strings.TrimSuffix(filepath.Base(dbPath), ext)
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, now.Format("20060102-150405"), ext))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, now.Format("20060102-150405.000000"), ext))
	}
	if _, err := os.Stat(archivePath); err == nil {
		return "", fmt.Errorf("archive already exists: %s", archivePath)
	}

	if err := os.Rename(dbPath, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive database: %w", err)
	}

	for _, suffix := range sqliteSidecars {
		sidecar := dbPath + suffix
		if _, err := os.Stat(sidecar); err != nil {
			continue
		}
		if err := os.Rename(sidecar, archivePath+suffix); err != nil {
			return archivePath, fmt.Errorf("failed to archive %s: %w", filepath.Base(sidecar), err)
		}
	}

	return archivePath, nil
}
