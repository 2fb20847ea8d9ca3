package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

func (fp FileFingerprint) modTime() string {
	return fp.ModTime.UTC().Format(time.RFC3339Nano)
}

// RecordSource stores the fingerprint of an exported file along with how
// many features were written and skipped.
func (s *Store) RecordSource(fp FileFingerprint, features, skipped int) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO sources (path, size, mod_time, features, skipped)
		VALUES (?, ?, ?, ?, ?)`,
		fp.Path, fp.Size, fp.modTime(), int64(features), int64(skipped))
	if err != nil {
		return fmt.Errorf("record source: %w", err)
	}
	return nil
}

// SourceFresh reports whether fp matches the fingerprint recorded for the
// same path.
func (s *Store) SourceFresh(fp FileFingerprint) (bool, error) {
	var (
		size    int64
		modTime string
	)
	err := s.db.QueryRow("SELECT size, mod_time FROM sources WHERE path = ?", fp.Path).Scan(&size, &modTime)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query source: %w", err)
	}
	return size == fp.Size && modTime == fp.modTime(), nil
}

// DiscardSource removes the features and the fingerprint recorded for
// path, so a failed export leaves nothing behind and is redone next time.
func (s *Store) DiscardSource(path string) error {
	if err := s.ClearSource(path); err != nil {
		return fmt.Errorf("clear features: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM sources WHERE path = ?", path); err != nil {
		return fmt.Errorf("clear source: %w", err)
	}
	return nil
}
