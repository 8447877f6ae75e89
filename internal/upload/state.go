package upload

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// StateDB tracks which journal files have been uploaded so unchanged files
// are not sent twice. A file is identified by relative path, size and
// modification time.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the SQLite state database at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS uploaded_files (
		path        TEXT PRIMARY KEY,
		size        INTEGER NOT NULL,
		mtime       INTEGER NOT NULL,
		inserted    INTEGER NOT NULL DEFAULT 0,
		uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// IsUploaded reports whether relPath was uploaded with the same size and
// modification time.
func (s *StateDB) IsUploaded(relPath string, size int64, mtime time.Time) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM uploaded_files WHERE path = ? AND size = ? AND mtime = ?`,
		relPath, size, mtime.UnixNano(),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", relPath, err)
	}
	return count > 0, nil
}

// MarkUploaded records a successful upload, replacing an older record of
// the same path.
func (s *StateDB) MarkUploaded(relPath string, size int64, mtime time.Time, inserted int64) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO uploaded_files (path, size, mtime, inserted) VALUES (?, ?, ?, ?)`,
		relPath, size, mtime.UnixNano(), inserted,
	)
	if err != nil {
		return fmt.Errorf("marking %s: %w", relPath, err)
	}
	return nil
}

// Count returns how many files are recorded.
func (s *StateDB) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM uploaded_files`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}
