// Package ledger is Component H, the idempotency ledger: a
// (playlist_id, isrc) -> file_path map backed by sqlite, generalizing
// the teacher's db/db.go connection-opening pattern and
// db/apikey/apikey.go's "CREATE TABLE IF NOT EXISTS" + typed accessor
// style. Every read goes to sqlite; there is no in-memory copy.
package ledger

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/trackresolve/core/internal/model"
)

// Ledger wraps a sqlite-backed store for idempotency records. The core
// never removes entries from it.
type Ledger struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures its schema exists.
func Open(path string, log *slog.Logger) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ledger: creating directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: opening %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ledger: pinging %s: %w", path, err)
	}

	l := &Ledger{db: db, log: log}
	if err := l.initialize(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ledger) initialize() error {
	_, err := l.db.Exec(`
	CREATE TABLE IF NOT EXISTS idempotency_records (
		playlist_id TEXT NOT NULL,
		isrc TEXT NOT NULL,
		file_path TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (playlist_id, isrc)
	)`)
	if err != nil {
		return fmt.Errorf("ledger: creating schema: %w", err)
	}
	return nil
}

// Has reports whether (playlistID, isrc) already has a recorded path.
func (l *Ledger) Has(playlistID, isrc string) (bool, error) {
	var count int
	err := l.db.QueryRow(
		`SELECT COUNT(1) FROM idempotency_records WHERE playlist_id = ? AND isrc = ?`,
		playlistID, isrc,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("ledger: checking %s/%s: %w", playlistID, isrc, err)
	}
	return count > 0, nil
}

// Record inserts a (playlist_id, isrc) -> file_path mapping. Using
// INSERT OR IGNORE semantics: a second Record call for the same key is
// a silent no-op, never an overwrite.
func (l *Ledger) Record(rec model.IdempotencyRecord) error {
	_, err := l.db.Exec(
		`INSERT OR IGNORE INTO idempotency_records (playlist_id, isrc, file_path) VALUES (?, ?, ?)`,
		rec.PlaylistID, rec.ISRC, rec.FilePath,
	)
	if err != nil {
		return fmt.Errorf("ledger: recording %s/%s: %w", rec.PlaylistID, rec.ISRC, err)
	}
	if l.log != nil {
		l.log.Info("ledger record written", "playlist_id", rec.PlaylistID, "isrc", rec.ISRC)
	}
	return nil
}

// Get returns the recorded path for (playlistID, isrc), if any.
func (l *Ledger) Get(playlistID, isrc string) (string, bool, error) {
	var path string
	err := l.db.QueryRow(
		`SELECT file_path FROM idempotency_records WHERE playlist_id = ? AND isrc = ?`,
		playlistID, isrc,
	).Scan(&path)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("ledger: fetching %s/%s: %w", playlistID, isrc, err)
	}
	return path, true, nil
}

// Close releases the underlying sqlite connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}
