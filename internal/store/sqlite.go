package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hksynth/hksynth-cli/internal/models"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS samples (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	type_name TEXT NOT NULL,
	start_utc TEXT NOT NULL,
	end_utc TEXT NOT NULL,
	payload BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_samples_type ON samples(type_name, id);
`

// SQLiteStore persists records in a single-file database. The uid unique
// constraint plus INSERT OR IGNORE makes repeated imports of the same data a
// no-op.
type SQLiteStore struct {
	auth authSet
	db   *sql.DB

	mu      sync.Mutex
	deleted map[string]int
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply store schema: %w", err)
	}
	return &SQLiteStore{db: db, deleted: make(map[string]int)}, nil
}

// DefaultPath returns the database location under the user config directory.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(base, "hksynth", "health.db"), nil
}

func (s *SQLiteStore) Authorize(ctx context.Context, readTypes, writeTypes []string) error {
	s.auth.grant(readTypes, writeTypes)
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, sample models.Sample, done func(error)) {
	rec, err := RecordOf(sample)
	if err != nil {
		done(err)
		return
	}
	if !s.auth.canWrite(rec.TypeName) {
		done(ErrNotAuthorized)
		return
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO samples(uid, type_name, start_utc, end_utc, payload) VALUES (?,?,?,?,?)`,
		rec.UID, rec.TypeName,
		rec.Start.UTC().Format(time.RFC3339),
		rec.End.UTC().Format(time.RFC3339),
		rec.Payload)
	done(err)
}

func (s *SQLiteStore) Query(ctx context.Context, typeName, pageToken string, limit int) (Page, error) {
	if !s.auth.canRead(typeName) {
		return Page{}, ErrNotAuthorized
	}
	after, err := decodeCursor(pageToken)
	if err != nil {
		return Page{}, err
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, uid, type_name, start_utc, end_utc, payload FROM samples WHERE type_name=? AND id>? ORDER BY id LIMIT ?`,
		typeName, after, limit)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	s.mu.Lock()
	page := Page{Deleted: s.deleted[typeName]}
	s.mu.Unlock()

	var lastID int64
	for rows.Next() {
		var (
			rec        Record
			start, end string
		)
		if err := rows.Scan(&lastID, &rec.UID, &rec.TypeName, &start, &end, &rec.Payload); err != nil {
			return Page{}, err
		}
		if rec.Start, err = time.Parse(time.RFC3339, start); err != nil {
			return Page{}, fmt.Errorf("corrupt start date for %s: %w", rec.UID, err)
		}
		if rec.End, err = time.Parse(time.RFC3339, end); err != nil {
			return Page{}, fmt.Errorf("corrupt end date for %s: %w", rec.UID, err)
		}
		page.Records = append(page.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return Page{}, err
	}
	if len(page.Records) == limit {
		page.NextToken = encodeCursor(lastID)
	}
	return page, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, records []Record) error {
	for _, rec := range records {
		if !s.auth.canWrite(rec.TypeName) {
			return ErrNotAuthorized
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	removed := make(map[string]int)
	for _, rec := range records {
		res, err := tx.ExecContext(ctx, `DELETE FROM samples WHERE uid=?`, rec.UID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			removed[rec.TypeName]++
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.mu.Lock()
	for typeName, n := range removed {
		s.deleted[typeName] += n
	}
	s.mu.Unlock()
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
