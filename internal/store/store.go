// Package store handles SQLite persistence of the passage library.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/keyflow/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrPassageNotFound is returned when a passage id does not exist or the
// library is empty.
var ErrPassageNotFound = errors.New("passage not found")

// Store wraps SQLite access for passages.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS passages (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_passages_created_at ON passages(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AddPassage stores a passage and returns its id.
func (s *Store) AddPassage(ctx context.Context, title, body string, createdAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO passages (title, body, created_at) VALUES (?, ?, ?)`,
		title,
		body,
		createdAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetPassage returns the passage with the given id.
func (s *Store) GetPassage(ctx context.Context, id int64) (model.Passage, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, body, created_at FROM passages WHERE id = ?`, id)
	return scanPassage(row)
}

// RandomPassage returns a random passage from the library.
func (s *Store) RandomPassage(ctx context.Context) (model.Passage, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, body, created_at FROM passages ORDER BY RANDOM() LIMIT 1`)
	return scanPassage(row)
}

// ListPassages returns all passages ordered by id.
func (s *Store) ListPassages(ctx context.Context) ([]model.Passage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, body, created_at FROM passages ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var passages []model.Passage
	for rows.Next() {
		p, err := scanPassage(rows)
		if err != nil {
			return nil, err
		}
		passages = append(passages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return passages, nil
}

// RemovePassage deletes the passage with the given id.
func (s *Store) RemovePassage(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM passages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("passage %d: %w", id, ErrPassageNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPassage(row scanner) (model.Passage, error) {
	var p model.Passage
	var createdAt string
	if err := row.Scan(&p.ID, &p.Title, &p.Body, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Passage{}, ErrPassageNotFound
		}
		return model.Passage{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.Passage{}, err
	}
	p.CreatedAt = parsed
	p.Origin = fmt.Sprintf("library #%d", p.ID)
	return p, nil
}
