package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/phanxgames/tether"
)

// SQLite stores one row per tip.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS stored_tips (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			my TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			config_json TEXT NOT NULL,
			updated_utc TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS stored_tips_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}

// Load implements Backend.
func (s *SQLite) Load(ctx context.Context) ([]tether.StoredTip, error) {
	var saved string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM stored_tips_meta WHERE key = 'saved_utc'`).Scan(&saved)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query save time: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, my, x, y, config_json FROM stored_tips ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query stored tips: %w", err)
	}
	defer rows.Close()

	var tips []tether.StoredTip
	for rows.Next() {
		var (
			t       tether.StoredTip
			my      string
			cfgJSON string
		)
		if err := rows.Scan(&t.ID, &my, &t.Location.X, &t.Location.Y, &cfgJSON); err != nil {
			return nil, fmt.Errorf("scan stored tip: %w", err)
		}
		if t.My, err = tether.ParseCorner(my); err != nil {
			return nil, fmt.Errorf("stored tip %q: %w", t.ID, err)
		}
		if err := json.Unmarshal([]byte(cfgJSON), &t.Config); err != nil {
			return nil, fmt.Errorf("stored tip %q config: %w", t.ID, err)
		}
		tips = append(tips, t)
	}
	return tips, rows.Err()
}

// Save implements Backend.
func (s *SQLite) Save(ctx context.Context, tips []tether.StoredTip) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stored_tips`); err != nil {
		return fmt.Errorf("clear stored tips: %w", err)
	}
	for i, t := range tips {
		cfgJSON, err := json.Marshal(t.Config)
		if err != nil {
			return fmt.Errorf("stored tip %q config: %w", t.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO stored_tips (id, position, my, x, y, config_json, updated_utc)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, t.ID, i, t.My.String(), t.Location.X, t.Location.Y, string(cfgJSON), now); err != nil {
			return fmt.Errorf("insert stored tip %q: %w", t.ID, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO stored_tips_meta (key, value) VALUES ('saved_utc', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, now); err != nil {
		return fmt.Errorf("record save time: %w", err)
	}
	return tx.Commit()
}

// Close implements Backend.
func (s *SQLite) Close() error {
	return s.db.Close()
}
