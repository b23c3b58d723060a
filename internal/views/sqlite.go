package views

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS view_totals (
	id    INTEGER PRIMARY KEY CHECK (id = 1),
	views INTEGER NOT NULL DEFAULT 0
);

INSERT OR IGNORE INTO view_totals (id, views) VALUES (1, 0);

CREATE TABLE IF NOT EXISTS visitors (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	ip  TEXT NOT NULL UNIQUE
);
`

// SQLiteCounter keeps the counter in SQLite. Each increment is one
// immediate transaction, so concurrent writers never lose updates.
type SQLiteCounter struct {
	conn *sql.DB
	max  int
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(path string, maxVisitors int) (*SQLiteCounter, error) {
	if maxVisitors <= 0 {
		maxVisitors = DefaultMaxVisitors
	}
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("views: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("views: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("views: apply schema: %w", err)
	}
	return &SQLiteCounter{conn: conn, max: maxVisitors}, nil
}

// Views implements Counter.
func (c *SQLiteCounter) Views(ctx context.Context) (int, error) {
	var n int
	if err := c.conn.QueryRowContext(ctx, `SELECT views FROM view_totals WHERE id = 1`).Scan(&n); err != nil {
		return 0, fmt.Errorf("views: read total: %w", err)
	}
	return n, nil
}

// Increment implements Counter.
func (c *SQLiteCounter) Increment(ctx context.Context, ip string) (int, error) {
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("views: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO visitors (ip) VALUES (?)`, ip)
	if err != nil {
		return 0, fmt.Errorf("views: insert visitor: %w", err)
	}
	added, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("views: rows affected: %w", err)
	}

	if added > 0 {
		if _, err := tx.ExecContext(ctx, `UPDATE view_totals SET views = views + 1 WHERE id = 1`); err != nil {
			return 0, fmt.Errorf("views: bump total: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			DELETE FROM visitors
			WHERE seq NOT IN (SELECT seq FROM visitors ORDER BY seq DESC LIMIT ?)
		`, c.max)
		if err != nil {
			return 0, fmt.Errorf("views: evict visitors: %w", err)
		}
	}

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT views FROM view_totals WHERE id = 1`).Scan(&n); err != nil {
		return 0, fmt.Errorf("views: read total: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("views: commit: %w", err)
	}
	return n, nil
}

// Close implements Counter.
func (c *SQLiteCounter) Close() error {
	return c.conn.Close()
}
