package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

const defaultSlot = "token"

// dialect holds the driver-specific statements for the client_tokens table.
type dialect struct {
	driver string
	create string
	get    string
	upsert string
	del    string
}

var dialects = map[string]dialect{
	"postgres": {
		driver: "postgres",
		create: `CREATE TABLE IF NOT EXISTS client_tokens (
			slot       VARCHAR(64) PRIMARY KEY,
			token      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		get: `SELECT token FROM client_tokens WHERE slot=$1`,
		upsert: `INSERT INTO client_tokens (slot, token, updated_at) VALUES ($1, $2, NOW())
			ON CONFLICT (slot) DO UPDATE SET token=EXCLUDED.token, updated_at=NOW()`,
		del: `DELETE FROM client_tokens WHERE slot=$1`,
	},
	"mysql": {
		driver: "mysql",
		create: `CREATE TABLE IF NOT EXISTS client_tokens (
			slot       VARCHAR(64) PRIMARY KEY,
			token      TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		get: `SELECT token FROM client_tokens WHERE slot=?`,
		upsert: `INSERT INTO client_tokens (slot, token, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON DUPLICATE KEY UPDATE token=VALUES(token), updated_at=CURRENT_TIMESTAMP`,
		del: `DELETE FROM client_tokens WHERE slot=?`,
	},
}

// SQL keeps the token in a client_tokens row, for seller workstations that
// share a credential through a database.
type SQL struct {
	db   *sql.DB
	d    dialect
	slot string
}

// OpenSQL connects with the named driver (postgres or mysql) and makes
// sure the client_tokens table exists.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQL, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported token store driver %q", driver)
	}
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping token store: %w", err)
	}
	s := NewSQL(db, driver)
	if _, err := db.ExecContext(ctx, s.d.create); err != nil {
		db.Close()
		return nil, fmt.Errorf("create client_tokens: %w", err)
	}
	return s, nil
}

// NewSQL wraps an existing connection; the table must already exist.
func NewSQL(db *sql.DB, driver string) *SQL {
	return &SQL{db: db, d: dialects[driver], slot: defaultSlot}
}

func (s *SQL) Token(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, s.d.get, s.slot).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return token, err
}

func (s *SQL) SetToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, s.d.upsert, s.slot, token)
	return err
}

func (s *SQL) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, s.d.del, s.slot)
	return err
}

func (s *SQL) Close() error { return s.db.Close() }
