package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

const pingTimeout = 5 * time.Second

var postgresDialect = dialect{
	name: "postgres",
	createTable: `CREATE TABLE IF NOT EXISTS ledger_state (
    state_key BYTEA PRIMARY KEY,
    state_value BYTEA NOT NULL
)`,
	get:       `SELECT state_value FROM ledger_state WHERE state_key = $1`,
	upsert:    `INSERT INTO ledger_state (state_key, state_value) VALUES ($1, $2) ON CONFLICT (state_key) DO UPDATE SET state_value = EXCLUDED.state_value`,
	delete:    `DELETE FROM ledger_state WHERE state_key = $1`,
	scanRange: `SELECT state_key, state_value FROM ledger_state WHERE state_key >= $1 AND state_key < $2 ORDER BY state_key`,
	scanFrom:  `SELECT state_key, state_value FROM ledger_state WHERE state_key >= $1 ORDER BY state_key`,
}

// PostgresStore is a StateStore kept in a PostgreSQL table.
type PostgresStore struct {
	*sqlStore
}

// NewPostgresStore connects to dsn through pgx and ensures the state table
// exists.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	s, err := newSQLStore(db, postgresDialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &PostgresStore{sqlStore: s}, nil
}
