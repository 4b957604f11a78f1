// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypeMemory   = "memory"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to a SQL database of the given type and verifies the
// connection.
func Open(dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case TypeSQLite:
		driver = "sqlite"
	case TypePostgres:
		driver = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; in-memory databases also live per connection.
	if dbType == TypeSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the ledger.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	blob := "BLOB"
	if dbType == TypePostgres {
		blob = "BYTEA"
	}

	_, err := db.Exec(strings.ReplaceAll(schema, "{{blob}}", blob))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Deployed contract instances
CREATE TABLE IF NOT EXISTS ledger_instance (
    id TEXT PRIMARY KEY,
    deployer TEXT NOT NULL,
    deployed_at BIGINT NOT NULL
);

-- Instance-wide slots
CREATE TABLE IF NOT EXISTS ledger_global (
    instance_id TEXT NOT NULL REFERENCES ledger_instance(id) ON DELETE CASCADE,
    slot TEXT NOT NULL,
    value {{blob}} NOT NULL,
    PRIMARY KEY (instance_id, slot)
);

-- Per-account slots
CREATE TABLE IF NOT EXISTS ledger_local (
    instance_id TEXT NOT NULL REFERENCES ledger_instance(id) ON DELETE CASCADE,
    account TEXT NOT NULL,
    slot TEXT NOT NULL,
    value {{blob}} NOT NULL,
    PRIMARY KEY (instance_id, account, slot)
);

CREATE INDEX IF NOT EXISTS idx_ledger_local_account ON ledger_local(instance_id, account);

-- Committed call receipts
CREATE TABLE IF NOT EXISTS ledger_receipt (
    instance_id TEXT NOT NULL REFERENCES ledger_instance(id) ON DELETE CASCADE,
    round BIGINT NOT NULL,
    tx_id TEXT NOT NULL UNIQUE,
    payload TEXT NOT NULL,
    PRIMARY KEY (instance_id, round)
);
`
