// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens SQL connections and creates the ledger schema.

# Connections

Open accepts "sqlite" (modernc.org/sqlite) or "postgres" (lib/pq):

	conn, err := db.Open(db.TypeSQLite, "file:pollchain.db")

SQLite connections are limited to one open connection.

# Schema Creation

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - ledger_instance: Deployed contract instances
  - ledger_global: Instance-wide slots
  - ledger_local: Per-account slots
  - ledger_receipt: Committed calls, one round per row

# Relationships

	ledger_instance 1──* ledger_global
	ledger_instance 1──* ledger_local
	ledger_instance 1──* ledger_receipt

All foreign keys use ON DELETE CASCADE.
*/
package db
