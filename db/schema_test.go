// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"testing"
)

func TestCreateSchemaIdempotent(t *testing.T) {
	conn, err := Open(TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn, TypeSQLite); err != nil {
			t.Fatalf("CreateSchema call %d failed: %v", i+1, err)
		}
	}

	tables := []string{"ledger_instance", "ledger_global", "ledger_local", "ledger_receipt"}
	for _, table := range tables {
		var name string
		err := conn.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestOpenUnsupportedType(t *testing.T) {
	for _, dbType := range []string{TypeMemory, "mysql", ""} {
		if _, err := Open(dbType, "whatever"); err == nil {
			t.Errorf("Open(%q) should fail", dbType)
		}
	}
}
