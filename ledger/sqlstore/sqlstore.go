// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package sqlstore implements ledger.Store on database/sql. It works with
// the SQLite and PostgreSQL drivers registered by package db; the tables
// must exist (see db.CreateSchema).
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/danielhkuo/pollchain/ledger"
)

var _ ledger.Store = (*Store)(nil)

type Store struct {
	lock sync.RWMutex
	db   *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Deploy(ctx context.Context, inst ledger.Instance) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := instanceExists(ctx, tx, inst.ID)
	if err != nil {
		return err
	}
	if exists {
		return ledger.ErrInstanceExists
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledger_instance (id, deployer, deployed_at)
		VALUES ($1, $2, $3)
	`, inst.ID, inst.Deployer, int64(inst.DeployedAt))
	if err != nil {
		return fmt.Errorf("failed to insert instance: %w", err)
	}

	return tx.Commit()
}

func (s *Store) Instances(ctx context.Context) ([]ledger.Instance, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, deployer, deployed_at
		FROM ledger_instance
		ORDER BY deployed_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query instances: %w", err)
	}
	defer rows.Close()

	out := []ledger.Instance{}
	for rows.Next() {
		var inst ledger.Instance
		var deployedAt int64
		if err := rows.Scan(&inst.ID, &inst.Deployer, &deployedAt); err != nil {
			return nil, fmt.Errorf("failed to scan instance: %w", err)
		}
		inst.DeployedAt = uint64(deployedAt)
		out = append(out, inst)
	}
	return out, rows.Err()
}

func (s *Store) Execute(ctx context.Context, instanceID string, fn func(ledger.Tx) error) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	tx, err := s.begin(ctx, instanceID)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{ctx: ctx, tx: tx, instanceID: instanceID}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) View(ctx context.Context, instanceID string, fn func(ledger.Slots) error) error {
	s.lock.RLock()
	defer s.lock.RUnlock()

	tx, err := s.begin(ctx, instanceID)
	if err != nil {
		return err
	}
	// Never committed: writes made by fn are rolled back.
	defer tx.Rollback()

	return fn(&sqlTx{ctx: ctx, tx: tx, instanceID: instanceID})
}

func (s *Store) Receipts(ctx context.Context, instanceID string, limit int) ([]ledger.Receipt, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	tx, err := s.begin(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		SELECT payload FROM ledger_receipt
		WHERE instance_id = $1
		ORDER BY round DESC
	`
	args := []any{instanceID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer rows.Close()

	out := []ledger.Receipt{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		var r ledger.Receipt
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("failed to decode receipt: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) begin(ctx context.Context, instanceID string) (*sql.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	exists, err := instanceExists(ctx, tx, instanceID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if !exists {
		tx.Rollback()
		return nil, ledger.ErrUnknownInstance
	}
	return tx, nil
}

func instanceExists(ctx context.Context, tx *sql.Tx, instanceID string) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM ledger_instance WHERE id = $1)
	`, instanceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check instance: %w", err)
	}
	return exists, nil
}

type sqlTx struct {
	ctx        context.Context
	tx         *sql.Tx
	instanceID string
}

func (t *sqlTx) Global(key string) ([]byte, error) {
	var value []byte
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT value FROM ledger_global
		WHERE instance_id = $1 AND slot = $2
	`, t.instanceID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read global slot %q: %w", key, err)
	}
	return value, nil
}

func (t *sqlTx) SetGlobal(key string, value []byte) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO ledger_global (instance_id, slot, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (instance_id, slot) DO UPDATE SET value = excluded.value
	`, t.instanceID, key, nonNil(value))
	if err != nil {
		return fmt.Errorf("failed to write global slot %q: %w", key, err)
	}
	return nil
}

func (t *sqlTx) Local(account, key string) ([]byte, error) {
	var value []byte
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT value FROM ledger_local
		WHERE instance_id = $1 AND account = $2 AND slot = $3
	`, t.instanceID, account, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read local slot %q: %w", key, err)
	}
	return value, nil
}

func (t *sqlTx) SetLocal(account, key string, value []byte) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO ledger_local (instance_id, account, slot, value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (instance_id, account, slot) DO UPDATE SET value = excluded.value
	`, t.instanceID, account, key, nonNil(value))
	if err != nil {
		return fmt.Errorf("failed to write local slot %q: %w", key, err)
	}
	return nil
}

func (t *sqlTx) Record(r ledger.Receipt) (ledger.Receipt, error) {
	var height int64
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT COALESCE(MAX(round), 0) FROM ledger_receipt WHERE instance_id = $1
	`, t.instanceID).Scan(&height)
	if err != nil {
		return ledger.Receipt{}, fmt.Errorf("failed to read receipt height: %w", err)
	}
	r.Round = uint64(height) + 1

	payload, err := json.Marshal(r)
	if err != nil {
		return ledger.Receipt{}, fmt.Errorf("failed to encode receipt: %w", err)
	}

	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO ledger_receipt (instance_id, round, tx_id, payload)
		VALUES ($1, $2, $3, $4)
	`, t.instanceID, int64(r.Round), r.TxID, string(payload))
	if err != nil {
		return ledger.Receipt{}, fmt.Errorf("failed to insert receipt: %w", err)
	}
	return r, nil
}

// nonNil keeps empty values out of NULL territory.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
