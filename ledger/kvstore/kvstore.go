// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package kvstore implements ledger.Store on an avalanchego key-value
// database. Instances and accounts are partitioned with prefixdb and every
// call runs inside its own versiondb, committed only on success.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"

	"github.com/danielhkuo/pollchain/ledger"
)

/*
 * base
 * |-. instances
 * | '-- instanceID -> Instance JSON
 * '-. apps
 *   '-. instanceID
 *     |-. global
 *     | '-- key -> value
 *     |-. local
 *     | '-. account
 *     |   '-- key -> value
 *     |-. meta
 *     | '-- height -> uint64
 *     '-. log
 *       '-- round -> Receipt JSON
 */
var (
	instancesPrefix = []byte("instances")
	appsPrefix      = []byte("apps")
	globalPrefix    = []byte("global")
	localPrefix     = []byte("local")
	metaPrefix      = []byte("meta")
	logPrefix       = []byte("log")

	heightKey = []byte("height")
)

var _ ledger.Store = (*Store)(nil)

type Store struct {
	lock sync.RWMutex

	base      database.Database
	instances database.Database
	apps      database.Database
}

// New wraps an existing database. The store takes ownership of db.
func New(db database.Database) *Store {
	return &Store{
		base:      db,
		instances: prefixdb.New(instancesPrefix, db),
		apps:      prefixdb.New(appsPrefix, db),
	}
}

// NewMemory returns a store backed by an ephemeral memdb.
func NewMemory() *Store {
	return New(memdb.New())
}

func (s *Store) Deploy(ctx context.Context, inst ledger.Instance) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	exists, err := s.instances.Has([]byte(inst.ID))
	if err != nil {
		return fmt.Errorf("failed to check instance: %w", err)
	}
	if exists {
		return ledger.ErrInstanceExists
	}

	b, err := json.Marshal(inst)
	if err != nil {
		return fmt.Errorf("failed to encode instance: %w", err)
	}
	return s.instances.Put([]byte(inst.ID), b)
}

func (s *Store) Instances(ctx context.Context) ([]ledger.Instance, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	it := s.instances.NewIterator()
	defer it.Release()

	out := []ledger.Instance{}
	for it.Next() {
		var inst ledger.Instance
		if err := json.Unmarshal(it.Value(), &inst); err != nil {
			return nil, fmt.Errorf("failed to decode instance: %w", err)
		}
		out = append(out, inst)
	}
	if err := it.Error(); err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DeployedAt != out[j].DeployedAt {
			return out[i].DeployedAt < out[j].DeployedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) Execute(ctx context.Context, instanceID string, fn func(ledger.Tx) error) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensure(instanceID); err != nil {
		return err
	}

	vdb := versiondb.New(s.appDB(instanceID))
	defer vdb.Abort()

	if err := fn(newTx(vdb)); err != nil {
		return err
	}
	if err := vdb.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (s *Store) View(ctx context.Context, instanceID string, fn func(ledger.Slots) error) error {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensure(instanceID); err != nil {
		return err
	}

	// Writes made by fn land in the version layer and are dropped.
	vdb := versiondb.New(s.appDB(instanceID))
	defer vdb.Abort()

	return fn(newTx(vdb))
}

func (s *Store) Receipts(ctx context.Context, instanceID string, limit int) ([]ledger.Receipt, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensure(instanceID); err != nil {
		return nil, err
	}

	app := s.appDB(instanceID)
	meta := prefixdb.New(metaPrefix, app)
	log := prefixdb.New(logPrefix, app)

	height, err := getUInt64(meta, heightKey)
	if err != nil {
		return nil, err
	}

	out := []ledger.Receipt{}
	for round := height; round > 0; round-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		b, err := log.Get(database.PackUInt64(round))
		if err != nil {
			return nil, fmt.Errorf("failed to read receipt %d: %w", round, err)
		}
		var r ledger.Receipt
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, fmt.Errorf("failed to decode receipt %d: %w", round, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.base.Close()
}

func (s *Store) ensure(instanceID string) error {
	exists, err := s.instances.Has([]byte(instanceID))
	if err != nil {
		return fmt.Errorf("failed to check instance: %w", err)
	}
	if !exists {
		return ledger.ErrUnknownInstance
	}
	return nil
}

func (s *Store) appDB(instanceID string) database.Database {
	return prefixdb.New([]byte(instanceID), s.apps)
}

type tx struct {
	global database.Database
	local  database.Database
	meta   database.Database
	log    database.Database
}

func newTx(db database.Database) *tx {
	return &tx{
		global: prefixdb.New(globalPrefix, db),
		local:  prefixdb.New(localPrefix, db),
		meta:   prefixdb.New(metaPrefix, db),
		log:    prefixdb.New(logPrefix, db),
	}
}

func (t *tx) Global(key string) ([]byte, error) {
	return get(t.global, []byte(key))
}

func (t *tx) SetGlobal(key string, value []byte) error {
	return t.global.Put([]byte(key), value)
}

func (t *tx) Local(account, key string) ([]byte, error) {
	return get(prefixdb.New([]byte(account), t.local), []byte(key))
}

func (t *tx) SetLocal(account, key string, value []byte) error {
	return prefixdb.New([]byte(account), t.local).Put([]byte(key), value)
}

func (t *tx) Record(r ledger.Receipt) (ledger.Receipt, error) {
	height, err := getUInt64(t.meta, heightKey)
	if err != nil {
		return ledger.Receipt{}, err
	}
	r.Round = height + 1

	b, err := json.Marshal(r)
	if err != nil {
		return ledger.Receipt{}, fmt.Errorf("failed to encode receipt: %w", err)
	}
	if err := t.log.Put(database.PackUInt64(r.Round), b); err != nil {
		return ledger.Receipt{}, err
	}
	if err := database.PutUInt64(t.meta, heightKey, r.Round); err != nil {
		return ledger.Receipt{}, err
	}
	return r, nil
}

func get(db database.KeyValueReader, key []byte) ([]byte, error) {
	v, err := db.Get(key)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ledger.ErrNotFound
	}
	return v, err
}

func getUInt64(db database.KeyValueReader, key []byte) (uint64, error) {
	v, err := database.GetUInt64(db, key)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	return v, err
}
