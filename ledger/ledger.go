// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("slot not found")
	ErrUnknownInstance = errors.New("unknown instance")
	ErrInstanceExists  = errors.New("instance already exists")
)

// Slots is the key-value state a single call may touch: slots shared by the
// whole instance, and slots scoped to one account within it.
type Slots interface {
	// Global returns ErrNotFound if the slot was never written.
	Global(key string) ([]byte, error)
	SetGlobal(key string, value []byte) error

	// Local returns ErrNotFound if the account never wrote the slot.
	Local(account, key string) ([]byte, error)
	SetLocal(account, key string, value []byte) error
}

// Tx is a mutating view of one instance. Its writes become visible only
// when the surrounding Execute returns nil.
type Tx interface {
	Slots

	// Record appends r to the instance's receipt log and returns it with
	// its round assigned.
	Record(r Receipt) (Receipt, error)
}

// Store holds any number of instances.
//
// Execute calls are totally ordered per store: fn never runs concurrently
// with another Execute. If fn returns an error nothing it wrote is kept.
// View runs fn against committed state and discards any writes.
type Store interface {
	Deploy(ctx context.Context, inst Instance) error
	Instances(ctx context.Context) ([]Instance, error)
	Execute(ctx context.Context, instanceID string, fn func(Tx) error) error
	View(ctx context.Context, instanceID string, fn func(Slots) error) error

	// Receipts returns at most limit receipts, newest first. A limit of
	// zero or less returns all of them.
	Receipts(ctx context.Context, instanceID string, limit int) ([]Receipt, error)

	Close() error
}

// Instance is one deployed copy of the contract.
type Instance struct {
	ID         string `json:"id"`
	Deployer   string `json:"deployer"`
	DeployedAt uint64 `json:"deployed_at"`
}

// Receipt describes one committed call.
type Receipt struct {
	TxID      string            `json:"tx_id"`
	Instance  string            `json:"app_id"`
	Round     uint64            `json:"round"`
	Sender    string            `json:"sender"`
	Method    string            `json:"method"`
	Args      map[string]string `json:"args,omitempty"`
	Timestamp uint64            `json:"timestamp"`
}

// Newest returns the last limit entries of an oldest-first slice in
// reverse order.
func Newest(receipts []Receipt, limit int) []Receipt {
	n := len(receipts)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Receipt, 0, n)
	for i := len(receipts) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, receipts[i])
	}
	return out
}
