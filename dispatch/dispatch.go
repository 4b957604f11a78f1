// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package dispatch is the runtime around the contract. It deploys
// instances, stamps every call with its caller and time, and executes it
// inside one ledger transaction that is committed only if the contract
// accepts the call.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/pollchain/contract"
	"github.com/danielhkuo/pollchain/events"
	"github.com/danielhkuo/pollchain/ledger"
)

var ErrMissingCaller = errors.New("caller identity required")

// Clock supplies the time calls are stamped with.
type Clock func() time.Time

type Dispatcher struct {
	store     ledger.Store
	publisher events.Publisher
	clock     Clock
}

// New returns a dispatcher. A nil publisher drops events; a nil clock
// uses time.Now.
func New(store ledger.Store, publisher events.Publisher, clock Clock) *Dispatcher {
	if clock == nil {
		clock = time.Now
	}
	return &Dispatcher{store: store, publisher: publisher, clock: clock}
}

// Outcome is what a call produced.
type Outcome struct {
	Result contract.Result
	// Receipt is nil for read-only calls.
	Receipt *ledger.Receipt
	// Now is the timestamp the call ran at.
	Now uint64
}

func (d *Dispatcher) now() uint64 {
	return uint64(d.clock().Unix())
}

// Deploy creates a new contract instance owned by deployer.
func (d *Dispatcher) Deploy(ctx context.Context, deployer contract.Address) (ledger.Instance, error) {
	if deployer == "" {
		return ledger.Instance{}, ErrMissingCaller
	}

	inst := ledger.Instance{
		ID:         uuid.NewString(),
		Deployer:   string(deployer),
		DeployedAt: d.now(),
	}
	if err := d.store.Deploy(ctx, inst); err != nil {
		return ledger.Instance{}, err
	}

	slog.Info("instance deployed", "app_id", inst.ID, "deployer", inst.Deployer)
	return inst, nil
}

func (d *Dispatcher) Instances(ctx context.Context) ([]ledger.Instance, error) {
	return d.store.Instances(ctx)
}

// Call runs cmd on an instance. Read-only commands never write; mutating
// commands need a caller and either commit fully with a receipt or leave
// no trace.
func (d *Dispatcher) Call(ctx context.Context, instanceID string, caller contract.Address, cmd contract.Command) (Outcome, error) {
	if cmd.ReadOnly() {
		return d.query(ctx, instanceID, caller, cmd)
	}
	if caller == "" {
		return Outcome{}, ErrMissingCaller
	}

	now := d.now()
	cctx := contract.Context{Caller: caller, Now: now}

	var out Outcome
	err := d.store.Execute(ctx, instanceID, func(tx ledger.Tx) error {
		state, err := contract.Load(tx, caller)
		if err != nil {
			return fmt.Errorf("failed to load state: %w", err)
		}

		res, err := contract.Apply(state, cmd, cctx)
		if err != nil {
			return err
		}

		if err := contract.Save(tx, state); err != nil {
			return fmt.Errorf("failed to save state: %w", err)
		}

		receipt, err := tx.Record(ledger.Receipt{
			TxID:      uuid.NewString(),
			Instance:  instanceID,
			Sender:    string(caller),
			Method:    cmd.Method(),
			Args:      contract.Args(cmd),
			Timestamp: now,
		})
		if err != nil {
			return fmt.Errorf("failed to record receipt: %w", err)
		}

		out = Outcome{Result: res, Receipt: &receipt, Now: now}
		return nil
	})
	if err != nil {
		if code := contract.ErrorCode(err); code != "" {
			slog.Info("call rejected",
				"app_id", instanceID,
				"method", cmd.Method(),
				"sender", caller,
				"code", code,
			)
		}
		return Outcome{}, err
	}

	slog.Info("call committed",
		"app_id", instanceID,
		"method", cmd.Method(),
		"sender", caller,
		"tx_id", out.Receipt.TxID,
		"round", out.Receipt.Round,
	)
	d.publish(ctx, *out.Receipt)
	return out, nil
}

func (d *Dispatcher) query(ctx context.Context, instanceID string, caller contract.Address, cmd contract.Command) (Outcome, error) {
	now := d.now()

	var out Outcome
	err := d.store.View(ctx, instanceID, func(slots ledger.Slots) error {
		state, err := contract.Load(slots, caller)
		if err != nil {
			return fmt.Errorf("failed to load state: %w", err)
		}
		res, err := contract.Apply(state, cmd, contract.Context{Caller: caller, Now: now})
		if err != nil {
			return err
		}
		out = Outcome{Result: res, Now: now}
		return nil
	})
	return out, err
}

// State loads the poll and the given accounts' records at the current
// time, for callers that need several reads at once.
func (d *Dispatcher) State(ctx context.Context, instanceID string, accounts ...contract.Address) (*contract.PollState, uint64, error) {
	now := d.now()

	var state *contract.PollState
	err := d.store.View(ctx, instanceID, func(slots ledger.Slots) error {
		var err error
		state, err = contract.Load(slots, accounts...)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return state, now, nil
}

// Snapshot returns the instance's raw global slots.
func (d *Dispatcher) Snapshot(ctx context.Context, instanceID string) ([]contract.Slot, error) {
	var slots []contract.Slot
	err := d.store.View(ctx, instanceID, func(s ledger.Slots) error {
		var err error
		slots, err = contract.Snapshot(s)
		return err
	})
	return slots, err
}

// Receipts returns committed calls, newest first.
func (d *Dispatcher) Receipts(ctx context.Context, instanceID string, limit int) ([]ledger.Receipt, error) {
	return d.store.Receipts(ctx, instanceID, limit)
}

// publish never fails the call: the state is already committed.
func (d *Dispatcher) publish(ctx context.Context, r ledger.Receipt) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, events.FromReceipt(r)); err != nil {
		slog.Warn("failed to publish event", "tx_id", r.TxID, "error", err)
	}
}
