// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ledgertest holds the behavioural tests every ledger.Store must pass.
package ledgertest

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/danielhkuo/pollchain/ledger"
)

var errAbort = errors.New("abort")

// RunStoreTests runs the suite against stores produced by newStore. Each
// subtest gets a fresh store.
func RunStoreTests(t *testing.T, newStore func(t *testing.T) ledger.Store) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s ledger.Store)
	}{
		{"deploy and list", testDeployAndList},
		{"deploy duplicate", testDeployDuplicate},
		{"unknown instance", testUnknownInstance},
		{"commit", testCommit},
		{"abort discards writes", testAbort},
		{"view discards writes", testViewDiscards},
		{"local slots are per account", testLocalIsolation},
		{"instances are isolated", testInstanceIsolation},
		{"receipts", testReceipts},
		{"receipts roll back", testReceiptsRollBack},
		{"serialized execute", testSerializedExecute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			tt.fn(t, s)
		})
	}
}

func deploy(t *testing.T, s ledger.Store, id string) {
	t.Helper()
	if err := s.Deploy(context.Background(), ledger.Instance{ID: id, Deployer: "deployer", DeployedAt: 100}); err != nil {
		t.Fatalf("Deploy(%s) error = %v", id, err)
	}
}

func testDeployAndList(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	if err := s.Deploy(ctx, ledger.Instance{ID: "b", Deployer: "alice", DeployedAt: 20}); err != nil {
		t.Fatal(err)
	}
	if err := s.Deploy(ctx, ledger.Instance{ID: "a", Deployer: "bob", DeployedAt: 10}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Instances(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Instances() returned %d, want 2", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("Instances() order = %s,%s, want a,b", got[0].ID, got[1].ID)
	}
	if got[0].Deployer != "bob" || got[0].DeployedAt != 10 {
		t.Errorf("Instances()[0] = %+v", got[0])
	}
}

func testDeployDuplicate(t *testing.T, s ledger.Store) {
	deploy(t, s, "app")
	err := s.Deploy(context.Background(), ledger.Instance{ID: "app"})
	if !errors.Is(err, ledger.ErrInstanceExists) {
		t.Errorf("Deploy duplicate error = %v, want ErrInstanceExists", err)
	}
}

func testUnknownInstance(t *testing.T, s ledger.Store) {
	ctx := context.Background()

	err := s.Execute(ctx, "missing", func(ledger.Tx) error { return nil })
	if !errors.Is(err, ledger.ErrUnknownInstance) {
		t.Errorf("Execute error = %v, want ErrUnknownInstance", err)
	}
	err = s.View(ctx, "missing", func(ledger.Slots) error { return nil })
	if !errors.Is(err, ledger.ErrUnknownInstance) {
		t.Errorf("View error = %v, want ErrUnknownInstance", err)
	}
	_, err = s.Receipts(ctx, "missing", 0)
	if !errors.Is(err, ledger.ErrUnknownInstance) {
		t.Errorf("Receipts error = %v, want ErrUnknownInstance", err)
	}
}

func testCommit(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	deploy(t, s, "app")

	err := s.Execute(ctx, "app", func(tx ledger.Tx) error {
		if _, err := tx.Global("question"); !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("Global on empty instance error = %v, want ErrNotFound", err)
		}
		if err := tx.SetGlobal("question", []byte("Lunch?")); err != nil {
			return err
		}
		if err := tx.SetGlobal("empty", nil); err != nil {
			return err
		}
		return tx.SetLocal("alice", "voted", []byte{1})
	})
	if err != nil {
		t.Fatalf("Execute error = %v", err)
	}

	err = s.View(ctx, "app", func(sl ledger.Slots) error {
		q, err := sl.Global("question")
		if err != nil {
			return err
		}
		if string(q) != "Lunch?" {
			t.Errorf("question = %q, want Lunch?", q)
		}
		e, err := sl.Global("empty")
		if err != nil {
			t.Errorf("empty slot error = %v", err)
		}
		if len(e) != 0 {
			t.Errorf("empty slot = %q", e)
		}
		v, err := sl.Local("alice", "voted")
		if err != nil {
			return err
		}
		if !bytes.Equal(v, []byte{1}) {
			t.Errorf("voted = %v, want [1]", v)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View error = %v", err)
	}
}

func testAbort(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	deploy(t, s, "app")

	err := s.Execute(ctx, "app", func(tx ledger.Tx) error {
		return tx.SetGlobal("total", []byte{1})
	})
	if err != nil {
		t.Fatal(err)
	}

	err = s.Execute(ctx, "app", func(tx ledger.Tx) error {
		if err := tx.SetGlobal("total", []byte{2}); err != nil {
			return err
		}
		if err := tx.SetLocal("bob", "voted", []byte{1}); err != nil {
			return err
		}
		return errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("Execute error = %v, want errAbort", err)
	}

	err = s.View(ctx, "app", func(sl ledger.Slots) error {
		v, err := sl.Global("total")
		if err != nil {
			return err
		}
		if !bytes.Equal(v, []byte{1}) {
			t.Errorf("total = %v after aborted call, want [1]", v)
		}
		if _, err := sl.Local("bob", "voted"); !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("aborted local write visible: err = %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func testViewDiscards(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	deploy(t, s, "app")

	err := s.View(ctx, "app", func(sl ledger.Slots) error {
		return sl.SetGlobal("active", []byte{1})
	})
	if err != nil {
		t.Fatal(err)
	}

	err = s.View(ctx, "app", func(sl ledger.Slots) error {
		if _, err := sl.Global("active"); !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("write inside View persisted: err = %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func testLocalIsolation(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	deploy(t, s, "app")

	err := s.Execute(ctx, "app", func(tx ledger.Tx) error {
		if err := tx.SetLocal("alice", "choice", []byte{1}); err != nil {
			return err
		}
		return tx.SetLocal("bob", "choice", []byte{2})
	})
	if err != nil {
		t.Fatal(err)
	}

	err = s.View(ctx, "app", func(sl ledger.Slots) error {
		a, _ := sl.Local("alice", "choice")
		b, _ := sl.Local("bob", "choice")
		if !bytes.Equal(a, []byte{1}) || !bytes.Equal(b, []byte{2}) {
			t.Errorf("alice=%v bob=%v, want [1] [2]", a, b)
		}
		if _, err := sl.Local("carol", "choice"); !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("carol choice err = %v, want ErrNotFound", err)
		}
		if _, err := sl.Global("choice"); !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("local write leaked into global slots: err = %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func testInstanceIsolation(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	deploy(t, s, "one")
	deploy(t, s, "two")

	err := s.Execute(ctx, "one", func(tx ledger.Tx) error {
		if _, err := tx.Record(ledger.Receipt{TxID: "tx-one", Method: "vote"}); err != nil {
			return err
		}
		return tx.SetGlobal("question", []byte("one"))
	})
	if err != nil {
		t.Fatal(err)
	}

	err = s.View(ctx, "two", func(sl ledger.Slots) error {
		if _, err := sl.Global("question"); !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("instance two sees instance one's slot: err = %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	receipts, err := s.Receipts(ctx, "two", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(receipts) != 0 {
		t.Errorf("instance two has %d receipts, want 0", len(receipts))
	}
}

func testReceipts(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	deploy(t, s, "app")

	for _, id := range []string{"tx-1", "tx-2", "tx-3"} {
		err := s.Execute(ctx, "app", func(tx ledger.Tx) error {
			r, err := tx.Record(ledger.Receipt{
				TxID:     id,
				Instance: "app",
				Sender:   "alice",
				Method:   "vote",
				Args:     map[string]string{"option_index": "1"},
			})
			if err != nil {
				return err
			}
			if r.Round == 0 {
				t.Errorf("Record() did not assign a round")
			}
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.Receipts(ctx, "app", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("Receipts() returned %d, want 3", len(all))
	}
	if all[0].TxID != "tx-3" || all[0].Round != 3 || all[2].Round != 1 {
		t.Errorf("Receipts() not newest first: %+v", all)
	}
	if all[0].Args["option_index"] != "1" {
		t.Errorf("receipt args = %v", all[0].Args)
	}

	limited, err := s.Receipts(ctx, "app", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 || limited[1].TxID != "tx-2" {
		t.Errorf("Receipts(limit=2) = %+v", limited)
	}
}

func testReceiptsRollBack(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	deploy(t, s, "app")

	err := s.Execute(ctx, "app", func(tx ledger.Tx) error {
		if _, err := tx.Record(ledger.Receipt{TxID: "tx-lost"}); err != nil {
			return err
		}
		return errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("Execute error = %v", err)
	}

	err = s.Execute(ctx, "app", func(tx ledger.Tx) error {
		r, err := tx.Record(ledger.Receipt{TxID: "tx-kept"})
		if err != nil {
			return err
		}
		if r.Round != 1 {
			t.Errorf("round after rollback = %d, want 1", r.Round)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

// testSerializedExecute increments a counter from many goroutines; lost
// updates would show up as a short count.
func testSerializedExecute(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	deploy(t, s, "app")

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Execute(ctx, "app", func(tx ledger.Tx) error {
				v, err := tx.Global("counter")
				if err != nil && !errors.Is(err, ledger.ErrNotFound) {
					return err
				}
				n := byte(0)
				if len(v) == 1 {
					n = v[0]
				}
				return tx.SetGlobal("counter", []byte{n + 1})
			})
			if err != nil {
				t.Errorf("Execute error = %v", err)
			}
		}()
	}
	wg.Wait()

	err := s.View(ctx, "app", func(sl ledger.Slots) error {
		v, err := sl.Global("counter")
		if err != nil {
			return err
		}
		if len(v) != 1 || v[0] != workers {
			t.Errorf("counter = %v, want [%d]", v, workers)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
