// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

import (
	"context"
	"reflect"
	"testing"

	"github.com/ava-labs/avalanchego/database"

	"github.com/danielhkuo/pollchain/ledger"
	"github.com/danielhkuo/pollchain/ledger/kvstore"
)

func newTestStore(t *testing.T) ledger.Store {
	t.Helper()
	s := kvstore.NewMemory()
	if err := s.Deploy(context.Background(), ledger.Instance{ID: "app"}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadEmptyInstance(t *testing.T) {
	s := newTestStore(t)

	err := s.View(context.Background(), "app", func(sl ledger.Slots) error {
		state, err := Load(sl, "alice")
		if err != nil {
			return err
		}
		if state.Poll != nil {
			t.Errorf("Poll = %+v, want nil", state.Poll)
		}
		if len(state.Voters) != 0 {
			t.Errorf("Voters = %v, want empty", state.Voters)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := newActivePoll(t, "creator", 1000, "Pizza", "Tacos", "Sushi")
	want.Poll.TokenID = 42
	if err := want.Vote(Context{Caller: "alice", Now: 1100}, 3); err != nil {
		t.Fatal(err)
	}
	if err := want.OptIn(Context{Caller: "bob"}); err != nil {
		t.Fatal(err)
	}

	err := s.Execute(ctx, "app", func(tx ledger.Tx) error {
		return Save(tx, want)
	})
	if err != nil {
		t.Fatal(err)
	}

	err = s.View(ctx, "app", func(sl ledger.Slots) error {
		got, err := Load(sl, "alice", "bob", "carol")
		if err != nil {
			return err
		}
		if !reflect.DeepEqual(got.Poll, want.Poll) {
			t.Errorf("Poll = %+v, want %+v", got.Poll, want.Poll)
		}
		if !reflect.DeepEqual(got.Voters, want.Voters) {
			t.Errorf("Voters = %v, want %v", got.Voters, want.Voters)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSaveClearsUnusedSlots(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	four := newActivePoll(t, "creator", 0, "a", "b", "c", "d")
	if err := four.Vote(Context{Caller: "x", Now: 1}, 4); err != nil {
		t.Fatal(err)
	}
	if err := four.EndPoll(Context{Caller: "creator"}); err != nil {
		t.Fatal(err)
	}
	two := newActivePoll(t, "creator", 10, "yes", "no")

	for _, state := range []*PollState{four, two} {
		err := s.Execute(ctx, "app", func(tx ledger.Tx) error { return Save(tx, state) })
		if err != nil {
			t.Fatal(err)
		}
	}

	err := s.View(ctx, "app", func(sl ledger.Slots) error {
		opt4, err := sl.Global(OptionKey(4))
		if err != nil {
			return err
		}
		if len(opt4) != 0 {
			t.Errorf("opt4 = %q, want empty", opt4)
		}
		v4, err := sl.Global(TallyKey(4))
		if err != nil {
			return err
		}
		if n, _ := database.ParseUInt64(v4); n != 0 {
			t.Errorf("v4 = %d, want 0", n)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	state := newActivePoll(t, "creator", 1000, "Pizza", "Tacos")
	if err := state.Vote(Context{Caller: "alice", Now: 1001}, 2); err != nil {
		t.Fatal(err)
	}
	err := s.Execute(ctx, "app", func(tx ledger.Tx) error { return Save(tx, state) })
	if err != nil {
		t.Fatal(err)
	}

	err = s.View(ctx, "app", func(sl ledger.Slots) error {
		slots, err := Snapshot(sl)
		if err != nil {
			return err
		}
		if len(slots) != len(GlobalKeys()) {
			t.Errorf("Snapshot() returned %d slots, want %d", len(slots), len(GlobalKeys()))
		}

		byKey := map[string]Slot{}
		for _, slot := range slots {
			byKey[slot.Key] = slot
		}
		if got := string(byKey["question"].Bytes); got != "Lunch?" {
			t.Errorf("question = %q", got)
		}
		if got := string(byKey["opt2"].Bytes); got != "Tacos" {
			t.Errorf("opt2 = %q", got)
		}
		if byKey["v2"].Kind != KindUint || byKey["v2"].Uint != 1 {
			t.Errorf("v2 = %+v", byKey["v2"])
		}
		if byKey["total"].Uint != 1 || byKey["optCount"].Uint != 2 || byKey["active"].Uint != 1 {
			t.Errorf("total/optCount/active = %d/%d/%d", byKey["total"].Uint, byKey["optCount"].Uint, byKey["active"].Uint)
		}
		if byKey["endTime"].Uint != 4600 || string(byKey["creator"].Bytes) != "creator" {
			t.Errorf("endTime/creator = %d/%s", byKey["endTime"].Uint, byKey["creator"].Bytes)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSnapshotEmpty(t *testing.T) {
	s := newTestStore(t)

	err := s.View(context.Background(), "app", func(sl ledger.Slots) error {
		slots, err := Snapshot(sl)
		if err != nil {
			return err
		}
		if len(slots) != 0 {
			t.Errorf("Snapshot() = %v, want empty", slots)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
