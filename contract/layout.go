// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/danielhkuo/pollchain/ledger"
)

// Slot keys. Dashboards read these by name; never rename them on a
// deployed instance.
const (
	KeyQuestion    = "question"
	KeyTotalVotes  = "total"
	KeyEndTime     = "endTime"
	KeyCreator     = "creator"
	KeyActive      = "active"
	KeyOptionCount = "optCount"
	KeyTokenID     = "tokenId"

	KeyHasVoted = "voted"
	KeyChoice   = "choice"
)

// OptionKey is the global slot holding option i (1-based).
func OptionKey(i int) string { return fmt.Sprintf("opt%d", i) }

// TallyKey is the global slot counting votes for option i (1-based).
func TallyKey(i int) string { return fmt.Sprintf("v%d", i) }

// SlotKind tells whether a global slot holds bytes or an integer.
type SlotKind string

const (
	KindBytes SlotKind = "bytes"
	KindUint  SlotKind = "uint"
)

// Slot is one raw global slot.
type Slot struct {
	Key   string
	Kind  SlotKind
	Bytes []byte
	Uint  uint64
}

// GlobalKeys lists every global slot in layout order.
func GlobalKeys() []Slot {
	keys := []Slot{{Key: KeyQuestion, Kind: KindBytes}}
	for i := 1; i <= MaxOptions; i++ {
		keys = append(keys, Slot{Key: OptionKey(i), Kind: KindBytes})
	}
	for i := 1; i <= MaxOptions; i++ {
		keys = append(keys, Slot{Key: TallyKey(i), Kind: KindUint})
	}
	return append(keys,
		Slot{Key: KeyEndTime, Kind: KindUint},
		Slot{Key: KeyCreator, Kind: KindBytes},
		Slot{Key: KeyTotalVotes, Kind: KindUint},
		Slot{Key: KeyOptionCount, Kind: KindUint},
		Slot{Key: KeyActive, Kind: KindUint},
		Slot{Key: KeyTokenID, Kind: KindUint},
	)
}

// Load reads the poll record and the records of the given accounts.
// An instance whose active slot was never written has no poll.
func Load(slots ledger.Slots, accounts ...Address) (*PollState, error) {
	state := NewPollState()

	poll, err := loadPoll(slots)
	if err != nil {
		return nil, err
	}
	state.Poll = poll

	for _, addr := range accounts {
		if addr == "" {
			continue
		}
		rec, ok, err := loadVoter(slots, addr)
		if err != nil {
			return nil, err
		}
		if ok {
			state.Voters[addr] = rec
		}
	}
	return state, nil
}

// Save writes the poll record and every loaded voter record.
func Save(slots ledger.Slots, state *PollState) error {
	if state.Poll != nil {
		if err := savePoll(slots, state.Poll); err != nil {
			return err
		}
	}
	for addr, rec := range state.Voters {
		if err := saveVoter(slots, addr, rec); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns every global slot that has been written.
func Snapshot(slots ledger.Slots) ([]Slot, error) {
	out := []Slot{}
	for _, s := range GlobalKeys() {
		switch s.Kind {
		case KindUint:
			v, ok, err := getUint(slots, s.Key)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			s.Uint = v
		default:
			v, ok, err := getBytes(slots, s.Key)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			s.Bytes = v
		}
		out = append(out, s)
	}
	return out, nil
}

func loadPoll(slots ledger.Slots) (*PollRecord, error) {
	active, ok, err := getUint(slots, KeyActive)
	if err != nil || !ok {
		return nil, err
	}

	p := &PollRecord{Active: active == 1}

	if p.Question, _, err = getBytes(slots, KeyQuestion); err != nil {
		return nil, err
	}
	creator, _, err := getBytes(slots, KeyCreator)
	if err != nil {
		return nil, err
	}
	p.Creator = Address(creator)

	if p.TotalVotes, _, err = getUint(slots, KeyTotalVotes); err != nil {
		return nil, err
	}
	if p.EndTime, _, err = getUint(slots, KeyEndTime); err != nil {
		return nil, err
	}
	if p.TokenID, _, err = getUint(slots, KeyTokenID); err != nil {
		return nil, err
	}

	count, _, err := getUint(slots, KeyOptionCount)
	if err != nil {
		return nil, err
	}
	if count < MinOptions || count > MaxOptions {
		return nil, fmt.Errorf("corrupt option count %d", count)
	}

	p.Options = make([][]byte, count)
	p.Tally = make([]uint64, count)
	for i := 1; i <= int(count); i++ {
		if p.Options[i-1], _, err = getBytes(slots, OptionKey(i)); err != nil {
			return nil, err
		}
		if p.Tally[i-1], _, err = getUint(slots, TallyKey(i)); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func savePoll(slots ledger.Slots, p *PollRecord) error {
	if err := slots.SetGlobal(KeyQuestion, p.Question); err != nil {
		return err
	}

	// Unused option and tally slots are cleared so a shorter poll never
	// shows a previous poll's leftovers.
	for i := 1; i <= MaxOptions; i++ {
		var opt []byte
		var tally uint64
		if i <= len(p.Options) {
			opt = p.Options[i-1]
			tally = p.Tally[i-1]
		}
		if err := slots.SetGlobal(OptionKey(i), opt); err != nil {
			return err
		}
		if err := putUint(slots, TallyKey(i), tally); err != nil {
			return err
		}
	}

	if err := slots.SetGlobal(KeyCreator, []byte(p.Creator)); err != nil {
		return err
	}
	uints := []struct {
		key   string
		value uint64
	}{
		{KeyEndTime, p.EndTime},
		{KeyTotalVotes, p.TotalVotes},
		{KeyOptionCount, p.OptionCount()},
		{KeyActive, boolToUint(p.Active)},
		{KeyTokenID, p.TokenID},
	}
	for _, u := range uints {
		if err := putUint(slots, u.key, u.value); err != nil {
			return err
		}
	}
	return nil
}

func loadVoter(slots ledger.Slots, addr Address) (VoterRecord, bool, error) {
	voted, ok, err := getLocalUint(slots, addr, KeyHasVoted)
	if err != nil || !ok {
		return VoterRecord{}, false, err
	}
	choice, _, err := getLocalUint(slots, addr, KeyChoice)
	if err != nil {
		return VoterRecord{}, false, err
	}
	return VoterRecord{HasVoted: voted == 1, Choice: choice}, true, nil
}

func saveVoter(slots ledger.Slots, addr Address, rec VoterRecord) error {
	if err := slots.SetLocal(string(addr), KeyHasVoted, database.PackUInt64(boolToUint(rec.HasVoted))); err != nil {
		return err
	}
	return slots.SetLocal(string(addr), KeyChoice, database.PackUInt64(rec.Choice))
}

func getBytes(slots ledger.Slots, key string) ([]byte, bool, error) {
	v, err := slots.Global(key)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func getUint(slots ledger.Slots, key string) (uint64, bool, error) {
	v, ok, err := getBytes(slots, key)
	if err != nil || !ok {
		return 0, false, err
	}
	n, err := database.ParseUInt64(v)
	if err != nil {
		return 0, false, fmt.Errorf("slot %q: %w", key, err)
	}
	return n, true, nil
}

func getLocalUint(slots ledger.Slots, addr Address, key string) (uint64, bool, error) {
	v, err := slots.Local(string(addr), key)
	if errors.Is(err, ledger.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := database.ParseUInt64(v)
	if err != nil {
		return 0, false, fmt.Errorf("local slot %q: %w", key, err)
	}
	return n, true, nil
}

func putUint(slots ledger.Slots, key string, value uint64) error {
	return slots.SetGlobal(key, database.PackUInt64(value))
}

func boolToUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
