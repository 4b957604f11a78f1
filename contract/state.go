// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

const (
	MinOptions = 2
	MaxOptions = 4
)

// Address identifies a caller. The runtime guarantees it cannot be forged.
type Address string

// Context is what the runtime supplies with every call.
type Context struct {
	Caller Address
	// Now is the call's timestamp in Unix seconds.
	Now uint64
}

// PollRecord is the poll's configuration and tallies.
type PollRecord struct {
	Question   []byte
	Options    [][]byte
	Tally      []uint64
	TotalVotes uint64
	EndTime    uint64
	Creator    Address
	Active     bool
	// TokenID is stored for eligibility gating but never checked.
	TokenID uint64
}

// OptionCount returns the number of configured options.
func (p *PollRecord) OptionCount() uint64 {
	return uint64(len(p.Options))
}

// Open reports whether the poll accepts votes at now.
func (p *PollRecord) Open(now uint64) bool {
	return p.Active && now < p.EndTime
}

// VoterRecord is one identity's vote receipt.
type VoterRecord struct {
	HasVoted bool
	// Choice is the 1-based option index; meaningful only if HasVoted.
	Choice uint64
}

// PollState is everything a call can read or write.
//
// A nil Poll means no poll was ever created. Voters holds the records
// loaded for the call; an identity missing from the map has no record,
// which is different from a record with HasVoted == false.
type PollState struct {
	Poll   *PollRecord
	Voters map[Address]VoterRecord
}

// NewPollState returns an uninitialized state.
func NewPollState() *PollState {
	return &PollState{Voters: make(map[Address]VoterRecord)}
}

// Voter returns the caller's record and whether one exists.
func (s *PollState) Voter(addr Address) (VoterRecord, bool) {
	rec, ok := s.Voters[addr]
	return rec, ok
}

func (s *PollState) setVoter(addr Address, rec VoterRecord) {
	if s.Voters == nil {
		s.Voters = make(map[Address]VoterRecord)
	}
	s.Voters[addr] = rec
}
