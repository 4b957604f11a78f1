// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

import "math"

// CreatePoll starts a new poll. It fails if a poll is active, whoever
// calls it. Options are read up to the first empty entry; voter records
// from earlier polls are left in place.
func (s *PollState) CreatePoll(ctx Context, question []byte, options [][]byte, durationSeconds, tokenID uint64) error {
	if s.Poll != nil && s.Poll.Active {
		return ErrAlreadyActive
	}

	count, err := countOptions(options)
	if err != nil {
		return err
	}
	if durationSeconds == 0 || durationSeconds > math.MaxUint64-ctx.Now {
		return ErrInvalidDuration
	}

	opts := make([][]byte, count)
	for i := range opts {
		opts[i] = clone(options[i])
	}

	s.Poll = &PollRecord{
		Question:   clone(question),
		Options:    opts,
		Tally:      make([]uint64, count),
		TotalVotes: 0,
		EndTime:    ctx.Now + durationSeconds,
		Creator:    ctx.Caller,
		Active:     true,
		TokenID:    tokenID,
	}
	return nil
}

// Vote records the caller's single vote. Every check runs before the
// first write.
func (s *PollState) Vote(ctx Context, optionIndex uint64) error {
	p := s.Poll
	if p == nil || !p.Active {
		return ErrPollInactive
	}
	if ctx.Now >= p.EndTime {
		return ErrPollExpired
	}
	if optionIndex < 1 || optionIndex > p.OptionCount() {
		return ErrInvalidOption
	}
	if rec, ok := s.Voter(ctx.Caller); ok && rec.HasVoted {
		return ErrAlreadyVoted
	}

	p.Tally[optionIndex-1]++
	p.TotalVotes++
	s.setVoter(ctx.Caller, VoterRecord{HasVoted: true, Choice: optionIndex})
	return nil
}

// EndPoll closes the poll. Only the creator may call it; calling it again
// after the poll ended succeeds and changes nothing.
func (s *PollState) EndPoll(ctx Context) error {
	if s.Poll == nil || ctx.Caller == "" || ctx.Caller != s.Poll.Creator {
		return ErrUnauthorized
	}
	s.Poll.Active = false
	return nil
}

// OptIn registers an empty voter record for the caller.
func (s *PollState) OptIn(ctx Context) error {
	if _, ok := s.Voter(ctx.Caller); ok {
		return ErrAlreadyOptedIn
	}
	s.setVoter(ctx.Caller, VoterRecord{})
	return nil
}

// countOptions returns how many leading options are set. At least two are
// required and nothing may follow the first empty one.
func countOptions(options [][]byte) (int, error) {
	if len(options) > MaxOptions {
		return 0, ErrInvalidOption
	}

	count := len(options)
	for i, opt := range options {
		if len(opt) == 0 {
			count = i
			break
		}
	}
	if count < MinOptions {
		return 0, ErrInvalidOption
	}
	for _, opt := range options[count:] {
		if len(opt) != 0 {
			return 0, ErrInvalidOption
		}
	}
	return count, nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
