// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

// Read-only accessors. None of them modify the state and all of them work
// before any poll exists.

// GetResults returns the four tally slots followed by total votes and the
// option count. Slots past the option count are zero.
func (s *PollState) GetResults() []uint64 {
	out := make([]uint64, MaxOptions+2)
	if s.Poll == nil {
		return out
	}
	copy(out, s.Poll.Tally)
	out[MaxOptions] = s.Poll.TotalVotes
	out[MaxOptions+1] = s.Poll.OptionCount()
	return out
}

func (s *PollState) GetQuestion() []byte {
	if s.Poll == nil {
		return nil
	}
	return clone(s.Poll.Question)
}

// GetOption returns the option at a 1-based index. Any index outside the
// configured range yields the last option.
func (s *PollState) GetOption(index uint64) []byte {
	if s.Poll == nil || len(s.Poll.Options) == 0 {
		return nil
	}
	n := s.Poll.OptionCount()
	if index < 1 || index > n {
		index = n
	}
	return clone(s.Poll.Options[index-1])
}

// CheckPollActive is 1 while the poll is active and not yet expired.
func (s *PollState) CheckPollActive(now uint64) uint64 {
	if s.Poll != nil && s.Poll.Open(now) {
		return 1
	}
	return 0
}

// GetRemainingTime is seconds until the end time, 0 once it has passed.
func (s *PollState) GetRemainingTime(now uint64) uint64 {
	if s.Poll == nil || now >= s.Poll.EndTime {
		return 0
	}
	return s.Poll.EndTime - now
}

func (s *PollState) CheckHasVoted(caller Address) uint64 {
	if rec, ok := s.Voter(caller); ok && rec.HasVoted {
		return 1
	}
	return 0
}

func (s *PollState) GetMyVote(caller Address) uint64 {
	if rec, ok := s.Voter(caller); ok && rec.HasVoted {
		return rec.Choice
	}
	return 0
}

func (s *PollState) CheckOptedIn(caller Address) uint64 {
	if _, ok := s.Voter(caller); ok {
		return 1
	}
	return 0
}
