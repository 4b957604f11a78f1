// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package contract implements the single-poll voting contract.

# State

A PollState holds one PollRecord (nil until the first poll is created) and
the VoterRecords loaded for the current call:

	Uninitialized ──CreatePoll──▶ Active ──EndPoll──▶ Ended
	                                 ▲                  │
	                                 └────CreatePoll────┘

Expiry is not a state change: a poll whose end time has passed keeps
Active == true until its creator calls EndPoll, but it no longer accepts
votes and CheckPollActive reports 0.

# Calls

Every entry point is a Command value consumed by Apply:

	res, err := contract.Apply(state, contract.Vote{OptionIndex: 2}, contract.Context{
		Caller: "alice",
		Now:    1600,
	})

Mutating commands validate everything before writing, so a rejected call
leaves the state exactly as it was. The runtime is still expected to
discard the call's transaction on error.

ParseCall turns an ABI method name and string arguments into a Command;
Args goes the other way for receipts.

# Errors

  - ErrAlreadyActive: CreatePoll while a poll is active
  - ErrInvalidOption: bad option list or vote index
  - ErrInvalidDuration: zero or overflowing duration
  - ErrPollInactive: vote with no active poll
  - ErrPollExpired: vote at or after the end time
  - ErrAlreadyVoted: second vote from one identity
  - ErrUnauthorized: EndPoll by anyone but the creator
  - ErrAlreadyOptedIn: second OptIn from one identity
  - ErrUnknownMethod, ErrInvalidArgument: ParseCall could not build a command

ErrorCode maps each to a stable string for API clients.

# Storage Layout

Load and Save map a PollState onto ledger slots:

	global: question opt1..opt4 v1..v4 total endTime creator active optCount tokenId
	local:  voted choice

Integers are 8-byte big-endian. Voter records are never deleted, including
when a new poll is created on the same instance.
*/
package contract
