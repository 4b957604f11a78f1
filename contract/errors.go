// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

import "errors"

var (
	ErrAlreadyActive   = errors.New("poll already active")
	ErrInvalidOption   = errors.New("invalid option")
	ErrPollExpired     = errors.New("poll has ended")
	ErrPollInactive    = errors.New("poll is not active")
	ErrAlreadyVoted    = errors.New("already voted")
	ErrUnauthorized    = errors.New("only creator can end poll")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrAlreadyOptedIn  = errors.New("already opted in")
	ErrUnknownMethod   = errors.New("unknown method")
	ErrInvalidArgument = errors.New("invalid argument")
)

var errorCodes = map[error]string{
	ErrAlreadyActive:   "already_active",
	ErrInvalidOption:   "invalid_option",
	ErrPollExpired:     "poll_expired",
	ErrPollInactive:    "poll_inactive",
	ErrAlreadyVoted:    "already_voted",
	ErrUnauthorized:    "unauthorized",
	ErrInvalidDuration: "invalid_duration",
	ErrAlreadyOptedIn:  "already_opted_in",
	ErrUnknownMethod:   "unknown_method",
	ErrInvalidArgument: "invalid_argument",
}

// ErrorCode returns a stable machine-readable code for a contract
// rejection, or "" if err is not one.
func ErrorCode(err error) string {
	for sentinel, code := range errorCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}
