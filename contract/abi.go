// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseCall builds the command for an ABI method name from string
// arguments, the same shape Args produces. Missing numeric arguments are
// zero and left for the contract to reject.
func ParseCall(method string, args map[string]string) (Command, error) {
	switch method {
	case MethodCreatePoll:
		duration, err := uintArg(args, "duration_seconds")
		if err != nil {
			return nil, err
		}
		tokenID, err := uintArg(args, "token_id")
		if err != nil {
			return nil, err
		}
		options, err := optionArgs(args)
		if err != nil {
			return nil, err
		}
		return CreatePoll{
			Question:        []byte(args["question"]),
			Options:         options,
			DurationSeconds: duration,
			TokenID:         tokenID,
		}, nil
	case MethodVote:
		index, err := uintArg(args, "option_index")
		if err != nil {
			return nil, err
		}
		return Vote{OptionIndex: index}, nil
	case MethodEndPoll:
		return EndPoll{}, nil
	case MethodOptIn:
		return OptIn{}, nil
	case MethodGetResults:
		return GetResults{}, nil
	case MethodGetQuestion:
		return GetQuestion{}, nil
	case MethodGetOption:
		index, err := uintArg(args, "index")
		if err != nil {
			return nil, err
		}
		return GetOption{Index: index}, nil
	case MethodCheckPollActive:
		return CheckPollActive{}, nil
	case MethodGetRemainingTime:
		return GetRemainingTime{}, nil
	case MethodCheckHasVoted:
		return CheckHasVoted{}, nil
	case MethodGetMyVote:
		return GetMyVote{}, nil
	case MethodCheckOptedIn:
		return CheckOptedIn{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

func uintArg(args map[string]string, key string) (uint64, error) {
	v, ok := args[key]
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an unsigned integer", ErrInvalidArgument, key)
	}
	return n, nil
}

// optionArgs collects opt1..opt4 into a positional list that ends at the
// highest non-empty option. Other keys are ignored.
func optionArgs(args map[string]string) ([][]byte, error) {
	byIndex := map[int]string{}
	highest := 0
	for key, v := range args {
		rest, ok := strings.CutPrefix(key, "opt")
		if !ok {
			continue
		}
		i, err := strconv.Atoi(rest)
		if errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, key)
		}
		if err != nil {
			continue
		}
		if i < 1 || i > MaxOptions {
			return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, key)
		}
		if v == "" {
			continue
		}
		byIndex[i] = v
		highest = max(highest, i)
	}

	options := make([][]byte, highest)
	for i, v := range byIndex {
		options[i-1] = []byte(v)
	}
	return options, nil
}
