// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contract

import "fmt"

// ABI method names. External dashboards and the audit log use these.
const (
	MethodCreatePoll       = "createPoll"
	MethodVote             = "vote"
	MethodEndPoll          = "endPoll"
	MethodOptIn            = "optInToApplication"
	MethodGetResults       = "getResults"
	MethodGetQuestion      = "getPollQuestion"
	MethodGetOption        = "getOption"
	MethodCheckPollActive  = "checkPollActive"
	MethodGetRemainingTime = "getRemainingTime"
	MethodCheckHasVoted    = "checkHasVoted"
	MethodGetMyVote        = "getMyVote"
	MethodCheckOptedIn     = "checkOptedIn"
)

// Command is one contract entry point with its arguments.
type Command interface {
	Method() string
	// ReadOnly commands never change state.
	ReadOnly() bool
}

type CreatePoll struct {
	Question        []byte
	Options         [][]byte
	DurationSeconds uint64
	TokenID         uint64
}

type Vote struct {
	OptionIndex uint64
}

type EndPoll struct{}

type OptIn struct{}

type GetResults struct{}

type GetQuestion struct{}

type GetOption struct {
	Index uint64
}

type CheckPollActive struct{}

type GetRemainingTime struct{}

type CheckHasVoted struct{}

type GetMyVote struct{}

type CheckOptedIn struct{}

func (CreatePoll) Method() string       { return MethodCreatePoll }
func (Vote) Method() string             { return MethodVote }
func (EndPoll) Method() string          { return MethodEndPoll }
func (OptIn) Method() string            { return MethodOptIn }
func (GetResults) Method() string       { return MethodGetResults }
func (GetQuestion) Method() string      { return MethodGetQuestion }
func (GetOption) Method() string        { return MethodGetOption }
func (CheckPollActive) Method() string  { return MethodCheckPollActive }
func (GetRemainingTime) Method() string { return MethodGetRemainingTime }
func (CheckHasVoted) Method() string    { return MethodCheckHasVoted }
func (GetMyVote) Method() string        { return MethodGetMyVote }
func (CheckOptedIn) Method() string     { return MethodCheckOptedIn }

func (CreatePoll) ReadOnly() bool       { return false }
func (Vote) ReadOnly() bool             { return false }
func (EndPoll) ReadOnly() bool          { return false }
func (OptIn) ReadOnly() bool            { return false }
func (GetResults) ReadOnly() bool       { return true }
func (GetQuestion) ReadOnly() bool      { return true }
func (GetOption) ReadOnly() bool        { return true }
func (CheckPollActive) ReadOnly() bool  { return true }
func (GetRemainingTime) ReadOnly() bool { return true }
func (CheckHasVoted) ReadOnly() bool    { return true }
func (GetMyVote) ReadOnly() bool        { return true }
func (CheckOptedIn) ReadOnly() bool     { return true }

// Result is a call's return value. Only the field matching the method's
// return type is set.
type Result struct {
	Uint  uint64
	Uints []uint64
	Bytes []byte
}

// Apply executes cmd against state. On error state is unchanged.
func Apply(state *PollState, cmd Command, ctx Context) (Result, error) {
	switch c := cmd.(type) {
	case CreatePoll:
		return Result{}, state.CreatePoll(ctx, c.Question, c.Options, c.DurationSeconds, c.TokenID)
	case Vote:
		return Result{}, state.Vote(ctx, c.OptionIndex)
	case EndPoll:
		return Result{}, state.EndPoll(ctx)
	case OptIn:
		return Result{}, state.OptIn(ctx)
	case GetResults:
		return Result{Uints: state.GetResults()}, nil
	case GetQuestion:
		return Result{Bytes: state.GetQuestion()}, nil
	case GetOption:
		return Result{Bytes: state.GetOption(c.Index)}, nil
	case CheckPollActive:
		return Result{Uint: state.CheckPollActive(ctx.Now)}, nil
	case GetRemainingTime:
		return Result{Uint: state.GetRemainingTime(ctx.Now)}, nil
	case CheckHasVoted:
		return Result{Uint: state.CheckHasVoted(ctx.Caller)}, nil
	case GetMyVote:
		return Result{Uint: state.GetMyVote(ctx.Caller)}, nil
	case CheckOptedIn:
		return Result{Uint: state.CheckOptedIn(ctx.Caller)}, nil
	default:
		return Result{}, fmt.Errorf("%w: %T", ErrUnknownMethod, cmd)
	}
}

// Args returns a command's arguments for receipts and events.
func Args(cmd Command) map[string]string {
	switch c := cmd.(type) {
	case CreatePoll:
		args := map[string]string{
			"question":         string(c.Question),
			"duration_seconds": fmt.Sprint(c.DurationSeconds),
			"token_id":         fmt.Sprint(c.TokenID),
		}
		for i, opt := range c.Options {
			args[fmt.Sprintf("opt%d", i+1)] = string(opt)
		}
		return args
	case Vote:
		return map[string]string{"option_index": fmt.Sprint(c.OptionIndex)}
	case GetOption:
		return map[string]string{"index": fmt.Sprint(c.Index)}
	default:
		return nil
	}
}
