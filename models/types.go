// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Account headers
const (
	HeaderAccount    = "X-Account"
	HeaderAccountKey = "X-Account-Key"
)

// Request types

// CallRequest invokes a contract entry point by its ABI method name.
// Arguments use the receipt names: question, opt1..opt4,
// duration_seconds, token_id, option_index and index.
type CallRequest struct {
	Method string            `json:"method"`
	Args   map[string]string `json:"args,omitempty"`
}

// Response types

type CreateAccountResponse struct {
	Address    string `json:"address"`
	AccountKey string `json:"account_key"`
}

type App struct {
	ID         string `json:"id"`
	Deployer   string `json:"deployer"`
	DeployedAt uint64 `json:"deployed_at"`
}

type ListAppsResponse struct {
	Apps []App `json:"apps"`
}

// CallResponse carries exactly one of Value, Values or Text for reads.
// Mutating calls carry their receipt fields instead.
type CallResponse struct {
	AppID     string   `json:"app_id"`
	Method    string   `json:"method"`
	Value     *uint64  `json:"value,omitempty"`
	Values    []uint64 `json:"values,omitempty"`
	Text      *string  `json:"text,omitempty"`
	TxID      string   `json:"tx_id,omitempty"`
	Round     uint64   `json:"round,omitempty"`
	Timestamp uint64   `json:"timestamp"`
}

type OptionResult struct {
	Index   int     `json:"index"` // 1-indexed, as used by vote
	Label   string  `json:"label"`
	Votes   uint64  `json:"votes"`
	Percent float64 `json:"percent"`
}

// ResultsResponse is the dashboard view of an instance's current poll.
type ResultsResponse struct {
	AppID            string         `json:"app_id"`
	HasPoll          bool           `json:"has_poll"`
	Question         string         `json:"question,omitempty"`
	Options          []OptionResult `json:"options"`
	TotalVotes       uint64         `json:"total_votes"`
	Active           bool           `json:"active"`
	Open             bool           `json:"open"`
	Creator          string         `json:"creator,omitempty"`
	TokenID          uint64         `json:"token_id,omitempty"`
	EndTime          uint64         `json:"end_time,omitempty"`
	RemainingSeconds uint64         `json:"remaining_seconds"`
	Ends             string         `json:"ends,omitempty"`
	Leaders          []int          `json:"leaders"`
}

// SlotValue is one raw global slot.
type SlotValue struct {
	Key  string  `json:"key"`
	Text *string `json:"text,omitempty"`
	Uint *uint64 `json:"uint,omitempty"`
}

type StateResponse struct {
	AppID  string      `json:"app_id"`
	Global []SlotValue `json:"global"`
}

type AuditVote struct {
	Round       uint64 `json:"round"`
	TxID        string `json:"tx_id"`
	Voter       string `json:"voter"` // anonymized
	OptionIndex uint64 `json:"option_index"`
	Timestamp   uint64 `json:"timestamp"`
}

type AuditResponse struct {
	AppID string      `json:"app_id"`
	Votes []AuditVote `json:"votes"`
	Count int         `json:"count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
