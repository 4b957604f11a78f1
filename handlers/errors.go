// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pollchain/auth"
	"github.com/danielhkuo/pollchain/contract"
	"github.com/danielhkuo/pollchain/dispatch"
	"github.com/danielhkuo/pollchain/ledger"
	"github.com/danielhkuo/pollchain/middleware"
	"github.com/danielhkuo/pollchain/models"
)

// Codes for errors raised outside the contract
const (
	CodeUnknownApp        = "unknown_app"
	CodeMissingAccount    = "missing_account"
	CodeInvalidAccount    = "invalid_account"
	CodeInvalidAccountKey = "invalid_account_key"
	CodeNotReadOnly       = "not_read_only"
)

var errMissingAccount = errors.New("X-Account and X-Account-Key headers are required")

// statusFor maps a call error to its HTTP status and error code
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ledger.ErrUnknownInstance):
		return http.StatusNotFound, CodeUnknownApp
	case errors.Is(err, dispatch.ErrMissingCaller), errors.Is(err, errMissingAccount):
		return http.StatusUnauthorized, CodeMissingAccount
	case errors.Is(err, auth.ErrInvalidAddress):
		return http.StatusUnauthorized, CodeInvalidAccount
	case errors.Is(err, auth.ErrInvalidAccountKey):
		return http.StatusUnauthorized, CodeInvalidAccountKey
	case errors.Is(err, contract.ErrUnauthorized):
		return http.StatusForbidden, contract.ErrorCode(err)
	case errors.Is(err, contract.ErrInvalidOption),
		errors.Is(err, contract.ErrInvalidDuration),
		errors.Is(err, contract.ErrUnknownMethod),
		errors.Is(err, contract.ErrInvalidArgument):
		return http.StatusBadRequest, contract.ErrorCode(err)
	case errors.Is(err, contract.ErrAlreadyActive),
		errors.Is(err, contract.ErrAlreadyVoted),
		errors.Is(err, contract.ErrAlreadyOptedIn),
		errors.Is(err, contract.ErrPollInactive),
		errors.Is(err, contract.ErrPollExpired):
		return http.StatusConflict, contract.ErrorCode(err)
	default:
		return http.StatusInternalServerError, ""
	}
}

// writeError reports err to the client, hiding internal failures
func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		middleware.ErrorResponse(w, status, "Internal error")
		return
	}
	middleware.CodedErrorResponse(w, status, code, err.Error())
}

// authenticate returns the account that signed the request
func authenticate(r *http.Request, salt string) (contract.Address, error) {
	addr := r.Header.Get(models.HeaderAccount)
	if addr == "" {
		return "", errMissingAccount
	}
	if err := auth.ValidateAddress(addr); err != nil {
		return "", err
	}
	if err := auth.ValidateAccountKey(addr, r.Header.Get(models.HeaderAccountKey), salt); err != nil {
		return "", err
	}
	return contract.Address(addr), nil
}
