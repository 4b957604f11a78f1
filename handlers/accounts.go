// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pollchain/auth"
	"github.com/danielhkuo/pollchain/cliparse"
	"github.com/danielhkuo/pollchain/middleware"
	"github.com/danielhkuo/pollchain/models"
)

type AccountHandler struct {
	cfg cliparse.Config
}

func NewAccountHandler(cfg cliparse.Config) *AccountHandler {
	return &AccountHandler{cfg: cfg}
}

// CreateAccount handles POST /accounts
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	address, err := auth.GenerateAddress()
	if err != nil {
		slog.Error("failed to generate address", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	slog.Info("account created", "address", auth.Anonymize(address))

	middleware.JSONResponse(w, http.StatusCreated, models.CreateAccountResponse{
		Address:    address,
		AccountKey: auth.GenerateAccountKey(address, h.cfg.AccountKeySalt),
	})
}
