// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/pollchain/cliparse"
	"github.com/danielhkuo/pollchain/contract"
	"github.com/danielhkuo/pollchain/dispatch"
	"github.com/danielhkuo/pollchain/middleware"
	"github.com/danielhkuo/pollchain/models"
)

type CallHandler struct {
	d   *dispatch.Dispatcher
	cfg cliparse.Config
}

func NewCallHandler(d *dispatch.Dispatcher, cfg cliparse.Config) *CallHandler {
	return &CallHandler{d: d, cfg: cfg}
}

// Call handles POST /apps/{app}/call
// Mutating methods must be signed with X-Account and X-Account-Key.
func (h *CallHandler) Call(w http.ResponseWriter, r *http.Request) {
	appID := r.PathValue("app")

	var req models.CallRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Method == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "method is required")
		return
	}

	cmd, err := contract.ParseCall(req.Method, req.Args)
	if err != nil {
		writeError(w, err)
		return
	}

	caller := contract.Address(r.Header.Get(models.HeaderAccount))
	if !cmd.ReadOnly() {
		caller, err = authenticate(r, h.cfg.AccountKeySalt)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	h.run(w, r, appID, caller, cmd)
}

// Query handles GET /apps/{app}/query/{method}
// Arguments come from the query string; X-Account selects whose records
// per-account reads look at.
func (h *CallHandler) Query(w http.ResponseWriter, r *http.Request) {
	appID := r.PathValue("app")

	args := map[string]string{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			args[key] = values[0]
		}
	}

	cmd, err := contract.ParseCall(r.PathValue("method"), args)
	if err != nil {
		writeError(w, err)
		return
	}
	if !cmd.ReadOnly() {
		middleware.CodedErrorResponse(w, http.StatusMethodNotAllowed, CodeNotReadOnly,
			cmd.Method()+" changes state; use POST /apps/{app}/call")
		return
	}

	h.run(w, r, appID, contract.Address(r.Header.Get(models.HeaderAccount)), cmd)
}

func (h *CallHandler) run(w http.ResponseWriter, r *http.Request, appID string, caller contract.Address, cmd contract.Command) {
	out, err := h.d.Call(r.Context(), appID, caller, cmd)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := models.CallResponse{
		AppID:     appID,
		Method:    cmd.Method(),
		Timestamp: out.Now,
	}

	if out.Receipt != nil {
		resp.TxID = out.Receipt.TxID
		resp.Round = out.Receipt.Round
	} else {
		switch cmd.(type) {
		case contract.GetResults:
			resp.Values = out.Result.Uints
		case contract.GetQuestion, contract.GetOption:
			text := string(out.Result.Bytes)
			resp.Text = &text
		default:
			value := out.Result.Uint
			resp.Value = &value
		}
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
