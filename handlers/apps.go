// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/pollchain/cliparse"
	"github.com/danielhkuo/pollchain/contract"
	"github.com/danielhkuo/pollchain/dispatch"
	"github.com/danielhkuo/pollchain/ledger"
	"github.com/danielhkuo/pollchain/middleware"
	"github.com/danielhkuo/pollchain/models"
)

type AppHandler struct {
	d   *dispatch.Dispatcher
	cfg cliparse.Config
}

func NewAppHandler(d *dispatch.Dispatcher, cfg cliparse.Config) *AppHandler {
	return &AppHandler{d: d, cfg: cfg}
}

// Deploy handles POST /apps
func (h *AppHandler) Deploy(w http.ResponseWriter, r *http.Request) {
	deployer, err := authenticate(r, h.cfg.AccountKeySalt)
	if err != nil {
		writeError(w, err)
		return
	}

	inst, err := h.d.Deploy(r.Context(), deployer)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, toApp(inst))
}

// List handles GET /apps
func (h *AppHandler) List(w http.ResponseWriter, r *http.Request) {
	instances, err := h.d.Instances(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	apps := make([]models.App, 0, len(instances))
	for _, inst := range instances {
		apps = append(apps, toApp(inst))
	}
	middleware.JSONResponse(w, http.StatusOK, models.ListAppsResponse{Apps: apps})
}

// GetState handles GET /apps/{app}/state
func (h *AppHandler) GetState(w http.ResponseWriter, r *http.Request) {
	appID := r.PathValue("app")

	slots, err := h.d.Snapshot(r.Context(), appID)
	if err != nil {
		writeError(w, err)
		return
	}

	global := make([]models.SlotValue, 0, len(slots))
	for _, slot := range slots {
		v := models.SlotValue{Key: slot.Key}
		switch slot.Kind {
		case contract.KindUint:
			n := slot.Uint
			v.Uint = &n
		default:
			s := string(slot.Bytes)
			v.Text = &s
		}
		global = append(global, v)
	}

	middleware.JSONResponse(w, http.StatusOK, models.StateResponse{AppID: appID, Global: global})
}

func toApp(inst ledger.Instance) models.App {
	return models.App{ID: inst.ID, Deployer: inst.Deployer, DeployedAt: inst.DeployedAt}
}
