// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/pollchain/auth"
	"github.com/danielhkuo/pollchain/models"
	"github.com/danielhkuo/pollchain/testutil"
)

func TestCreateAccount(t *testing.T) {
	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(cfg)

	req := testutil.MakeRequest("POST", "/accounts", nil, nil)
	w := httptest.NewRecorder()
	handler.CreateAccount(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreateAccountResponse
	testutil.AssertJSON(t, w, &resp)
	if err := auth.ValidateAddress(resp.Address); err != nil {
		t.Errorf("address %q: %v", resp.Address, err)
	}
	if err := auth.ValidateAccountKey(resp.Address, resp.AccountKey, cfg.AccountKeySalt); err != nil {
		t.Errorf("account key does not validate: %v", err)
	}
}

func TestDeploy(t *testing.T) {
	e := newTestEnv(t, nil)

	t.Run("signed", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/apps", nil, e.creatorAuth)
		w := httptest.NewRecorder()
		e.apps.Deploy(w, req)

		testutil.AssertStatus(t, w, http.StatusCreated)

		var app models.App
		testutil.AssertJSON(t, w, &app)
		if app.ID == "" || app.ID == e.appID {
			t.Errorf("app id = %q", app.ID)
		}
		if app.Deployer != e.creator || app.DeployedAt != testutil.StartTime {
			t.Errorf("app = %+v", app)
		}
	})

	t.Run("unsigned", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/apps", nil, nil)
		w := httptest.NewRecorder()
		e.apps.Deploy(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("list", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/apps", nil, nil)
		w := httptest.NewRecorder()
		e.apps.List(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.ListAppsResponse
		testutil.AssertJSON(t, w, &resp)
		if len(resp.Apps) != 2 {
			t.Fatalf("apps = %+v, want 2", resp.Apps)
		}
	})
}

func TestGetState(t *testing.T) {
	e := newTestEnv(t, nil)

	get := func(appID string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("GET", "/apps/"+appID+"/state", nil, nil)
		req.SetPathValue("app", appID)
		w := httptest.NewRecorder()
		e.apps.GetState(w, req)
		return w
	}

	w := get(e.appID)
	testutil.AssertStatus(t, w, http.StatusOK)
	var empty models.StateResponse
	testutil.AssertJSON(t, w, &empty)
	if len(empty.Global) != 0 {
		t.Errorf("fresh app has slots: %+v", empty.Global)
	}

	e.createLunchPoll()

	w = get(e.appID)
	testutil.AssertStatus(t, w, http.StatusOK)
	var state models.StateResponse
	testutil.AssertJSON(t, w, &state)

	byKey := map[string]models.SlotValue{}
	for _, s := range state.Global {
		byKey[s.Key] = s
	}
	if s := byKey["question"]; s.Text == nil || *s.Text != "Lunch?" {
		t.Errorf("question slot = %+v", s)
	}
	if s := byKey["optCount"]; s.Uint == nil || *s.Uint != 2 {
		t.Errorf("optCount slot = %+v", s)
	}
	if s := byKey["endTime"]; s.Uint == nil || *s.Uint != testutil.StartTime+3600 {
		t.Errorf("endTime slot = %+v", s)
	}
	if s := byKey["creator"]; s.Text == nil || *s.Text != e.creator {
		t.Errorf("creator slot = %+v", s)
	}

	testutil.AssertStatus(t, get("missing"), http.StatusNotFound)
}
