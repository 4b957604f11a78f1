// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/pollchain/cliparse"
	"github.com/danielhkuo/pollchain/dispatch"
	"github.com/danielhkuo/pollchain/ledger"
	"github.com/danielhkuo/pollchain/models"
	"github.com/danielhkuo/pollchain/testutil"
)

// testEnv is one deployed instance with its handlers and a signed creator
type testEnv struct {
	t     *testing.T
	cfg   cliparse.Config
	clock *testutil.Clock
	d     *dispatch.Dispatcher
	calls *CallHandler
	apps  *AppHandler
	res   *ResultsHandler

	appID       string
	creator     string
	creatorAuth map[string]string
}

func newTestEnv(t *testing.T, store ledger.Store) *testEnv {
	t.Helper()
	if store == nil {
		store = testutil.Stores()["kvstore"](t)
	}

	cfg := testutil.GetTestConfig()
	clock := testutil.NewClock()
	d := testutil.NewTestDispatcher(t, store, clock)
	creator, creatorAuth := testutil.CreateTestAccount(t, cfg)

	return &testEnv{
		t:           t,
		cfg:         cfg,
		clock:       clock,
		d:           d,
		calls:       NewCallHandler(d, cfg),
		apps:        NewAppHandler(d, cfg),
		res:         NewResultsHandler(d, cfg),
		appID:       testutil.DeployTestApp(t, d, creator),
		creator:     creator,
		creatorAuth: creatorAuth,
	}
}

func (e *testEnv) account() (string, map[string]string) {
	e.t.Helper()
	return testutil.CreateTestAccount(e.t, e.cfg)
}

// call POSTs a CallRequest to the instance
func (e *testEnv) call(headers map[string]string, method string, args map[string]string) *httptest.ResponseRecorder {
	e.t.Helper()

	req := testutil.MakeRequest("POST", "/apps/"+e.appID+"/call", models.CallRequest{Method: method, Args: args}, headers)
	req.SetPathValue("app", e.appID)
	w := httptest.NewRecorder()
	e.calls.Call(w, req)
	return w
}

// query GETs a read-only method with a raw query string
func (e *testEnv) query(headers map[string]string, method, rawQuery string) *httptest.ResponseRecorder {
	e.t.Helper()

	path := "/apps/" + e.appID + "/query/" + method
	if rawQuery != "" {
		path += "?" + rawQuery
	}
	req := testutil.MakeRequest("GET", path, nil, headers)
	req.SetPathValue("app", e.appID)
	req.SetPathValue("method", method)
	w := httptest.NewRecorder()
	e.calls.Query(w, req)
	return w
}

func (e *testEnv) createLunchPoll() {
	e.t.Helper()

	w := e.call(e.creatorAuth, "createPoll", map[string]string{
		"question":         "Lunch?",
		"opt1":             "Pizza",
		"opt2":             "Tacos",
		"duration_seconds": "3600",
	})
	testutil.AssertStatus(e.t, w, 200)
}

// summary fetches the results dashboard
func (e *testEnv) summary() models.ResultsResponse {
	e.t.Helper()

	req := testutil.MakeRequest("GET", "/apps/"+e.appID+"/results", nil, nil)
	req.SetPathValue("app", e.appID)
	w := httptest.NewRecorder()
	e.res.GetResults(w, req)
	testutil.AssertStatus(e.t, w, 200)

	var resp models.ResultsResponse
	testutil.AssertJSON(e.t, w, &resp)
	return resp
}
