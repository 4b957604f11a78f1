// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/pollchain/auth"
	"github.com/danielhkuo/pollchain/cliparse"
	"github.com/danielhkuo/pollchain/contract"
	"github.com/danielhkuo/pollchain/db"
	"github.com/danielhkuo/pollchain/dispatch"
	"github.com/danielhkuo/pollchain/events"
	"github.com/danielhkuo/pollchain/ledger"
	"github.com/danielhkuo/pollchain/ledger/kvstore"
	"github.com/danielhkuo/pollchain/ledger/sqlstore"
	"github.com/danielhkuo/pollchain/models"
)

// StartTime is the Unix time test clocks start at
const StartTime = 1_700_000_000

// Clock is a settable time source for dispatchers under test
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Unix(StartTime, 0)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Unix returns the current test time in seconds
func (c *Clock) Unix() uint64 {
	return uint64(c.Now().Unix())
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           cliparse.DefaultPort,
		DatabaseType:   db.TypeMemory,
		AccountKeySalt: "test-account-salt",
		LogLevel:       cliparse.DefaultLogLevel,
	}
}

// SetupTestDB opens an in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// Stores returns a constructor per store implementation so tests can run
// against each of them.
func Stores() map[string]func(t *testing.T) ledger.Store {
	return map[string]func(t *testing.T) ledger.Store{
		"kvstore": func(t *testing.T) ledger.Store {
			s := kvstore.NewMemory()
			t.Cleanup(func() { s.Close() })
			return s
		},
		"sqlstore": func(t *testing.T) ledger.Store {
			return sqlstore.New(SetupTestDB(t))
		},
	}
}

// SetupTestDispatcher returns a dispatcher over an in-memory store that
// logs its events
func SetupTestDispatcher(t *testing.T, clock *Clock) *dispatch.Dispatcher {
	t.Helper()
	return NewTestDispatcher(t, Stores()["kvstore"](t), clock)
}

// NewTestDispatcher wraps store in a dispatcher driven by clock
func NewTestDispatcher(t *testing.T, store ledger.Store, clock *Clock) *dispatch.Dispatcher {
	t.Helper()
	if clock == nil {
		clock = NewClock()
	}
	return dispatch.New(store, events.NewLogPublisher(nil), clock.Now)
}

// CreateTestAccount returns a fresh address and the headers that sign for it
func CreateTestAccount(t *testing.T, cfg cliparse.Config) (address string, headers map[string]string) {
	t.Helper()

	address, err := auth.GenerateAddress()
	if err != nil {
		t.Fatalf("Failed to generate address: %v", err)
	}
	return address, AccountHeaders(address, auth.GenerateAccountKey(address, cfg.AccountKeySalt))
}

// AccountHeaders builds the headers for a signed request
func AccountHeaders(address, key string) map[string]string {
	return map[string]string{
		models.HeaderAccount:    address,
		models.HeaderAccountKey: key,
	}
}

// DeployTestApp deploys an instance owned by deployer and returns its ID
func DeployTestApp(t *testing.T, d *dispatch.Dispatcher, deployer string) string {
	t.Helper()

	inst, err := d.Deploy(context.Background(), contract.Address(deployer))
	if err != nil {
		t.Fatalf("Failed to deploy test app: %v", err)
	}
	return inst.ID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
