// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/pollchain/cliparse"
	"github.com/danielhkuo/pollchain/dispatch"
	"github.com/danielhkuo/pollchain/handlers"
	"github.com/danielhkuo/pollchain/middleware"
)

// Banner is the body of GET /
const Banner = "pollchain API v1"

func NewRouter(d *dispatch.Dispatcher, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(cfg)
	appHandler := handlers.NewAppHandler(d, cfg)
	callHandler := handlers.NewCallHandler(d, cfg)
	resultsHandler := handlers.NewResultsHandler(d, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Identities
	mux.HandleFunc("POST /accounts", middleware.WithLogging(accountHandler.CreateAccount))

	// Instances
	mux.HandleFunc("POST /apps", middleware.WithLogging(appHandler.Deploy))
	mux.HandleFunc("GET /apps", middleware.WithLogging(appHandler.List))
	mux.HandleFunc("GET /apps/{app}/state", middleware.WithLogging(appHandler.GetState))

	// Contract calls
	mux.HandleFunc("POST /apps/{app}/call", middleware.WithLogging(callHandler.Call))
	mux.HandleFunc("GET /apps/{app}/query/{method}", middleware.WithLogging(callHandler.Query))

	// Dashboards
	mux.HandleFunc("GET /apps/{app}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /apps/{app}/audit", middleware.WithLogging(resultsHandler.GetAudit))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(Banner))
	})

	return mux
}
