// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the pollchain API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(dispatcher, cfg)

# Endpoints

Health:

	GET /health
	GET /

Accounts:

	POST /accounts - Issue an address and account key

Instances (deploy requires X-Account and X-Account-Key):

	POST /apps             - Deploy a contract instance
	GET  /apps             - List instances
	GET  /apps/{app}/state - Raw global slots

Calls:

	POST /apps/{app}/call           - Any entry point by ABI method name
	GET  /apps/{app}/query/{method} - Read-only entry points

Dashboards:

	GET /apps/{app}/results - Tallies, percentages, leaders, time left
	GET /apps/{app}/audit   - Committed votes, voters anonymized
*/
package router
