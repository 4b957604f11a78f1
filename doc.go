// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the pollchain API server.

pollchain hosts single-poll voting contracts on an application ledger. Each
deployed instance runs one poll at a time: a creator opens it with up to four
options and a deadline, every account votes at most once, and tallies live
in the instance's global slots.

# Starting the Server

The server reads environment variables, a .env file, or CLI flags:

	ACCOUNT_KEY_SALT=secret go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --account-salt secret

# Configuration

Required settings:

  - ACCOUNT_KEY_SALT (--account-salt): Secret for account key HMAC
  - DATABASE_URL (-d): Connection string, unless DATABASE_TYPE is memory

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): memory, sqlite or postgres (default: sqlite)
  - REDIS_URL (--redis-url): Publish committed calls over Redis pub/sub
  - EVENT_CHANNEL (--event-channel): Redis channel name
  - LOG_LEVEL (--log-level): debug, info, warn or error

# Architecture

  - contract: Poll state machine, entry points and slot layout
  - ledger: Instance stores (avalanchego key-value or SQL)
  - dispatch: Atomic call execution and receipts
  - events: Post-commit event publishing
  - handlers: HTTP request handlers (accounts, apps, calls, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Address and account key generation
  - db: SQL connections and schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
