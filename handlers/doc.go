// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the pollchain API.

# Handler Types

Each handler is a struct with dispatcher and config dependencies:

  - AccountHandler: issues account identities
  - AppHandler: deploys and lists contract instances, dumps raw state
  - CallHandler: invokes contract entry points
  - ResultsHandler: dashboard summary and vote audit

	callHandler := handlers.NewCallHandler(dispatcher, cfg)

# Identity

POST /accounts returns an address and its account key. Mutating calls and
deploys must carry both:

	X-Account:     <address>
	X-Account-Key: <account_key>

The address becomes the call's sender. Reads only look at X-Account, to
pick whose voter record per-account queries return.

# Calls

Every entry point is reachable by its ABI method name:

	POST /apps/{app}/call
	{"method": "createPoll", "args": {"question": "Lunch?", "opt1": "Pizza", "opt2": "Tacos", "duration_seconds": "3600"}}

	POST /apps/{app}/call
	{"method": "vote", "args": {"option_index": "2"}}

	GET /apps/{app}/query/getOption?index=2

Mutating calls answer with tx_id and round; reads answer with value,
values or text depending on the method.

# Errors

Contract rejections carry a stable code:

	400 invalid_option, invalid_duration, invalid_argument, unknown_method
	401 missing_account, invalid_account, invalid_account_key
	403 unauthorized
	404 unknown_app
	409 already_active, already_voted, already_opted_in, poll_inactive, poll_expired
*/
package handlers
