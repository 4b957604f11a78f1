// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

  - CallRequest: method, args (map[string]string)

# Response Types

  - CreateAccountResponse: address, account_key
  - App / ListAppsResponse: deployed instances
  - CallResponse: value, values or text for reads; tx_id and round for writes
  - ResultsResponse: dashboard summary with options, percentages and leaders
  - StateResponse: raw global slots
  - AuditResponse: committed votes with anonymized voters
  - ErrorResponse: error, code, message

# Headers

Mutating calls identify their sender with two headers:

	X-Account:     account address
	X-Account-Key: key issued by POST /accounts
*/
package models
