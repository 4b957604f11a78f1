// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides account identities for the contract runtime.

# Addresses

An account address is 20 random bytes, hex encoded:

	addr, err := auth.GenerateAddress()
	err = auth.ValidateAddress(addr)

# Account Keys

Every address has a signing key derived with HMAC-SHA256:

	key := auth.GenerateAccountKey(addr, salt)
	err := auth.ValidateAccountKey(addr, key, salt)

The key is URL-safe base64 without padding. Since it is deterministic from
the address and the server salt, keys are never stored. A request proves it
comes from an account by sending both the address and its key; the runtime
then uses the address as the call's sender.

# Display

Audit views never show full addresses:

	auth.Anonymize("0123456789abcdef") // "0123...cdef"
*/
package auth
