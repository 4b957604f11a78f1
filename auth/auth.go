// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// AddressLen is the length of an account address in characters.
const AddressLen = 40

var (
	ErrInvalidAccountKey = errors.New("invalid account key")
	ErrInvalidAddress    = errors.New("invalid account address")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateAddress creates a new random account address
func GenerateAddress() (string, error) {
	return GenerateID(AddressLen / 2)
}

// ValidateAddress checks that addr looks like an address made by GenerateAddress
func ValidateAddress(addr string) error {
	if len(addr) != AddressLen {
		return ErrInvalidAddress
	}
	if _, err := hex.DecodeString(addr); err != nil {
		return ErrInvalidAddress
	}
	return nil
}

// GenerateAccountKey creates the HMAC-based signing key for an account.
// It is deterministic, so keys never need to be stored.
func GenerateAccountKey(address, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(address))
	sum := h.Sum(nil)
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAccountKey checks if key signs for address
func ValidateAccountKey(address, key, salt string) error {
	expected := GenerateAccountKey(address, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidAccountKey
	}
	return nil
}

// Anonymize shortens an address for public display, keeping the first and
// last four characters.
func Anonymize(address string) string {
	if len(address) <= 8 {
		return address
	}
	return address[:4] + "..." + address[len(address)-4:]
}
