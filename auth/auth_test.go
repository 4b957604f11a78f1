// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"20 bytes", 20, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateAddress(t *testing.T) {
	addr, err := GenerateAddress()
	if err != nil {
		t.Fatalf("GenerateAddress() error = %v", err)
	}
	if err := ValidateAddress(addr); err != nil {
		t.Errorf("ValidateAddress(%q) error = %v", addr, err)
	}

	other, _ := GenerateAddress()
	if addr == other {
		t.Error("GenerateAddress() produced duplicate addresses")
	}
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"valid", strings.Repeat("ab", 20), false},
		{"empty", "", true},
		{"too short", "abcd", true},
		{"too long", strings.Repeat("a", 42), true},
		{"not hex", strings.Repeat("zz", 20), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddress(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAddress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateAccountKey(t *testing.T) {
	tests := []struct {
		name    string
		address string
		salt    string
	}{
		{"standard", "addr123", "secret-salt"},
		{"empty address", "", "salt"},
		{"empty salt", "addr456", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateAccountKey(tt.address, tt.salt)
			if key == "" {
				t.Error("GenerateAccountKey() returned empty string")
			}
			if key != GenerateAccountKey(tt.address, tt.salt) {
				t.Error("GenerateAccountKey() is not deterministic")
			}
			if tt.address != "" && tt.salt != "" {
				if key == GenerateAccountKey(tt.address+"x", tt.salt) {
					t.Error("GenerateAccountKey() produced same key for different addresses")
				}
			}
			if strings.Contains(key, "=") {
				t.Error("GenerateAccountKey() contains padding characters")
			}
		})
	}
}

func TestValidateAccountKey(t *testing.T) {
	address := "test-address"
	salt := "test-salt"
	validKey := GenerateAccountKey(address, salt)

	tests := []struct {
		name    string
		address string
		key     string
		salt    string
		wantErr bool
	}{
		{"valid key", address, validKey, salt, false},
		{"wrong key", address, "wrong-key", salt, true},
		{"wrong address", "other-address", validKey, salt, true},
		{"wrong salt", address, validKey, "different-salt", true},
		{"empty key", address, "", salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAccountKey(tt.address, tt.key, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAccountKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidAccountKey {
				t.Errorf("ValidateAccountKey() error = %v, want %v", err, ErrInvalidAccountKey)
			}
		})
	}
}

func TestAnonymize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0123456789abcdef", "0123...cdef"},
		{"short", "short"},
		{"12345678", "12345678"},
		{"123456789", "1234...6789"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Anonymize(tt.in); got != tt.want {
			t.Errorf("Anonymize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
