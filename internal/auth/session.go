// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/samber/oops"
)

// APIKeyBytes is the entropy of an issued api key. 32 bytes = 64 hex chars.
const APIKeyBytes = 32

// Session is an issued session record. The api key is an opaque bearer
// credential: equality-checked, never decoded.
type Session struct {
	APIKey   string    `json:"apikey"`
	IssuedAt time.Time `json:"issuedAt"`
}

// GenerateAPIKey creates a cryptographically random opaque api key.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, APIKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("SESSION_KEY_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", APIKeyBytes).
			Wrap(err)
	}
	return hex.EncodeToString(buf), nil
}

// KeysEqual compares two api keys in constant time.
func KeysEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
