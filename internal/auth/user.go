// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

package auth

import (
	"context"
	"time"

	"github.com/poolhouse/poolhouse/internal/pool"
)

// User is a pool participant. The password digest lives outside the JSON
// surface and is never emitted in a response; Password is an input-only
// field that handlers clear after hashing.
type User struct {
	pool.Meta
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Admin     bool      `json:"isAdmin,omitempty"`
	Password  string    `json:"password,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`

	// PasswordDigest is the stored argon2id digest. Excluded from JSON so
	// no read path can leak it.
	PasswordDigest string `json:"-"`
}

// UserRepository manages user persistence. It carries the common
// collection contract plus the email lookup the login flow needs.
type UserRepository interface {
	pool.Collection[*User]

	// GetByEmail retrieves a user by email (case-insensitive), or
	// pool.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
