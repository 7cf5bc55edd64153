// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

package auth

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/poolhouse/poolhouse/internal/pool"
)

// ErrInvalidCredentials is returned for any authentication failure:
// unknown email, wrong password, or a bad session. All collapse to the
// same error so responses cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyPasswordDigest is verified when no user matches the email, keeping
// login latency independent of account existence. It is a fake digest
// that can never match a real password.
//
//nolint:gosec // G101: intentionally fake digest for timing consistency, not a credential.
const dummyPasswordDigest = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service composes the user repository, credential hasher, and session
// registry. Login is the one place two components compose; everything
// else in the backend is single-component CRUD.
type Service struct {
	users    UserRepository
	sessions Registry
	hasher   PasswordHasher
}

// NewService creates an authentication Service.
func NewService(users UserRepository, sessions Registry, hasher PasswordHasher) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
	}
}

// Login authenticates by email and password and issues a session.
// Unknown email and wrong password both return ErrInvalidCredentials; a
// repository infrastructure failure is wrapped and surfaces as a server
// error. The returned user's input password field is always cleared.
//
// There is no rollback between the repository read and the session issue:
// Issue has no failure mode short of exhausted entropy, so the two steps
// stay independent.
func (s *Service) Login(ctx context.Context, email, password string) (*User, Session, error) {
	user, lookupErr := s.users.GetByEmail(ctx, email)

	targetDigest := dummyPasswordDigest
	userExists := false

	switch {
	case lookupErr == nil:
		targetDigest = user.PasswordDigest
		userExists = true
	case errors.Is(lookupErr, pool.ErrNotFound):
		// Verify against the dummy digest below to keep timing flat.
	default:
		return nil, Session{}, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "get user by email").
			Wrap(lookupErr)
	}

	valid, verifyErr := s.hasher.Verify(password, targetDigest)
	if verifyErr != nil {
		return nil, Session{}, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		return nil, Session{}, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	session, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, Session{}, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue session").
			Wrap(err)
	}

	user.Password = ""
	return user, session, nil
}

// Logout revokes the session identified by userID, provided the
// presented api key matches the live session.
func (s *Service) Logout(_ context.Context, userID ulid.ULID, apiKey string) error {
	if !s.sessions.Check(userID, apiKey) {
		return oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}
	s.sessions.Revoke(userID)
	return nil
}

// Check reports whether the presented identity and api key name a live
// session.
func (s *Service) Check(userID ulid.ULID, apiKey string) bool {
	return s.sessions.Check(userID, apiKey)
}
