// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/samber/oops"

	"github.com/poolhouse/poolhouse/internal/auth"
)

// loginRequest is the POST /login payload. Both fields are required.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the user's public fields plus the issued credential.
// The password digest never reaches this struct, and the input password
// field is cleared by the auth service before it gets here.
type loginResponse struct {
	*auth.User
	APIKey   string    `json:"apikey"`
	IssuedAt time.Time `json:"issuedAt"`
}

// handleLogin authenticates by email and password and issues a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, badRequest("invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		s.respondError(w, badRequest("email and password are required"))
		return
	}

	user, session, err := s.authsvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.SessionsIssued.Inc()
	}

	s.respondJSON(w, http.StatusOK, loginResponse{
		User:     user,
		APIKey:   session.APIKey,
		IssuedAt: session.IssuedAt,
	})
}

// handleLogout revokes the presented session. Any failure, including
// missing or mismatched credentials, answers 403.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	userID, apiKey, err := sessionCredentials(r)
	if err == nil {
		err = s.authsvc.Logout(r.Context(), userID, apiKey)
	}
	if err != nil {
		s.respondJSON(w, http.StatusForbidden, errorBody{Message: "logout failed"})
		return
	}

	if s.metrics != nil {
		s.metrics.SessionsRevoked.Inc()
	}
	w.WriteHeader(http.StatusOK)
}

// prepareUser hashes an incoming password before any user write. Create
// requires a password; update re-hashes only when a new one is supplied.
// The plaintext is cleared in all cases so it can never be stored or
// echoed back.
func (s *Server) prepareUser(r *http.Request, user *auth.User) error {
	if user.Password == "" {
		if r.Method == http.MethodPost {
			return badRequest("password is required")
		}
		return nil
	}

	digest, err := s.hasher.Hash(user.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) {
			return badRequest("password is required")
		}
		return oops.Code("USER_HASH_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user.PasswordDigest = digest
	user.Password = ""
	return nil
}
