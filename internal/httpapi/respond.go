// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/poolhouse/poolhouse/internal/auth"
	"github.com/poolhouse/poolhouse/internal/pool"
	"github.com/poolhouse/poolhouse/pkg/errutil"
)

// errorBody is the JSON payload for every failure response. 4xx bodies
// carry a human-readable message; 5xx bodies only this generic marker.
type errorBody struct {
	Message string `json:"message"`
}

const internalErrorMessage = "an internal server error occurred"

// httpError short-circuits the error mapping with an explicit status and
// client-visible message. Handlers return it for request-shape problems.
type httpError struct {
	status  int
	message string
}

func (e *httpError) Error() string {
	return e.message
}

func badRequest(message string) error {
	return &httpError{status: http.StatusBadRequest, message: message}
}

// respondJSON writes v as the JSON response body.
func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("response encode failed", "error", err)
	}
}

// respondError maps a failure to the client-visible contract: 404 for
// absent (or malformed-id) lookups, 403 with the store's message for
// constraint violations, 401 for bad credentials, 500 with a generic
// marker for everything else. Raw errors are logged only on the 500
// path; nothing internal leaks to the client.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	var he *httpError
	if errors.As(err, &he) {
		s.respondJSON(w, he.status, errorBody{Message: he.message})
		return
	}

	if errors.Is(err, pool.ErrNotFound) {
		s.respondJSON(w, http.StatusNotFound, errorBody{Message: "Not Found"})
		return
	}

	if ce, ok := pool.AsConstraint(err); ok {
		s.respondJSON(w, http.StatusForbidden, errorBody{Message: ce.Message})
		return
	}

	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.respondJSON(w, http.StatusUnauthorized, errorBody{Message: "Unauthenticated"})
		return
	}

	errutil.LogError(s.log, "request failed", err)
	s.respondJSON(w, http.StatusInternalServerError, errorBody{Message: internalErrorMessage})
}
