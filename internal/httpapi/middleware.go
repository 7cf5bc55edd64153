// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Session credential headers. The api key is a bearer credential scoped
// to the user identity that presents it.
const (
	HeaderUserID = "X-User-Id"
	HeaderAPIKey = "X-API-Key"
)

// sessionCredentials extracts the user identity and api key from the
// request headers.
func sessionCredentials(r *http.Request) (ulid.ULID, string, error) {
	rawID := r.Header.Get(HeaderUserID)
	apiKey := r.Header.Get(HeaderAPIKey)
	if rawID == "" || apiKey == "" {
		return ulid.ULID{}, "", oops.Code("SESSION_HEADERS_MISSING").
			Errorf("session credentials missing")
	}

	userID, err := ulid.Parse(rawID)
	if err != nil {
		return ulid.ULID{}, "", oops.Code("SESSION_USER_ID_INVALID").Wrap(err)
	}
	return userID, apiKey, nil
}

// requireSession rejects requests that do not present a live session.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, apiKey, err := sessionCredentials(r)
		if err != nil || !s.authsvc.Check(userID, apiKey) {
			s.respondJSON(w, http.StatusUnauthorized, errorBody{Message: "Unauthenticated"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// accessLog logs every request and records the request counter.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)

		if s.metrics != nil {
			s.metrics.RequestsTotal.WithLabelValues(
				resourceLabel(r.URL.Path),
				r.Method,
				strconv.Itoa(rec.status),
			).Inc()
		}
	})
}

// resourceLabel reduces a request path to its first segment so metric
// cardinality stays bounded regardless of ids.
func resourceLabel(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	if trimmed == "" {
		return "root"
	}
	return trimmed
}
