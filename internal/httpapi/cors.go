// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

package httpapi

import (
	"net/http"
	"strings"
)

// Headers the browser client is allowed to send, including the session
// credential pair.
var corsAllowedHeaders = strings.Join([]string{
	"Accept",
	"Authorization",
	"Content-Type",
	"If-None-Match",
	HeaderAPIKey,
	HeaderUserID,
}, ", ")

const corsAllowedMethods = "GET, POST, PUT, DELETE, OPTIONS"

// cors answers preflight requests and stamps allow-origin headers on
// responses for origins matching a configured glob pattern.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.Header().Set("Access-Control-Allow-Methods", corsAllowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", corsAllowedHeaders)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, g := range s.origins {
		if g.Match(origin) {
			return true
		}
	}
	return false
}
