// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

// Package httpapi serves the pool REST surface: CRUD routes over the
// five document collections plus login and logout.
package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gobwas/glob"
	"github.com/samber/oops"

	"github.com/poolhouse/poolhouse/internal/auth"
	"github.com/poolhouse/poolhouse/internal/observability"
	"github.com/poolhouse/poolhouse/internal/pool"
)

// Options configures a Server. All repositories and the auth service are
// required; Metrics and Logger are optional.
type Options struct {
	Addr        string
	CORSOrigins []string

	Users    auth.UserRepository
	Teams    pool.Collection[*pool.Team]
	Leagues  pool.Collection[*pool.League]
	Picks    pool.Collection[*pool.Pick]
	Brackets pool.Collection[*pool.Bracket]

	Auth   *auth.Service
	Hasher auth.PasswordHasher

	Metrics *observability.Metrics
	Logger  *slog.Logger
}

// Server is the REST API server.
type Server struct {
	addr       string
	listener   net.Listener
	httpServer *http.Server
	handler    http.Handler
	running    atomic.Bool
	log        *slog.Logger

	users    auth.UserRepository
	teams    pool.Collection[*pool.Team]
	leagues  pool.Collection[*pool.League]
	picks    pool.Collection[*pool.Pick]
	brackets pool.Collection[*pool.Bracket]

	authsvc *auth.Service
	hasher  auth.PasswordHasher

	metrics *observability.Metrics
	origins []glob.Glob
}

// NewServer creates a Server. CORS origin patterns are compiled up
// front; a bad pattern is a configuration error.
func NewServer(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	origins := make([]glob.Glob, 0, len(opts.CORSOrigins))
	for _, pattern := range opts.CORSOrigins {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, oops.Code("CONFIG_INVALID").
				With("cors_origin", pattern).
				Wrap(err)
		}
		origins = append(origins, g)
	}

	s := &Server{
		addr:     opts.Addr,
		log:      logger,
		users:    opts.Users,
		teams:    opts.Teams,
		leagues:  opts.Leagues,
		picks:    opts.Picks,
		brackets: opts.Brackets,
		authsvc:  opts.Auth,
		hasher:   opts.Hasher,
		metrics:  opts.Metrics,
		origins:  origins,
	}
	s.handler = s.buildHandler()
	return s, nil
}

// Handler returns the fully assembled route handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// buildHandler assembles the route table and middleware chain.
func (s *Server) buildHandler() http.Handler {
	mux := http.NewServeMux()

	registerResource(mux, s, &resource[*auth.User]{
		name:       "users",
		coll:       s.users,
		newDoc:     func() *auth.User { return &auth.User{} },
		prepare:    s.prepareUser,
		openCreate: true, // signup must not require a session
	})
	registerResource(mux, s, &resource[*pool.Team]{
		name:   "teams",
		coll:   s.teams,
		newDoc: func() *pool.Team { return &pool.Team{} },
	})
	registerResource(mux, s, &resource[*pool.League]{
		name:   "leagues",
		coll:   s.leagues,
		newDoc: func() *pool.League { return &pool.League{} },
	})
	registerResource(mux, s, &resource[*pool.Pick]{
		name:   "picks",
		coll:   s.picks,
		newDoc: func() *pool.Pick { return &pool.Pick{} },
	})
	registerResource(mux, s, &resource[*pool.Bracket]{
		name:   "brackets",
		coll:   s.brackets,
		newDoc: func() *pool.Bracket { return &pool.Bracket{} },
	})

	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)

	return s.cors(s.accessLog(mux))
}

// Start begins serving the API. It returns an error channel that
// receives any failure from the HTTP server after startup; the channel
// closes when the server stops gracefully.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.log.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.log.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the API server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}

	s.log.Info("api server stopped")
	return nil
}

// Addr returns the address the server is listening on, or "" when not
// running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
