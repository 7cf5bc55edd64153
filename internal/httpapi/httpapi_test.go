// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

package httpapi

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/poolhouse/poolhouse/internal/auth"
	"github.com/poolhouse/poolhouse/internal/pool"
)

// fakeCollection is an in-memory pool.Collection with injectable
// failures. It records which operations ran so tests can assert the
// store was never touched.
type fakeCollection[T pool.Document] struct {
	mu    sync.Mutex
	docs  map[ulid.ULID]T
	order []ulid.ULID
	calls []string

	listErr    error
	getErr     error
	createErr  error
	replaceErr error
	deleteErr  error
}

func newFakeCollection[T pool.Document]() *fakeCollection[T] {
	return &fakeCollection[T]{docs: make(map[ulid.ULID]T)}
}

func (f *fakeCollection[T]) record(op string) {
	f.calls = append(f.calls, op)
}

func (f *fakeCollection[T]) List(_ context.Context) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []T
	for _, id := range f.order {
		out = append(out, f.docs[id])
	}
	return out, nil
}

func (f *fakeCollection[T]) Get(_ context.Context, id ulid.ULID) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("get")
	var zero T
	if f.getErr != nil {
		return zero, f.getErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return zero, pool.ErrNotFound
	}
	return doc, nil
}

func (f *fakeCollection[T]) Create(_ context.Context, doc T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create")
	if f.createErr != nil {
		return f.createErr
	}
	doc.SetDocumentID(ulid.Make())
	f.docs[doc.DocumentID()] = doc
	f.order = append(f.order, doc.DocumentID())
	return nil
}

func (f *fakeCollection[T]) Replace(_ context.Context, id ulid.ULID, doc T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("replace")
	if f.replaceErr != nil {
		return f.replaceErr
	}
	if _, ok := f.docs[id]; !ok {
		return pool.ErrNotFound
	}
	doc.SetDocumentID(id)
	f.docs[id] = doc
	return nil
}

func (f *fakeCollection[T]) Delete(_ context.Context, id ulid.ULID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.docs[id]; !ok {
		return pool.ErrNotFound
	}
	delete(f.docs, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeCollection[T]) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeUserRepo adds the email lookup over a fakeCollection of users.
type fakeUserRepo struct {
	*fakeCollection[*auth.User]
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{fakeCollection: newFakeCollection[*auth.User]()}
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("getByEmail")
	for _, u := range f.docs {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pool.ErrNotFound
}

var (
	_ pool.Collection[*pool.Team] = (*fakeCollection[*pool.Team])(nil)
	_ auth.UserRepository         = (*fakeUserRepo)(nil)
)

// testBackend bundles a server with the fakes behind it.
type testBackend struct {
	server   *Server
	users    *fakeUserRepo
	teams    *fakeCollection[*pool.Team]
	leagues  *fakeCollection[*pool.League]
	picks    *fakeCollection[*pool.Pick]
	brackets *fakeCollection[*pool.Bracket]
	registry *auth.MemoryRegistry
	hasher   *auth.Argon2idHasher
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()

	b := &testBackend{
		users:    newFakeUserRepo(),
		teams:    newFakeCollection[*pool.Team](),
		leagues:  newFakeCollection[*pool.League](),
		picks:    newFakeCollection[*pool.Pick](),
		brackets: newFakeCollection[*pool.Bracket](),
		registry: auth.NewMemoryRegistry(0),
		hasher:   auth.NewArgon2idHasher(),
	}

	server, err := NewServer(Options{
		Addr:        "127.0.0.1:0",
		CORSOrigins: []string{"*"},
		Users:       b.users,
		Teams:       b.teams,
		Leagues:     b.leagues,
		Picks:       b.picks,
		Brackets:    b.brackets,
		Auth:        auth.NewService(b.users, b.registry, b.hasher),
		Hasher:      b.hasher,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	b.server = server
	return b
}

// session issues a live session for a fresh identity and returns the
// credential headers.
func (b *testBackend) session(t *testing.T) (ulid.ULID, string) {
	t.Helper()
	userID := ulid.Make()
	session, err := b.registry.Issue(userID)
	require.NoError(t, err)
	return userID, session.APIKey
}
