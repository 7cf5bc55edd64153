// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

package auth

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Registry maps a user identity to its issued session. Exactly one live
// session exists per identity: issuing replaces, revoking removes.
// Implementations must make each operation an atomic read-modify-write so
// a Revoke racing an Issue for the same identity cannot reinstate a
// revoked record.
type Registry interface {
	// Issue generates a fresh api key for the identity, replacing and
	// thereby revoking any existing session.
	Issue(userID ulid.ULID) (Session, error)

	// Check reports whether the presented api key matches the live
	// session for the identity.
	Check(userID ulid.ULID, apiKey string) bool

	// Revoke removes the identity's session. Revoking an identity with
	// no session is not an error.
	Revoke(userID ulid.ULID)
}

// MemoryRegistry is a process-local Registry: a single mutex-guarded map.
// A process restart invalidates every session, a deliberate trade of
// durability for simplicity. Swap in a shared store behind the Registry
// interface for multi-instance deployments.
type MemoryRegistry struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[ulid.ULID]Session

	now func() time.Time // test seam
}

// NewMemoryRegistry creates a MemoryRegistry. A zero ttl means sessions
// live until replaced or revoked; a positive ttl makes Check reject and
// prune sessions older than ttl.
func NewMemoryRegistry(ttl time.Duration) *MemoryRegistry {
	return &MemoryRegistry{
		ttl:      ttl,
		sessions: make(map[ulid.ULID]Session),
		now:      time.Now,
	}
}

// Issue generates and records a new session for the identity.
func (r *MemoryRegistry) Issue(userID ulid.ULID) (Session, error) {
	key, err := GenerateAPIKey()
	if err != nil {
		return Session{}, err
	}

	session := Session{APIKey: key, IssuedAt: r.now()}

	r.mu.Lock()
	r.sessions[userID] = session
	r.mu.Unlock()

	return session, nil
}

// Check reports whether apiKey is the live, unexpired key for userID.
func (r *MemoryRegistry) Check(userID ulid.ULID, apiKey string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[userID]
	if !ok {
		return false
	}
	if r.ttl > 0 && r.now().Sub(session.IssuedAt) > r.ttl {
		delete(r.sessions, userID)
		return false
	}
	return KeysEqual(session.APIKey, apiKey)
}

// Revoke removes any session for userID.
func (r *MemoryRegistry) Revoke(userID ulid.ULID) {
	r.mu.Lock()
	delete(r.sessions, userID)
	r.mu.Unlock()
}

var _ Registry = (*MemoryRegistry)(nil)
