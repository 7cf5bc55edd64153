// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

package pool

import "errors"

// ErrNotFound is returned when a requested document does not exist.
// A malformed document id collapses to the same outcome so that callers
// cannot distinguish "bad id" from "no such document".
var ErrNotFound = errors.New("not found")

// ConstraintError reports a schema or uniqueness violation on write.
// Message carries the store's own description so the route layer can
// surface it to the client.
type ConstraintError struct {
	Message string
}

func (e *ConstraintError) Error() string {
	return e.Message
}

// AsConstraint extracts a ConstraintError from an error chain.
func AsConstraint(err error) (*ConstraintError, bool) {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
