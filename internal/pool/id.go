// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

package pool

import (
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// MinIDLength is the minimum accepted length for a document id presented
// by a client. Shorter ids are rejected before any store access.
const MinIDLength = 5

// ValidateID checks the shape of a client-presented document id:
// non-empty, alphanumeric, at least MinIDLength characters.
func ValidateID(raw string) error {
	if len(raw) < MinIDLength {
		return oops.Code("ID_TOO_SHORT").
			With("length", len(raw)).
			Wrap(ErrNotFound)
	}
	for _, r := range raw {
		alnum := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !alnum {
			return oops.Code("ID_NOT_ALPHANUMERIC").Wrap(ErrNotFound)
		}
	}
	return nil
}

// ParseID validates the shape of a client-presented id and parses it as a
// ULID. Both failure modes wrap ErrNotFound: a malformed id must behave
// exactly like an absent document, without touching the store.
func ParseID(raw string) (ulid.ULID, error) {
	if err := ValidateID(raw); err != nil {
		return ulid.ULID{}, err
	}
	id, err := ulid.Parse(raw)
	if err != nil {
		return ulid.ULID{}, oops.Code("ID_NOT_ULID").Wrap(ErrNotFound)
	}
	return id, nil
}
