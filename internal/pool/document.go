// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

package pool

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// Meta carries the store-assigned identity shared by every document kind.
// Embed it in a document struct to satisfy the Document interface.
type Meta struct {
	ID ulid.ULID `json:"id"`
}

// DocumentID returns the store-assigned identity.
func (m *Meta) DocumentID() ulid.ULID { return m.ID }

// SetDocumentID records the store-assigned identity.
func (m *Meta) SetDocumentID(id ulid.ULID) { m.ID = id }

// Document is implemented by every stored document type.
type Document interface {
	DocumentID() ulid.ULID
	SetDocumentID(ulid.ULID)
}

// Collection is the CRUD contract over one document collection.
// Every resource repository, users included, exposes this shape.
type Collection[T Document] interface {
	// List returns the entire collection. No pagination or filtering;
	// collection sizes are sports-pool scale.
	List(ctx context.Context) ([]T, error)

	// Get retrieves one document, or ErrNotFound.
	Get(ctx context.Context, id ulid.ULID) (T, error)

	// Create persists a new document and assigns its identity.
	// A uniqueness or schema violation surfaces as a ConstraintError.
	Create(ctx context.Context, doc T) error

	// Replace overwrites the full document under id, or ErrNotFound.
	// Constraint failures behave as in Create.
	Replace(ctx context.Context, id ulid.ULID, doc T) error

	// Delete physically removes the document, or ErrNotFound. Deleting
	// an already-deleted id reports ErrNotFound, not a distinct error.
	Delete(ctx context.Context, id ulid.ULID) error
}
