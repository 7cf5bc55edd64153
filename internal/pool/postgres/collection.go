// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

// Package postgres implements the pool document collections as JSONB
// tables in PostgreSQL. One generic implementation serves every
// non-user resource; only the table name and document type differ.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/poolhouse/poolhouse/internal/pool"
)

// DB is the subset of pgxpool.Pool the collection needs. Narrowed to an
// interface so tests can substitute pgxmock.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Table names for the document collections. Collections are only ever
// constructed with these constants; the table name is interpolated into
// SQL and must never come from request input.
const (
	TableTeams    = "teams"
	TableLeagues  = "leagues"
	TablePicks    = "picks"
	TableBrackets = "brackets"
)

// Collection stores one document kind in a (id, doc JSONB) table.
type Collection[T pool.Document] struct {
	db     DB
	table  string
	newDoc func() T
}

// NewCollection creates a collection over the given table. newDoc
// allocates an empty document for unmarshalling.
func NewCollection[T pool.Document](db DB, table string, newDoc func() T) *Collection[T] {
	return &Collection[T]{db: db, table: table, newDoc: newDoc}
}

// List returns every document in the collection, ordered by id.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	rows, err := c.db.Query(ctx, `SELECT id, doc FROM `+c.table+` ORDER BY id`)
	if err != nil {
		return nil, oops.Code("DOC_LIST_FAILED").
			With("table", c.table).
			With("operation", "query documents").
			Wrap(err)
	}
	defer rows.Close()

	var docs []T
	for rows.Next() {
		var idStr string
		var data []byte
		if err := rows.Scan(&idStr, &data); err != nil {
			return nil, oops.Code("DOC_SCAN_FAILED").
				With("table", c.table).
				Wrap(err)
		}
		doc, err := c.decode(idStr, data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("DOC_LIST_FAILED").
			With("table", c.table).
			With("operation", "iterate documents").
			Wrap(err)
	}
	return docs, nil
}

// Get retrieves one document by id.
func (c *Collection[T]) Get(ctx context.Context, id ulid.ULID) (T, error) {
	var zero T

	var data []byte
	err := c.db.QueryRow(ctx, `SELECT doc FROM `+c.table+` WHERE id = $1`, id.String()).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, oops.Code("DOC_NOT_FOUND").
			With("table", c.table).
			With("id", id.String()).
			Wrap(pool.ErrNotFound)
	}
	if err != nil {
		return zero, oops.Code("DOC_GET_FAILED").
			With("table", c.table).
			With("id", id.String()).
			Wrap(err)
	}

	return c.decode(id.String(), data)
}

// Create persists a new document under a freshly assigned identity.
func (c *Collection[T]) Create(ctx context.Context, doc T) error {
	doc.SetDocumentID(ulid.Make())

	data, err := json.Marshal(doc)
	if err != nil {
		return oops.Code("DOC_ENCODE_FAILED").
			With("table", c.table).
			Wrap(err)
	}

	now := time.Now().UTC()
	_, err = c.db.Exec(ctx,
		`INSERT INTO `+c.table+` (id, doc, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		doc.DocumentID().String(), data, now, now)
	if err != nil {
		if ce := asConstraint(err, c.table); ce != nil {
			return ce
		}
		return oops.Code("DOC_CREATE_FAILED").
			With("table", c.table).
			With("operation", "insert document").
			Wrap(err)
	}
	return nil
}

// Replace overwrites the full document under id.
func (c *Collection[T]) Replace(ctx context.Context, id ulid.ULID, doc T) error {
	doc.SetDocumentID(id)

	data, err := json.Marshal(doc)
	if err != nil {
		return oops.Code("DOC_ENCODE_FAILED").
			With("table", c.table).
			Wrap(err)
	}

	result, err := c.db.Exec(ctx,
		`UPDATE `+c.table+` SET doc = $2, updated_at = $3 WHERE id = $1`,
		id.String(), data, time.Now().UTC())
	if err != nil {
		if ce := asConstraint(err, c.table); ce != nil {
			return ce
		}
		return oops.Code("DOC_REPLACE_FAILED").
			With("table", c.table).
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("DOC_NOT_FOUND").
			With("table", c.table).
			With("id", id.String()).
			Wrap(pool.ErrNotFound)
	}
	return nil
}

// Delete physically removes the document. A second delete of the same id
// reports ErrNotFound.
func (c *Collection[T]) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := c.db.Exec(ctx, `DELETE FROM `+c.table+` WHERE id = $1`, id.String())
	if err != nil {
		return oops.Code("DOC_DELETE_FAILED").
			With("table", c.table).
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("DOC_NOT_FOUND").
			With("table", c.table).
			With("id", id.String()).
			Wrap(pool.ErrNotFound)
	}
	return nil
}

// decode unmarshals a stored document and stamps its identity from the
// id column, which is authoritative over anything inside the doc.
func (c *Collection[T]) decode(idStr string, data []byte) (T, error) {
	var zero T

	doc := c.newDoc()
	if err := json.Unmarshal(data, doc); err != nil {
		return zero, oops.Code("DOC_DECODE_FAILED").
			With("table", c.table).
			With("id", idStr).
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return zero, oops.Code("DOC_INVALID_ID").
			With("table", c.table).
			With("id", idStr).
			Wrap(err)
	}
	doc.SetDocumentID(id)
	return doc, nil
}

// asConstraint converts an integrity constraint violation into a
// pool.ConstraintError carrying the store's own message. Returns nil for
// any other error.
func asConstraint(err error, table string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return oops.Code("CONSTRAINT_VIOLATION").
			With("table", table).
			With("constraint", pgErr.ConstraintName).
			Wrap(&pool.ConstraintError{Message: pgErr.Message})
	}
	return nil
}

// Compile-time interface check.
var _ pool.Collection[*pool.Team] = (*Collection[*pool.Team])(nil)
