// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/poolhouse/poolhouse/internal/pool"
)

// resource is the generic CRUD handler for one document collection. All
// five resources share this implementation; they differ only in the
// collection, the document type, and an optional prepare hook run before
// writes (users hash their password there).
type resource[T pool.Document] struct {
	name       string
	coll       pool.Collection[T]
	newDoc     func() T
	prepare    func(r *http.Request, doc T) error
	openCreate bool
}

// registerResource wires the five CRUD routes for one resource onto the
// mux. Every route requires a session except create when openCreate is
// set.
func registerResource[T pool.Document](mux *http.ServeMux, s *Server, res *resource[T]) {
	guard := s.requireSession

	createHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { res.create(s, w, r) })
	if res.openCreate {
		mux.Handle("POST /"+res.name, createHandler)
	} else {
		mux.Handle("POST /"+res.name, guard(createHandler))
	}

	mux.Handle("GET /"+res.name, guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res.list(s, w, r)
	})))
	mux.Handle("GET /"+res.name+"/{id}", guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res.get(s, w, r)
	})))
	mux.Handle("PUT /"+res.name+"/{id}", guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res.replace(s, w, r)
	})))
	mux.Handle("DELETE /"+res.name+"/{id}", guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res.remove(s, w, r)
	})))
}

// list returns the whole collection.
func (res *resource[T]) list(s *Server, w http.ResponseWriter, r *http.Request) {
	docs, err := res.coll.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	if docs == nil {
		docs = []T{}
	}
	s.respondJSON(w, http.StatusOK, docs)
}

// get returns one document. Malformed ids behave exactly like absent
// documents and never reach the store.
func (res *resource[T]) get(s *Server, w http.ResponseWriter, r *http.Request) {
	id, err := pool.ParseID(r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	doc, err := res.coll.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

// create persists a new document and answers 201 with a Location header.
func (res *resource[T]) create(s *Server, w http.ResponseWriter, r *http.Request) {
	doc, err := res.decode(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := res.coll.Create(r.Context(), doc); err != nil {
		s.respondError(w, err)
		return
	}

	w.Header().Set("Location", "/"+res.name+"/"+doc.DocumentID().String())
	s.respondJSON(w, http.StatusCreated, doc)
}

// replace overwrites the full document. Answers 201, matching the
// classic contract for updates.
func (res *resource[T]) replace(s *Server, w http.ResponseWriter, r *http.Request) {
	id, err := pool.ParseID(r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	doc, err := res.decode(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := res.coll.Replace(r.Context(), id, doc); err != nil {
		s.respondError(w, err)
		return
	}

	w.Header().Set("Location", "/"+res.name+"/"+id.String())
	s.respondJSON(w, http.StatusCreated, doc)
}

// remove physically deletes the document. A store failure mid-delete is
// a 400, not a 500, per the classic contract.
func (res *resource[T]) remove(s *Server, w http.ResponseWriter, r *http.Request) {
	id, err := pool.ParseID(r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := res.coll.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pool.ErrNotFound) {
			s.respondError(w, err)
			return
		}
		s.respondError(w, badRequest("could not delete "+res.singular()))
		return
	}
	s.respondJSON(w, http.StatusOK, "success")
}

// decode reads the request body into a fresh document and runs the
// prepare hook.
func (res *resource[T]) decode(r *http.Request) (T, error) {
	var zero T

	doc := res.newDoc()
	if err := json.NewDecoder(r.Body).Decode(doc); err != nil {
		return zero, badRequest("invalid request body")
	}

	if res.prepare != nil {
		if err := res.prepare(r, doc); err != nil {
			return zero, err
		}
	}
	return doc, nil
}

func (res *resource[T]) singular() string {
	return strings.TrimSuffix(res.name, "s")
}
