// Package docstore is a small document-store abstraction. Records live in
// named collections as JSON-like field maps keyed by a string id. Backends
// (memory, postgres, mongo) implement Store.
package docstore

import (
	"context"
	"errors"
)

// Collection names used by the portal.
const (
	CollectionFaculty        = "faculty"
	CollectionStudents       = "students"
	CollectionNotifications  = "notifications"
	CollectionResearch       = "research"
	CollectionAchievements   = "achievements"
	CollectionEvents         = "events"
	CollectionCertifications = "certifications"
	CollectionUsers          = "users"
	CollectionSessions       = "sessions"
)

var (
	// ErrNotFound is returned when a document id does not exist in a collection.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned by Create when the id is taken.
	ErrAlreadyExists = errors.New("document already exists")
	// ErrQueryNotSupported is returned when a backend cannot serve a filter
	// combination (for example a compound range query without an index).
	ErrQueryNotSupported = errors.New("query not supported by store")
	// ErrInvalidQuery is returned for malformed filters.
	ErrInvalidQuery = errors.New("invalid query")
)

// Document is one stored record.
type Document struct {
	ID   string
	Data map[string]any
}

// Store is implemented by every backend.
type Store interface {
	// Get returns a single document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Find returns the documents matching q, in store order unless q orders them.
	Find(ctx context.Context, collection string, q Query) ([]Document, error)
	// Create inserts a document. An empty id lets the store generate one.
	Create(ctx context.Context, collection, id string, data map[string]any) (string, error)
	// Set replaces (or inserts) the document with the given id.
	Set(ctx context.Context, collection, id string, data map[string]any) error
	// Update merges fields into an existing document or returns ErrNotFound.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// Delete removes a document or returns ErrNotFound.
	Delete(ctx context.Context, collection, id string) error
	// Count returns the number of documents in a collection.
	Count(ctx context.Context, collection string) (int64, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
