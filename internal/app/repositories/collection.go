package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/docstore"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
	"github.com/yigit/deptportal/internal/pkg/logger"
	"github.com/yigit/deptportal/internal/pkg/validation"
)

// RecordPtr constrains P to *T implementing models.Record.
type RecordPtr[T any] interface {
	*T
	models.Record
}

// Collection is the typed data-access contract shared by every repository:
// list, get, create, update, delete. Records are validated before every
// write and upgraded to the current schema on every read.
type Collection[T any, P RecordPtr[T]] struct {
	store docstore.Store
	name  string
	now   func() time.Time
}

// NewCollection binds a record type to a store collection.
func NewCollection[T any, P RecordPtr[T]](store docstore.Store, name string) *Collection[T, P] {
	return &Collection[T, P]{
		store: store,
		name:  name,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Name is the store collection name.
func (c *Collection[T, P]) Name() string { return c.name }

// mapStoreError translates backend errors into application errors.
func (c *Collection[T, P]) mapStoreError(err error, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, docstore.ErrNotFound):
		return fmt.Errorf("%s %q: %w", c.name, id, apperrors.ErrResourceNotFound)
	case errors.Is(err, docstore.ErrAlreadyExists):
		return fmt.Errorf("%s %q: %w", c.name, id, apperrors.ErrResourceAlreadyExists)
	case errors.Is(err, docstore.ErrQueryNotSupported), errors.Is(err, docstore.ErrInvalidQuery):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, c.name, err)
}

func (c *Collection[T, P]) decode(doc docstore.Document) (*T, error) {
	rec := new(T)
	if err := docstore.Decode(doc, rec); err != nil {
		return nil, err
	}
	p := P(rec)
	if p.Meta().SchemaVersion < p.CurrentSchema() {
		p.Upgrade()
		p.Meta().SchemaVersion = p.CurrentSchema()
	}
	return rec, nil
}

func validateRecord(rec models.Record) error {
	if err := validation.Struct(rec); err != nil {
		return err
	}
	if chk, ok := rec.(models.Checker); ok {
		return chk.Check()
	}
	return nil
}

// Find returns the records matching q. Documents that fail to decode are
// logged and skipped so one bad record does not hide the rest.
func (c *Collection[T, P]) Find(ctx context.Context, q docstore.Query) ([]*T, error) {
	docs, err := c.store.Find(ctx, c.name, q)
	if err != nil {
		return nil, c.mapStoreError(err, "")
	}
	out := make([]*T, 0, len(docs))
	for _, doc := range docs {
		rec, err := c.decode(doc)
		if err != nil {
			logger.Warn().Err(err).Str("collection", c.name).Str("id", doc.ID).Msg("Skipping undecodable document")
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// List returns every record in store order.
func (c *Collection[T, P]) List(ctx context.Context) ([]*T, error) {
	return c.Find(ctx, docstore.All())
}

// Get returns one record or an error wrapping apperrors.ErrResourceNotFound.
func (c *Collection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, fmt.Errorf("%s: empty id: %w", c.name, apperrors.ErrResourceNotFound)
	}
	doc, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return nil, c.mapStoreError(err, id)
	}
	return c.decode(*doc)
}

// Create validates and inserts rec, returning the new id. A preset
// rec.Meta().ID is kept.
func (c *Collection[T, P]) Create(ctx context.Context, rec *T) (string, error) {
	p := P(rec)
	if err := validateRecord(p); err != nil {
		return "", err
	}
	models.Touch(p, c.now(), true)
	data, err := docstore.Encode(rec)
	if err != nil {
		return "", err
	}
	id, err := c.store.Create(ctx, c.name, p.Meta().ID, data)
	if err != nil {
		return "", c.mapStoreError(err, p.Meta().ID)
	}
	p.Meta().ID = id
	return id, nil
}

// Replace validates and overwrites the stored record with the same id.
func (c *Collection[T, P]) Replace(ctx context.Context, rec *T) error {
	p := P(rec)
	if p.Meta().ID == "" {
		return apperrors.NewBadRequestError("record id is required")
	}
	if err := validateRecord(p); err != nil {
		return err
	}
	models.Touch(p, c.now(), false)
	data, err := docstore.Encode(rec)
	if err != nil {
		return err
	}
	return c.mapStoreError(c.store.Set(ctx, c.name, p.Meta().ID, data), p.Meta().ID)
}

// protected fields cannot be changed through Update.
var protected = []string{"id", "createdAt", "updatedAt", "schemaVersion"}

// Update merges a partial field map into the stored record, validates the
// result and writes it back.
func (c *Collection[T, P]) Update(ctx context.Context, id string, partial map[string]any) (*T, error) {
	current, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := docstore.Encode(current)
	if err != nil {
		return nil, err
	}
	for k, v := range partial {
		data[k] = docstore.NormalizeValue(v)
	}
	for _, k := range protected {
		delete(data, k)
	}
	data["createdAt"] = P(current).Meta().CreatedAt

	merged, err := c.decode(docstore.Document{ID: id, Data: data})
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if err := c.Replace(ctx, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Delete removes one record.
func (c *Collection[T, P]) Delete(ctx context.Context, id string) error {
	return c.mapStoreError(c.store.Delete(ctx, c.name, id), id)
}

// Count returns the number of stored records.
func (c *Collection[T, P]) Count(ctx context.Context) (int64, error) {
	n, err := c.store.Count(ctx, c.name)
	return n, c.mapStoreError(err, "")
}

// DeleteAll removes every record one by one and returns how many went.
func (c *Collection[T, P]) DeleteAll(ctx context.Context) (int, error) {
	docs, err := c.store.Find(ctx, c.name, docstore.All())
	if err != nil {
		return 0, c.mapStoreError(err, "")
	}
	deleted := 0
	for _, doc := range docs {
		if err := c.store.Delete(ctx, c.name, doc.ID); err != nil && !errors.Is(err, docstore.ErrNotFound) {
			return deleted, c.mapStoreError(err, doc.ID)
		}
		deleted++
	}
	return deleted, nil
}

// Documents returns the raw stored documents without upgrades, for
// maintenance tooling that repairs what is actually persisted.
func (c *Collection[T, P]) Documents(ctx context.Context) ([]docstore.Document, error) {
	docs, err := c.store.Find(ctx, c.name, docstore.All())
	return docs, c.mapStoreError(err, "")
}

// Patch writes raw fields without validation.
func (c *Collection[T, P]) Patch(ctx context.Context, id string, fields map[string]any) error {
	fields["updatedAt"] = c.now()
	return c.mapStoreError(c.store.Update(ctx, c.name, id, fields), id)
}
