// Package memory is an in-process docstore backend used for development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/yigit/deptportal/internal/docstore"
)

type collection struct {
	docs  map[string]map[string]any
	order []string
}

// Store keeps documents in maps guarded by a RWMutex. Insertion order is the
// store order returned by Find.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	noComposite bool
	unavailable error
}

// Option configures a Store.
type Option func(*Store)

// WithoutCompositeIndexes makes the store reject compound range queries with
// docstore.ErrQueryNotSupported, the way a hosted store does when an index is
// missing.
func WithoutCompositeIndexes() Option {
	return func(s *Store) { s.noComposite = true }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{collections: map[string]*collection{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ docstore.Store = (*Store)(nil)

// SetUnavailable makes every call fail with err until it is cleared with nil.
func (s *Store) SetUnavailable(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = err
}

func (s *Store) coll(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: map[string]map[string]any{}}
		s.collections[name] = c
	}
	return c
}

func copyData(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (s *Store) Get(_ context.Context, collection, id string) (*docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.unavailable != nil {
		return nil, s.unavailable
	}
	c, ok := s.collections[collection]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	data, ok := c.docs[id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return &docstore.Document{ID: id, Data: copyData(data)}, nil
}

func (s *Store) Find(_ context.Context, collection string, q docstore.Query) ([]docstore.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.unavailable != nil {
		return nil, s.unavailable
	}
	if s.noComposite && q.IsCompoundRange() {
		return nil, fmt.Errorf("%w: compound range query on %s needs a composite index", docstore.ErrQueryNotSupported, collection)
	}
	filters := make([]docstore.Filter, len(q.Filters))
	for i, f := range q.Filters {
		f.Value = docstore.NormalizeValue(f.Value)
		filters[i] = f
	}

	c, ok := s.collections[collection]
	if !ok {
		return []docstore.Document{}, nil
	}
	out := make([]docstore.Document, 0, len(c.order))
	for _, id := range c.order {
		data := c.docs[id]
		matched := true
		for _, f := range filters {
			if !docstore.Match(data, f) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, docstore.Document{ID: id, Data: copyData(data)})
		}
	}

	if len(q.OrderBy) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, o := range q.OrderBy {
				c, ok := docstore.Compare(out[i].Data[o.Field], out[j].Data[o.Field])
				if !ok || c == 0 {
					continue
				}
				if o.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Store) Create(_ context.Context, collection, id string, data map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unavailable != nil {
		return "", s.unavailable
	}
	if id == "" {
		id = uuid.NewString()
	}
	c := s.coll(collection)
	if _, exists := c.docs[id]; exists {
		return "", fmt.Errorf("%w: %s/%s", docstore.ErrAlreadyExists, collection, id)
	}
	c.docs[id] = docstore.Normalize(copyData(data))
	c.order = append(c.order, id)
	return id, nil
}

func (s *Store) Set(_ context.Context, collection, id string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unavailable != nil {
		return s.unavailable
	}
	c := s.coll(collection)
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = docstore.Normalize(copyData(data))
	return nil
}

func (s *Store) Update(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unavailable != nil {
		return s.unavailable
	}
	c, ok := s.collections[collection]
	if !ok {
		return docstore.ErrNotFound
	}
	data, ok := c.docs[id]
	if !ok {
		return docstore.ErrNotFound
	}
	for k, v := range fields {
		data[k] = docstore.NormalizeValue(v)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unavailable != nil {
		return s.unavailable
	}
	c, ok := s.collections[collection]
	if !ok {
		return docstore.ErrNotFound
	}
	if _, ok := c.docs[id]; !ok {
		return docstore.ErrNotFound
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) Count(_ context.Context, collection string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.unavailable != nil {
		return 0, s.unavailable
	}
	c, ok := s.collections[collection]
	if !ok {
		return 0, nil
	}
	return int64(len(c.docs)), nil
}

func (s *Store) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unavailable
}

func (s *Store) Close(context.Context) error { return nil }
