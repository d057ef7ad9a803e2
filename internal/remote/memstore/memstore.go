// Package memstore is an in-process remote.Store used in dev mode and tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote"
)

// Store keeps every collection in memory. Documents are copied on the way in
// and out so callers never share state with the store.
type Store struct {
	mu    sync.RWMutex
	data  map[string][]remote.Document
	now   func() time.Time
	last  time.Time
	newID func() string
}

type Option func(*Store)

// WithClock replaces time.Now for created_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs replaces the uuid generator.
func WithIDs(next func() string) Option {
	return func(s *Store) { s.newID = next }
}

func New(opts ...Option) *Store {
	s := &Store{
		data:  make(map[string][]remote.Document),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the filtered, ordered and limited records of a collection.
func (s *Store) List(ctx context.Context, collection string, q remote.Query) ([]remote.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, remote.Transport("list "+collection, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]remote.Document, 0)
	for _, doc := range s.data[collection] {
		if matches(doc, q.Where) {
			out = append(out, doc.Clone())
		}
	}

	order := q.Ordering()
	sort.SliceStable(out, func(i, j int) bool {
		c := compareValues(out[i][order.Field], out[j][order.Field])
		if order.Descending {
			return c > 0
		}
		return c < 0
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Get returns a copy of one record.
func (s *Store) Get(ctx context.Context, collection, id string) (remote.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, remote.Transport("get "+collection, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(collection, id)
	if i < 0 {
		return nil, remote.NotFound(collection, id)
	}
	return s.data[collection][i].Clone(), nil
}

// Insert stores a new record with a fresh id and a strictly increasing
// created_at.
func (s *Store) Insert(ctx context.Context, collection string, fields remote.Document) (remote.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, remote.Transport("insert "+collection, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := remote.StripReserved(fields)
	doc[remote.FieldID] = s.newID()
	doc[remote.FieldCreatedAt] = s.stamp()
	s.data[collection] = append(s.data[collection], doc)
	return doc.Clone(), nil
}

// Update merges patch into the record; id and created_at cannot change.
func (s *Store) Update(ctx context.Context, collection, id string, patch remote.Document) (remote.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, remote.Transport("update "+collection, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(collection, id)
	if i < 0 {
		return nil, remote.NotFound(collection, id)
	}
	doc := s.data[collection][i].Clone()
	for k, v := range remote.StripReserved(patch) {
		doc[k] = v
	}
	s.data[collection][i] = doc
	return doc.Clone(), nil
}

// Delete removes one record.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return remote.Transport("delete "+collection, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(collection, id)
	if i < 0 {
		return remote.NotFound(collection, id)
	}
	docs := s.data[collection]
	s.data[collection] = append(docs[:i:i], docs[i+1:]...)
	return nil
}

// Len returns the number of records in a collection.
func (s *Store) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[collection])
}

func (s *Store) indexOf(collection, id string) int {
	for i, doc := range s.data[collection] {
		if doc.ID() == id {
			return i
		}
	}
	return -1
}

// stamp must be called with mu held.
func (s *Store) stamp() time.Time {
	t := s.now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func matches(doc remote.Document, where []remote.Filter) bool {
	for _, f := range where {
		if compareValues(doc[f.Field], f.Value) != 0 {
			return false
		}
	}
	return true
}

// compareValues orders two field values; mismatched kinds compare by their
// string form.
func compareValues(a, b any) int {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	case nil:
		if b == nil {
			return 0
		}
		return -1
	}
	if b == nil {
		return 1
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
