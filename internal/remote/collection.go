package remote

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
)

// Collection is a typed view over one named collection of a Store.
type Collection[T any] struct {
	store Store
	name  string
}

// NewCollection binds T to the named collection of store.
func NewCollection[T any](store Store, name string) *Collection[T] {
	return &Collection[T]{store: store, name: name}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// List fetches and decodes the records matching q.
func (c *Collection[T]) List(ctx context.Context, q Query) ([]T, error) {
	docs, err := c.store.List(ctx, c.name, q)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := Decode[T](d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Get fetches and decodes one record.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	doc, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return zero, err
	}
	return Decode[T](doc)
}

// Insert encodes payload, drops the backend-assigned fields and returns the
// created record.
func (c *Collection[T]) Insert(ctx context.Context, payload any) (T, error) {
	var zero T
	fields, err := Encode(payload)
	if err != nil {
		return zero, err
	}
	doc, err := c.store.Insert(ctx, c.name, StripReserved(fields))
	if err != nil {
		return zero, err
	}
	return Decode[T](doc)
}

// Update applies patch and decodes the updated record.
func (c *Collection[T]) Update(ctx context.Context, id string, patch Document) (T, error) {
	var zero T
	doc, err := c.store.Update(ctx, c.name, id, StripReserved(patch))
	if err != nil {
		return zero, err
	}
	return Decode[T](doc)
}

// Delete removes one record.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.name, id)
}

// Encode converts a struct (or map) into a Document using its json tags.
func Encode(v any) (Document, error) {
	if d, ok := v.(Document); ok {
		return d.Clone(), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return doc, nil
}

// Decode converts a Document into T using T's json tags.
func Decode[T any](d Document) (T, error) {
	var out T
	raw, err := json.Marshal(d)
	if err != nil {
		return out, fmt.Errorf("decode document: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}
