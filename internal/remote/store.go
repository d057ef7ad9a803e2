// Package remote is the client side of the managed backend that owns every
// storefront record. Backends implement Store at the document level; callers
// usually go through the typed Collection wrapper.
package remote

//go:generate mockgen -source=store.go -destination=remotemock/store.go -package=remotemock

import (
	"context"
	"errors"
	"fmt"
)

// Reserved fields assigned by the backend.
const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
)

var (
	// ErrNotFound is returned when a single record is absent.
	ErrNotFound = errors.New("record not found")
	// ErrTransport wraps network and backend failures.
	ErrTransport = errors.New("backend unavailable")
)

// Document is one record as a field map.
type Document map[string]any

// ID returns the record id as a string, or "" when missing.
func (d Document) ID() string {
	switch v := d[FieldID].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Store is the request/response interface to the backend. Implementations
// must not retry on their own.
type Store interface {
	List(ctx context.Context, collection string, q Query) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Insert(ctx context.Context, collection string, fields Document) (Document, error)
	Update(ctx context.Context, collection, id string, patch Document) (Document, error)
	Delete(ctx context.Context, collection, id string) error
}

// Transport wraps err so that errors.Is(err, ErrTransport) holds.
func Transport(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTransport) {
		return err
	}
	return fmt.Errorf("%s: %w: %v", op, ErrTransport, err)
}

// NotFound returns ErrNotFound annotated with the collection and id.
func NotFound(collection, id string) error {
	return fmt.Errorf("%s %q: %w", collection, id, ErrNotFound)
}

// StripReserved drops the fields a caller may not set.
func StripReserved(d Document) Document {
	out := d.Clone()
	delete(out, FieldID)
	delete(out, "_id")
	delete(out, FieldCreatedAt)
	return out
}
