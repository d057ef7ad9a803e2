// Package viewmodel holds the per-page state between the remote store and
// the rendered page: collection snapshots, filter projections, detail views
// with dependent lists, and the mutation-then-refresh controller.
//
// View models are created per page mount and closed on teardown. Every load
// is tagged with a sequence number; only the most recently issued load may
// write state, and nothing is written after Close.
package viewmodel

import (
	"context"
	"sync"
)

// Loader fetches one snapshot of a collection.
type Loader[T any] func(ctx context.Context) ([]T, error)

// State is a copy of a collection view's fields.
type State[T any] struct {
	Items     []T
	IsLoading bool
	Err       error
}

// Kind classifies the current error.
func (s State[T]) Kind() ErrorKind {
	return KindOf(s.Err)
}

// CollectionView holds the last successfully fetched snapshot of one
// collection.
type CollectionView[T any] struct {
	mu      sync.Mutex
	fetch   Loader[T]
	items   []T
	loading bool
	err     error
	seq     uint64
	closed  bool
}

// NewCollectionView creates an empty view that loads through fetch.
func NewCollectionView[T any](fetch Loader[T]) *CollectionView[T] {
	return &CollectionView[T]{fetch: fetch}
}

// Load refetches with the view's own loader.
func (v *CollectionView[T]) Load(ctx context.Context) {
	v.LoadWith(ctx, v.fetch)
}

// LoadWith refetches with fetch. Prior items stay visible while loading; a
// failure only sets the error slot; a response superseded by a newer load,
// or arriving after Close, is dropped.
func (v *CollectionView[T]) LoadWith(ctx context.Context, fetch Loader[T]) {
	seq, ok := v.begin()
	if !ok {
		return
	}
	items, err := fetch(ctx)
	v.finish(seq, items, err)
}

func (v *CollectionView[T]) begin() (uint64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return 0, false
	}
	v.seq++
	v.loading = true
	v.err = nil
	return v.seq, true
}

func (v *CollectionView[T]) finish(seq uint64, items []T, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || seq != v.seq {
		return
	}
	v.loading = false
	if err != nil {
		v.err = err
		return
	}
	if items == nil {
		items = []T{}
	}
	v.items = items
}

// State returns a snapshot; the Items slice is a copy.
func (v *CollectionView[T]) State() State[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	items := make([]T, len(v.items))
	copy(items, v.items)
	return State[T]{Items: items, IsLoading: v.loading, Err: v.err}
}

// Items is shorthand for State().Items.
func (v *CollectionView[T]) Items() []T {
	return v.State().Items
}

// Close discards every pending and future response.
func (v *CollectionView[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.loading = false
}
