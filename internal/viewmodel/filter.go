package viewmodel

import (
	"strings"
	"sync"
)

// FilterKey selects a catalog subset: FilterAll or a category tag.
type FilterKey string

const FilterAll FilterKey = "all"

// ParseFilterKey normalises user input; empty input means FilterAll.
func ParseFilterKey(s string) FilterKey {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FilterAll
	}
	return FilterKey(s)
}

// Categorized records can be projected by category.
type Categorized interface {
	CategoryTag() string
}

// Project returns items unchanged for FilterAll, otherwise the stable-order
// subsequence whose category equals key. items is never modified.
func Project[T Categorized](items []T, key FilterKey) []T {
	if key == FilterAll {
		return items
	}
	return Where(items, func(item T) bool {
		return item.CategoryTag() == string(key)
	})
}

// Where returns the stable-order subsequence of items satisfying keep.
func Where[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// FilteredView pairs a collection view with a filter key. The projection is
// recomputed on every call.
type FilteredView[T Categorized] struct {
	*CollectionView[T]

	mu  sync.Mutex
	key FilterKey
}

// NewFilteredView creates a filtered view. An empty key means FilterAll.
func NewFilteredView[T Categorized](fetch Loader[T], key FilterKey) *FilteredView[T] {
	if key == "" {
		key = FilterAll
	}
	return &FilteredView[T]{CollectionView: NewCollectionView(fetch), key: key}
}

// SetFilter changes the key used by Visible. An empty key means FilterAll.
func (f *FilteredView[T]) SetFilter(key FilterKey) {
	if key == "" {
		key = FilterAll
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.key = key
}

// Filter returns the current key.
func (f *FilteredView[T]) Filter() FilterKey {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.key
}

// Visible projects the current snapshot through the current key.
func (f *FilteredView[T]) Visible() []T {
	return Project(f.Items(), f.Filter())
}
