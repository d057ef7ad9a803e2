package memstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote"
)

func newTestStore() *Store {
	n := 0
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return New(
		WithClock(func() time.Time { return base }),
		WithIDs(func() string { n++; return fmt.Sprintf("r%d", n) }),
	)
}

func TestInsertAssignsIDAndIncreasingTimestamps(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	a, err := s.Insert(ctx, "products", remote.Document{"title": "a", "id": "spoofed"})
	require.NoError(t, err)
	b, err := s.Insert(ctx, "products", remote.Document{"title": "b"})
	require.NoError(t, err)

	assert.Equal(t, "r1", a.ID())
	assert.Equal(t, "r2", b.ID())
	assert.True(t, b["created_at"].(time.Time).After(a["created_at"].(time.Time)))
}

func TestListDefaultsToNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	for _, title := range []string{"first", "second", "third"} {
		_, err := s.Insert(ctx, "products", remote.Document{"title": title})
		require.NoError(t, err)
	}

	docs, err := s.List(ctx, "products", remote.Query{})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "third", docs[0]["title"])
	assert.Equal(t, "first", docs[2]["title"])
}

func TestListFiltersOrdersAndLimits(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	seed := []remote.Document{
		{"title": "b", "category": "minimal"},
		{"title": "a", "category": "modern"},
		{"title": "c", "category": "minimal"},
	}
	for _, d := range seed {
		_, err := s.Insert(ctx, "products", d)
		require.NoError(t, err)
	}

	docs, err := s.List(ctx, "products", remote.Query{}.Eq("category", "minimal").OrderBy("title", false))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[0]["title"])
	assert.Equal(t, "c", docs[1]["title"])

	docs, err = s.List(ctx, "products", remote.Query{}.WithLimit(1))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "c", docs[0]["title"])
}

func TestListFiltersOnBooleans(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	_, _ = s.Insert(ctx, "testimonials", remote.Document{"name": "x", "is_approved": true})
	_, _ = s.Insert(ctx, "testimonials", remote.Document{"name": "y", "is_approved": false})

	docs, err := s.List(ctx, "testimonials", remote.Query{}.Eq("is_approved", true))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "x", docs[0]["name"])
}

func TestReturnedDocumentsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	doc, err := s.Insert(ctx, "products", remote.Document{"title": "orig"})
	require.NoError(t, err)

	doc["title"] = "mutated"
	got, err := s.Get(ctx, "products", doc.ID())
	require.NoError(t, err)
	assert.Equal(t, "orig", got["title"])
}

func TestUpdateMergesAndProtectsReservedFields(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	doc, err := s.Insert(ctx, "testimonials", remote.Document{"name": "n", "is_approved": false})
	require.NoError(t, err)

	updated, err := s.Update(ctx, "testimonials", doc.ID(), remote.Document{"is_approved": true, "id": "other"})
	require.NoError(t, err)
	assert.Equal(t, doc.ID(), updated.ID())
	assert.Equal(t, true, updated["is_approved"])
	assert.Equal(t, "n", updated["name"])
	assert.Equal(t, doc["created_at"], updated["created_at"])
}

func TestMissingRecordsReportNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	_, err := s.Get(ctx, "products", "nope")
	assert.True(t, errors.Is(err, remote.ErrNotFound))
	_, err = s.Update(ctx, "products", "nope", remote.Document{"title": "x"})
	assert.True(t, errors.Is(err, remote.ErrNotFound))
	assert.True(t, errors.Is(s.Delete(ctx, "products", "nope"), remote.ErrNotFound))
}

func TestDeleteRemovesRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	a, _ := s.Insert(ctx, "products", remote.Document{"title": "a"})
	_, _ = s.Insert(ctx, "products", remote.Document{"title": "b"})

	require.NoError(t, s.Delete(ctx, "products", a.ID()))
	assert.Equal(t, 1, s.Len("products"))
	_, err := s.Get(ctx, "products", a.ID())
	assert.ErrorIs(t, err, remote.ErrNotFound)
}

func TestCanceledContextIsTransportError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().List(ctx, "products", remote.Query{})
	assert.ErrorIs(t, err, remote.ErrTransport)
}
