package restapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote"
)

// fakeBackend answers the handful of PostgREST requests the client sends.
type fakeBackend struct {
	mu       sync.Mutex
	rows     []map[string]any
	nextID   int
	requests []*http.Request
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r)

	if r.Header.Get("apikey") != "secret" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid api key"}`))
		return
	}

	q := r.URL.Query()
	idFilter := strings.TrimPrefix(q.Get("id"), "eq.")
	matching := func() []map[string]any {
		out := []map[string]any{}
		for _, row := range f.rows {
			if idFilter != "" && row["id"] != idFilter {
				continue
			}
			if cat := q.Get("category"); cat != "" && row["category"] != strings.TrimPrefix(cat, "eq.") {
				continue
			}
			out = append(out, row)
		}
		return out
	}

	switch r.Method {
	case http.MethodGet:
		rows := matching()
		// newest first, which is the only order the tests ask for
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
		_ = json.NewEncoder(w).Encode(rows)
	case http.MethodPost:
		var body []map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body[0]["title"] == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"23502","message":"title is required"}`))
			return
		}
		f.nextID++
		row := body[0]
		row["id"] = float64(f.nextID)
		row["created_at"] = time.Date(2024, 1, f.nextID, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
		for k, v := range row {
			if k == "id" {
				row[k] = formatValue(v)
			}
		}
		f.rows = append(f.rows, row)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode([]map[string]any{{"id": float64(f.nextID), "title": row["title"], "category": row["category"], "created_at": row["created_at"]}})
	case http.MethodPatch:
		var patch map[string]any
		_ = json.NewDecoder(r.Body).Decode(&patch)
		rows := matching()
		for _, row := range rows {
			for k, v := range patch {
				row[k] = v
			}
		}
		_ = json.NewEncoder(w).Encode(rows)
	case http.MethodDelete:
		rows := matching()
		kept := f.rows[:0]
		for _, row := range f.rows {
			if row["id"] != idFilter {
				kept = append(kept, row)
			}
		}
		f.rows = kept
		_ = json.NewEncoder(w).Encode(rows)
	}
}

func (f *fakeBackend) lastRequest() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T) (*Client, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", "secret", WithHTTPClient(srv.Client())), backend
}

func TestInsertListAndGet(t *testing.T) {
	ctx := context.Background()
	c, backend := newTestClient(t)

	created, err := c.Insert(ctx, "products", remote.Document{"title": "Mountain dusk", "category": "modern", "id": "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "1", created.ID())
	assert.IsType(t, time.Time{}, created["created_at"])

	_, err = c.Insert(ctx, "products", remote.Document{"title": "Minimal face", "category": "minimal"})
	require.NoError(t, err)

	docs, err := c.List(ctx, "products", remote.Query{}.Eq("category", "minimal").WithLimit(5))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Minimal face", docs[0]["title"])

	last := backend.lastRequest()
	assert.Equal(t, "/rest/v1/products", last.URL.Path)
	assert.Equal(t, "created_at.desc", last.URL.Query().Get("order"))
	assert.Equal(t, "5", last.URL.Query().Get("limit"))
	assert.Equal(t, "Bearer secret", last.Header.Get("Authorization"))

	got, err := c.Get(ctx, "products", "1")
	require.NoError(t, err)
	assert.Equal(t, "Mountain dusk", got["title"])
}

func TestMissingRecordIsNotFound(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	_, err := c.Get(ctx, "products", "99")
	assert.True(t, errors.Is(err, remote.ErrNotFound))
	_, err = c.Update(ctx, "products", "99", remote.Document{"title": "x"})
	assert.True(t, errors.Is(err, remote.ErrNotFound))
	assert.True(t, errors.Is(c.Delete(ctx, "products", "99"), remote.ErrNotFound))
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	c, backend := newTestClient(t)
	created, err := c.Insert(ctx, "products", remote.Document{"title": "Autumn leaves"})
	require.NoError(t, err)

	updated, err := c.Update(ctx, "products", created.ID(), remote.Document{"price": "1,000,000"})
	require.NoError(t, err)
	assert.Equal(t, "1,000,000", updated["price"])
	assert.Equal(t, "return=representation", backend.lastRequest().Header.Get("Prefer"))

	require.NoError(t, c.Delete(ctx, "products", created.ID()))
	_, err = c.Get(ctx, "products", created.ID())
	assert.ErrorIs(t, err, remote.ErrNotFound)
}

func TestStatusErrorsMapToTaxonomy(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	_, err := c.Insert(ctx, "products", remote.Document{"title": ""})
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "title is required", verr.Message)

	c.apiKey = "wrong"
	_, err = c.List(ctx, "products", remote.Query{})
	assert.ErrorIs(t, err, remote.ErrTransport)
}

func TestMalformedIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"22P02","message":"invalid input syntax for type uuid: \"abc\""}`))
	}))
	t.Cleanup(srv.Close)
	c := New(srv.URL, "")

	_, err := c.Get(ctx, "products", "abc")
	assert.ErrorIs(t, err, remote.ErrNotFound)
	_, err = c.Update(ctx, "products", "abc", remote.Document{"title": "x"})
	assert.ErrorIs(t, err, remote.ErrNotFound)
	assert.ErrorIs(t, c.Delete(ctx, "products", "abc"), remote.ErrNotFound)
}

func TestOtherBadRequestOnRecordStaysValidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"23502","message":"title is required"}`))
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, "").Update(context.Background(), "products", "1", remote.Document{"title": nil})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title is required", verr.Message)
}

func TestUnreachableBackendIsTransportError(t *testing.T) {
	c := New("http://127.0.0.1:1", "secret", WithHTTPClient(&http.Client{Timeout: time.Second}))
	_, err := c.List(context.Background(), "products", remote.Query{})
	assert.ErrorIs(t, err, remote.ErrTransport)
}

func TestNormalizeHandlesZonelessTimestamps(t *testing.T) {
	d := remote.Document{"id": float64(7), "product_id": float64(42), "created_at": "2024-02-03T04:05:06.123"}
	normalize(d)
	assert.Equal(t, "7", d["id"])
	assert.Equal(t, "42", d["product_id"])
	assert.Equal(t, 2024, d["created_at"].(time.Time).Year())
}
