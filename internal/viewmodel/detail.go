package viewmodel

import (
	"context"
	"strings"
	"sync"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
)

// GetFunc fetches one record by id.
type GetFunc[T any] func(ctx context.Context, id string) (T, error)

// RelatedFunc lists the records that depend on parentID, newest first.
type RelatedFunc[R any] func(ctx context.Context, parentID string) ([]R, error)

// InsertFunc creates one dependent record scoped to parentID and userID.
type InsertFunc func(ctx context.Context, parentID, userID, payload string) error

// DetailState is a copy of a detail view's fields.
type DetailState[T, R any] struct {
	Detail    *T
	IsLoading bool
	Err       error
	Related   State[R]
	SubmitErr error
}

// Kind classifies the detail error.
func (s DetailState[T, R]) Kind() ErrorKind {
	return KindOf(s.Err)
}

// NotFound reports the distinct not-found state.
func (s DetailState[T, R]) NotFound() bool {
	return s.Detail == nil && KindOf(s.Err) == NotFound
}

// DetailView composes one record with its dependent collection and a submit
// path that refreshes the collection after every confirmed insert.
type DetailView[T, R any] struct {
	get     GetFunc[T]
	list    RelatedFunc[R]
	insert  InsertFunc
	session *models.Session
	related *CollectionView[R]

	mu         sync.Mutex
	detail     *T
	loading    bool
	err        error
	submitErr  error
	submitting bool
	seq        uint64
	closed     bool
}

// NewDetailView builds a detail view. session may be nil for anonymous
// visitors; it is never looked up implicitly.
func NewDetailView[T, R any](get GetFunc[T], list RelatedFunc[R], insert InsertFunc, session *models.Session) *DetailView[T, R] {
	return &DetailView[T, R]{
		get:     get,
		list:    list,
		insert:  insert,
		session: session,
		related: NewCollectionView[R](nil),
	}
}

// LoadDetail fetches exactly one record. Not-found clears the detail;
// any other failure keeps the previous one.
func (v *DetailView[T, R]) LoadDetail(ctx context.Context, id string) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.seq++
	seq := v.seq
	v.loading = true
	v.err = nil
	v.mu.Unlock()

	record, err := v.get(ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || seq != v.seq {
		return
	}
	v.loading = false
	switch {
	case err == nil:
		v.detail = &record
	case KindOf(err) == NotFound:
		v.detail = nil
		v.err = err
	default:
		v.err = err
	}
}

// LoadRelated refetches the dependent collection of parentID.
func (v *DetailView[T, R]) LoadRelated(ctx context.Context, parentID string) {
	v.related.LoadWith(ctx, func(ctx context.Context) ([]R, error) {
		return v.list(ctx, parentID)
	})
}

// SubmitRelated inserts payload under parentID for the session's user and
// then reloads the dependent collection. Nothing is appended locally.
func (v *DetailView[T, R]) SubmitRelated(ctx context.Context, parentID, payload string) error {
	if v.session == nil {
		return v.setSubmitErr(ErrUnauthenticated)
	}
	text := strings.TrimSpace(payload)
	if text == "" {
		return v.setSubmitErr(&models.ValidationError{Field: "comment", Message: "comment cannot be empty"})
	}

	v.mu.Lock()
	if v.submitting {
		v.mu.Unlock()
		return ErrBusy
	}
	v.submitting = true
	v.submitErr = nil
	v.mu.Unlock()

	err := v.insert(ctx, parentID, v.session.UserID, text)

	v.mu.Lock()
	v.submitting = false
	v.mu.Unlock()

	if err != nil {
		return v.setSubmitErr(err)
	}
	v.LoadRelated(ctx, parentID)
	return nil
}

func (v *DetailView[T, R]) setSubmitErr(err error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.submitErr = err
	return err
}

// Session returns the injected session, or nil.
func (v *DetailView[T, R]) Session() *models.Session {
	return v.session
}

// State returns a snapshot of the detail and its related collection.
func (v *DetailView[T, R]) State() DetailState[T, R] {
	related := v.related.State()
	v.mu.Lock()
	defer v.mu.Unlock()
	var detail *T
	if v.detail != nil {
		d := *v.detail
		detail = &d
	}
	return DetailState[T, R]{
		Detail:    detail,
		IsLoading: v.loading,
		Err:       v.err,
		Related:   related,
		SubmitErr: v.submitErr,
	}
}

// Close discards pending responses for the detail and its collection.
func (v *DetailView[T, R]) Close() {
	v.related.Close()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.loading = false
}
