package repository

import (
	"context"
	"fmt"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote"
)

type TestimonialRepository struct {
	collection *remote.Collection[models.Testimonial]
}

func NewTestimonialRepository(store remote.Store) *TestimonialRepository {
	return &TestimonialRepository{
		collection: remote.NewCollection[models.Testimonial](store, models.CollectionTestimonials),
	}
}

// FindAll lists every testimonial, approved or not, newest first.
func (r *TestimonialRepository) FindAll(ctx context.Context) ([]models.Testimonial, error) {
	return r.collection.List(ctx, remote.Query{}.OrderBy(remote.FieldCreatedAt, true))
}

// FindApproved lists the testimonials that may be shown publicly.
func (r *TestimonialRepository) FindApproved(ctx context.Context, limit int) ([]models.Testimonial, error) {
	q := remote.Query{}.Eq("is_approved", true).OrderBy(remote.FieldCreatedAt, true)
	if limit > 0 {
		q = q.WithLimit(limit)
	}
	return r.collection.List(ctx, q)
}

// Create inserts an admin-authored testimonial. Those start approved.
func (r *TestimonialRepository) Create(ctx context.Context, input models.TestimonialInput) (models.Testimonial, error) {
	if err := input.Validate(); err != nil {
		return models.Testimonial{}, err
	}
	input.IsApproved = true
	t, err := r.collection.Insert(ctx, input)
	if err != nil {
		return models.Testimonial{}, fmt.Errorf("create testimonial: %w", err)
	}
	return t, nil
}

// SetApproved updates the approval flag of a testimonial.
func (r *TestimonialRepository) SetApproved(ctx context.Context, id string, approved bool) (models.Testimonial, error) {
	return r.collection.Update(ctx, id, remote.Document{"is_approved": approved})
}

// Delete removes a testimonial.
func (r *TestimonialRepository) Delete(ctx context.Context, id string) error {
	return r.collection.Delete(ctx, id)
}
