package repository

import (
	"context"
	"fmt"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote"
)

type ProductRepository struct {
	collection *remote.Collection[models.Product]
}

func NewProductRepository(store remote.Store) *ProductRepository {
	return &ProductRepository{
		collection: remote.NewCollection[models.Product](store, models.CollectionProducts),
	}
}

// Create validates the input and inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, input models.ProductInput) (models.Product, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return models.Product{}, err
	}
	product, err := r.collection.Insert(ctx, input)
	if err != nil {
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// FindByID returns a single product.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (models.Product, error) {
	return r.collection.Get(ctx, id)
}

// FindAll lists products newest first. An empty category means every
// category; limit <= 0 means no limit.
func (r *ProductRepository) FindAll(ctx context.Context, category string, limit int) ([]models.Product, error) {
	q := remote.Query{}.OrderBy(remote.FieldCreatedAt, true)
	if category != "" {
		q = q.Eq("category", category)
	}
	if limit > 0 {
		q = q.WithLimit(limit)
	}
	return r.collection.List(ctx, q)
}

// Update patches the provided fields of a product.
func (r *ProductRepository) Update(ctx context.Context, id string, update models.ProductUpdate) (models.Product, error) {
	fields, err := update.Fields()
	if err != nil {
		return models.Product{}, err
	}
	return r.collection.Update(ctx, id, remote.Document(fields))
}

// Delete removes a product permanently.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.collection.Delete(ctx, id)
}
