package repository

import (
	"context"
	"fmt"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote"
)

// CommentRepository stores visitor comments. Every comment belongs to an
// existing product.
type CommentRepository struct {
	collection *remote.Collection[models.Comment]
	products   *remote.Collection[models.Product]
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(store remote.Store) *CommentRepository {
	return &CommentRepository{
		collection: remote.NewCollection[models.Comment](store, models.CollectionComments),
		products:   remote.NewCollection[models.Product](store, models.CollectionProducts),
	}
}

// FindByProduct lists the comments of a product, newest first.
func (r *CommentRepository) FindByProduct(ctx context.Context, productID string) ([]models.Comment, error) {
	q := remote.Query{}.Eq("product_id", productID).OrderBy(remote.FieldCreatedAt, true)
	return r.collection.List(ctx, q)
}

// Create inserts one comment after checking that the product exists. It
// matches viewmodel.InsertFunc.
func (r *CommentRepository) Create(ctx context.Context, productID, userID, text string) error {
	if _, err := r.products.Get(ctx, productID); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	_, err := r.collection.Insert(ctx, models.CommentInput{
		ProductID: productID,
		UserID:    userID,
		Comment:   text,
	})
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}
