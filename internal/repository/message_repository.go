package repository

import (
	"context"
	"fmt"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote"
)

type MessageRepository struct {
	collection *remote.Collection[models.ContactMessage]
}

func NewMessageRepository(store remote.Store) *MessageRepository {
	return &MessageRepository{
		collection: remote.NewCollection[models.ContactMessage](store, models.CollectionMessages),
	}
}

// Create validates and stores a contact form submission.
func (r *MessageRepository) Create(ctx context.Context, msg models.ContactMessage) (models.ContactMessage, error) {
	if err := msg.Validate(); err != nil {
		return models.ContactMessage{}, err
	}
	saved, err := r.collection.Insert(ctx, msg)
	if err != nil {
		return models.ContactMessage{}, fmt.Errorf("create contact message: %w", err)
	}
	return saved, nil
}
