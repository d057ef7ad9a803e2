package models

import "time"

// Comment is a signed-in visitor's note on a product.
type Comment struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentInput is the insert payload; the server assigns id and created_at.
type CommentInput struct {
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
	Comment   string `json:"comment"`
}
