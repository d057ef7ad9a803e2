package models

import (
	"strings"
	"time"
)

// Category tags offered by the catalog filter. The set is open: products may
// carry any tag and still show up under "all".
const (
	CategoryMinimal = "minimal"
	CategoryNatural = "natural"
	CategoryModern  = "modern"
)

// Categories lists the known tags in display order.
var Categories = []CategoryOption{
	{Tag: CategoryMinimal, Label: "Minimal"},
	{Tag: CategoryNatural, Label: "Natural"},
	{Tag: CategoryModern, Label: "Modern"},
}

type CategoryOption struct {
	Tag   string
	Label string
}

// Product represents a wall piece in the catalog.
type Product struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Price         string    `json:"price"`
	ImageURL      string    `json:"image_url,omitempty"`
	ImagePublicID string    `json:"image_public_id,omitempty"`
	Category      string    `json:"category"`
	CreatedAt     time.Time `json:"created_at"`
}

// CategoryTag returns the tag used by the catalog filter.
func (p Product) CategoryTag() string {
	return p.Category
}

// ProductInput is the payload for creating a product.
type ProductInput struct {
	Title         string `json:"title" form:"title" binding:"required"`
	Description   string `json:"description,omitempty" form:"description"`
	Price         string `json:"price" form:"price" binding:"required"`
	ImageURL      string `json:"image_url,omitempty" form:"image_url"`
	ImagePublicID string `json:"image_public_id,omitempty" form:"-"`
	Category      string `json:"category" form:"category"`
}

// Normalize trims the free-text fields and fills the default category.
func (in *ProductInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Price = strings.TrimSpace(in.Price)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	if in.Category == "" {
		in.Category = CategoryMinimal
	}
}

// Validate checks the required fields of a new product.
func (in *ProductInput) Validate() error {
	if in.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if in.Price == "" {
		return &ValidationError{Field: "price", Message: "price is required"}
	}
	return nil
}

// ProductUpdate holds the fields of a product that can be patched.
type ProductUpdate struct {
	Title         *string `json:"title,omitempty" form:"title"`
	Description   *string `json:"description,omitempty" form:"description"`
	Price         *string `json:"price,omitempty" form:"price"`
	ImageURL      *string `json:"image_url,omitempty" form:"image_url"`
	ImagePublicID *string `json:"image_public_id,omitempty" form:"-"`
	Category      *string `json:"category,omitempty" form:"category"`
}

// Fields converts the update into a field map holding only the provided values.
func (u ProductUpdate) Fields() (map[string]any, error) {
	fields := map[string]any{}
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return nil, &ValidationError{Field: "title", Message: "title cannot be empty"}
		}
		fields["title"] = title
	}
	if u.Description != nil {
		fields["description"] = strings.TrimSpace(*u.Description)
	}
	if u.Price != nil {
		price := strings.TrimSpace(*u.Price)
		if price == "" {
			return nil, &ValidationError{Field: "price", Message: "price cannot be empty"}
		}
		fields["price"] = price
	}
	if u.ImageURL != nil {
		fields["image_url"] = strings.TrimSpace(*u.ImageURL)
	}
	if u.ImagePublicID != nil {
		fields["image_public_id"] = *u.ImagePublicID
	}
	if u.Category != nil {
		fields["category"] = strings.ToLower(strings.TrimSpace(*u.Category))
	}
	if len(fields) == 0 {
		return nil, &ValidationError{Message: "no valid fields to update"}
	}
	return fields, nil
}
