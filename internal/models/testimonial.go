package models

import (
	"strings"
	"time"
)

// Testimonial is a customer quote shown on the home page once approved.
type Testimonial struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Text       string    `json:"text"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// Approved reports whether the testimonial may be shown publicly.
func (t Testimonial) Approved() bool {
	return t.IsApproved
}

// TestimonialInput is the admin form for a new testimonial.
type TestimonialInput struct {
	Name       string `json:"name" form:"name" binding:"required"`
	Text       string `json:"text" form:"text" binding:"required"`
	IsApproved bool   `json:"is_approved" form:"-"`
}

// Validate checks that name and text are present.
func (in *TestimonialInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Text = strings.TrimSpace(in.Text)
	if in.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if in.Text == "" {
		return &ValidationError{Field: "text", Message: "text is required"}
	}
	return nil
}
