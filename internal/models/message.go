package models

import (
	"strings"
	"time"
)

// ContactMessage is a submission of the contact form.
type ContactMessage struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name" form:"name"`
	Phone     string    `json:"phone" form:"phone"`
	Message   string    `json:"message" form:"message"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Validate requires every field, matching the form's behaviour.
func (m *ContactMessage) Validate() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Phone = strings.TrimSpace(m.Phone)
	m.Message = strings.TrimSpace(m.Message)
	if m.Name == "" || m.Phone == "" || m.Message == "" {
		return &ValidationError{Message: "please fill in every field"}
	}
	return nil
}
