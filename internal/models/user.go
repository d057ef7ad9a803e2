package models

import "time"

// RoleAdmin grants access to the admin panel.
const RoleAdmin = "admin"

// User is an account profile. PasswordHash never leaves the auth package.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserRole struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Session is an authenticated identity handle. View models only read it.
type Session struct {
	Token     string
	UserID    string
	Email     string
	FullName  string
	IsAdmin   bool
	ExpiresAt time.Time
}
