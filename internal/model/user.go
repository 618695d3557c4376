package model

import "time"

// User represents a registered portal user.
type User struct {
	ID           int       `json:"user_id"`
	Email        string    `json:"email"`
	Username     *string   `json:"username,omitempty"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest is the payload for creating a new account.
// Password complexity beyond length (at least one letter and one digit)
// is checked in the service.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"omitempty,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
}

// LoginRequest accepts either an email or a username in Login.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}
