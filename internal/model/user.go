package model

import (
	"fmt"
	"time"
)

// User is a marketplace member. The password hash is never serialized.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	City         string    `json:"city,omitempty"`
	Photo        string    `json:"photo,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Populated by the profile endpoint only.
	Favorites []Item `json:"favorites,omitempty"`
}

// PublicUser is the projection of a user embedded in items and transactions.
type PublicUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	City  string `json:"city,omitempty"`
	Photo string `json:"photo,omitempty"`
}

// Public returns the embeddable projection of u.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, City: u.City, Photo: u.Photo}
}

// UserStats summarizes a user's activity.
type UserStats struct {
	TotalPublished int `json:"total_published"`
	TotalFavorites int `json:"total_favorites"`
}

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// ValidatePassword checks password strength requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
