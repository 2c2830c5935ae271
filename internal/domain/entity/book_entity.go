package entity

import (
	"time"
)

// Book is a catalog record owned by exactly one user. Image holds the secure
// URL returned by object storage, or "" when the book has no cover.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Rating      int       `json:"rating,omitempty"`
	Image       string    `json:"image"`
	UserID      string    `json:"user"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
