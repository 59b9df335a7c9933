package models

import (
	"time"

	"github.com/google/uuid"
)

// Book is a journal entry about a book, owned by the user who created it
type Book struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Caption   string    `json:"caption" db:"caption"`
	Rating    int       `json:"rating" db:"rating"`
	Image     string    `json:"image" db:"image"`
	UserID    uuid.UUID `json:"user" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// BookWithOwner is a Book joined with the public fields of its owner
type BookWithOwner struct {
	Book
	OwnerUsername     string `db:"username"`
	OwnerProfileImage string `db:"profile_image"`
}

// OwnedBy reports whether userID created the book
func (b *Book) OwnedBy(userID uuid.UUID) bool {
	return b.UserID == userID
}
