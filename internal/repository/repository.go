// Package repository defines the persistence ports for users and books.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"BOOKWORM_BACK-END/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
)

type UserRepository interface {
	// Create stores u. A taken email or username yields ErrDuplicateEmail or ErrDuplicateUsername.
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type BookRepository interface {
	Create(ctx context.Context, b *models.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Book, error)
	// List returns books newest first with their owners joined in.
	List(ctx context.Context, offset, limit int) ([]models.BookWithOwner, error)
	Count(ctx context.Context) (int, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Pinger is implemented by stores that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
