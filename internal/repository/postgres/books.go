package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"BOOKWORM_BACK-END/internal/models"
	"BOOKWORM_BACK-END/internal/repository"
)

const bookColumns = `b.id, b.title, b.caption, b.rating, b.image, b.user_id, b.created_at, b.updated_at`

type BookRepository struct {
	db DBTX
}

func NewBookRepository(db DBTX) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) Create(ctx context.Context, b *models.Book) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO books (id, title, caption, rating, image, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.Title, b.Caption, b.Rating, b.Image, b.UserID, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *BookRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	var b models.Book
	err := r.db.QueryRow(ctx, `SELECT `+bookColumns+` FROM books b WHERE b.id = $1`, id).Scan(
		&b.ID, &b.Title, &b.Caption, &b.Rating, &b.Image, &b.UserID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("query book: %w", err)
	}
	return &b, nil
}

func (r *BookRepository) List(ctx context.Context, offset, limit int) ([]models.BookWithOwner, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+bookColumns+`, u.username, u.profile_image
		   FROM books b
		   JOIN users u ON u.id = b.user_id
		  ORDER BY b.created_at DESC, b.id DESC
		  LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books := make([]models.BookWithOwner, 0, limit)
	for rows.Next() {
		var b models.BookWithOwner
		if err := rows.Scan(&b.ID, &b.Title, &b.Caption, &b.Rating, &b.Image, &b.UserID, &b.CreatedAt, &b.UpdatedAt,
			&b.OwnerUsername, &b.OwnerProfileImage); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

func (r *BookRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM books`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return total, nil
}

func (r *BookRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Book, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+bookColumns+`
		   FROM books b
		  WHERE b.user_id = $1
		  ORDER BY b.created_at DESC, b.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query user books: %w", err)
	}
	defer rows.Close()

	books := make([]models.Book, 0)
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Caption, &b.Rating, &b.Image, &b.UserID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user books: %w", err)
	}
	return books, nil
}

func (r *BookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
