package dto

import (
	"time"

	"BOOKWORM_BACK-END/internal/models"
	"BOOKWORM_BACK-END/internal/services"
)

// CreateBookRequest is the body of POST /books. image is a data URI, base64 or an http(s) URL.
type CreateBookRequest struct {
	Title   string `json:"title" validate:"required"`
	Caption string `json:"caption" validate:"required"`
	Image   string `json:"image" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

// BookResponse is a book with its owner given as an id
type BookResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Caption   string    `json:"caption"`
	Image     string    `json:"image"`
	Rating    int       `json:"rating"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnerResponse is the public part of a book owner
type OwnerResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	ProfileImage string `json:"profileImage"`
}

// FeedBookResponse is a book in the paginated feed with its owner expanded
type FeedBookResponse struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Caption   string        `json:"caption"`
	Image     string        `json:"image"`
	Rating    int           `json:"rating"`
	User      OwnerResponse `json:"user"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// BookListResponse is one page of the feed
type BookListResponse struct {
	Books       []FeedBookResponse `json:"books"`
	CurrentPage int                `json:"currentPage"`
	TotalBooks  int                `json:"totalBooks"`
	TotalPages  int                `json:"totalPages"`
}

func NewBookResponse(b *models.Book) BookResponse {
	return BookResponse{
		ID:        b.ID.String(),
		Title:     b.Title,
		Caption:   b.Caption,
		Image:     b.Image,
		Rating:    b.Rating,
		User:      b.UserID.String(),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func NewBookResponses(books []models.Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for i := range books {
		out = append(out, NewBookResponse(&books[i]))
	}
	return out
}

func NewBookListResponse(p *services.BookPage) BookListResponse {
	books := make([]FeedBookResponse, 0, len(p.Books))
	for _, b := range p.Books {
		books = append(books, FeedBookResponse{
			ID:      b.ID.String(),
			Title:   b.Title,
			Caption: b.Caption,
			Image:   b.Image,
			Rating:  b.Rating,
			User: OwnerResponse{
				ID:           b.UserID.String(),
				Username:     b.OwnerUsername,
				ProfileImage: b.OwnerProfileImage,
			},
			CreatedAt: b.CreatedAt,
			UpdatedAt: b.UpdatedAt,
		})
	}
	return BookListResponse{
		Books:       books,
		CurrentPage: p.CurrentPage,
		TotalBooks:  p.TotalBooks,
		TotalPages:  p.TotalPages,
	}
}
