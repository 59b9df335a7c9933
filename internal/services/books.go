package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"BOOKWORM_BACK-END/internal/apperror"
	"BOOKWORM_BACK-END/internal/logging"
	"BOOKWORM_BACK-END/internal/media"
	"BOOKWORM_BACK-END/internal/models"
	"BOOKWORM_BACK-END/internal/repository"
)

const (
	DefaultPage  = 1
	DefaultLimit = 2
	MaxLimit     = 50
)

const (
	MsgInvalidImage   = "Invalid image payload"
	MsgFetchBooks     = "Can't fetch books"
	MsgServerError    = "Server error"
	MsgBookNotFound   = "Book not found!"
	MsgUnauthorized   = "Unauthorized"
	MsgBookDeleted    = "Book deleted Successfully"
	MsgUploadFallback = "Failed to upload image"
)

type CreateBookInput struct {
	Title   string
	Caption string
	Image   string
	Rating  int
}

// BookPage is one page of the global feed.
type BookPage struct {
	Books       []models.BookWithOwner
	CurrentPage int
	TotalBooks  int
	TotalPages  int
}

type BookService struct {
	books  repository.BookRepository
	media  media.Store
	logger logging.Logger
	now    func() time.Time
}

func NewBookService(books repository.BookRepository, store media.Store, logger logging.Logger) *BookService {
	return &BookService{
		books:  books,
		media:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Create uploads the cover and stores the book for owner.
// Upload and storage failures surface their own message.
func (s *BookService) Create(ctx context.Context, owner uuid.UUID, in CreateBookInput) (*models.Book, error) {
	imageURL, err := s.media.Upload(ctx, in.Image)
	if err != nil {
		if errors.Is(err, media.ErrInvalidPayload) {
			return nil, &apperror.Error{Kind: apperror.KindValidation, Message: MsgInvalidImage, Err: err}
		}
		return nil, apperror.Internal(errorMessage(err, MsgUploadFallback), err)
	}

	now := s.now().UTC()
	book := &models.Book{
		ID:        uuid.New(),
		Title:     in.Title,
		Caption:   in.Caption,
		Rating:    in.Rating,
		Image:     imageURL,
		UserID:    owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.books.Create(ctx, book); err != nil {
		s.removeImage(ctx, imageURL)
		return nil, apperror.Internal(errorMessage(err, MsgInternal), err)
	}

	s.logger.Info(ctx, "book created", "book_id", book.ID, "user_id", owner)
	return book, nil
}

// List returns the requested page of all books, newest first.
// Non-positive page or limit fall back to the defaults; limit is capped at MaxLimit.
// A page past the end is empty.
func (s *BookService) List(ctx context.Context, page, limit int) (*BookPage, error) {
	page, limit = NormalizePage(page, limit)

	books, err := s.books.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, apperror.Internal(MsgFetchBooks, err)
	}
	total, err := s.books.Count(ctx)
	if err != nil {
		return nil, apperror.Internal(MsgFetchBooks, err)
	}

	return &BookPage{
		Books:       books,
		CurrentPage: page,
		TotalBooks:  total,
		TotalPages:  (total + limit - 1) / limit,
	}, nil
}

func (s *BookService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Book, error) {
	books, err := s.books.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(MsgServerError, err)
	}
	return books, nil
}

// Delete removes a book owned by caller. The cover object is removed best-effort.
func (s *BookService) Delete(ctx context.Context, caller uuid.UUID, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return apperror.NotFound(MsgBookNotFound)
	}

	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound(MsgBookNotFound)
		}
		return apperror.Internal(MsgInternal, err)
	}

	if !book.OwnedBy(caller) {
		return apperror.Unauthorized(MsgUnauthorized)
	}

	s.removeImage(ctx, book.Image)

	if err := s.books.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound(MsgBookNotFound)
		}
		return apperror.Internal(MsgInternal, err)
	}

	s.logger.Info(ctx, "book deleted", "book_id", id, "user_id", caller)
	return nil
}

func (s *BookService) removeImage(ctx context.Context, imageURL string) {
	if !s.media.Owns(imageURL) {
		return
	}
	if err := s.media.Delete(ctx, imageURL); err != nil {
		s.logger.Warn(ctx, "failed to delete book image", "image", imageURL, "error", err)
	}
}

// NormalizePage applies the page and limit defaults.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	// keep (page-1)*limit representable
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return page, limit
}

func errorMessage(err error, fallback string) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
