// Package memory keeps users and books in process memory.
// It backs DB_DRIVER=memory and the service/handler tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"BOOKWORM_BACK-END/internal/models"
	"BOOKWORM_BACK-END/internal/repository"
)

// Store holds both collections behind one lock so the book listing can join owners.
type Store struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User
	books map[uuid.UUID]models.Book
}

func NewStore() *Store {
	return &Store{
		users: make(map[uuid.UUID]models.User),
		books: make(map[uuid.UUID]models.Book),
	}
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

func (s *Store) Books() *BookRepository { return &BookRepository{s: s} }

func (s *Store) Ping(context.Context) error { return nil }

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r *UserRepository) find(match func(models.User) bool) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type BookRepository struct {
	s *Store
}

func (r *BookRepository) Create(_ context.Context, b *models.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.books[b.ID] = *b
	return nil
}

func (r *BookRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.books[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r *BookRepository) List(_ context.Context, offset, limit int) ([]models.BookWithOwner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if limit <= 0 {
		return []models.BookWithOwner{}, nil
	}
	if offset < 0 {
		offset = 0
	}

	sorted := r.sortedLocked(func(models.Book) bool { return true })
	page := make([]models.BookWithOwner, 0, limit)
	for i := offset; i < len(sorted) && len(page) < limit; i++ {
		b := sorted[i]
		// books whose owner vanished are skipped, matching the inner join
		owner, ok := r.s.users[b.UserID]
		if !ok {
			continue
		}
		page = append(page, models.BookWithOwner{
			Book:              b,
			OwnerUsername:     owner.Username,
			OwnerProfileImage: owner.ProfileImage,
		})
	}
	return page, nil
}

func (r *BookRepository) Count(context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return len(r.s.books), nil
}

func (r *BookRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.sortedLocked(func(b models.Book) bool { return b.UserID == userID }), nil
}

func (r *BookRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.books, id)
	return nil
}

// sortedLocked returns matching books newest first, ties broken by id descending.
func (r *BookRepository) sortedLocked(keep func(models.Book) bool) []models.Book {
	out := make([]models.Book, 0, len(r.s.books))
	for _, b := range r.s.books {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out
}
