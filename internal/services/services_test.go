package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"BOOKWORM_BACK-END/internal/auth"
	"BOOKWORM_BACK-END/internal/logging"
	"BOOKWORM_BACK-END/internal/media"
	"BOOKWORM_BACK-END/internal/repository/memory"
)

const testSecret = "test-secret"

type fakeMedia struct {
	mu        sync.Mutex
	uploadErr error
	deleteErr error
	uploads   []string
	deleted   []string
}

func (f *fakeMedia) Upload(_ context.Context, image string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if image == "bad" {
		return "", media.ErrInvalidPayload
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	url := "https://cdn.test/books/" + uuid.NewString() + ".png"
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeMedia) Delete(_ context.Context, url string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeMedia) Owns(url string) bool {
	return strings.HasPrefix(url, "https://cdn.test/")
}

type fixture struct {
	store  *memory.Store
	media  *fakeMedia
	tokens *auth.TokenService
	auth   *AuthService
	books  *BookService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	fm := &fakeMedia{}
	tokens := auth.NewTokenService(testSecret, 15*24*time.Hour)
	return &fixture{
		store:  store,
		media:  fm,
		tokens: tokens,
		auth:   NewAuthService(store.Users(), auth.NewPasswordHasher(bcrypt.MinCost), tokens, logging.Nop()),
		books:  NewBookService(store.Books(), fm, logging.Nop()),
	}
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", errors.New("hash failed") }

func (failingHasher) Verify(string, string) bool { return false }
