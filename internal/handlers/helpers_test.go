package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"BOOKWORM_BACK-END/internal/auth"
	"BOOKWORM_BACK-END/internal/dto"
	"BOOKWORM_BACK-END/internal/logging"
	"BOOKWORM_BACK-END/internal/media"
	"BOOKWORM_BACK-END/internal/middleware"
	"BOOKWORM_BACK-END/internal/repository/memory"
	"BOOKWORM_BACK-END/internal/services"
)

const cdnBase = "https://cdn.test/covers"

type memMedia struct {
	mu      sync.Mutex
	objects map[string]bool
}

func (m *memMedia) Upload(_ context.Context, image string) (string, error) {
	if !strings.HasPrefix(image, "data:image/") {
		return "", media.ErrInvalidPayload
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	url := cdnBase + "/books/" + uuid.NewString() + ".png"
	m.objects[url] = true
	return url, nil
}

func (m *memMedia) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, url)
	return nil
}

func (m *memMedia) Owns(url string) bool { return strings.HasPrefix(url, cdnBase+"/") }

func (m *memMedia) has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[url]
}

type testServer struct {
	router http.Handler
	store  *memory.Store
	media  *memMedia
	tokens *auth.TokenService
	auth   *services.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := logging.Nop()
	store := memory.NewStore()
	mm := &memMedia{objects: map[string]bool{}}
	tokens := auth.NewTokenService("handler-secret", 15*24*time.Hour)

	authSvc := services.NewAuthService(store.Users(), auth.NewPasswordHasher(bcrypt.MinCost), tokens, logger)
	authH := NewAuthHandler(authSvc, logger)
	booksH := NewBookHandler(services.NewBookService(store.Books(), mm, logger), logger)
	requireAuth := middleware.AuthMiddleware(tokens, store.Users(), logger)

	r := chi.NewRouter()
	r.Post("/auth/register", authH.Register)
	r.Post("/auth/login", authH.Login)
	r.With(requireAuth).Get("/auth/me", authH.Me)
	r.Route("/books", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", booksH.Create)
		r.Get("/", booksH.List)
		r.Get("/user", booksH.ListMine)
		r.Delete("/{id}", booksH.Delete)
	})

	return &testServer{router: r, store: store, media: mm, tokens: tokens, auth: authSvc}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, email, username string) dto.AuthResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/register", "", dto.RegisterRequest{Email: email, Username: username, Password: "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[dto.AuthResponse](t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

const pngDataURI = "data:image/png;base64,iVBORw0KGgo="
