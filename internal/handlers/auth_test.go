package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BOOKWORM_BACK-END/internal/dto"
)

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	res := s.register(t, "a@x.com", "alice")
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice", res.User.Username)
	assert.Equal(t, "a@x.com", res.User.Email)
	assert.Equal(t, "https://api.dicebear.com/9.x/personas/svg?seed=alice", res.User.ProfileImage)
	assert.NotEmpty(t, res.User.ID)
}

func TestRegister_Validation(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "taken@x.com", "taken")

	tests := []struct {
		name string
		body any
		want string
	}{
		{"missing email", dto.RegisterRequest{Username: "bob", Password: "secret1"}, "All field are required"},
		{"missing everything", map[string]string{}, "All field are required"},
		{"malformed json", "{", "All field are required"},
		{"short password", dto.RegisterRequest{Email: "b@x.com", Username: "bob", Password: "12345"}, "Password should be at least 6 characters long"},
		{"password over 72 bytes", dto.RegisterRequest{Email: "b@x.com", Username: "bob", Password: strings.Repeat("é", 37)}, "Password should be at most 72 bytes long"},
		{"short username", dto.RegisterRequest{Email: "b@x.com", Username: "bo", Password: "secret1"}, "Username should be at least 3 characters long"},
		{"email taken", dto.RegisterRequest{Email: "taken@x.com", Username: "taken", Password: "secret1"}, "Email already exists"},
		{"username taken", dto.RegisterRequest{Email: "new@x.com", Username: "taken", Password: "secret1"}, "Username already exists"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/auth/register", "", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode[dto.ErrorResponse](t, rec)
			assert.Equal(t, tc.want, body.Message)
			assert.Equal(t, "Bad Request", body.Error)
		})
	}
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	registered := s.register(t, "a@x.com", "alice")

	rec := s.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.AuthResponse](t, rec)
	assert.Equal(t, registered.User, res.User)

	id, err := s.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, id.String())
}

func TestLogin_Failures(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "a@x.com", "alice")

	tests := []struct {
		name string
		body any
		want string
	}{
		{"missing password", dto.LoginRequest{Email: "a@x.com"}, "All fields are required"},
		{"unknown user", dto.LoginRequest{Email: "z@x.com", Password: "secret1"}, "User does not exists"},
		{"wrong password", dto.LoginRequest{Email: "a@x.com", Password: "nope-nope"}, "Invalid credentials"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/auth/login", "", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.want, decode[dto.ErrorResponse](t, rec).Message)
		})
	}
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	res := s.register(t, "a@x.com", "alice")

	rec := s.do(t, http.MethodGet, "/auth/me", res.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, res.User, decode[dto.UserResponse](t, rec))

	rec = s.do(t, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
