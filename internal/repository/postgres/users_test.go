package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BOOKWORM_BACK-END/internal/models"
	"BOOKWORM_BACK-END/internal/repository"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func sampleUser() *models.User {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.User{
		ID:           uuid.New(),
		Email:        "a@x.com",
		Username:     "alice",
		PasswordHash: "hash",
		ProfileImage: "https://api.dicebear.com/9.x/personas/svg?seed=alice",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	u := sampleUser()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (id, email, username, password_hash, profile_image, created_at, updated_at)")).
		WithArgs(u.ID, u.Email, u.Username, u.PasswordHash, u.ProfileImage, u.CreatedAt, u.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), u))
}

func TestUserRepository_Create_UniqueViolations(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{usersEmailKey, repository.ErrDuplicateEmail},
		{usersUsernameKey, repository.ErrDuplicateUsername},
	}

	for _, tc := range tests {
		t.Run(tc.constraint, func(t *testing.T) {
			mock := newMockPool(t)
			repo := NewUserRepository(mock)

			mock.ExpectExec("INSERT INTO users").
				WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: tc.constraint})

			err := repo.Create(context.Background(), sampleUser())
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUserRepository_Create_DBError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), sampleUser())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert user: db down")
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	u := sampleUser()

	rows := pgxmock.NewRows([]string{"id", "email", "username", "password_hash", "profile_image", "created_at", "updated_at"}).
		AddRow(u.ID, u.Email, u.Username, u.PasswordHash, u.ProfileImage, u.CreatedAt, u.UpdatedAt)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs(u.Email).
		WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestUserRepository_GetByUsername_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_GetByID_DBError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(id).
		WillReturnError(errors.New("timeout"))

	_, err := repo.GetByID(context.Background(), id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
}
