// Package services holds the business rules behind the HTTP handlers:
// account registration and login, Google sign-in, and the book journal.
package services

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"

	"BOOKWORM_BACK-END/internal/apperror"
	"BOOKWORM_BACK-END/internal/auth"
	"BOOKWORM_BACK-END/internal/logging"
	"BOOKWORM_BACK-END/internal/models"
	"BOOKWORM_BACK-END/internal/repository"
)

const avatarBaseURL = "https://api.dicebear.com/9.x/personas/svg"

// Client facing messages.
const (
	MsgEmailExists        = "Email already exists"
	MsgUsernameExists     = "Username already exists"
	MsgUserDoesNotExist   = "User does not exists"
	MsgInvalidCredentials = "Invalid credentials"
	MsgPasswordTooLong    = "Password should be at most 72 bytes long"
	MsgInternal           = "Internal server error"
)

type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// AuthResult is what a successful register or login hands back.
type AuthResult struct {
	Token string
	User  *models.User
}

type AuthService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	logger logging.Logger
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, logger logging.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// AvatarURL returns the generated profile picture for username.
func AvatarURL(username string) string {
	return avatarBaseURL + "?seed=" + url.QueryEscape(username)
}

// Register creates an account. Input is expected to be validated for presence and length.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*AuthResult, error) {
	if len(password) > auth.MaxPasswordBytes {
		return nil, apperror.Validation(MsgPasswordTooLong)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Validation(MsgEmailExists)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal(MsgInternal, err)
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperror.Validation(MsgUsernameExists)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal(MsgInternal, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperror.Internal(MsgInternal, err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		ProfileImage: AvatarURL(username),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.createUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Validation(MsgUserDoesNotExist)
		}
		return nil, apperror.Internal(MsgInternal, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperror.Validation(MsgInvalidCredentials)
	}

	return s.issue(user)
}

// createUser inserts user, mapping a lost uniqueness race to the same messages as the pre-checks.
func (s *AuthService) createUser(ctx context.Context, user *models.User) error {
	err := s.users.Create(ctx, user)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicateEmail):
		return apperror.Validation(MsgEmailExists)
	case errors.Is(err, repository.ErrDuplicateUsername):
		return apperror.Validation(MsgUsernameExists)
	default:
		return apperror.Internal(MsgInternal, err)
	}
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperror.Internal(MsgInternal, err)
	}
	return &AuthResult{Token: token, User: user}, nil
}
