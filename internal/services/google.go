package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleOAuth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"BOOKWORM_BACK-END/internal/apperror"
	"BOOKWORM_BACK-END/internal/config"
	"BOOKWORM_BACK-END/internal/models"
	"BOOKWORM_BACK-END/internal/repository"
)

// ErrCodeExchange is returned when Google rejects the authorization code.
var ErrCodeExchange = errors.New("authorization code exchange failed")

const (
	MsgGoogleNoEmail    = "Google account has no email"
	MsgGoogleUnverified = "Google email is not verified"
)

const (
	minUsernameLength  = 3
	maxUsernameLength  = 50
	usernameAttempts   = 5
	usernameSuffixSize = 6
)

// GoogleProfile is the subset of the Google userinfo we keep.
type GoogleProfile struct {
	ID       string
	Email    string
	Name     string
	Picture  string
	Verified bool
}

// GoogleClient wraps the Google OAuth2 endpoints used by sign-in.
type GoogleClient struct {
	oauth2Config *oauth2.Config
	endpoint     string
}

func NewGoogleClient(cfg config.GoogleOAuthConfig) *GoogleClient {
	return &GoogleClient{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// AuthCodeURL returns the consent page URL carrying state.
func (c *GoogleClient) AuthCodeURL(state string) string {
	return c.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Profile exchanges code for a token and reads the user's Google profile.
func (c *GoogleClient) Profile(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := c.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodeExchange, err)
	}

	opts := []option.ClientOption{option.WithTokenSource(c.oauth2Config.TokenSource(ctx, token))}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	service, err := googleOAuth2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google oauth2 service: %w", err)
	}

	info, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}

	verified := false
	if info.VerifiedEmail != nil {
		verified = *info.VerifiedEmail
	}

	return &GoogleProfile{
		ID:       info.Id,
		Email:    info.Email,
		Name:     info.Name,
		Picture:  info.Picture,
		Verified: verified,
	}, nil
}

// GoogleSignIn finds the account for the Google e-mail or creates one, then issues a token.
func (s *AuthService) GoogleSignIn(ctx context.Context, profile *GoogleProfile) (*AuthResult, error) {
	if profile == nil || profile.Email == "" {
		return nil, apperror.Validation(MsgGoogleNoEmail)
	}
	// only a verified address may claim the account registered with it
	if !profile.Verified {
		return nil, apperror.Unauthorized(MsgGoogleUnverified)
	}

	user, err := s.users.GetByEmail(ctx, profile.Email)
	if err == nil {
		return s.issue(user)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal(MsgInternal, err)
	}

	// Google accounts never log in with a password; the hash only has to be unguessable.
	hash, err := s.hasher.Hash(uuid.NewString() + uuid.NewString())
	if err != nil {
		return nil, apperror.Internal(MsgInternal, err)
	}

	base := usernameFromEmail(profile.Email)
	now := s.now().UTC()
	for attempt := 0; attempt < usernameAttempts; attempt++ {
		username := base
		if attempt > 0 {
			username = withSuffix(base, strings.ReplaceAll(uuid.NewString(), "-", "")[:usernameSuffixSize])
		}

		if _, err := s.users.GetByUsername(ctx, username); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Internal(MsgInternal, err)
		}

		user := &models.User{
			ID:           uuid.New(),
			Email:        profile.Email,
			Username:     username,
			PasswordHash: hash,
			ProfileImage: AvatarURL(username),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		err := s.users.Create(ctx, user)
		if errors.Is(err, repository.ErrDuplicateUsername) {
			continue
		}
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// signed in concurrently from another tab
			existing, getErr := s.users.GetByEmail(ctx, profile.Email)
			if getErr != nil {
				return nil, apperror.Internal(MsgInternal, getErr)
			}
			return s.issue(existing)
		}
		if err != nil {
			return nil, apperror.Internal(MsgInternal, err)
		}

		s.logger.Info(ctx, "user registered via google", "user_id", user.ID)
		return s.issue(user)
	}

	return nil, apperror.Internal(MsgInternal, fmt.Errorf("no free username for %q after %d attempts", base, usernameAttempts))
}

// usernameFromEmail keeps the letters, digits, dots, dashes and underscores of the local part.
func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")

	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}

	name := b.String()
	if len([]rune(name)) < minUsernameLength {
		name = "reader" + name
	}
	if runes := []rune(name); len(runes) > maxUsernameLength-usernameSuffixSize-1 {
		name = string(runes[:maxUsernameLength-usernameSuffixSize-1])
	}
	return name
}

func withSuffix(base, suffix string) string {
	return base + "_" + suffix
}
