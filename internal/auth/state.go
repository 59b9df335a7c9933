package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidState = errors.New("invalid oauth state")

const stateSubject = "oauth-state"

// StateService signs the state parameter of an OAuth round trip so the
// callback only accepts values this server handed out recently.
type StateService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewStateService(secret string, ttl time.Duration) *StateService {
	return &StateService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *StateService) Issue() (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   stateSubject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign state: %w", err)
	}
	return signed, nil
}

// Verify accepts only unexpired states issued by Issue. Session tokens are rejected.
func (s *StateService) Verify(state string) error {
	if state == "" {
		return fmt.Errorf("%w: empty", ErrInvalidState)
	}
	_, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithSubject(stateSubject),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return nil
}
