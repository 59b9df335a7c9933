package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"BOOKWORM_BACK-END/internal/logging"
	"BOOKWORM_BACK-END/internal/models"
	"BOOKWORM_BACK-END/internal/repository"
	"BOOKWORM_BACK-END/internal/utils"
)

const (
	MsgNoToken      = "No authentication token, access denied"
	MsgInvalidToken = "Token is not valid"
)

type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userCtxKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext returns the user attached by AuthMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(*models.User)
	return u, ok && u != nil
}

// AuthMiddleware validates the bearer token in the Authorization header and
// loads the caller into the request context
func AuthMiddleware(tokens TokenVerifier, users UserLoader, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
			tokenString, hasBearer := strings.CutPrefix(authHeader, "Bearer ")
			tokenString = strings.TrimSpace(tokenString)

			if authHeader == "" || authHeader == "Bearer" || (hasBearer && tokenString == "") {
				utils.WriteErrorResponse(w, http.StatusUnauthorized, MsgNoToken)
				return
			}
			if !hasBearer {
				utils.WriteErrorResponse(w, http.StatusUnauthorized, MsgInvalidToken)
				return
			}

			userID, err := tokens.Verify(tokenString)
			if err != nil {
				utils.WriteErrorResponse(w, http.StatusUnauthorized, MsgInvalidToken)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					utils.WriteErrorResponse(w, http.StatusUnauthorized, MsgInvalidToken)
					return
				}
				logger.Error(r.Context(), "load token user", "user_id", userID, "error", err)
				utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
