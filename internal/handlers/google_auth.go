package handlers

import (
	"context"
	"errors"
	"net/http"

	"BOOKWORM_BACK-END/internal/dto"
	"BOOKWORM_BACK-END/internal/logging"
	"BOOKWORM_BACK-END/internal/services"
	"BOOKWORM_BACK-END/internal/utils"
)

// GoogleProvider is the OAuth side of Google sign-in.
type GoogleProvider interface {
	AuthCodeURL(state string) string
	Profile(ctx context.Context, code string) (*services.GoogleProfile, error)
}

// StateIssuer hands out and checks the OAuth state parameter.
type StateIssuer interface {
	Issue() (string, error)
	Verify(state string) error
}

// GoogleAuthHandler handles Google OAuth authentication
type GoogleAuthHandler struct {
	google GoogleProvider
	states StateIssuer
	auth   *services.AuthService
	logger logging.Logger
}

// NewGoogleAuthHandler creates a new GoogleAuthHandler instance
func NewGoogleAuthHandler(google GoogleProvider, states StateIssuer, auth *services.AuthService, logger logging.Logger) *GoogleAuthHandler {
	return &GoogleAuthHandler{google: google, states: states, auth: auth, logger: logger}
}

// GoogleLogin initiates Google OAuth login
// @Summary Google OAuth login
// @Description Initiate Google OAuth login flow
// @Tags authentication
// @Produce json
// @Success 200 {object} dto.GoogleLoginResponse "Google OAuth URL"
// @Router /auth/google/login [get]
func (h *GoogleAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	// Generate state parameter for CSRF protection
	state, err := h.states.Issue()
	if err != nil {
		h.logger.Error(r.Context(), "issue oauth state", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to start Google login")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.GoogleLoginResponse{
		AuthURL: h.google.AuthCodeURL(state),
		State:   state,
	})
}

// GoogleCallback handles Google OAuth callback
// @Summary Google OAuth callback
// @Description Exchange the authorization code, then sign in or create the matching account
// @Tags authentication
// @Produce json
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State returned by /auth/google/login"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Missing authorization code or invalid state"
// @Failure 401 {object} dto.ErrorResponse "Invalid authorization code or unverified Google email"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/google/callback [get]
func (h *GoogleAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Authorization code is required")
		return
	}
	if err := h.states.Verify(r.URL.Query().Get("state")); err != nil {
		h.logger.Warn(r.Context(), "rejected oauth state", "error", err)
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	profile, err := h.google.Profile(r.Context(), code)
	if err != nil {
		if errors.Is(err, services.ErrCodeExchange) {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid authorization code")
			return
		}
		h.logger.Error(r.Context(), "google profile", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to get user info")
		return
	}

	res, err := h.auth.GoogleSignIn(r.Context(), profile)
	if err != nil {
		utils.WriteAppError(w, r, h.logger, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewAuthResponse(res.Token, res.User))
}
