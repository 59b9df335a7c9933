package handlers

import (
	"net/http"

	"BOOKWORM_BACK-END/internal/dto"
	"BOOKWORM_BACK-END/internal/logging"
	"BOOKWORM_BACK-END/internal/middleware"
	"BOOKWORM_BACK-END/internal/services"
	"BOOKWORM_BACK-END/internal/utils"
)

var (
	registerMessages = utils.ValidationMessages{
		Required: "All field are required",
		Rules: []utils.FieldRule{
			{Field: "password", Message: "Password should be at least 6 characters long"},
			{Field: "username", Message: "Username should be at least 3 characters long"},
		},
	}
	loginMessages = utils.ValidationMessages{Required: "All fields are required"}
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth   *services.AuthService
	logger logging.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(auth *services.AuthService, logger logging.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a new user account with username, email, and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration data"
// @Success 201 {object} dto.AuthResponse "User created successfully"
// @Failure 400 {object} dto.ErrorResponse "Missing field, too short, or already taken"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, registerMessages.Required)
		return
	}
	if err := utils.ValidateStruct(req, registerMessages); err != nil {
		utils.WriteAppError(w, r, h.logger, err)
		return
	}

	res, err := h.auth.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		utils.WriteAppError(w, r, h.logger, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, dto.NewAuthResponse(res.Token, res.User))
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with email and password and receive a token
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "User login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Missing field, unknown user, or invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, loginMessages.Required)
		return
	}
	if err := utils.ValidateStruct(req, loginMessages); err != nil {
		utils.WriteAppError(w, r, h.logger, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.WriteAppError(w, r, h.logger, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewAuthResponse(res.Token, res.User))
}

// Me returns the authenticated user
// @Summary Get current user
// @Description Return the user the bearer token belongs to
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse "Current user"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, middleware.MsgNoToken)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.NewUserResponse(user))
}
