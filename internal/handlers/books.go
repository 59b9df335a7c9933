package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"BOOKWORM_BACK-END/internal/dto"
	"BOOKWORM_BACK-END/internal/logging"
	"BOOKWORM_BACK-END/internal/middleware"
	"BOOKWORM_BACK-END/internal/services"
	"BOOKWORM_BACK-END/internal/utils"
)

var createBookMessages = utils.ValidationMessages{
	Required: "Please provide all fields",
	Rules: []utils.FieldRule{
		{Field: "rating", Message: "Rating must be between 1 and 5"},
	},
}

// BookHandler handles the book journal endpoints
type BookHandler struct {
	books  *services.BookService
	logger logging.Logger
}

// NewBookHandler creates a new BookHandler instance
func NewBookHandler(books *services.BookService, logger logging.Logger) *BookHandler {
	return &BookHandler{books: books, logger: logger}
}

// Create handles book creation
// @Summary Create a book
// @Description Upload the cover image and store a new book for the caller
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookRequest true "Book data"
// @Success 201 {object} dto.BookResponse "Book created"
// @Failure 400 {object} dto.ErrorResponse "Missing field, bad rating, or invalid image"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Upload or storage failure"
// @Router /books [post]
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, middleware.MsgNoToken)
		return
	}

	var req dto.CreateBookRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, createBookMessages.Required)
		return
	}
	if err := utils.ValidateStruct(req, createBookMessages); err != nil {
		utils.WriteAppError(w, r, h.logger, err)
		return
	}

	book, err := h.books.Create(r.Context(), user.ID, services.CreateBookInput{
		Title:   req.Title,
		Caption: req.Caption,
		Image:   req.Image,
		Rating:  req.Rating,
	})
	if err != nil {
		utils.WriteAppError(w, r, h.logger, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, dto.NewBookResponse(book))
}

// List handles the paginated feed
// @Summary List books
// @Description All books, newest first, with their owners
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 2, max 50)"
// @Success 200 {object} dto.BookListResponse "Page of books"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Can't fetch books"
// @Router /books [get]
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page")
	limit := queryInt(r, "limit")

	result, err := h.books.List(r.Context(), page, limit)
	if err != nil {
		utils.WriteAppError(w, r, h.logger, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewBookListResponse(result))
}

// ListMine handles listing the caller's books
// @Summary List my books
// @Description Books created by the caller, newest first
// @Tags books
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.BookResponse "Caller's books"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Server error"
// @Router /books/user [get]
func (h *BookHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, middleware.MsgNoToken)
		return
	}

	books, err := h.books.ListMine(r.Context(), user.ID)
	if err != nil {
		utils.WriteAppError(w, r, h.logger, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewBookResponses(books))
}

// Delete handles book deletion
// @Summary Delete a book
// @Description Delete a book owned by the caller together with its stored cover
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} dto.MessageResponse "Book deleted"
// @Failure 401 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Book not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /books/{id} [delete]
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, middleware.MsgNoToken)
		return
	}

	if err := h.books.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		utils.WriteAppError(w, r, h.logger, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: services.MsgBookDeleted})
}

// queryInt returns 0 for absent or non-numeric values so the service applies its defaults.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}
