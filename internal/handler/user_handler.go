package handler

import (
	"net/http"

	"github.com/rashid54/recipe-app-api/internal/auth"
	"github.com/rashid54/recipe-app-api/internal/domain"
	"github.com/rashid54/recipe-app-api/internal/service"
)

// UserHandler handles HTTP requests for account management.
type UserHandler struct {
	users  *service.UserService
	tokens *service.TokenService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService, tokens *service.TokenService) *UserHandler {
	return &UserHandler{users: users, tokens: tokens}
}

// userResponse is the public representation of a user.
type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func newUserResponse(user *domain.User) userResponse {
	return userResponse{ID: user.ID, Email: user.Email, Name: user.Name}
}

// createUserRequest is the registration payload.
type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// HandleCreate handles POST /users/create requests.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	out, err := h.users.Create(r.Context(), service.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newUserResponse(out.User))
}

// tokenRequest is the credential payload for token issuance.
type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse carries the issued plaintext token.
type tokenResponse struct {
	Token string `json:"token"`
}

// HandleToken handles POST /users/token requests.
func (h *UserHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out, err := h.tokens.Issue(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: out.Plaintext})
}

// HandleMe handles GET /users/me requests.
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("authentication required"))
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}

// updateMeRequest is the partial profile update payload.
type updateMeRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
}

// HandleUpdateMe handles PATCH /users/me requests.
func (h *UserHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("authentication required"))
		return
	}

	var req updateMeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), service.UpdateProfileInput{
		UserID:   user.ID,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(updated))
}
