// Package handler provides HTTP handlers for the recipe service API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rashid54/recipe-app-api/internal/domain"
	"github.com/rashid54/recipe-app-api/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"detail": msg}
}

// fieldErrorResponse renders a per-field validation failure the way form
// validation errors are conventionally keyed.
func fieldErrorResponse(field, msg string) map[string][]string {
	return map[string][]string{field: {msg}}
}

// writeServiceError maps service and domain errors onto HTTP responses.
// Ownership misses and nonexistent ids are the same 404.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, fieldErrorResponse(validationErr.Field, validationErr.Message))
		return
	}

	switch {
	case errors.Is(err, domain.ErrUserAlreadyExists):
		writeJSON(w, http.StatusBadRequest, fieldErrorResponse("email", "user with this email already exists"))
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeJSON(w, http.StatusBadRequest, errorResponse("unable to authenticate with provided credentials"))
	case errors.Is(err, domain.ErrInvalidPrice):
		writeJSON(w, http.StatusBadRequest, fieldErrorResponse("price", err.Error()))
	case errors.Is(err, domain.ErrNotAnImage):
		writeJSON(w, http.StatusBadRequest, fieldErrorResponse("image", "upload a valid image"))
	case errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrIngredientNotFound),
		errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRecipeHasNoImage),
		errors.Is(err, domain.ErrImageNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

// decodeJSON decodes a request body, distinguishing oversized payloads
// from malformed ones. Returns false after writing the error response.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return false
		}
		if errors.Is(err, domain.ErrInvalidPrice) {
			writeJSON(w, http.StatusBadRequest, fieldErrorResponse("price", "a valid number with at most 5 digits and 2 decimal places is required"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}
