package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rashid54/recipe-app-api/internal/auth"
	"github.com/rashid54/recipe-app-api/internal/domain"
	"github.com/rashid54/recipe-app-api/internal/service"
)

// LabelHandler handles HTTP requests for one label-shaped entity.
// Tags and ingredients expose the same surface, so the handler is
// written once and mounted twice.
type LabelHandler[T any] struct {
	service *service.LabelService[T]
}

// NewTagHandler creates the tag instantiation of LabelHandler.
func NewTagHandler(svc *service.LabelService[domain.Tag]) *LabelHandler[domain.Tag] {
	return &LabelHandler[domain.Tag]{service: svc}
}

// NewIngredientHandler creates the ingredient instantiation of LabelHandler.
func NewIngredientHandler(svc *service.LabelService[domain.Ingredient]) *LabelHandler[domain.Ingredient] {
	return &LabelHandler[domain.Ingredient]{service: svc}
}

// labelRequest is the create/update payload.
type labelRequest struct {
	Name string `json:"name"`
}

// HandleList handles GET requests for the collection.
// The assigned_only query parameter narrows the listing to labels
// attached to at least one recipe.
func (h *LabelHandler[T]) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("authentication required"))
		return
	}

	assignedOnly := boolParam(r, "assigned_only")

	labels, err := h.service.List(r.Context(), user.ID, assignedOnly)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, labels)
}

// HandleCreate handles POST requests for the collection.
func (h *LabelHandler[T]) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("authentication required"))
		return
	}

	var req labelRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	label, err := h.service.Create(r.Context(), user.ID, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, label)
}

// HandleGet handles GET requests for a single label.
func (h *LabelHandler[T]) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("authentication required"))
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	label, err := h.service.Get(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, label)
}

// HandleUpdate handles PUT and PATCH requests for a single label.
// The only mutable field is the name, so both methods behave the same.
func (h *LabelHandler[T]) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("authentication required"))
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req labelRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	label, err := h.service.UpdateName(r.Context(), user.ID, id, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, label)
}

// HandleDelete handles DELETE requests for a single label.
func (h *LabelHandler[T]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("authentication required"))
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// idParam parses the {id} route parameter, writing a 404 for junk since
// no resource can live at a non-numeric path.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		writeJSON(w, http.StatusNotFound, errorResponse("not found"))
		return 0, false
	}
	return id, true
}

// boolParam interprets a query parameter as a flag; "1" and "true" are
// truthy.
func boolParam(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	return v == "1" || v == "true"
}
