package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/rashid54/recipe-app-api/internal/auth"
	"github.com/rashid54/recipe-app-api/internal/domain"
	"github.com/rashid54/recipe-app-api/internal/service"
)

// maxImageUploadBytes bounds multipart image uploads.
const maxImageUploadBytes = 10 << 20 // 10MB

// RecipeHandler handles HTTP requests for recipes.
type RecipeHandler struct {
	service *service.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(svc *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{service: svc}
}

// recipeSummary is the listing representation: associations as id lists,
// no image field.
type recipeSummary struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	TimeMinutes int          `json:"time_minutes"`
	Price       domain.Price `json:"price"`
	Link        string       `json:"link"`
	Tags        []int64      `json:"tags"`
	Ingredients []int64      `json:"ingredients"`
}

// recipeDetail is the single-recipe representation: associations as full
// objects, plus the image URL when an image exists.
type recipeDetail struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	TimeMinutes int                  `json:"time_minutes"`
	Price       domain.Price         `json:"price"`
	Link        string               `json:"link"`
	Tags        []*domain.Tag        `json:"tags"`
	Ingredients []*domain.Ingredient `json:"ingredients"`
	Image       *string              `json:"image"`
}

func newRecipeSummary(recipe *domain.Recipe) recipeSummary {
	return recipeSummary{
		ID:          recipe.ID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Link:        recipe.Link,
		Tags:        recipe.TagIDs(),
		Ingredients: recipe.IngredientIDs(),
	}
}

func newRecipeDetail(recipe *domain.Recipe) recipeDetail {
	detail := recipeDetail{
		ID:          recipe.ID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Link:        recipe.Link,
		Tags:        recipe.Tags,
		Ingredients: recipe.Ingredients,
	}
	if recipe.HasImage() {
		url := imageURL(recipe.ID)
		detail.Image = &url
	}
	return detail
}

func imageURL(recipeID int64) string {
	return fmt.Sprintf("/recipe/recipe/%d/image", recipeID)
}

// recipeRequest is the shared create/update payload. Pointers
// distinguish omitted fields from zero values.
type recipeRequest struct {
	Title       *string       `json:"title"`
	TimeMinutes *int          `json:"time_minutes"`
	Price       *domain.Price `json:"price"`
	Link        *string       `json:"link"`
	Tags        *[]int64      `json:"tags"`
	Ingredients *[]int64      `json:"ingredients"`
}

// requireFull checks the fields a full representation must carry.
func (req *recipeRequest) requireFull(w http.ResponseWriter) bool {
	if req.Title == nil {
		writeJSON(w, http.StatusBadRequest, fieldErrorResponse("title", "this field is required"))
		return false
	}
	if req.TimeMinutes == nil {
		writeJSON(w, http.StatusBadRequest, fieldErrorResponse("time_minutes", "this field is required"))
		return false
	}
	if req.Price == nil {
		writeJSON(w, http.StatusBadRequest, fieldErrorResponse("price", "this field is required"))
		return false
	}
	return true
}

// HandleList handles GET /recipe/recipe requests.
func (h *RecipeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("authentication required"))
		return
	}

	recipes, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	summaries := make([]recipeSummary, len(recipes))
	for i, recipe := range recipes {
		summaries[i] = newRecipeSummary(recipe)
	}

	writeJSON(w, http.StatusOK, summaries)
}

// HandleCreate handles POST /recipe/recipe requests.
func (h *RecipeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("authentication required"))
		return
	}

	var req recipeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.requireFull(w) {
		return
	}

	input := service.CreateRecipeInput{
		Title:       *req.Title,
		TimeMinutes: *req.TimeMinutes,
		Price:       *req.Price,
	}
	if req.Link != nil {
		input.Link = *req.Link
	}
	if req.Tags != nil {
		input.TagIDs = *req.Tags
	}
	if req.Ingredients != nil {
		input.IngredientIDs = *req.Ingredients
	}

	recipe, err := h.service.Create(r.Context(), user.ID, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newRecipeDetail(recipe))
}

// HandleGet handles GET /recipe/recipe/{id} requests.
func (h *RecipeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("authentication required"))
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	recipe, err := h.service.Get(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newRecipeDetail(recipe))
}

// HandleUpdate handles PUT /recipe/recipe/{id} requests. A full update
// replaces the whole representation: omitted link, tags and ingredients
// are cleared, not preserved.
func (h *RecipeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("authentication required"))
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req recipeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.requireFull(w) {
		return
	}

	link := ""
	if req.Link != nil {
		link = *req.Link
	}
	tagIDs := []int64{}
	if req.Tags != nil {
		tagIDs = *req.Tags
	}
	ingredientIDs := []int64{}
	if req.Ingredients != nil {
		ingredientIDs = *req.Ingredients
	}

	recipe, err := h.service.Update(r.Context(), user.ID, id, service.UpdateRecipeInput{
		Title:         req.Title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		Link:          &link,
		TagIDs:        &tagIDs,
		IngredientIDs: &ingredientIDs,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newRecipeDetail(recipe))
}

// HandlePartialUpdate handles PATCH /recipe/recipe/{id} requests.
// Omitted fields keep their current values.
func (h *RecipeHandler) HandlePartialUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("authentication required"))
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req recipeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	recipe, err := h.service.Update(r.Context(), user.ID, id, service.UpdateRecipeInput{
		Title:         req.Title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		Link:          req.Link,
		TagIDs:        req.Tags,
		IngredientIDs: req.Ingredients,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newRecipeDetail(recipe))
}

// HandleDelete handles DELETE /recipe/recipe/{id} requests.
func (h *RecipeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

// HandleUploadImage handles POST /recipe/recipe/{id}/image requests.
// Expects a multipart form with the file under the "image" field.
func (h *RecipeHandler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("authentication required"))
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, fieldErrorResponse("image", "no valid multipart upload"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, fieldErrorResponse("image", "no file was submitted"))
		return
	}
	defer file.Close()

	recipe, err := h.service.UploadImage(r.Context(), user.ID, id, header.Filename, file)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	url := imageURL(recipe.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    recipe.ID,
		"image": url,
	})
}

// HandleGetImage handles GET /recipe/recipe/{id}/image requests,
// streaming the stored image back.
func (h *RecipeHandler) HandleGetImage(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("authentication required"))
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	reader, contentType, err := h.service.GetImage(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, reader)
}
