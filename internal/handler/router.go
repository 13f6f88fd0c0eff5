package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/rashid54/recipe-app-api/internal/domain"
	"github.com/rashid54/recipe-app-api/internal/repository"
)

// healthCheckTimeout bounds the database ping in the health endpoint.
const healthCheckTimeout = 5 * time.Second

// Router assembles the HTTP surface of the recipe service.
type Router struct {
	userHandler       *UserHandler
	tagHandler        *LabelHandler[domain.Tag]
	ingredientHandler *LabelHandler[domain.Ingredient]
	recipeHandler     *RecipeHandler
	middlewares       []func(http.Handler) http.Handler
	db                repository.DatabaseHealth
	logger            zerolog.Logger
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	UserHandler       *UserHandler
	TagHandler        *LabelHandler[domain.Tag]
	IngredientHandler *LabelHandler[domain.Ingredient]
	RecipeHandler     *RecipeHandler

	// Middlewares are applied to every route in order: logging and
	// metrics first, then rate limiting, then authentication.
	Middlewares []func(http.Handler) http.Handler

	// DB backs the health endpoint's readiness check.
	DB repository.DatabaseHealth

	Logger zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(config RouterConfig) *Router {
	return &Router{
		userHandler:       config.UserHandler,
		tagHandler:        config.TagHandler,
		ingredientHandler: config.IngredientHandler,
		recipeHandler:     config.RecipeHandler,
		middlewares:       config.Middlewares,
		db:                config.DB,
		logger:            config.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the assembled HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	for _, mw := range rt.middlewares {
		r.Use(mw)
	}

	r.Get("/health", rt.handleHealth)

	r.Route("/users", func(r chi.Router) {
		r.Post("/create", rt.userHandler.HandleCreate)
		r.Post("/token", rt.userHandler.HandleToken)
		r.Get("/me", rt.userHandler.HandleMe)
		r.Patch("/me", rt.userHandler.HandleUpdateMe)
	})

	r.Route("/recipe", func(r chi.Router) {
		mountLabel(r, "/tag", rt.tagHandler)
		mountLabel(r, "/ingredient", rt.ingredientHandler)

		r.Route("/recipe", func(r chi.Router) {
			r.Get("/", rt.recipeHandler.HandleList)
			r.Post("/", rt.recipeHandler.HandleCreate)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", rt.recipeHandler.HandleGet)
				r.Put("/", rt.recipeHandler.HandleUpdate)
				r.Patch("/", rt.recipeHandler.HandlePartialUpdate)
				r.Delete("/", rt.recipeHandler.HandleDelete)
				r.Post("/image", rt.recipeHandler.HandleUploadImage)
				r.Get("/image", rt.recipeHandler.HandleGetImage)
			})
		})
	})

	return r
}

// labelRoutes is implemented by both LabelHandler instantiations so the
// tag and ingredient subtrees mount identically.
type labelRoutes interface {
	HandleList(http.ResponseWriter, *http.Request)
	HandleCreate(http.ResponseWriter, *http.Request)
	HandleGet(http.ResponseWriter, *http.Request)
	HandleUpdate(http.ResponseWriter, *http.Request)
	HandleDelete(http.ResponseWriter, *http.Request)
}

func mountLabel(r chi.Router, path string, h labelRoutes) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Put("/", h.HandleUpdate)
			r.Patch("/", h.HandleUpdate)
			r.Delete("/", h.HandleDelete)
		})
	})
}

// handleHealth reports liveness and database readiness.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := rt.db.Ping(ctx); err != nil {
		rt.logger.Error().Err(err).Msg("health check database ping failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
