package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "hookwire/internal/api/context"
	"hookwire/internal/api/handlers"
	"hookwire/internal/api/middleware"
)

type Dependencies struct {
	DispatchHandler  *handlers.DispatchHandler
	APIKeyHandler    *handlers.APIKeyHandler
	WebhookHandler   *handlers.WebhookHandler
	EventHandler     *handlers.EventHandler
	HealthHandler    *handlers.HealthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	APIKeyMiddleware *middleware.APIKeyMiddleware
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	router.GET("/health", wrap(deps.HealthHandler.Check))

	authMid := deps.AuthMiddleware
	keyMid := deps.APIKeyMiddleware

	// Outbound dispatch (session-authenticated collaborator surface)
	router.POST("/api/v1/dispatch",
		chain(deps.DispatchHandler.Dispatch, authMid.Handle))

	// API key issuance and lifecycle
	router.POST("/api/v1/keys",
		chain(deps.APIKeyHandler.Create, authMid.Handle))
	router.GET("/api/v1/keys",
		chain(deps.APIKeyHandler.List, authMid.Handle))
	router.PATCH("/api/v1/keys/:key_id",
		chain(deps.APIKeyHandler.SetActive, authMid.Handle))

	// Webhook credential management
	router.POST("/api/v1/webhooks",
		chain(deps.WebhookHandler.Create, authMid.Handle))
	router.GET("/api/v1/webhooks",
		chain(deps.WebhookHandler.List, authMid.Handle))
	router.PATCH("/api/v1/webhooks/:webhook_id",
		chain(deps.WebhookHandler.SetActive, authMid.Handle))
	router.DELETE("/api/v1/webhooks/:webhook_id",
		chain(deps.WebhookHandler.Delete, authMid.Handle))

	// Event fan-out for API-key-bearing callers
	router.POST("/api/v1/events/:event",
		chain(deps.EventHandler.Fire, keyMid.Handle))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
