package main

import (
	"fmt"
	"log"
	"net/http"

	"hookwire/internal/api"
	"hookwire/internal/api/handlers"
	"hookwire/internal/api/middleware"
	"hookwire/internal/engine/dispatch"
	"hookwire/internal/engine/keys"
	"hookwire/internal/engine/secrets"
	"hookwire/internal/engine/ssrf"
	"hookwire/internal/pkg/logger"
	"hookwire/internal/platform/auth"
	"hookwire/internal/platform/config"
	"hookwire/internal/platform/database"
	"hookwire/internal/platform/repositories"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Repositories
	keyRepo := repositories.NewAPIKeyRepository(db)
	webhookRepo := repositories.NewWebhookRepository(db)

	// Services
	tokenSvc := auth.NewTokenService(cfg.JWT)
	keySvc := keys.NewService(keyRepo, cfg.Security.BcryptCost)

	box, err := secrets.NewBox(cfg.Security.SecretboxKey)
	if err != nil {
		log.Fatalf("Invalid secretbox key: %v", err)
	}

	guard := ssrf.NewGuard(ssrf.NewResolver(cfg.Dispatch.DNSTimeout))
	dispatcher := dispatch.NewDispatcher(guard, cfg.Dispatch.HTTPTimeout)
	trigger := dispatch.NewTrigger(webhookRepo, box, dispatcher)

	// Handlers
	dispatchHandler := handlers.NewDispatchHandler(dispatcher)
	apiKeyHandler := handlers.NewAPIKeyHandler(keySvc)
	webhookHandler := handlers.NewWebhookHandler(webhookRepo, box)
	eventHandler := handlers.NewEventHandler(trigger)
	healthHandler := handlers.NewHealthHandler(db)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)
	apiKeyMiddleware := middleware.NewAPIKeyMiddleware(keySvc)

	// Router
	deps := &api.Dependencies{
		DispatchHandler:  dispatchHandler,
		APIKeyHandler:    apiKeyHandler,
		WebhookHandler:   webhookHandler,
		EventHandler:     eventHandler,
		HealthHandler:    healthHandler,
		AuthMiddleware:   authMiddleware,
		APIKeyMiddleware: apiKeyMiddleware,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
