package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/visitdesk/visitdesk/internal/api"
	"github.com/visitdesk/visitdesk/internal/config"
	"github.com/visitdesk/visitdesk/internal/repository"
	"github.com/visitdesk/visitdesk/internal/service"
	"github.com/visitdesk/visitdesk/internal/web"
)

func main() {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the repository using the factory
	repo, err := repository.NewRepository(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize repository: %v", err)
	}

	// The Redis repository holds a connection that needs closing on exit
	if closer, ok := repo.(interface{ Close() error }); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Printf("Error closing repository: %v", err)
			}
		}()
	}

	// Initialize the service layer
	visitService := service.NewVisitService(repo, cfg.Departments)

	// Set up web UI routes
	webHandler, err := web.NewHandler(visitService, cfg.TemplatesDir)
	if err != nil {
		log.Fatalf("Failed to initialize web handler: %v", err)
	}

	// Push an SSE update to open list views after every mutation
	visitService.RegisterUpdateCallback(webHandler.NotifyVisitUpdate)

	// Set up API routes, then web routes on the same mux
	mux := api.SetupRoutes(visitService)
	webHandler.SetupRoutes(mux)

	// Wrap the mux with CORS, rate limiting, security headers, and logging
	rateLimiter := web.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	handler := cors.Default().Handler(mux)
	handler = rateLimiter.Limit(handler)
	handler = web.SecurityHeaders(handler)
	handler = web.LoggingMiddleware(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disable write timeout for SSE connections
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors coming from the listener
	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Starting visitdesk server on port %s", cfg.Port)
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatalf("Error starting server: %v", err)

	case <-shutdown:
		log.Println("Shutting down server...")

		// Close SSE connections first so Shutdown doesn't wait on them
		webHandler.Shutdown()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			log.Fatalf("Error shutting down server: %v", err)
		}

		log.Println("Server gracefully stopped")
	}
}
