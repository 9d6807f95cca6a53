package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"oliveprod/internal/auth"
	"oliveprod/internal/config"
	"oliveprod/internal/divi"
	"oliveprod/internal/handler"
	"oliveprod/internal/middleware"
	"oliveprod/internal/repository/postgres"
	"oliveprod/internal/service/chat"
	"oliveprod/internal/service/publish"
	"oliveprod/internal/wordpress"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	// JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Repositories
	conversationRepo := postgres.NewConversationRepository(pool, logger)
	messageRepo := postgres.NewMessageRepository(pool, logger)
	galleryRepo := postgres.NewPublishedPostRepository(pool, logger)

	timeout := time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	// Publish pipeline: Divi template + WordPress client
	template, err := divi.NewFixedTemplate()
	if err != nil {
		log.Fatalf("Failed to load Divi presets: %v", err)
	}

	wpConfig := wordpress.Config{
		BaseURL:     cfg.WordPressURL,
		User:        cfg.WordPressUser,
		AppPassword: cfg.WordPressAppPassword,
	}
	publishService := publish.NewService(wpConfig, timeout, template, galleryRepo, publish.Options{
		MaxImageWidth: cfg.MaxImageWidth,
		JPEGQuality:   cfg.JPEGQuality,
	}, logger)

	// Chat pipeline: n8n webhooks + persistence
	chatHook := chat.NewWebhook(cfg.ChatWebhookURL, timeout, logger)
	audioHook := chat.NewWebhook(cfg.AudioWebhookURL, timeout, logger)
	chatService := chat.NewService(conversationRepo, messageRepo, chatHook, audioHook, logger)

	// Handlers
	publishHandler := handler.NewPublishHandler(publishService, logger)
	conversationHandler := handler.NewConversationHandler(chatService, logger)
	galleryHandler := handler.NewGalleryHandler(galleryRepo, logger)

	logger.Info("services initialized")

	// HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Conversation routes
	mux.HandleFunc("GET /api/conversations", conversationHandler.ListConversations)
	mux.HandleFunc("POST /api/conversations", conversationHandler.CreateConversation)
	mux.HandleFunc("PATCH /api/conversations/{id}", conversationHandler.RenameConversation)
	mux.HandleFunc("DELETE /api/conversations/{id}", conversationHandler.DeleteConversation)
	mux.HandleFunc("GET /api/conversations/{id}/messages", conversationHandler.ListMessages)
	mux.HandleFunc("POST /api/conversations/{id}/messages", conversationHandler.SendMessage)
	mux.HandleFunc("POST /api/conversations/{id}/audio", conversationHandler.SendAudio)

	// Gallery routes
	mux.HandleFunc("GET /api/wordpress/posts", galleryHandler.ListPosts)
	mux.HandleFunc("DELETE /api/wordpress/posts/{id}", galleryHandler.DeletePost)

	// Publish route. Registered without a method pattern: the handler owns
	// the 405 response shape the front-end expects.
	mux.HandleFunc("/api/wordpress/publish", publishHandler.Publish)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	h = middleware.Auth(jwtVerifier, logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * timeout,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
