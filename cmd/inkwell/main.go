/*
Package main is the entry point for the inkwell server.

It is responsible for loading configuration, initializing the global logging
system, opening the database pool and running migrations, wiring the
repositories and the realtime chat hub, setting up the HTTP server, and
gracefully handling operating system interrupt signals (SIGINT, SIGTERM)
to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkwell/internal/app/books"
	"inkwell/internal/app/chat"
	"inkwell/internal/app/storage"
	"inkwell/internal/configs"
	"inkwell/internal/handler"
	"inkwell/internal/pkg/logx"
	"inkwell/internal/store"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the database pool and apply pending migrations.
	pool, err := store.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to initialize database")
	}
	defer pool.Close()

	storageService, err := storage.NewStorageService(storage.ServiceConfig{
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize storage service")
	}

	// Realtime chat: shared presence registry behind the hub.
	hub := chat.NewHub(chat.NewRegistry())

	deps := &handler.AppDeps{
		Config: cfg,

		Users:     store.NewUsers(pool),
		Reviews:   store.NewReviews(pool),
		Letters:   store.NewLetters(pool),
		DeepDives: store.NewDeepDives(pool),
		Excerpts:  store.NewExcerpts(pool),
		Favorites: store.NewFavorites(pool),
		Follows:   store.NewFollows(pool),
		Mail:      store.NewMail(pool),
		Chat:      handler.NewChatStore(store.NewConversations(pool), store.NewMessages(pool)),

		Hub:            hub,
		Books:          books.NewClient(cfg.OpenLibraryBaseURL),
		StorageService: storageService,
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("inkwell server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	hub.Shutdown()

	logx.Info("Server gracefully stopped.")
}
