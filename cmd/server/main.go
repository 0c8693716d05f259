// Package main initializes and starts the flashcards HTTP server,
// setting up configuration, logging, the CSV-backed tables, the legacy
// schema migration, services and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"path/filepath"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/Erespul/flashcards.github.io/internal/config"
	"github.com/Erespul/flashcards.github.io/internal/logger"
	"github.com/Erespul/flashcards.github.io/internal/server/handler/http"
	"github.com/Erespul/flashcards.github.io/internal/service"
	"github.com/Erespul/flashcards.github.io/internal/session"
	"github.com/Erespul/flashcards.github.io/internal/table"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	ctx := context.Background()

	// Bind the two CSV tables.
	users := table.New(filepath.Join(options.DataDir, "users.csv"), service.UsersHeader)
	cards := table.New(filepath.Join(options.DataDir, "flashcards.csv"), service.CardsHeader)

	if err := users.EnsureInitialized(ctx); err != nil {
		zapLogger.Fatal("cannot init users table", zap.Error(err))
	}

	// Upgrade a legacy flashcards file before anything reads it.
	if err := cards.Migrate(ctx, service.CardMarkers); err != nil {
		zapLogger.Fatal("cannot migrate flashcards table", zap.Error(err))
	}
	if err := cards.EnsureInitialized(ctx); err != nil {
		zapLogger.Fatal("cannot init flashcards table", zap.Error(err))
	}

	// Initialize business-logic services.
	userService := service.NewUserService(users)
	cardService := service.NewCardService(cards)

	// Sessions live in memory; restarting the server logs everyone out.
	sessions := session.NewManager(options.SessionTTL)

	// Create HTTP handlers for auth and card endpoints.
	authHandler := &http.AuthHandler{Users: userService, Sessions: sessions, Logger: zapLogger}
	cardHandler := &http.CardHandler{Cards: cardService, Logger: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, cardHandler, sessions, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server",
		zap.String("addr", options.Addr),
		zap.String("data_dir", options.DataDir),
	)
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
