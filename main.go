package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coderoom/internal/ai"
	"coderoom/internal/catalog"
	"coderoom/internal/generator"
	"coderoom/internal/handlers"
	"coderoom/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	// Structured JSON logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file, using process environment")
	}

	// Initialize AI client
	ai.Init()

	if dir := os.Getenv("CODEROOM_DATA_DIR"); dir != "" {
		storage.SetDir(dir)
	}

	cfgPath := os.Getenv("CODEROOM_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := catalog.LoadConfig(cfgPath)
	if err != nil {
		slog.Warn("failed to load config, using defaults", "path", cfgPath, "error", err)
	}

	// Create app
	app, err := handlers.NewApp(TemplateFS, cfg, generator.NewFromEnv())
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}

	// Routes
	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /{$}", app.WithSessionLock(app.Index))
	mux.HandleFunc("GET /room", app.WithSessionLock(app.RoomPage))

	// Room session channel
	mux.HandleFunc("GET /ws", app.RoomSocket)

	// API
	mux.HandleFunc("POST /api/chat_with_teacher", app.ChatWithTeacher)
	mux.HandleFunc("POST /api/generate", app.WithSessionLock(app.Generate))

	// Storage API (JSON, for compatibility)
	mux.HandleFunc("GET /api/storage", app.StorageGet)
	mux.HandleFunc("POST /api/storage", app.StoragePost)
	mux.HandleFunc("DELETE /api/storage", app.StorageDelete)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: handlers.LogRequest(mux),
	}

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.StartEviction(ctx)

	go func() {
		slog.Info("server starting", "addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
