package main

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"github.com/docquiz/docquiz/internal/config"
	"github.com/docquiz/docquiz/internal/docs"
	"github.com/docquiz/docquiz/internal/handlers"
	"github.com/docquiz/docquiz/internal/quiz"
	"github.com/docquiz/docquiz/internal/session"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting docquiz server")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("Configuration loaded",
		"doc_id", cfg.DocID,
		"question_count", cfg.QuestionCount,
		"duration_seconds", cfg.DurationSeconds)

	// Document provider; the question bank itself loads lazily on the first
	// quiz start.
	provider, err := docs.NewGoogleDocsProvider(context.Background(), cfg.CredentialsFile)
	if err != nil {
		slog.Error("Failed to create document provider", "error", err)
		os.Exit(1)
	}

	bank := quiz.NewBank(provider, cfg.DocID)
	controller := quiz.NewController(bank, cfg.QuestionCount, cfg.Duration())
	store := session.NewCookieStore(cfg.SessionSecret)
	slog.Info("Quiz controller initialized")

	// Load templates
	templates := template.Must(template.ParseGlob("web/templates/*.html"))
	slog.Info("Templates loaded successfully")

	// Initialize handlers
	handler := handlers.NewHandler(controller, store, templates)

	// Setup router
	r := mux.NewRouter()

	// Static files
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))

	// Web routes
	r.HandleFunc("/", handler.HomeHandler).Methods("GET")
	r.HandleFunc("/start", handler.StartHandler).Methods("GET")
	r.HandleFunc("/question", handler.QuestionHandler).Methods("GET")
	r.HandleFunc("/question", handler.SubmitAnswerHandler).Methods("POST")
	r.HandleFunc("/summary", handler.SummaryHandler).Methods("GET")
	r.HandleFunc("/review", handler.ReviewHandler).Methods("GET")

	// WebSocket route
	r.HandleFunc("/ws/timer", handler.TimerHandler)

	// 404 handler
	r.NotFoundHandler = http.HandlerFunc(handler.NotFoundHandler)

	slog.Info("Routes configured")

	// Start server
	// No WriteTimeout: the countdown websocket holds its connection open for
	// the length of a quiz.
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	slog.Info("docquiz server starting", "port", cfg.Port, "url", "http://localhost:"+cfg.Port)
	if err := server.ListenAndServe(); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
