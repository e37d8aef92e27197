package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/johnathamoeda-glitch/MotoDash/internal/api/handlers"
	"github.com/johnathamoeda-glitch/MotoDash/internal/api/middleware"
	"github.com/johnathamoeda-glitch/MotoDash/internal/cache"
	"github.com/johnathamoeda-glitch/MotoDash/internal/cloudsync"
	"github.com/johnathamoeda-glitch/MotoDash/internal/config"
	"github.com/johnathamoeda-glitch/MotoDash/internal/insights"
	"github.com/johnathamoeda-glitch/MotoDash/internal/logger"
	"github.com/johnathamoeda-glitch/MotoDash/internal/remote"
)

func main() {
	// Parse command-line flags
	var (
		port = flag.String("port", "8080", "HTTP server port")
	)
	flag.Parse()

	// Initialize logger
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	store, err := cache.New(cfg.DataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open local cache")
	}

	var client remote.Service
	if cfg.RemoteConfigured() {
		client = remote.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
	} else {
		log.Warn().Msg("No remote store configured - data stays on this device only")
	}

	// Bootstrap the sync controller; this is the moment local-only versus
	// remote-active is decided for the session.
	ctx := context.Background()
	controller := cloudsync.New(store, client, cfg.PollInterval, log)
	controller.Init(logger.WithContext(ctx, log))

	// Initialize handlers
	transactionsHandler := handlers.NewTransactionsHandler(controller, log)
	goalsHandler := handlers.NewGoalsHandler(controller, log)
	statsHandler := handlers.NewStatsHandler(controller, log)
	syncHandler := handlers.NewSyncHandler(controller, log)
	insightsHandler := handlers.NewInsightsHandler(controller, insights.NewGenerator(cfg.GeminiAPIKey), log)

	// Create router
	mux := http.NewServeMux()

	// Transactions endpoints
	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			transactionsHandler.ListTransactions(w, r)
		case http.MethodPost:
			transactionsHandler.CreateTransaction(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
			if id == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Transaction ID is required")
				return
			}
			transactionsHandler.DeleteTransaction(w, r, id)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Goals endpoints
	mux.HandleFunc("/api/goals", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			goalsHandler.ListGoals(w, r)
		case http.MethodPost:
			goalsHandler.CreateGoal(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/goals/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			id := strings.TrimPrefix(r.URL.Path, "/api/goals/")
			if id == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Goal ID is required")
				return
			}
			goalsHandler.DeleteGoal(w, r, id)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Stats endpoints
	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			statsHandler.GetStats(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/fuel", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			statsHandler.EstimateFuel(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Sync endpoints
	mux.HandleFunc("/api/sync", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			syncHandler.GetState(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/refresh", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			syncHandler.Refresh(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Insights endpoint
	mux.HandleFunc("/api/insights", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			insightsHandler.Generate(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Str("mode", string(controller.State().Mode)).Msg("Starting MotoDash server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Stop the background poller
	controller.Close()

	log.Info().Msg("Server exited")
}
