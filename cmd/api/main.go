package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fragrance-scraper/adapters"
	"fragrance-scraper/extractor"
	"fragrance-scraper/internal/config"
	"fragrance-scraper/internal/types"
	"fragrance-scraper/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// APIRequest represents the request body for POST /resolve
type APIRequest struct {
	Brand string `json:"brand"`
	Name  string `json:"name"`
}

// Resolution is the data returned for one resolved pair
type Resolution struct {
	Brand    string  `json:"brand"`
	Name     string  `json:"name"`
	ImageURL *string `json:"image_url"`
}

// APIResponse represents the response from the API
type APIResponse struct {
	Success bool        `json:"success"`
	Data    *Resolution `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Resolver finds an image URL for a pair; "" means none
type Resolver interface {
	Resolve(ctx context.Context, entry types.CatalogEntry) string
}

// Server resolves single pairs over HTTP. Nothing is downloaded.
type Server struct {
	logger   types.Logger
	resolver Resolver
	router   chi.Router
}

// NewServer creates a new API server
func NewServer(resolver Resolver, logger types.Logger) *Server {
	s := &Server{
		logger:   logger,
		resolver: resolver,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)
	r.Get("/health", s.handleHealth)
	r.Post("/resolve", s.handleResolve)
	r.Options("/resolve", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	s.router = r

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

// handleResolve handles the resolution endpoint
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req APIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry := types.CatalogEntry{
		Brand: strings.TrimSpace(req.Brand),
		Name:  strings.TrimSpace(req.Name),
	}
	if entry.Brand == "" || entry.Name == "" {
		s.sendError(w, "brand and name are required", http.StatusBadRequest)
		return
	}

	s.logger.Infof("API request received for %s %s", entry.Brand, entry.Name)

	resolution := &Resolution{Brand: entry.Brand, Name: entry.Name}
	if imageURL := s.resolver.Resolve(r.Context(), entry); imageURL != "" {
		resolution.ImageURL = &imageURL
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(APIResponse{Success: true, Data: resolution}); err != nil {
		s.logger.Errorf("Failed to encode response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	response := APIResponse{
		Success: false,
		Error:   message,
	}

	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Errorf("Failed to encode error response: %v", err)
	}
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
		}
	}

	cfg, err := config.Load(*cfgPath, nil)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	httpClient := utils.NewHTTPClient(cfg, logger)
	defer httpClient.Close()
	pages := adapters.NewPageFetcher(cfg, logger, httpClient)
	resolver := extractor.NewResolver(logger, extractor.DefaultStrategies(cfg, logger, pages)...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.APIPort),
		Handler:           NewServer(resolver, logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("Server shutdown failed: %v", err)
		}
	}()

	logger.Infof("Starting API server on port %d", cfg.APIPort)
	logger.Info("Available endpoints:")
	logger.Info("  POST /resolve - Find an image URL for one brand/name pair")
	logger.Info("  GET  /health  - Health check")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server failed: %v", err)
	}
}
