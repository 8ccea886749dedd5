// Package server provides the HTTP API for scanning and filling application forms.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/form-autofill/internal/answering"
	"github.com/jonathan/form-autofill/internal/autofill"
	"github.com/jonathan/form-autofill/internal/config"
	"github.com/jonathan/form-autofill/internal/db"
	"github.com/jonathan/form-autofill/internal/jobcontext"
	"github.com/jonathan/form-autofill/internal/llm"
	"github.com/jonathan/form-autofill/internal/server/middleware"
	"github.com/jonathan/form-autofill/internal/server/ratelimit"
	"github.com/jonathan/form-autofill/internal/types"
)

// Store is the persistence the API reads profiles from and records fills to.
type Store interface {
	GetUserProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	SaveUserProfile(ctx context.Context, userID uuid.UUID, p *types.UserProfile) error
	RecordFillRun(ctx context.Context, run *db.FillRun) (uuid.UUID, error)
	ListFillRuns(ctx context.Context, userID uuid.UUID, limit int) ([]db.FillRun, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	closeStore  func()
	inference   *llm.ClientInference
	answerer    autofill.Answerer
	jobs        jobcontext.Source
	jwtService  *JWTService
	rateLimiter *ratelimit.Limiter
	verbose     bool
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
	Model       string
	AITimeout   time.Duration
	Verbose     bool
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	llmConfig := llm.DefaultConfig()
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(cfg.Model)
	}
	inference := llm.NewGeminiInference(llmConfig, cfg.APIKey, cfg.Verbose)

	s := &Server{
		store:       database,
		closeStore:  database.Close,
		inference:   inference,
		answerer:    answering.NewPipeline(inference, cfg.AITimeout, cfg.Verbose),
		jobs:        jobcontext.NewCachedSource(jobcontext.NewExtractor(cfg.Verbose), nil),
		jwtService:  NewJWTService(jwtConfig),
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		verbose:     cfg.Verbose,
	}

	// Start preparing the model so the first fill does not wait for it.
	if err := inference.Download(ctx); err != nil && cfg.Verbose {
		log.Printf("[SERVER] Model unavailable, open questions will be left empty: %v", err)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // fills wait on the model once per open question
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	optional := middleware.OptionalAuthMiddleware(s.jwtService.AsTokenValidator())
	required := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	mux.HandleFunc("POST /v1/scan", s.handleScan)
	mux.Handle("POST /v1/autofill", optional(http.HandlerFunc(s.handleAutofill)))
	mux.Handle("GET /v1/profile", required(http.HandlerFunc(s.handleGetProfile)))
	mux.Handle("PUT /v1/profile", required(http.HandlerFunc(s.handlePutProfile)))
	mux.Handle("GET /v1/runs", required(http.HandlerFunc(s.handleListRuns)))

	var h http.Handler = s.withCORS(mux)
	h = s.withLogging(h)
	if s.rateLimiter != nil {
		h = s.withRateLimit(h)
	}
	return h
}

// Start begins listening for requests
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	log.Println("Server stopped")
	return nil
}

// Close releases the model client, the rate limiter and the database pool.
func (s *Server) Close() {
	if s.inference != nil {
		_ = s.inference.Close()
	}
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.closeStore != nil {
		s.closeStore()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients that exceed their budget with 429
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
		}
		if !allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds()+0.999)))
			}
			log.Printf("[rate-limit] %s %s rejected for %s", r.Method, r.URL.Path, clientID(r))
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// clientID identifies the caller by remote IP.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to a status and writes it. Server errors are logged, not echoed.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[SERVER] %v", err)
		s.errorResponse(w, status, "internal error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
