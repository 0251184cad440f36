// Package server provides the HTTP REST API for the interview agent.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/interview-agent/internal/db"
	"github.com/jonathan/interview-agent/internal/generation"
	"github.com/jonathan/interview-agent/internal/llm"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	db         *db.DB
	llm        llm.Client
	validator  *validator.Validate
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
	ModelConfig *llm.Config
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	modelConfig := cfg.ModelConfig
	if modelConfig == nil {
		modelConfig = llm.DefaultGeminiConfig()
	}
	client, err := llm.NewClient(ctx, modelConfig, cfg.APIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	s := newServer(database, client)
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for generation runs
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// newServer wires handlers over already-constructed dependencies. Split from
// New so tests can inject fakes without a database or API key.
func newServer(database *db.DB, client llm.Client) *Server {
	return &Server{
		db:        database,
		llm:       client,
		validator: validator.New(),
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /model/status", s.handleModelStatus)

	// Posting endpoints
	mux.HandleFunc("POST /postings", s.handleCreatePosting)
	mux.HandleFunc("GET /postings", s.handleListPostings)
	mux.HandleFunc("GET /postings/{id}", s.handleGetPosting)
	mux.HandleFunc("DELETE /postings/{id}", s.handleDeletePosting)

	// Role endpoints
	mux.HandleFunc("POST /postings/{id}/roles", s.handleCreateRole)
	mux.HandleFunc("GET /postings/{id}/roles", s.handleListRoles)
	mux.HandleFunc("PUT /roles/{id}", s.handleUpdateRole)
	mux.HandleFunc("DELETE /roles/{id}", s.handleDeleteRole)

	// Category endpoints
	mux.HandleFunc("GET /categories", s.handleListCategories)
	mux.HandleFunc("POST /categories", s.handleCreateCategory)
	mux.HandleFunc("PUT /categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /categories/{id}", s.handleDeleteCategory)

	// Plan configuration endpoints
	mux.HandleFunc("GET /postings/{id}/plan-config", s.handleGetPlanConfig)
	mux.HandleFunc("PUT /postings/{id}/plan-config", s.handleReplacePlanConfig)
	mux.HandleFunc("GET /postings/{id}/role-plans", s.handleRolePlans)

	// Per-role override endpoints
	mux.HandleFunc("PUT /roles/{id}/question-config", s.handleUpsertOverride)
	mux.HandleFunc("GET /roles/{id}/question-configs", s.handleListRoleOverrides)
	mux.HandleFunc("POST /postings/{id}/question-configs", s.handleBulkUpsertOverrides)
	mux.HandleFunc("DELETE /question-configs/{id}", s.handleDeleteOverride)

	// Generation endpoints
	mux.HandleFunc("POST /postings/{id}/generate", s.handleGenerate)
	mux.HandleFunc("GET /postings/{id}/questions", s.handleListQuestions)
	mux.HandleFunc("GET /postings/{id}/generation-records", s.handleListGenerationRecords)

	// Rubric reference
	mux.HandleFunc("GET /rubric/tiers", s.handleListTiers)

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
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

	if s.llm != nil {
		_ = s.llm.Close()
	}
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
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

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleModelStatus reports whether the configured model answers a probe call
func (s *Server) handleModelStatus(w http.ResponseWriter, r *http.Request) {
	if s.llm == nil {
		s.jsonResponse(w, http.StatusOK, map[string]any{"reachable": false, "error": "no model client configured"})
		return
	}

	if err := s.llm.Ping(r.Context()); err != nil {
		s.jsonResponse(w, http.StatusOK, map[string]any{"reachable": false, "error": err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"reachable": true,
		"model":     s.llm.GetModel(llm.TierStandard),
	})
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

// newOrchestrator builds a generation orchestrator over the server's
// dependencies, fanning progress into the server log.
func (s *Server) newOrchestrator() *generation.Orchestrator {
	orch := generation.New(s.db, s.llm)
	orch.OnProgress = func(ev generation.ProgressEvent) {
		log.Printf("[generation] %s: %s", ev.Stage, ev.Message)
	}
	return orch
}
