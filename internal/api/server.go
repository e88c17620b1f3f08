package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/playforge/arcadehub/internal/auth"
	"github.com/playforge/arcadehub/internal/games"
	"github.com/playforge/arcadehub/internal/hub"
	"github.com/playforge/arcadehub/internal/store"
)

// Server handles HTTP requests
type Server struct {
	db           store.DB
	hub          *hub.Service
	issuer       *auth.Issuer
	errorHandler *ErrorHandler
	logger       *log.Logger
	audit        *AuditLogger
	startTime    time.Time
}

// NewServer creates a new API server
func NewServer(db store.DB, service *hub.Service, issuer *auth.Issuer) *Server {
	logger := log.New(os.Stdout, "[API] ", log.LstdFlags|log.Lshortfile)
	audit := NewAuditLogger()
	audit.LogSystemStartup(HubVersion, len(games.ListEngines()))

	return &Server{
		db:           db,
		hub:          service,
		issuer:       issuer,
		errorHandler: NewErrorHandler(logger, audit),
		logger:       logger,
		audit:        audit,
		startTime:    time.Now(),
	}
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.errorHandler.RecoveryHandler)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.CORSMiddleware)
	r.Use(s.AuthMiddleware)

	// Health and monitoring endpoints
	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/ready", s.handleReadiness)
	r.Get("/health/live", s.handleLiveness)
	r.Get("/metrics", s.handleMetrics)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/token", s.handleMintToken)
		r.Get("/games", s.handleListGames)

		r.Post("/game/start", s.handleStartGame)
		r.Post("/game/update", s.handleUpdateGame)
		r.Post("/game/end", s.handleEndGame)

		r.Get("/player", s.handleGetPlayer)
		r.Get("/player/{principal}", s.handleGetPlayer)
		r.Post("/player", s.handleUpdatePlayer)
		r.Post("/player/minigame", s.handleMinigameScore)
		r.Put("/player/city", s.handleSaveCityLayout)
		r.Put("/player/farm", s.handleSaveFarmPlots)

		r.Get("/state", s.handleGlobalState)
		r.Get("/leaderboard/{mode}", s.handleLeaderboard)

		r.Get("/roles/{principal}", s.handleGetRole)
		r.Post("/roles", s.handleAssignRole)
	})

	return r
}

// decode reads a JSON request body, reporting a validation error on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.errorHandler.HandleValidationError(w, r, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Hub-Version", HubVersion)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// If encoding fails, try to write a simple error response
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleListGames lists the registered engines.
func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, GamesResponse{
		Games:      games.ListEngines(),
		HubVersion: HubVersion,
	})
}
