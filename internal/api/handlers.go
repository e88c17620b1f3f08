package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/playforge/arcadehub/internal/auth"
)

// handleMintToken issues a bearer token for a principal. The hub trusts the
// front door (or a reverse proxy) to have authenticated the player already.
func (s *Server) handleMintToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !s.decode(w, r, &req) {
		return
	}
	principal := strings.TrimSpace(req.Principal)
	if auth.IsAnonymous(principal) {
		s.errorHandler.HandleValidationError(w, r, "principal is required")
		return
	}

	token, err := s.issuer.Mint(principal)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.audit.LogTokenIssued(middleware.GetReqID(r.Context()), principal, r.RemoteAddr)
	s.writeJSON(w, http.StatusOK, TokenResponse{Token: token, Principal: principal})
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req StartGameRequest
	if !s.decode(w, r, &req) {
		return
	}
	sess, err := s.hub.StartGame(r.Context(), PrincipalFromContext(r.Context()), req.Mode)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, SessionResponse{Session: sess, HubVersion: HubVersion})
}

func (s *Server) handleUpdateGame(w http.ResponseWriter, r *http.Request) {
	var req UpdateGameRequest
	if !s.decode(w, r, &req) {
		return
	}
	sess, err := s.hub.UpdateGame(r.Context(), PrincipalFromContext(r.Context()), req.Score)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, SessionResponse{Session: sess, HubVersion: HubVersion})
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.hub.EndGame(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, SessionResponse{Session: sess, HubVersion: HubVersion})
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "principal")
	profile, err := s.hub.GetPlayerData(r.Context(), PrincipalFromContext(r.Context()), target)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, PlayerResponse{Profile: profile, HubVersion: HubVersion})
}

func (s *Server) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var req UpdatePlayerRequest
	if !s.decode(w, r, &req) {
		return
	}
	principal := PrincipalFromContext(r.Context())
	if err := s.hub.CreateOrUpdatePlayerData(r.Context(), principal, req.DisplayName); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	profile, err := s.hub.GetPlayerData(r.Context(), principal, "")
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, PlayerResponse{Profile: profile, HubVersion: HubVersion})
}

func (s *Server) handleMinigameScore(w http.ResponseWriter, r *http.Request) {
	var req MinigameScoreRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.hub.SaveMinigameScore(r.Context(), PrincipalFromContext(r.Context()), req.Minigame, req.Score); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (s *Server) handleSaveCityLayout(w http.ResponseWriter, r *http.Request) {
	var req CityLayoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.hub.SaveCityLayout(r.Context(), PrincipalFromContext(r.Context()), req.Layout); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (s *Server) handleSaveFarmPlots(w http.ResponseWriter, r *http.Request) {
	var req FarmPlotsRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.hub.SaveFarmPlots(r.Context(), PrincipalFromContext(r.Context()), req.Plots); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (s *Server) handleGlobalState(w http.ResponseWriter, r *http.Request) {
	state, err := s.hub.GetGlobalGameState(r.Context())
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, GlobalStateResponse{State: state, HubVersion: HubVersion})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	mode := chi.URLParam(r, "mode")

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			s.errorHandler.HandleValidationError(w, r, "limit must be an integer in [1,100]")
			return
		}
		limit = n
	}

	entries, err := s.hub.GetLeaderboard(r.Context(), mode, limit)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, LeaderboardResponse{Mode: mode, Entries: entries, HubVersion: HubVersion})
}

func (s *Server) handleGetRole(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "principal")
	role, err := s.hub.GetUserRole(r.Context(), target)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, RoleResponse{Principal: target, Role: role})
}

func (s *Server) handleAssignRole(w http.ResponseWriter, r *http.Request) {
	var req AssignRoleRequest
	if !s.decode(w, r, &req) {
		return
	}
	principal := PrincipalFromContext(r.Context())
	if err := s.hub.AssignUserRole(r.Context(), principal, req.Target, req.Role); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.audit.LogRoleAssigned(middleware.GetReqID(r.Context()), principal, req.Target, req.Role)
	s.writeJSON(w, http.StatusOK, RoleResponse{Principal: req.Target, Role: req.Role})
}
