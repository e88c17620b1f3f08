package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/playforge/arcadehub/internal/auth"
	"github.com/playforge/arcadehub/internal/games"
	"github.com/playforge/arcadehub/internal/store"
)

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleGuest = "guest"
)

// Session states, in protocol order.
const (
	StateStart    = "start"
	StateRunning  = "running"
	StateGameOver = "gameOver"
)

// Minigame keys for the per-profile minigame bests.
const (
	MinigamePuzzle   = "puzzleGame"
	MinigameReaction = "reactionGame"
)

// Service is the hub: session lifecycle, profile merge, leaderboard and
// roles, all on top of the store.
type Service struct {
	db     store.DB
	logger *log.Logger
	now    func() time.Time
}

// NewService creates a hub service backed by db.
func NewService(db store.DB, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{db: db, logger: logger, now: time.Now}
}

// Bootstrap grants the admin role to the configured principal. A no-op when
// the principal is empty.
func (s *Service) Bootstrap(adminPrincipal string) error {
	if adminPrincipal == "" {
		return nil
	}
	if err := s.db.SetRole(adminPrincipal, RoleAdmin); err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	s.logger.Printf("bootstrap admin=%s", adminPrincipal)
	return nil
}

// StartGame opens a session for the principal, superseding any open one.
func (s *Service) StartGame(ctx context.Context, principal, mode string) (*store.Session, error) {
	if auth.IsAnonymous(principal) {
		return nil, ErrUnauthenticated
	}
	if !games.ValidMode(games.Mode(mode)) {
		return nil, Errorf(CodeInvalidArgument, "unknown game mode %q", mode)
	}

	sess := &store.Session{
		Principal: principal,
		Mode:      mode,
		State:     StateStart,
		StartedAt: s.now().UTC(),
	}
	if err := s.db.UpsertSession(sess); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}
	s.logger.Printf("startGame principal=%s mode=%s session=%s", principal, mode, sess.ID)
	return sess, nil
}

// UpdateGame records the running score against the principal's open session.
func (s *Service) UpdateGame(ctx context.Context, principal string, score int64) (*store.Session, error) {
	if auth.IsAnonymous(principal) {
		return nil, ErrUnauthenticated
	}
	if score < 0 {
		return nil, Errorf(CodeInvalidArgument, "score must not be negative, got %d", score)
	}

	if err := s.db.UpdateSessionScore(principal, score); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, fmt.Errorf("failed to update game: %w", err)
	}
	sess, err := s.db.GetSession(principal)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return sess, nil
}

// EndGame closes the open session, merges its result into the profile,
// appends the score history entry and refreshes the hub snapshot.
func (s *Service) EndGame(ctx context.Context, principal string) (*store.Session, error) {
	if auth.IsAnonymous(principal) {
		return nil, ErrUnauthenticated
	}

	sess, err := s.db.GetSession(principal)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	coins := CoinsFor(sess.Mode, sess.Score)
	now := s.now().UTC()

	profile, err := s.profileOrDefault(principal)
	if err != nil {
		return nil, err
	}
	mergeResult(profile, sess.Mode, sess.Score, coins, now)
	if err := s.db.PutProfile(profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	if err := s.db.AppendScore(&store.ScoreEntry{
		Principal:  principal,
		Mode:       sess.Mode,
		Score:      sess.Score,
		AchievedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("failed to append score: %w", err)
	}

	if err := s.db.SetGlobalState(&store.GlobalState{
		Mode:        sess.Mode,
		State:       StateGameOver,
		Score:       sess.Score,
		CoinsEarned: coins,
	}); err != nil {
		return nil, fmt.Errorf("failed to set global state: %w", err)
	}

	if err := s.db.DeleteSession(principal); err != nil {
		return nil, fmt.Errorf("failed to close session: %w", err)
	}

	sess.State = StateGameOver
	sess.CoinsEarned = coins
	s.logger.Printf("endGame principal=%s mode=%s score=%d coins=%d", principal, sess.Mode, sess.Score, coins)
	return sess, nil
}

// GetPlayerData returns the target's profile. An unknown target resolves to
// the default profile when the caller asks about themselves, and NotFound
// otherwise.
func (s *Service) GetPlayerData(ctx context.Context, principal, target string) (*store.Profile, error) {
	if auth.IsAnonymous(principal) {
		return nil, ErrUnauthenticated
	}
	if target == "" {
		target = principal
	}

	profile, err := s.db.GetProfile(target)
	if errors.Is(err, store.ErrNotFound) {
		if target == principal {
			return defaultProfile(principal), nil
		}
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	normalizeBestScores(profile)
	return profile, nil
}

// CreateOrUpdatePlayerData upserts the principal's own profile fields.
func (s *Service) CreateOrUpdatePlayerData(ctx context.Context, principal, displayName string) error {
	if auth.IsAnonymous(principal) {
		return ErrUnauthenticated
	}

	profile, err := s.profileOrDefault(principal)
	if err != nil {
		return err
	}
	profile.DisplayName = displayName
	profile.LastPlayed = s.now().UTC()
	if err := s.db.PutProfile(profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// SaveMinigameScore raises the principal's best for one of the minigame keys.
func (s *Service) SaveMinigameScore(ctx context.Context, principal, minigame string, score int64) error {
	if auth.IsAnonymous(principal) {
		return ErrUnauthenticated
	}
	if score < 0 {
		return Errorf(CodeInvalidArgument, "score must not be negative, got %d", score)
	}

	profile, err := s.profileOrDefault(principal)
	if err != nil {
		return err
	}
	switch minigame {
	case MinigamePuzzle:
		if score > profile.PuzzleBest {
			profile.PuzzleBest = score
		}
	case MinigameReaction:
		if score > profile.ReactionBest {
			profile.ReactionBest = score
		}
	default:
		return Errorf(CodeInvalidArgument, "unknown minigame %q", minigame)
	}
	profile.LastPlayed = s.now().UTC()
	if err := s.db.PutProfile(profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// SaveCityLayout persists the principal's city grid.
func (s *Service) SaveCityLayout(ctx context.Context, principal string, layout [][]games.StructureType) error {
	if auth.IsAnonymous(principal) {
		return ErrUnauthenticated
	}
	for _, row := range layout {
		for _, cell := range row {
			if cell != "" && !games.ValidStructure(cell) {
				return Errorf(CodeInvalidArgument, "unknown structure %q", cell)
			}
		}
	}

	raw, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("failed to encode city layout: %w", err)
	}
	profile, err := s.profileOrDefault(principal)
	if err != nil {
		return err
	}
	profile.CityLayoutJSON = string(raw)
	profile.LastPlayed = s.now().UTC()
	if err := s.db.PutProfile(profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// SaveFarmPlots persists the principal's farm grid.
func (s *Service) SaveFarmPlots(ctx context.Context, principal string, plots [][]games.CropType) error {
	if auth.IsAnonymous(principal) {
		return ErrUnauthenticated
	}
	for _, row := range plots {
		for _, cell := range row {
			if cell != "" && !games.ValidCrop(cell) {
				return Errorf(CodeInvalidArgument, "unknown crop %q", cell)
			}
		}
	}

	raw, err := json.Marshal(plots)
	if err != nil {
		return fmt.Errorf("failed to encode farm plots: %w", err)
	}
	profile, err := s.profileOrDefault(principal)
	if err != nil {
		return err
	}
	profile.FarmPlotsJSON = string(raw)
	profile.LastPlayed = s.now().UTC()
	if err := s.db.PutProfile(profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetGlobalGameState returns the last finished game hub-wide, or nil before
// any game has finished. Anonymous callers are allowed.
func (s *Service) GetGlobalGameState(ctx context.Context) (*store.GlobalState, error) {
	g, err := s.db.GetGlobalState()
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get global state: %w", err)
	}
	return g, nil
}

// GetLeaderboard returns the ranked board for a mode. Time-ranked modes sort
// ascending. Anonymous callers are allowed.
func (s *Service) GetLeaderboard(ctx context.Context, mode string, limit int) ([]store.LeaderboardRow, error) {
	if !games.ValidMode(games.Mode(mode)) {
		return nil, Errorf(CodeInvalidArgument, "unknown game mode %q", mode)
	}
	board, err := s.db.Leaderboard(store.LeaderboardQuery{
		Mode:      mode,
		Ascending: games.TimeRanked(games.Mode(mode)),
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return board, nil
}

// GetUserRole returns the stored role, defaulting to user for signed-in
// principals and guest for anonymous ones.
func (s *Service) GetUserRole(ctx context.Context, principal string) (string, error) {
	if auth.IsAnonymous(principal) {
		return RoleGuest, nil
	}
	role, err := s.db.GetRole(principal)
	if errors.Is(err, store.ErrNotFound) {
		return RoleUser, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

// IsAdmin reports whether the principal holds the admin role.
func (s *Service) IsAdmin(ctx context.Context, principal string) (bool, error) {
	role, err := s.GetUserRole(ctx, principal)
	if err != nil {
		return false, err
	}
	return role == RoleAdmin, nil
}

// AssignUserRole sets the target's role. Admin only.
func (s *Service) AssignUserRole(ctx context.Context, principal, target, role string) error {
	if auth.IsAnonymous(principal) {
		return ErrUnauthenticated
	}
	switch role {
	case RoleAdmin, RoleUser, RoleGuest:
	default:
		return Errorf(CodeInvalidArgument, "unknown role %q", role)
	}
	if target == "" || auth.IsAnonymous(target) {
		return Errorf(CodeInvalidArgument, "cannot assign a role to %q", target)
	}

	admin, err := s.IsAdmin(ctx, principal)
	if err != nil {
		return err
	}
	if !admin {
		return ErrForbidden
	}
	if err := s.db.SetRole(target, role); err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	s.logger.Printf("assignRole by=%s target=%s role=%s", principal, target, role)
	return nil
}

// profileOrDefault loads the profile, falling back to the default for a
// first-time principal.
func (s *Service) profileOrDefault(principal string) (*store.Profile, error) {
	profile, err := s.db.GetProfile(principal)
	if errors.Is(err, store.ErrNotFound) {
		return defaultProfile(principal), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	normalizeBestScores(profile)
	return profile, nil
}

// defaultProfile is the empty profile a first-time principal starts from.
func defaultProfile(principal string) *store.Profile {
	p := &store.Profile{
		Principal:  principal,
		BestScores: make(map[string]int64, len(games.Modes())),
	}
	normalizeBestScores(p)
	return p
}

// normalizeBestScores guarantees exactly one best-score entry per known mode.
func normalizeBestScores(p *store.Profile) {
	if p.BestScores == nil {
		p.BestScores = make(map[string]int64, len(games.Modes()))
	}
	for _, mode := range games.Modes() {
		if _, ok := p.BestScores[string(mode)]; !ok {
			p.BestScores[string(mode)] = 0
		}
	}
}

// mergeResult folds one finished game into the profile.
func mergeResult(p *store.Profile, mode string, score, coins int64, now time.Time) {
	p.TotalCoins += coins
	p.LastPlayed = now

	if mode == string(games.ModeCar) {
		// Race times rank low-to-high; zero means the race never finished.
		if score > 0 && (p.BestTime == nil || score < *p.BestTime) {
			t := score
			p.BestTime = &t
		}
	} else if score > p.BestScores[mode] {
		p.BestScores[mode] = score
	}

	if mode == string(games.ModeBattle) {
		if score > 0 {
			p.BattleWins++
			p.BattleStreak++
			if p.BattleStreak > p.BattleBestStreak {
				p.BattleBestStreak = p.BattleStreak
			}
		} else {
			p.BattleStreak = 0
		}
	}
}
