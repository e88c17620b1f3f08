package hub

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"testing"

	"github.com/playforge/arcadehub/internal/games"
	"github.com/playforge/arcadehub/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := store.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return NewService(db, log.New(os.Stdout, "[HUB-TEST] ", log.LstdFlags))
}

func TestSessionProtocol(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	sess, err := s.StartGame(ctx, "alice", "farming")
	if err != nil {
		t.Fatalf("Failed to start game: %v", err)
	}
	if sess.State != StateStart || sess.ID == "" {
		t.Errorf("Unexpected fresh session: %+v", sess)
	}

	sess, err = s.UpdateGame(ctx, "alice", 45)
	if err != nil {
		t.Fatalf("Failed to update game: %v", err)
	}
	if sess.State != StateRunning || sess.Score != 45 {
		t.Errorf("Expected running session at 45, got %s/%d", sess.State, sess.Score)
	}

	sess, err = s.EndGame(ctx, "alice")
	if err != nil {
		t.Fatalf("Failed to end game: %v", err)
	}
	if sess.State != StateGameOver {
		t.Errorf("Expected gameOver state, got %s", sess.State)
	}
	if sess.CoinsEarned != 45 {
		t.Errorf("Farming coins equal the score; got %d", sess.CoinsEarned)
	}

	// The session is gone; a second end has nothing to close.
	if _, err := s.EndGame(ctx, "alice"); !IsNoActiveSession(err) {
		t.Errorf("Expected NoActiveSession after end, got %v", err)
	}

	profile, err := s.GetPlayerData(ctx, "alice", "")
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}
	if profile.TotalCoins != 45 || profile.BestScores["farming"] != 45 {
		t.Errorf("Profile merge lost the result: coins=%d best=%d", profile.TotalCoins, profile.BestScores["farming"])
	}

	state, err := s.GetGlobalGameState(ctx)
	if err != nil {
		t.Fatalf("Failed to get global state: %v", err)
	}
	if state == nil || state.Mode != "farming" || state.Score != 45 {
		t.Errorf("Global snapshot not refreshed: %+v", state)
	}

	board, err := s.GetLeaderboard(ctx, "farming", 10)
	if err != nil {
		t.Fatalf("Failed to get leaderboard: %v", err)
	}
	if len(board) != 1 || board[0].Principal != "alice" || board[0].Score != 45 {
		t.Errorf("Score entry missing from leaderboard: %+v", board)
	}
}

func TestAnonymousCallersAreRejected(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.StartGame(ctx, "anonymous", "farming"); !IsUnauthenticated(err) {
		t.Errorf("StartGame: expected Unauthenticated, got %v", err)
	}
	if _, err := s.UpdateGame(ctx, "", 10); !IsUnauthenticated(err) {
		t.Errorf("UpdateGame: expected Unauthenticated, got %v", err)
	}
	if _, err := s.EndGame(ctx, "anonymous"); !IsUnauthenticated(err) {
		t.Errorf("EndGame: expected Unauthenticated, got %v", err)
	}
	if err := s.CreateOrUpdatePlayerData(ctx, "anonymous", "x"); !IsUnauthenticated(err) {
		t.Errorf("CreateOrUpdatePlayerData: expected Unauthenticated, got %v", err)
	}

	// The global snapshot and leaderboard stay readable without identity.
	if _, err := s.GetGlobalGameState(ctx); err != nil {
		t.Errorf("GetGlobalGameState should allow anonymous reads: %v", err)
	}
	if _, err := s.GetLeaderboard(ctx, "battle", 5); err != nil {
		t.Errorf("GetLeaderboard should allow anonymous reads: %v", err)
	}
}

func TestUpdateWithoutSession(t *testing.T) {
	s := newTestService(t)
	if _, err := s.UpdateGame(context.Background(), "alice", 10); !IsNoActiveSession(err) {
		t.Errorf("Expected NoActiveSession, got %v", err)
	}
}

func TestStartGameValidatesMode(t *testing.T) {
	s := newTestService(t)
	if _, err := s.StartGame(context.Background(), "alice", "chess"); !IsInvalidArgument(err) {
		t.Errorf("Expected InvalidArgument for unknown mode, got %v", err)
	}
}

func TestStartGameSupersedesOpenSession(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	s.StartGame(ctx, "alice", "farming")
	s.UpdateGame(ctx, "alice", 500)
	if _, err := s.StartGame(ctx, "alice", "battle"); err != nil {
		t.Fatalf("Failed to supersede session: %v", err)
	}

	s.UpdateGame(ctx, "alice", 50)
	sess, err := s.EndGame(ctx, "alice")
	if err != nil {
		t.Fatalf("Failed to end game: %v", err)
	}
	if sess.Mode != "battle" || sess.Score != 50 {
		t.Errorf("Old session leaked into the result: %+v", sess)
	}
}

func TestCarBestTimeOnlyImproves(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	race := func(ms int64) {
		t.Helper()
		if _, err := s.StartGame(ctx, "alice", "car"); err != nil {
			t.Fatalf("Failed to start race: %v", err)
		}
		s.UpdateGame(ctx, "alice", ms)
		if _, err := s.EndGame(ctx, "alice"); err != nil {
			t.Fatalf("Failed to end race: %v", err)
		}
	}

	race(40000)
	race(31000)
	race(55000) // slower, must not replace

	profile, err := s.GetPlayerData(ctx, "alice", "")
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}
	if profile.BestTime == nil || *profile.BestTime != 31000 {
		t.Errorf("Expected best time 31000ms, got %v", profile.BestTime)
	}
	if profile.TotalCoins != 0 {
		t.Errorf("Races award no coins, got %d", profile.TotalCoins)
	}

	board, err := s.GetLeaderboard(ctx, "car", 10)
	if err != nil {
		t.Fatalf("Failed to get leaderboard: %v", err)
	}
	if len(board) == 0 || board[0].Score != 31000 {
		t.Errorf("Expected fastest time at rank 1, got %+v", board)
	}
}

func TestBattleStreaks(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	battle := func(score int64) {
		t.Helper()
		s.StartGame(ctx, "alice", "battle")
		s.UpdateGame(ctx, "alice", score)
		if _, err := s.EndGame(ctx, "alice"); err != nil {
			t.Fatalf("Failed to end battle: %v", err)
		}
	}

	battle(50)
	battle(50)
	battle(0) // loss resets the streak
	battle(50)

	profile, err := s.GetPlayerData(ctx, "alice", "")
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}
	if profile.BattleWins != 3 {
		t.Errorf("Expected 3 wins, got %d", profile.BattleWins)
	}
	if profile.BattleStreak != 1 {
		t.Errorf("Expected current streak 1, got %d", profile.BattleStreak)
	}
	if profile.BattleBestStreak != 2 {
		t.Errorf("Expected best streak 2, got %d", profile.BattleBestStreak)
	}
	if profile.TotalCoins != 15 {
		t.Errorf("Expected 5 coins per win, got %d total", profile.TotalCoins)
	}
}

func TestGetPlayerDataDefaultsAndNotFound(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	profile, err := s.GetPlayerData(ctx, "newcomer", "")
	if err != nil {
		t.Fatalf("First-time lookup failed: %v", err)
	}
	if len(profile.BestScores) != len(games.Modes()) {
		t.Errorf("Expected one best-score entry per mode, got %d", len(profile.BestScores))
	}
	for mode, score := range profile.BestScores {
		if score != 0 {
			t.Errorf("Fresh profile has non-zero best for %s: %d", mode, score)
		}
	}

	if _, err := s.GetPlayerData(ctx, "newcomer", "stranger"); !IsNotFound(err) {
		t.Errorf("Expected NotFound for an unknown target, got %v", err)
	}
}

func TestDisplayNameAndMinigameBests(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if err := s.CreateOrUpdatePlayerData(ctx, "alice", "Alice"); err != nil {
		t.Fatalf("Failed to set display name: %v", err)
	}
	if err := s.SaveMinigameScore(ctx, "alice", MinigamePuzzle, 900); err != nil {
		t.Fatalf("Failed to save puzzle score: %v", err)
	}
	if err := s.SaveMinigameScore(ctx, "alice", MinigamePuzzle, 700); err != nil {
		t.Fatalf("Failed to save lower puzzle score: %v", err)
	}
	if err := s.SaveMinigameScore(ctx, "alice", MinigameReaction, 4000); err != nil {
		t.Fatalf("Failed to save reaction score: %v", err)
	}
	if err := s.SaveMinigameScore(ctx, "alice", "dartGame", 10); !IsInvalidArgument(err) {
		t.Errorf("Expected InvalidArgument for unknown minigame, got %v", err)
	}

	profile, err := s.GetPlayerData(ctx, "alice", "")
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}
	if profile.DisplayName != "Alice" {
		t.Errorf("Display name lost: %q", profile.DisplayName)
	}
	if profile.PuzzleBest != 900 {
		t.Errorf("Lower score replaced the puzzle best: %d", profile.PuzzleBest)
	}
	if profile.ReactionBest != 4000 {
		t.Errorf("Reaction best lost: %d", profile.ReactionBest)
	}
}

func TestSaveGrids(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	layout := [][]games.StructureType{
		{games.StructureHouse, ""},
		{"", games.StructurePark},
	}
	if err := s.SaveCityLayout(ctx, "alice", layout); err != nil {
		t.Fatalf("Failed to save city layout: %v", err)
	}
	if err := s.SaveCityLayout(ctx, "alice", [][]games.StructureType{{"castle"}}); !IsInvalidArgument(err) {
		t.Errorf("Expected InvalidArgument for unknown structure, got %v", err)
	}

	plots := [][]games.CropType{{games.CropWheat, games.CropTomato}}
	if err := s.SaveFarmPlots(ctx, "alice", plots); err != nil {
		t.Fatalf("Failed to save farm plots: %v", err)
	}
	if err := s.SaveFarmPlots(ctx, "alice", [][]games.CropType{{"mango"}}); !IsInvalidArgument(err) {
		t.Errorf("Expected InvalidArgument for unknown crop, got %v", err)
	}

	profile, err := s.GetPlayerData(ctx, "alice", "")
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}
	var gotLayout [][]games.StructureType
	if err := json.Unmarshal([]byte(profile.CityLayoutJSON), &gotLayout); err != nil {
		t.Fatalf("Stored layout is not valid JSON: %v", err)
	}
	if gotLayout[0][0] != games.StructureHouse || gotLayout[1][1] != games.StructurePark {
		t.Errorf("Layout lost in round trip: %+v", gotLayout)
	}
	var gotPlots [][]games.CropType
	if err := json.Unmarshal([]byte(profile.FarmPlotsJSON), &gotPlots); err != nil {
		t.Fatalf("Stored plots are not valid JSON: %v", err)
	}
	if gotPlots[0][1] != games.CropTomato {
		t.Errorf("Plots lost in round trip: %+v", gotPlots)
	}
}

func TestRoleAssignmentIsAdminGated(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	role, err := s.GetUserRole(ctx, "alice")
	if err != nil {
		t.Fatalf("Failed to get role: %v", err)
	}
	if role != RoleUser {
		t.Errorf("Expected default role user, got %q", role)
	}
	role, _ = s.GetUserRole(ctx, "anonymous")
	if role != RoleGuest {
		t.Errorf("Expected guest role for anonymous, got %q", role)
	}

	if err := s.AssignUserRole(ctx, "alice", "bob", RoleAdmin); !IsForbidden(err) {
		t.Errorf("Expected Forbidden for non-admin, got %v", err)
	}

	if err := s.Bootstrap("root"); err != nil {
		t.Fatalf("Failed to bootstrap admin: %v", err)
	}
	if err := s.AssignUserRole(ctx, "root", "bob", RoleAdmin); err != nil {
		t.Fatalf("Admin failed to assign role: %v", err)
	}
	ok, err := s.IsAdmin(ctx, "bob")
	if err != nil {
		t.Fatalf("Failed to check admin: %v", err)
	}
	if !ok {
		t.Error("Assigned admin role not effective")
	}

	if err := s.AssignUserRole(ctx, "root", "bob", "king"); !IsInvalidArgument(err) {
		t.Errorf("Expected InvalidArgument for unknown role, got %v", err)
	}
	if err := s.AssignUserRole(ctx, "root", "anonymous", RoleUser); !IsInvalidArgument(err) {
		t.Errorf("Expected InvalidArgument assigning to anonymous, got %v", err)
	}
}

func TestCoinsFor(t *testing.T) {
	cases := []struct {
		mode  string
		score int64
		want  int64
	}{
		{"car", 31000, 0},
		{"cityBuilder", 120, 0},
		{"farming", 45, 45},
		{"endlessRun", 730, 73},
		{"battle", 50, 5},
		{"battle", 0, 0},
		{"indoor", 900, 9},
		{"unknown", 100, 0},
	}
	for _, tc := range cases {
		if got := CoinsFor(tc.mode, tc.score); got != tc.want {
			t.Errorf("CoinsFor(%s, %d) = %d, want %d", tc.mode, tc.score, got, tc.want)
		}
	}
}
