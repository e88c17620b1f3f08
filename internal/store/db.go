package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// DB represents the database interface
type DB interface {
	Close() error
	Migrate() error
	Ping() error

	GetProfile(principal string) (*Profile, error)
	PutProfile(p *Profile) error

	UpsertSession(s *Session) error
	GetSession(principal string) (*Session, error)
	UpdateSessionScore(principal string, score int64) error
	DeleteSession(principal string) error
	CountSessions() (int, error)

	AppendScore(e *ScoreEntry) error
	Leaderboard(q LeaderboardQuery) ([]LeaderboardRow, error)

	GetRole(principal string) (string, error)
	SetRole(principal, role string) error

	SetGlobalState(g *GlobalState) error
	GetGlobalState() (*GlobalState, error)
}

// Profile is the persisted player profile. Best scores hold exactly one entry
// per known game mode; grid payloads are stored as JSON documents.
type Profile struct {
	Principal        string           `json:"principal" db:"principal"`
	DisplayName      string           `json:"display_name" db:"display_name"`
	TotalCoins       int64            `json:"total_coins" db:"total_coins"`
	BestScores       map[string]int64 `json:"best_scores"`
	BestTime         *int64           `json:"best_time,omitempty" db:"best_time"` // car mode, milliseconds
	BattleWins       int64            `json:"battle_wins" db:"battle_wins"`
	BattleStreak     int64            `json:"battle_streak" db:"battle_streak"`
	BattleBestStreak int64            `json:"battle_best_streak" db:"battle_best_streak"`
	PuzzleBest       int64            `json:"puzzle_best" db:"puzzle_best"`
	ReactionBest     int64            `json:"reaction_best" db:"reaction_best"`
	CityLayoutJSON   string           `json:"city_layout,omitempty" db:"city_layout"`
	FarmPlotsJSON    string           `json:"farm_plots,omitempty" db:"farm_plots"`
	LastPlayed       time.Time        `json:"last_played" db:"last_played"`
}

// Session is an open game session. At most one exists per principal; a new
// start supersedes the old row.
type Session struct {
	ID          string    `json:"id" db:"id"`
	Principal   string    `json:"principal" db:"principal"`
	Mode        string    `json:"mode" db:"mode"`
	State       string    `json:"state" db:"state"` // start, running, gameOver
	Score       int64     `json:"score" db:"score"`
	CoinsEarned int64     `json:"coins_earned" db:"coins_earned"`
	StartedAt   time.Time `json:"started_at" db:"started_at"`
}

// ScoreEntry is one finished game's result, appended on every end-of-game.
// The leaderboard is derived from this history.
type ScoreEntry struct {
	ID         int64     `json:"id" db:"id"`
	Principal  string    `json:"principal" db:"principal"`
	Mode       string    `json:"mode" db:"mode"`
	Score      int64     `json:"score" db:"score"`
	AchievedAt time.Time `json:"achieved_at" db:"achieved_at"`
}

// LeaderboardQuery selects a ranked slice of score history.
type LeaderboardQuery struct {
	Mode      string `json:"mode"`
	Ascending bool   `json:"ascending"` // time-ranked modes sort low-to-high
	Limit     int    `json:"limit"`
}

// LeaderboardRow is one ranked leaderboard entry.
type LeaderboardRow struct {
	Rank        int       `json:"rank"`
	Principal   string    `json:"principal"`
	DisplayName string    `json:"display_name,omitempty"`
	Score       int64     `json:"score"`
	AchievedAt  time.Time `json:"achieved_at"`
}

// GlobalState is the hub-wide snapshot of the most recently finished game.
type GlobalState struct {
	Mode        string `json:"mode" db:"mode"`
	State       string `json:"state" db:"state"`
	Score       int64  `json:"score" db:"score"`
	CoinsEarned int64  `json:"coins_earned" db:"coins_earned"`
}
