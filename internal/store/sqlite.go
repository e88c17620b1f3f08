package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements the DB interface using SQLite
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Ping checks database connectivity
func (s *SQLiteDB) Ping() error {
	return s.db.Ping()
}

// Migrate runs database migrations
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			principal TEXT PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT '',
			total_coins INTEGER NOT NULL DEFAULT 0,
			best_time INTEGER,
			battle_wins INTEGER NOT NULL DEFAULT 0,
			battle_streak INTEGER NOT NULL DEFAULT 0,
			battle_best_streak INTEGER NOT NULL DEFAULT 0,
			puzzle_best INTEGER NOT NULL DEFAULT 0,
			reaction_best INTEGER NOT NULL DEFAULT 0,
			city_layout TEXT NOT NULL DEFAULT '',
			farm_plots TEXT NOT NULL DEFAULT '',
			last_played DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS best_scores (
			principal TEXT NOT NULL,
			mode TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (principal, mode),
			FOREIGN KEY (principal) REFERENCES profiles(principal)
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			principal TEXT PRIMARY KEY,
			id TEXT NOT NULL,
			mode TEXT NOT NULL,
			state TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			coins_earned INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			principal TEXT NOT NULL,
			mode TEXT NOT NULL,
			score INTEGER NOT NULL,
			achieved_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS roles (
			principal TEXT PRIMARY KEY,
			role TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS global_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			mode TEXT NOT NULL,
			state TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			coins_earned INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_mode_score ON scores(mode, score DESC, achieved_at ASC)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_principal ON scores(principal)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// GetProfile retrieves a profile with its best-score entries
func (s *SQLiteDB) GetProfile(principal string) (*Profile, error) {
	query := `SELECT principal, display_name, total_coins, best_time,
		battle_wins, battle_streak, battle_best_streak,
		puzzle_best, reaction_best, city_layout, farm_plots, last_played
		FROM profiles WHERE principal = ?`

	var p Profile
	var bestTime sql.NullInt64

	err := s.db.QueryRow(query, principal).Scan(
		&p.Principal, &p.DisplayName, &p.TotalCoins, &bestTime,
		&p.BattleWins, &p.BattleStreak, &p.BattleBestStreak,
		&p.PuzzleBest, &p.ReactionBest, &p.CityLayoutJSON, &p.FarmPlotsJSON,
		&p.LastPlayed,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if bestTime.Valid {
		p.BestTime = &bestTime.Int64
	}

	p.BestScores = make(map[string]int64)
	rows, err := s.db.Query(`SELECT mode, score FROM best_scores WHERE principal = ?`, principal)
	if err != nil {
		return nil, fmt.Errorf("failed to get best scores: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var mode string
		var score int64
		if err := rows.Scan(&mode, &score); err != nil {
			return nil, fmt.Errorf("failed to scan best score: %w", err)
		}
		p.BestScores[mode] = score
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating best scores: %w", err)
	}

	return &p, nil
}

// PutProfile upserts a profile and rewrites its best-score entries
func (s *SQLiteDB) PutProfile(p *Profile) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO profiles (
			principal, display_name, total_coins, best_time,
			battle_wins, battle_streak, battle_best_streak,
			puzzle_best, reaction_best, city_layout, farm_plots, last_played
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(principal) DO UPDATE SET
			display_name = excluded.display_name,
			total_coins = excluded.total_coins,
			best_time = excluded.best_time,
			battle_wins = excluded.battle_wins,
			battle_streak = excluded.battle_streak,
			battle_best_streak = excluded.battle_best_streak,
			puzzle_best = excluded.puzzle_best,
			reaction_best = excluded.reaction_best,
			city_layout = excluded.city_layout,
			farm_plots = excluded.farm_plots,
			last_played = excluded.last_played`

	var bestTime sql.NullInt64
	if p.BestTime != nil {
		bestTime = sql.NullInt64{Int64: *p.BestTime, Valid: true}
	}

	if _, err := tx.Exec(query,
		p.Principal, p.DisplayName, p.TotalCoins, bestTime,
		p.BattleWins, p.BattleStreak, p.BattleBestStreak,
		p.PuzzleBest, p.ReactionBest, p.CityLayoutJSON, p.FarmPlotsJSON,
		p.LastPlayed,
	); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM best_scores WHERE principal = ?`, p.Principal); err != nil {
		return fmt.Errorf("failed to clear best scores: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO best_scores (principal, mode, score) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for mode, score := range p.BestScores {
		if _, err := stmt.Exec(p.Principal, mode, score); err != nil {
			return fmt.Errorf("failed to insert best score: %w", err)
		}
	}

	return tx.Commit()
}

// UpsertSession opens a session, superseding any prior open session for the
// same principal
func (s *SQLiteDB) UpsertSession(sess *Session) error {
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}

	query := `INSERT INTO sessions (principal, id, mode, state, score, coins_earned, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(principal) DO UPDATE SET
			id = excluded.id,
			mode = excluded.mode,
			state = excluded.state,
			score = excluded.score,
			coins_earned = excluded.coins_earned,
			started_at = excluded.started_at`

	_, err := s.db.Exec(query,
		sess.Principal, sess.ID, sess.Mode, sess.State,
		sess.Score, sess.CoinsEarned, sess.StartedAt,
	)
	return err
}

// GetSession retrieves the open session for a principal
func (s *SQLiteDB) GetSession(principal string) (*Session, error) {
	query := `SELECT principal, id, mode, state, score, coins_earned, started_at
		FROM sessions WHERE principal = ?`

	var sess Session
	err := s.db.QueryRow(query, principal).Scan(
		&sess.Principal, &sess.ID, &sess.Mode, &sess.State,
		&sess.Score, &sess.CoinsEarned, &sess.StartedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &sess, nil
}

// UpdateSessionScore records the current score against the open session and
// marks it running
func (s *SQLiteDB) UpdateSessionScore(principal string, score int64) error {
	res, err := s.db.Exec(
		`UPDATE sessions SET score = ?, state = 'running' WHERE principal = ?`,
		score, principal,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSession removes the open session for a principal
func (s *SQLiteDB) DeleteSession(principal string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE principal = ?`, principal)
	return err
}

// CountSessions returns the number of open sessions
func (s *SQLiteDB) CountSessions() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}

// AppendScore appends one finished game's result to the score history
func (s *SQLiteDB) AppendScore(e *ScoreEntry) error {
	res, err := s.db.Exec(
		`INSERT INTO scores (principal, mode, score, achieved_at) VALUES (?, ?, ?, ?)`,
		e.Principal, e.Mode, e.Score, e.AchievedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append score: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		e.ID = id
	}
	return nil
}

// Leaderboard returns the ranked best result per principal for a mode. Ties
// break on the earliest achievement.
func (s *SQLiteDB) Leaderboard(q LeaderboardQuery) ([]LeaderboardRow, error) {
	if q.Limit <= 0 {
		q.Limit = 10 // Default board size
	}

	cmp := ">"
	order := "s.score DESC"
	if q.Ascending {
		cmp = "<"
		order = "s.score ASC"
	}

	// One row per principal: the history row that no other row of the same
	// principal beats (better score, or the same score achieved earlier).
	// Dedup and limit both run in SQL so a long history never gets scanned
	// into Go for a small board.
	query := `SELECT s.principal, p.display_name, s.score, s.achieved_at
		FROM scores s
		LEFT JOIN profiles p ON p.principal = s.principal
		WHERE s.mode = ? AND NOT EXISTS (
			SELECT 1 FROM scores b
			WHERE b.mode = s.mode AND b.principal = s.principal AND (
				b.score ` + cmp + ` s.score
				OR (b.score = s.score AND b.achieved_at < s.achieved_at)
				OR (b.score = s.score AND b.achieved_at = s.achieved_at AND b.id < s.id)
			)
		)
		ORDER BY ` + order + `, s.achieved_at ASC
		LIMIT ?`

	rows, err := s.db.Query(query, q.Mode, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var board []LeaderboardRow
	for rows.Next() {
		var row LeaderboardRow
		var displayName sql.NullString
		if err := rows.Scan(&row.Principal, &displayName, &row.Score, &row.AchievedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		if displayName.Valid {
			row.DisplayName = displayName.String
		}
		row.Rank = len(board) + 1
		board = append(board, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}

	return board, nil
}

// GetRole retrieves the stored role for a principal
func (s *SQLiteDB) GetRole(principal string) (string, error) {
	var role string
	err := s.db.QueryRow(`SELECT role FROM roles WHERE principal = ?`, principal).Scan(&role)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

// SetRole assigns a role to a principal
func (s *SQLiteDB) SetRole(principal, role string) error {
	_, err := s.db.Exec(
		`INSERT INTO roles (principal, role) VALUES (?, ?)
		ON CONFLICT(principal) DO UPDATE SET role = excluded.role`,
		principal, role,
	)
	return err
}

// SetGlobalState stores the hub-wide last-game snapshot
func (s *SQLiteDB) SetGlobalState(g *GlobalState) error {
	_, err := s.db.Exec(
		`INSERT INTO global_state (id, mode, state, score, coins_earned)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			mode = excluded.mode,
			state = excluded.state,
			score = excluded.score,
			coins_earned = excluded.coins_earned`,
		g.Mode, g.State, g.Score, g.CoinsEarned,
	)
	return err
}

// GetGlobalState retrieves the hub-wide snapshot; ErrNotFound until any game
// has finished
func (s *SQLiteDB) GetGlobalState() (*GlobalState, error) {
	var g GlobalState
	err := s.db.QueryRow(
		`SELECT mode, state, score, coins_earned FROM global_state WHERE id = 1`,
	).Scan(&g.Mode, &g.State, &g.Score, &g.CoinsEarned)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get global state: %w", err)
	}
	return &g, nil
}
