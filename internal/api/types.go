package api

import (
	"github.com/playforge/arcadehub/internal/games"
	"github.com/playforge/arcadehub/internal/store"
)

// ErrorResponse is the structured error envelope every failed request gets.
// The errorType field carries the hub error code so clients can match on it.
type ErrorResponse struct {
	Type      string `json:"errorType"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e ErrorResponse) Error() string {
	return e.Message
}

// VersionInfo contains hub version information
type VersionInfo struct {
	HubVersion string `json:"hub_version"`
	GitCommit  string `json:"git_commit,omitempty"`
	BuildTime  string `json:"build_time,omitempty"`
}

// TokenRequest asks for a bearer token naming a principal.
type TokenRequest struct {
	Principal string `json:"principal"`
}

// TokenResponse carries the minted bearer token.
type TokenResponse struct {
	Token     string `json:"token"`
	Principal string `json:"principal"`
}

// StartGameRequest opens a session in the given mode.
type StartGameRequest struct {
	Mode string `json:"mode"`
}

// UpdateGameRequest records the running score.
type UpdateGameRequest struct {
	Score int64 `json:"score"`
}

// SessionResponse echoes the session after a protocol step.
type SessionResponse struct {
	Session    *store.Session `json:"session"`
	HubVersion string         `json:"hub_version"`
}

// PlayerResponse carries a player profile.
type PlayerResponse struct {
	Profile    *store.Profile `json:"profile"`
	HubVersion string         `json:"hub_version"`
}

// UpdatePlayerRequest upserts profile fields owned by the player.
type UpdatePlayerRequest struct {
	DisplayName string `json:"display_name"`
}

// MinigameScoreRequest raises one of the minigame bests.
type MinigameScoreRequest struct {
	Minigame string `json:"minigame"`
	Score    int64  `json:"score"`
}

// CityLayoutRequest persists the city grid.
type CityLayoutRequest struct {
	Layout [][]games.StructureType `json:"layout"`
}

// FarmPlotsRequest persists the farm grid.
type FarmPlotsRequest struct {
	Plots [][]games.CropType `json:"plots"`
}

// GlobalStateResponse carries the hub-wide last-game snapshot; the state is
// null until any game has finished.
type GlobalStateResponse struct {
	State      *store.GlobalState `json:"state"`
	HubVersion string             `json:"hub_version"`
}

// LeaderboardResponse carries a ranked board for one mode.
type LeaderboardResponse struct {
	Mode       string                 `json:"mode"`
	Entries    []store.LeaderboardRow `json:"entries"`
	HubVersion string                 `json:"hub_version"`
}

// GamesResponse lists the registered game engines.
type GamesResponse struct {
	Games      []games.EngineSpec `json:"games"`
	HubVersion string             `json:"hub_version"`
}

// RoleResponse carries a principal's role.
type RoleResponse struct {
	Principal string `json:"principal"`
	Role      string `json:"role"`
}

// AssignRoleRequest sets a role on a target principal. Admin only.
type AssignRoleRequest struct {
	Target string `json:"target"`
	Role   string `json:"role"`
}
