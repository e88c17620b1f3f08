// Package hubclient provides a Go client for the arcade hub API.
//
// The client carries the browser-side concerns of the hub protocol: the
// sequential start/update/end save sequence, a read-through profile cache,
// and the sign-in gate that defers actions until an identity exists.
//
// # Usage
//
//	client := hubclient.New(hubclient.Config{
//	    BaseURL:   "http://localhost:8080",
//	    Principal: "alice",
//	    Token:     token,
//	})
//
//	err := client.SaveScore(ctx, "farming", 120)
package hubclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/playforge/arcadehub/internal/games"
	"github.com/playforge/arcadehub/internal/hub"
	"github.com/playforge/arcadehub/internal/store"
)

// Config holds configuration for the hub API client.
type Config struct {
	// BaseURL is the hub service root, e.g. "http://localhost:8080".
	BaseURL string

	// Principal is the identity this client acts as. Leave empty for an
	// anonymous, read-only client.
	Principal string

	// Token is the bearer token for Principal. Required for write calls.
	Token string

	// HTTPClient allows injecting a custom HTTP client (useful for testing).
	// Defaults to a client with 15s timeout.
	HTTPClient *http.Client
}

// Client is an arcade hub API client.
type Client struct {
	config Config
	http   *http.Client
	mu     sync.RWMutex
}

// New creates a hub API client with the given configuration.
func New(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{config: cfg, http: httpClient}
}

// Principal returns the identity this client acts as (thread-safe).
func (c *Client) Principal() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.Principal
}

// SetIdentity updates the principal and token after a sign-in (thread-safe).
func (c *Client) SetIdentity(principal, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.Principal = principal
	c.config.Token = token
}

// errorEnvelope mirrors the hub's HTTP error body.
type errorEnvelope struct {
	Type    string `json:"errorType"`
	Message string `json:"message"`
}

// do issues a JSON request and decodes the response, translating the error
// envelope back into hub errors so callers can use the Is* helpers.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("hubclient: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("hubclient: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	token := c.config.Token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("hubclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("hubclient: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var env errorEnvelope
		if jsonErr := json.Unmarshal(raw, &env); jsonErr == nil && env.Type != "" {
			return &hub.Error{Code: env.Type, Message: env.Message}
		}
		return fmt.Errorf("hubclient: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("hubclient: decode response: %w", err)
	}
	return nil
}

// sessionEnvelope mirrors the session responses of the protocol endpoints.
type sessionEnvelope struct {
	Session *store.Session `json:"session"`
}

// StartGame opens a session in the given mode.
func (c *Client) StartGame(ctx context.Context, mode string) (*store.Session, error) {
	var out sessionEnvelope
	err := c.do(ctx, http.MethodPost, "/api/v1/game/start", map[string]string{"mode": mode}, &out)
	if err != nil {
		return nil, err
	}
	return out.Session, nil
}

// UpdateGame records the running score against the open session.
func (c *Client) UpdateGame(ctx context.Context, score int64) (*store.Session, error) {
	var out sessionEnvelope
	err := c.do(ctx, http.MethodPost, "/api/v1/game/update", map[string]int64{"score": score}, &out)
	if err != nil {
		return nil, err
	}
	return out.Session, nil
}

// EndGame closes the open session and merges it into the profile.
func (c *Client) EndGame(ctx context.Context) (*store.Session, error) {
	var out sessionEnvelope
	err := c.do(ctx, http.MethodPost, "/api/v1/game/end", nil, &out)
	if err != nil {
		return nil, err
	}
	return out.Session, nil
}

// SaveScore runs the save protocol for one finished game: start, then update
// with the final score, then end. The three calls are strictly sequential.
func (c *Client) SaveScore(ctx context.Context, mode string, score int64) error {
	if _, err := c.StartGame(ctx, mode); err != nil {
		return err
	}
	if _, err := c.UpdateGame(ctx, score); err != nil {
		return err
	}
	if _, err := c.EndGame(ctx); err != nil {
		return err
	}
	return nil
}

// playerEnvelope mirrors the profile responses.
type playerEnvelope struct {
	Profile *store.Profile `json:"profile"`
}

// GetPlayerData fetches a profile. An empty target means the client's own.
func (c *Client) GetPlayerData(ctx context.Context, target string) (*store.Profile, error) {
	path := "/api/v1/player"
	if target != "" {
		path += "/" + target
	}
	var out playerEnvelope
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Profile, nil
}

// UpdatePlayerData upserts the client's own profile fields.
func (c *Client) UpdatePlayerData(ctx context.Context, displayName string) (*store.Profile, error) {
	var out playerEnvelope
	err := c.do(ctx, http.MethodPost, "/api/v1/player", map[string]string{"display_name": displayName}, &out)
	if err != nil {
		return nil, err
	}
	return out.Profile, nil
}

// SaveMinigameScore raises one of the minigame bests.
func (c *Client) SaveMinigameScore(ctx context.Context, minigame string, score int64) error {
	return c.do(ctx, http.MethodPost, "/api/v1/player/minigame", map[string]any{
		"minigame": minigame,
		"score":    score,
	}, nil)
}

// SaveCityLayout persists the city grid.
func (c *Client) SaveCityLayout(ctx context.Context, layout [][]games.StructureType) error {
	return c.do(ctx, http.MethodPut, "/api/v1/player/city", map[string]any{"layout": layout}, nil)
}

// SaveFarmPlots persists the farm grid.
func (c *Client) SaveFarmPlots(ctx context.Context, plots [][]games.CropType) error {
	return c.do(ctx, http.MethodPut, "/api/v1/player/farm", map[string]any{"plots": plots}, nil)
}

// GetGlobalGameState fetches the hub-wide last-game snapshot; nil before any
// game has finished.
func (c *Client) GetGlobalGameState(ctx context.Context) (*store.GlobalState, error) {
	var out struct {
		State *store.GlobalState `json:"state"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/state", nil, &out); err != nil {
		return nil, err
	}
	return out.State, nil
}

// GetLeaderboard fetches the ranked board for a mode.
func (c *Client) GetLeaderboard(ctx context.Context, mode string, limit int) ([]store.LeaderboardRow, error) {
	path := fmt.Sprintf("/api/v1/leaderboard/%s?limit=%d", mode, limit)
	var out struct {
		Entries []store.LeaderboardRow `json:"entries"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

// GetUserRole fetches a principal's role.
func (c *Client) GetUserRole(ctx context.Context, principal string) (string, error) {
	var out struct {
		Role string `json:"role"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/roles/"+principal, nil, &out); err != nil {
		return "", err
	}
	return out.Role, nil
}

// AssignUserRole sets a role on a target principal. Admin only.
func (c *Client) AssignUserRole(ctx context.Context, target, role string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/roles", map[string]string{
		"target": target,
		"role":   role,
	}, nil)
}
