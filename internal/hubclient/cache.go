package hubclient

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/playforge/arcadehub/internal/auth"
	"github.com/playforge/arcadehub/internal/games"
	"github.com/playforge/arcadehub/internal/store"
)

// ProfileCache is a read-through cache over the client's profile fetches,
// keyed by principal. Concurrent misses for the same principal coalesce into
// one network call. Anonymous lookups resolve to the empty profile without
// touching the network.
type ProfileCache struct {
	client *Client

	mu      sync.RWMutex
	entries map[string]*store.Profile
	group   singleflight.Group
}

// NewProfileCache creates a cache in front of client.
func NewProfileCache(client *Client) *ProfileCache {
	return &ProfileCache{
		client:  client,
		entries: make(map[string]*store.Profile),
	}
}

// EmptyProfile is the sentinel every anonymous lookup resolves to.
func EmptyProfile() *store.Profile {
	best := make(map[string]int64, len(games.Modes()))
	for _, mode := range games.Modes() {
		best[string(mode)] = 0
	}
	return &store.Profile{Principal: auth.Anonymous, BestScores: best}
}

// Get returns the profile for a principal. An empty principal resolves to the
// client's own identity.
func (pc *ProfileCache) Get(ctx context.Context, principal string) (*store.Profile, error) {
	if principal == "" {
		principal = pc.client.Principal()
	}
	if auth.IsAnonymous(principal) {
		return EmptyProfile(), nil
	}

	pc.mu.RLock()
	cached, ok := pc.entries[principal]
	pc.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := pc.group.Do(principal, func() (any, error) {
		target := principal
		if target == pc.client.Principal() {
			target = ""
		}
		// The fill is shared with coalesced callers, so it must not die
		// with the first caller's context.
		profile, err := pc.client.GetPlayerData(context.WithoutCancel(ctx), target)
		if err != nil {
			return nil, err
		}
		pc.mu.Lock()
		pc.entries[principal] = profile
		pc.mu.Unlock()
		return profile, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*store.Profile), nil
}

// Invalidate drops a principal's cached profile so the next Get refetches.
func (pc *ProfileCache) Invalidate(principal string) {
	if principal == "" {
		principal = pc.client.Principal()
	}
	pc.mu.Lock()
	delete(pc.entries, principal)
	pc.mu.Unlock()
}

// InvalidateAll drops every cached profile.
func (pc *ProfileCache) InvalidateAll() {
	pc.mu.Lock()
	pc.entries = make(map[string]*store.Profile)
	pc.mu.Unlock()
}

// SaveScore runs the client's save sequence and invalidates the saver's
// cached profile on success, so the next read sees the merged result.
func (pc *ProfileCache) SaveScore(ctx context.Context, mode string, score int64) error {
	if err := pc.client.SaveScore(ctx, mode, score); err != nil {
		return err
	}
	pc.Invalidate(pc.client.Principal())
	return nil
}
