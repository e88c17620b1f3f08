package hubclient

import (
	"context"
	"sync"

	"github.com/playforge/arcadehub/internal/auth"
)

// PendingAction is something the player tried to do before signing in. It is
// a closed set: either a navigation or a score save.
type PendingAction interface {
	pendingAction()
}

// NavigateAction is a deferred route change.
type NavigateAction struct {
	Route string
}

func (NavigateAction) pendingAction() {}

// SaveScoreAction is a deferred score save.
type SaveScoreAction struct {
	Mode  string
	Score int64
}

func (SaveScoreAction) pendingAction() {}

// SignInGate holds the current identity and defers actions taken while
// anonymous. After CompleteSignIn every queued action runs in order; both
// navigations and score saves resume.
type SignInGate struct {
	navigate func(route string)
	save     func(ctx context.Context, mode string, score int64) error

	mu        sync.Mutex
	principal string
	pending   []PendingAction
}

// NewSignInGate creates a gate dispatching to the given handlers. The save
// handler is typically ProfileCache.SaveScore.
func NewSignInGate(navigate func(route string), save func(ctx context.Context, mode string, score int64) error) *SignInGate {
	return &SignInGate{
		navigate:  navigate,
		save:      save,
		principal: auth.Anonymous,
	}
}

// Principal returns the current identity, the anonymous sentinel before
// sign-in.
func (g *SignInGate) Principal() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.principal
}

// SignedIn reports whether an identity is present.
func (g *SignInGate) SignedIn() bool {
	return !auth.IsAnonymous(g.Principal())
}

// Require runs the action now when signed in, or queues it for after
// sign-in. It reports whether the action ran immediately.
func (g *SignInGate) Require(ctx context.Context, action PendingAction) (bool, error) {
	g.mu.Lock()
	if auth.IsAnonymous(g.principal) {
		g.pending = append(g.pending, action)
		g.mu.Unlock()
		return false, nil
	}
	g.mu.Unlock()
	return true, g.dispatch(ctx, action)
}

// CompleteSignIn installs the identity and resumes every pending action in
// the order it was queued. The first dispatch error stops the drain; the
// remaining actions stay queued.
func (g *SignInGate) CompleteSignIn(ctx context.Context, principal string) error {
	if auth.IsAnonymous(principal) {
		return nil
	}

	g.mu.Lock()
	g.principal = principal
	queued := g.pending
	g.pending = nil
	g.mu.Unlock()

	for i, action := range queued {
		if err := g.dispatch(ctx, action); err != nil {
			g.mu.Lock()
			g.pending = append(queued[i+1:], g.pending...)
			g.mu.Unlock()
			return err
		}
	}
	return nil
}

// SignOut clears the identity. Pending actions are kept.
func (g *SignInGate) SignOut() {
	g.mu.Lock()
	g.principal = auth.Anonymous
	g.mu.Unlock()
}

// Pending returns a snapshot of the queued actions.
func (g *SignInGate) Pending() []PendingAction {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]PendingAction, len(g.pending))
	copy(out, g.pending)
	return out
}

func (g *SignInGate) dispatch(ctx context.Context, action PendingAction) error {
	switch a := action.(type) {
	case NavigateAction:
		if g.navigate != nil {
			g.navigate(a.Route)
		}
		return nil
	case SaveScoreAction:
		if g.save == nil {
			return nil
		}
		return g.save(ctx, a.Mode, a.Score)
	default:
		return nil
	}
}
