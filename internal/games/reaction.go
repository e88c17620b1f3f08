package games

import (
	"math/rand"
	"time"
)

const reactionRounds = 5

// Reaction is the tap-when-green reaction game: five rounds, each awarding
// max(0, 1000 - reactionMs) points. Pressing before the cue ends the game.
// Time advances only through Tick, so a replayed game is deterministic.
// Best scores are saved under the indoor mode tag.
type Reaction struct {
	rng       *rand.Rand
	round     int
	score     int64
	armed     bool          // cue shown, waiting for the press
	delay     time.Duration // time until the cue in the current round
	sinceArm  time.Duration // time since the cue appeared
	sinceWait time.Duration // time since the round started
}

func NewReaction() *Reaction { return &Reaction{} }

func (g *Reaction) Spec() EngineSpec {
	return EngineSpec{ID: "reaction", Name: "Reaction", Mode: ModeIndoor, TimeDriven: true}
}

func (g *Reaction) Reset(seed int64) {
	g.rng = rand.New(rand.NewSource(seed))
	g.round = 0
	g.score = 0
	g.startRound()
}

// startRound arms a fresh cue delay between 1s and 4s.
func (g *Reaction) startRound() {
	g.armed = false
	g.delay = time.Duration(g.rng.Float64()*3000+1000) * time.Millisecond
	g.sinceArm = 0
	g.sinceWait = 0
}

func (g *Reaction) Tick(dt time.Duration) (Outcome, bool) {
	if g.armed {
		g.sinceArm += dt
		return "", false
	}
	g.sinceWait += dt
	if g.sinceWait >= g.delay {
		g.armed = true
		g.sinceArm = g.sinceWait - g.delay
	}
	return "", false
}

// Apply handles a press. An early press (before the cue) ends the game with
// the points collected so far.
func (g *Reaction) Apply(in Input) (Outcome, bool) {
	if in.Name != "press" {
		return "", false
	}
	if !g.armed {
		return OutcomeGameOver, true
	}

	reactionMs := int64(g.sinceArm / time.Millisecond)
	points := int64(1000) - reactionMs
	if points < 0 {
		points = 0
	}
	g.score += points

	g.round++
	if g.round >= reactionRounds {
		return OutcomeComplete, true
	}
	g.startRound()
	return "", false
}

func (g *Reaction) Score() (int64, int64) {
	return g.score, CoinsFor(ModeIndoor, g.score)
}

// Round returns the current round index (0-based).
func (g *Reaction) Round() int { return g.round }

// Armed reports whether the cue is showing.
func (g *Reaction) Armed() bool { return g.armed }
