package games

import (
	"math/rand"
	"time"
)

// EndlessRun is the tick-driven runner: obstacles scroll toward the player,
// jumping avoids them, one collision ends the game. Score is ticks survived;
// coins are score/10.
type EndlessRun struct {
	rng       *rand.Rand
	obstacles []int // distance from the right edge, 100 -> 0
	height    int   // player height above ground; 0 = grounded
	score     int64
}

const (
	runSpawnChance   = 0.02
	runObstacleSpeed = 2
	runJumpHeight    = 30
	runFallPerTick   = 5
	// Collision window: an obstacle between these distances hits a grounded
	// or low player.
	runHitNear = 8
	runHitFar  = 18
	runHitLow  = 10
)

func NewEndlessRun() *EndlessRun { return &EndlessRun{} }

func (g *EndlessRun) Spec() EngineSpec {
	return EngineSpec{ID: "endless-run", Name: "Endless Run", Mode: ModeEndlessRun, TimeDriven: true}
}

func (g *EndlessRun) Reset(seed int64) {
	g.rng = rand.New(rand.NewSource(seed))
	g.obstacles = g.obstacles[:0]
	g.height = 0
	g.score = 0
}

// Apply handles a jump. Jumping while airborne is ignored.
func (g *EndlessRun) Apply(in Input) (Outcome, bool) {
	if in.Name == "jump" && g.height == 0 {
		g.height = runJumpHeight
	}
	return "", false
}

func (g *EndlessRun) Tick(time.Duration) (Outcome, bool) {
	// Gravity.
	if g.height > 0 {
		g.height -= runFallPerTick
		if g.height < 0 {
			g.height = 0
		}
	}

	// Advance and cull obstacles.
	kept := g.obstacles[:0]
	for _, d := range g.obstacles {
		d -= runObstacleSpeed
		if d > 0 {
			kept = append(kept, d)
		}
	}
	g.obstacles = kept

	if g.rng.Float64() < runSpawnChance {
		g.obstacles = append(g.obstacles, 100)
	}

	g.score++

	for _, d := range g.obstacles {
		if d > runHitNear && d < runHitFar && g.height < runHitLow {
			return OutcomeGameOver, true
		}
	}
	return "", false
}

func (g *EndlessRun) Score() (int64, int64) {
	return g.score, CoinsFor(ModeEndlessRun, g.score)
}

// Obstacles returns the live obstacle distances.
func (g *EndlessRun) Obstacles() []int {
	out := make([]int, len(g.obstacles))
	copy(out, g.obstacles)
	return out
}

// Height returns the player height above ground.
func (g *EndlessRun) Height() int { return g.height }
