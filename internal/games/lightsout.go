package games

import (
	"math/rand"
	"time"
)

const lightsOutSize = 5

// LightsOut is the 5×5 lights-out puzzle: pressing a cell toggles it and its
// orthogonal neighbors, and the game is won when every light is off. The
// board is scrambled by random presses from the solved state, so it is always
// solvable. Best scores are saved under the battle mode tag.
type LightsOut struct {
	grid  [lightsOutSize * lightsOutSize]bool
	moves int
}

func NewLightsOut() *LightsOut { return &LightsOut{} }

func (g *LightsOut) Spec() EngineSpec {
	return EngineSpec{ID: "lights-out", Name: "Lights Out", Mode: ModeBattle}
}

func (g *LightsOut) Reset(seed int64) {
	for i := range g.grid {
		g.grid[i] = false
	}
	g.moves = 0

	rng := rand.New(rand.NewSource(seed))
	presses := rng.Intn(5) + 3
	for i := 0; i < presses; i++ {
		g.toggle(rng.Intn(len(g.grid)))
	}
	// A degenerate scramble can land back on the solved board; nudge once.
	if g.solved() {
		g.toggle(rng.Intn(len(g.grid)))
	}
}

// toggle flips the cell at idx and its orthogonal neighbors.
func (g *LightsOut) toggle(idx int) {
	row, col := idx/lightsOutSize, idx%lightsOutSize
	g.grid[idx] = !g.grid[idx]
	if row > 0 {
		g.grid[idx-lightsOutSize] = !g.grid[idx-lightsOutSize]
	}
	if row < lightsOutSize-1 {
		g.grid[idx+lightsOutSize] = !g.grid[idx+lightsOutSize]
	}
	if col > 0 {
		g.grid[idx-1] = !g.grid[idx-1]
	}
	if col < lightsOutSize-1 {
		g.grid[idx+1] = !g.grid[idx+1]
	}
}

func (g *LightsOut) solved() bool {
	for _, lit := range g.grid {
		if lit {
			return false
		}
	}
	return true
}

func (g *LightsOut) Apply(in Input) (Outcome, bool) {
	if in.X < 0 || in.X >= len(g.grid) {
		return "", false
	}
	g.toggle(in.X)
	g.moves++
	if g.solved() {
		return OutcomeWon, true
	}
	return "", false
}

func (g *LightsOut) Tick(time.Duration) (Outcome, bool) { return "", false }

func (g *LightsOut) Score() (int64, int64) {
	score := int64(1200 - g.moves*15)
	if score < 200 {
		score = 200
	}
	return score, CoinsFor(ModeBattle, score)
}

// Lit reports whether the cell at idx is lit.
func (g *LightsOut) Lit(idx int) bool { return g.grid[idx] }

// LitCount returns the number of lit cells.
func (g *LightsOut) LitCount() int {
	n := 0
	for _, lit := range g.grid {
		if lit {
			n++
		}
	}
	return n
}

// Moves returns the press count so far.
func (g *LightsOut) Moves() int { return g.moves }
