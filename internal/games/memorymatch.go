package games

import (
	"math/rand"
	"time"
)

const memoryPairs = 8

// MemoryMatch is the pair-matching card game: 16 face-down cards holding 8
// pairs. A move is one completed two-card comparison, never a single flip.
// Best scores are saved under the cityBuilder mode tag.
type MemoryMatch struct {
	cards   []int
	matched []bool
	first   int // index of the face-up card awaiting its pair, -1 if none
	moves   int
	found   int
}

func NewMemoryMatch() *MemoryMatch { return &MemoryMatch{} }

func (g *MemoryMatch) Spec() EngineSpec {
	return EngineSpec{ID: "memory-match", Name: "Memory Match", Mode: ModeCityBuilder}
}

func (g *MemoryMatch) Reset(seed int64) {
	g.cards = make([]int, memoryPairs*2)
	for i := range g.cards {
		g.cards[i] = i / 2
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(g.cards), func(i, j int) {
		g.cards[i], g.cards[j] = g.cards[j], g.cards[i]
	})
	g.matched = make([]bool, len(g.cards))
	g.first = -1
	g.moves = 0
	g.found = 0
}

// Apply flips the card at flat index in.X. Flipping a matched card, or the
// card already face up, does nothing.
func (g *MemoryMatch) Apply(in Input) (Outcome, bool) {
	idx := in.X
	if idx < 0 || idx >= len(g.cards) || g.matched[idx] || idx == g.first {
		return "", false
	}
	if g.first < 0 {
		g.first = idx
		return "", false
	}

	// Second flip completes a comparison.
	g.moves++
	if g.cards[g.first] == g.cards[idx] {
		g.matched[g.first] = true
		g.matched[idx] = true
		g.found++
	}
	g.first = -1

	if g.found == memoryPairs {
		return OutcomeWon, true
	}
	return "", false
}

func (g *MemoryMatch) Tick(time.Duration) (Outcome, bool) { return "", false }

func (g *MemoryMatch) Score() (int64, int64) {
	score := int64(2000 - g.moves*20)
	if score < 200 {
		score = 200
	}
	return score, CoinsFor(ModeCityBuilder, score)
}

// Moves returns the number of completed comparisons.
func (g *MemoryMatch) Moves() int { return g.moves }

// FoundPairs returns how many pairs have been matched.
func (g *MemoryMatch) FoundPairs() int { return g.found }

// Card returns the face value at idx. Exposed for replay tooling.
func (g *MemoryMatch) Card(idx int) int { return g.cards[idx] }
