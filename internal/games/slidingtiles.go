package games

import (
	"math/rand"
	"time"
)

// slideBoard is a shared N×N sliding-tile board. Tiles are stored row-major
// with 0 marking the empty cell; solved order is 1..N²-1 followed by 0.
type slideBoard struct {
	size  int
	tiles []int
	empty int
}

func newSlideBoard(size int) *slideBoard {
	b := &slideBoard{size: size, tiles: make([]int, size*size)}
	b.reset()
	return b
}

func (b *slideBoard) reset() {
	n := len(b.tiles)
	for i := 0; i < n-1; i++ {
		b.tiles[i] = i + 1
	}
	b.tiles[n-1] = 0
	b.empty = n - 1
}

// scramble walks the empty cell through random legal moves, which keeps the
// board solvable by construction.
func (b *slideBoard) scramble(rng *rand.Rand, steps int) {
	for i := 0; i < steps; i++ {
		moves := b.adjacent(b.empty)
		b.swap(moves[rng.Intn(len(moves))])
	}
}

// adjacent returns the indexes orthogonally adjacent to idx.
func (b *slideBoard) adjacent(idx int) []int {
	row, col := idx/b.size, idx%b.size
	out := make([]int, 0, 4)
	if row > 0 {
		out = append(out, idx-b.size)
	}
	if row < b.size-1 {
		out = append(out, idx+b.size)
	}
	if col > 0 {
		out = append(out, idx-1)
	}
	if col < b.size-1 {
		out = append(out, idx+1)
	}
	return out
}

func (b *slideBoard) swap(idx int) {
	b.tiles[b.empty] = b.tiles[idx]
	b.tiles[idx] = 0
	b.empty = idx
}

// move slides the tile at idx into the empty cell if adjacent.
func (b *slideBoard) move(idx int) bool {
	if idx < 0 || idx >= len(b.tiles) || b.tiles[idx] == 0 {
		return false
	}
	for _, adj := range b.adjacent(b.empty) {
		if adj == idx {
			b.swap(idx)
			return true
		}
	}
	return false
}

func (b *slideBoard) solved() bool {
	n := len(b.tiles)
	for i := 0; i < n-1; i++ {
		if b.tiles[i] != i+1 {
			return false
		}
	}
	return b.tiles[n-1] == 0
}

// SlidingTiles is the 3×3 sliding-tile puzzle. Best scores are saved under
// the endlessRun mode tag (see ScoreMode in engine docs).
type SlidingTiles struct {
	board *slideBoard
	moves int
	won   bool
}

func NewSlidingTiles() *SlidingTiles {
	return &SlidingTiles{board: newSlideBoard(3)}
}

func (g *SlidingTiles) Spec() EngineSpec {
	return EngineSpec{ID: "sliding-tiles", Name: "Sliding Tiles", Mode: ModeEndlessRun}
}

func (g *SlidingTiles) Reset(seed int64) {
	g.board.reset()
	g.board.scramble(rand.New(rand.NewSource(seed)), 40)
	g.moves = 0
	g.won = false
}

// Apply slides the tile at flat index in.X. Illegal moves are ignored and do
// not count.
func (g *SlidingTiles) Apply(in Input) (Outcome, bool) {
	if !g.board.move(in.X) {
		return "", false
	}
	g.moves++
	if g.board.solved() {
		g.won = true
		return OutcomeWon, true
	}
	return "", false
}

func (g *SlidingTiles) Tick(time.Duration) (Outcome, bool) { return "", false }

func (g *SlidingTiles) Score() (int64, int64) {
	score := int64(1000 - g.moves*10)
	if score < 100 {
		score = 100
	}
	return score, CoinsFor(ModeEndlessRun, score)
}

// Moves returns the move count so far.
func (g *SlidingTiles) Moves() int { return g.moves }

// Tiles returns the current board layout.
func (g *SlidingTiles) Tiles() []int {
	out := make([]int, len(g.board.tiles))
	copy(out, g.board.tiles)
	return out
}

// IndoorPuzzle is the 4×4 sliding-tile puzzle played in the indoor mode.
// Unlike SlidingTiles its score also penalizes elapsed time.
type IndoorPuzzle struct {
	board   *slideBoard
	moves   int
	elapsed time.Duration
}

func NewIndoorPuzzle() *IndoorPuzzle {
	return &IndoorPuzzle{board: newSlideBoard(4)}
}

func (g *IndoorPuzzle) Spec() EngineSpec {
	return EngineSpec{ID: "indoor-puzzle", Name: "Indoor Puzzle", Mode: ModeIndoor, TimeDriven: true}
}

func (g *IndoorPuzzle) Reset(seed int64) {
	g.board.reset()
	g.board.scramble(rand.New(rand.NewSource(seed)), 80)
	g.moves = 0
	g.elapsed = 0
}

func (g *IndoorPuzzle) Apply(in Input) (Outcome, bool) {
	if !g.board.move(in.X) {
		return "", false
	}
	g.moves++
	if g.board.solved() {
		return OutcomeComplete, true
	}
	return "", false
}

func (g *IndoorPuzzle) Tick(dt time.Duration) (Outcome, bool) {
	g.elapsed += dt
	return "", false
}

func (g *IndoorPuzzle) Score() (int64, int64) {
	secs := int64(g.elapsed / time.Second)
	score := 1000 - int64(g.moves)*10 - secs*5
	if score < 0 {
		score = 0
	}
	return score, CoinsFor(ModeIndoor, score)
}
