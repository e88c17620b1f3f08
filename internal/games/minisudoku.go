package games

import (
	"math/rand"
	"time"
)

const sudokuSize = 4

// sudokuSolutions is a fixed set of valid 4×4 grids; Reset picks one by seed
// and masks cells for the player to fill.
var sudokuSolutions = [][sudokuSize * sudokuSize]int{
	{1, 2, 3, 4, 3, 4, 1, 2, 2, 1, 4, 3, 4, 3, 2, 1},
	{2, 1, 4, 3, 4, 3, 2, 1, 1, 2, 3, 4, 3, 4, 1, 2},
	{3, 4, 1, 2, 1, 2, 3, 4, 4, 3, 2, 1, 2, 1, 4, 3},
	{4, 3, 2, 1, 2, 1, 4, 3, 3, 2, 1, 4, 1, 4, 3, 2},
}

// MiniSudoku is a 4×4 sudoku: fill the masked cells, every wrong entry counts
// as a mistake. Best scores are saved under the indoor mode tag.
type MiniSudoku struct {
	solution [sudokuSize * sudokuSize]int
	grid     [sudokuSize * sudokuSize]int // 0 = empty
	given    [sudokuSize * sudokuSize]bool
	mistakes int
	remain   int
}

func NewMiniSudoku() *MiniSudoku { return &MiniSudoku{} }

func (g *MiniSudoku) Spec() EngineSpec {
	return EngineSpec{ID: "mini-sudoku", Name: "Mini Sudoku", Mode: ModeIndoor}
}

func (g *MiniSudoku) Reset(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	g.solution = sudokuSolutions[rng.Intn(len(sudokuSolutions))]
	g.mistakes = 0
	g.remain = 0

	// Mask 8 of the 16 cells.
	masked := rng.Perm(len(g.solution))[:8]
	isMasked := make(map[int]bool, len(masked))
	for _, idx := range masked {
		isMasked[idx] = true
	}
	for i, v := range g.solution {
		if isMasked[i] {
			g.grid[i] = 0
			g.given[i] = false
			g.remain++
		} else {
			g.grid[i] = v
			g.given[i] = true
		}
	}
}

// Apply writes digit in.Y into the cell at flat index in.X. Wrong digits are
// rejected and counted as mistakes; given or already-filled cells are inert.
func (g *MiniSudoku) Apply(in Input) (Outcome, bool) {
	idx, digit := in.X, in.Y
	if idx < 0 || idx >= len(g.grid) || g.given[idx] || g.grid[idx] != 0 {
		return "", false
	}
	if digit < 1 || digit > sudokuSize {
		return "", false
	}
	if digit != g.solution[idx] {
		g.mistakes++
		return "", false
	}
	g.grid[idx] = digit
	g.remain--
	if g.remain == 0 {
		return OutcomeComplete, true
	}
	return "", false
}

func (g *MiniSudoku) Tick(time.Duration) (Outcome, bool) { return "", false }

func (g *MiniSudoku) Score() (int64, int64) {
	score := int64(1500 - g.mistakes*100)
	if score < 300 {
		score = 300
	}
	return score, CoinsFor(ModeIndoor, score)
}

// Mistakes returns the wrong-entry count.
func (g *MiniSudoku) Mistakes() int { return g.mistakes }

// Cell returns the visible value at idx (0 when still empty).
func (g *MiniSudoku) Cell(idx int) int { return g.grid[idx] }

// SolutionCell returns the answer at idx. Exposed for replay tooling.
func (g *MiniSudoku) SolutionCell(idx int) int { return g.solution[idx] }
