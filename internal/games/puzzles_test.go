package games

import (
	"math/rand"
	"testing"
	"time"
)

func TestSlidingTilesScoreFormula(t *testing.T) {
	cases := []struct {
		moves int
		want  int64
	}{
		{0, 1000},
		{1, 990},
		{50, 500},
		{90, 100},
		{200, 100}, // floor
	}
	for _, tc := range cases {
		g := NewSlidingTiles()
		g.Reset(1)
		g.moves = tc.moves
		score, coins := g.Score()
		if score != tc.want {
			t.Errorf("moves=%d: expected score %d, got %d", tc.moves, tc.want, score)
		}
		// Sliding tiles saves under endlessRun, so coins follow that tag.
		if coins != tc.want/10 {
			t.Errorf("moves=%d: expected coins %d, got %d", tc.moves, tc.want/10, coins)
		}
	}
}

func TestSlidingTilesScrambleIsSolvableAndLegalMovesOnly(t *testing.T) {
	g := NewSlidingTiles()
	g.Reset(42)

	// Illegal move (tile not adjacent to the empty cell) must not count.
	tiles := g.Tiles()
	empty := 0
	for i, v := range tiles {
		if v == 0 {
			empty = i
		}
	}
	// A cell two rows away is never adjacent.
	far := (empty + 6) % 9
	if far == empty {
		far = (far + 1) % 9
	}
	isAdjacent := false
	for _, adj := range g.board.adjacent(empty) {
		if adj == far {
			isAdjacent = true
		}
	}
	if !isAdjacent {
		if _, done := g.Apply(Input{X: far}); done || g.Moves() != 0 {
			t.Errorf("Illegal move was counted: moves=%d", g.Moves())
		}
	}

	// Solve by random legal walking; a solvable board terminates well before
	// the cap with this much slack.
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500000; i++ {
		adj := g.board.adjacent(g.board.empty)
		if outcome, done := g.Apply(Input{X: adj[rng.Intn(len(adj))]}); done {
			if outcome != OutcomeWon {
				t.Errorf("Expected won outcome, got %s", outcome)
			}
			return
		}
	}
	t.Error("Random walk never solved a scrambled 3x3 board")
}

func TestLightsOutToggleFlipsCross(t *testing.T) {
	g := NewLightsOut()
	// Work from the solved board directly.
	for i := range g.grid {
		g.grid[i] = false
	}

	cases := []struct {
		idx  int
		want int
	}{
		{0, 3},  // corner
		{2, 4},  // top edge
		{12, 5}, // center
		{24, 3}, // corner
	}
	for _, tc := range cases {
		for i := range g.grid {
			g.grid[i] = false
		}
		g.toggle(tc.idx)
		if got := g.LitCount(); got != tc.want {
			t.Errorf("toggle(%d): expected %d lit cells, got %d", tc.idx, tc.want, got)
		}
	}
}

func TestLightsOutTogglesAreInvolutions(t *testing.T) {
	g := NewLightsOut()
	for i := range g.grid {
		g.grid[i] = false
	}

	// Any sequence of toggles undone in any order returns to solved: toggles
	// commute and each is its own inverse.
	rng := rand.New(rand.NewSource(3))
	presses := make([]int, 10)
	for i := range presses {
		presses[i] = rng.Intn(25)
		g.toggle(presses[i])
	}
	for i := len(presses) - 1; i >= 0; i-- {
		g.toggle(presses[i])
	}
	if !g.solved() {
		t.Error("Re-applying the same toggles did not return to the solved board")
	}
}

func TestLightsOutScrambledBoardNeverStartsSolved(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		g := NewLightsOut()
		g.Reset(seed)
		if g.solved() {
			t.Errorf("seed %d: board scrambled into the solved state", seed)
		}
	}
}

func TestLightsOutScoreFormula(t *testing.T) {
	g := NewLightsOut()
	g.Reset(1)
	g.moves = 10
	if score, _ := g.Score(); score != 1050 {
		t.Errorf("Expected score 1050 at 10 moves, got %d", score)
	}
	g.moves = 100
	if score, _ := g.Score(); score != 200 {
		t.Errorf("Expected floor score 200, got %d", score)
	}
}

func TestMemoryMatchCountsComparisonsNotFlips(t *testing.T) {
	g := NewMemoryMatch()
	g.Reset(5)

	// First flip: no move counted.
	g.Apply(Input{X: 0})
	if g.Moves() != 0 {
		t.Fatalf("Single flip counted as a move: moves=%d", g.Moves())
	}

	// Re-flipping the same card is inert.
	g.Apply(Input{X: 0})
	if g.Moves() != 0 {
		t.Fatalf("Re-flip of the open card counted as a move: moves=%d", g.Moves())
	}

	// Second flip completes exactly one comparison.
	g.Apply(Input{X: 1})
	if g.Moves() != 1 {
		t.Errorf("Expected 1 move after a completed comparison, got %d", g.Moves())
	}
}

func TestMemoryMatchSolvedByPairLookup(t *testing.T) {
	g := NewMemoryMatch()
	g.Reset(9)

	// Play with perfect information: match each value's two positions.
	positions := make(map[int][]int)
	for i := 0; i < memoryPairs*2; i++ {
		v := g.Card(i)
		positions[v] = append(positions[v], i)
	}

	var outcome Outcome
	var done bool
	for v := 0; v < memoryPairs; v++ {
		g.Apply(Input{X: positions[v][0]})
		outcome, done = g.Apply(Input{X: positions[v][1]})
	}
	if !done || outcome != OutcomeWon {
		t.Fatalf("Perfect play did not win: done=%v outcome=%s", done, outcome)
	}
	if g.Moves() != memoryPairs {
		t.Errorf("Expected %d moves for perfect play, got %d", memoryPairs, g.Moves())
	}
	score, coins := g.Score()
	if score != 2000-int64(memoryPairs)*20 {
		t.Errorf("Expected score %d, got %d", 2000-memoryPairs*20, score)
	}
	// Memory match saves under cityBuilder, which never awards coins.
	if coins != 0 {
		t.Errorf("Expected no coins under the cityBuilder tag, got %d", coins)
	}
}

func TestWordScrambleScoring(t *testing.T) {
	cases := []struct {
		wrongFirst int
		want       int64
	}{
		{0, 1000},
		{1, 500},
		{2, 100},
	}
	for _, tc := range cases {
		g := NewWordScramble()
		g.Reset(8) // seed 8 selects WORDS[0] = "PUZZLE"
		if g.Word() != "PUZZLE" {
			t.Fatalf("seed 8: expected word PUZZLE, got %q", g.Word())
		}
		if g.Scrambled() == g.Word() {
			t.Error("Scrambled presentation equals the answer")
		}
		for i := 0; i < tc.wrongFirst; i++ {
			if _, done := g.Apply(Input{Value: "WRONGX"}); done {
				t.Fatal("Game ended before the attempt limit")
			}
		}
		outcome, done := g.Apply(Input{Value: "puzzle"})
		if !done || outcome != OutcomeWon {
			t.Fatalf("Correct guess not recognized: done=%v outcome=%s", done, outcome)
		}
		score, _ := g.Score()
		if score != tc.want {
			t.Errorf("win on attempt %d: expected score %d, got %d", tc.wrongFirst+1, tc.want, score)
		}
	}
}

func TestWordScrambleLossScoresZero(t *testing.T) {
	g := NewWordScramble()
	g.Reset(8)
	var outcome Outcome
	var done bool
	for i := 0; i < maxScrambleAttempts; i++ {
		outcome, done = g.Apply(Input{Value: "WRONGX"})
	}
	if !done || outcome != OutcomeLost {
		t.Fatalf("Expected loss after %d wrong guesses", maxScrambleAttempts)
	}
	if score, coins := g.Score(); score != 0 || coins != 0 {
		t.Errorf("Expected zero score on loss, got score=%d coins=%d", score, coins)
	}
}

func TestMiniSudokuMistakesAndCompletion(t *testing.T) {
	g := NewMiniSudoku()
	g.Reset(2)

	var outcome Outcome
	var done bool
	wrong := 0
	for idx := 0; idx < sudokuSize*sudokuSize; idx++ {
		if g.Cell(idx) != 0 {
			continue
		}
		answer := g.SolutionCell(idx)
		// One deliberate mistake on the first empty cell.
		if wrong == 0 {
			bad := answer%sudokuSize + 1
			if bad == answer {
				bad = bad%sudokuSize + 1
			}
			g.Apply(Input{X: idx, Y: bad})
			wrong++
		}
		outcome, done = g.Apply(Input{X: idx, Y: answer})
	}
	if !done || outcome != OutcomeComplete {
		t.Fatalf("Filling every masked cell did not complete: done=%v outcome=%s", done, outcome)
	}
	if g.Mistakes() != 1 {
		t.Errorf("Expected 1 mistake, got %d", g.Mistakes())
	}
	if score, _ := g.Score(); score != 1400 {
		t.Errorf("Expected score 1400 with 1 mistake, got %d", score)
	}
}

func TestReactionFiveRoundsAt200ms(t *testing.T) {
	g := NewReaction()
	fired := 0
	var got Result
	m := NewMachine(g, func(r Result) {
		fired++
		got = r
	})
	m.Start(11)

	for round := 0; round < reactionRounds; round++ {
		// Advance in 1ms steps until the cue shows, then react in 200ms.
		for i := 0; i < 10000 && !g.Armed(); i++ {
			m.Tick(time.Millisecond)
		}
		if !g.Armed() {
			t.Fatal("Cue never armed")
		}
		m.Tick(200 * time.Millisecond)
		m.Apply(Input{Name: "press"})
	}

	if fired != 1 {
		t.Fatalf("Expected 1 completion, got %d", fired)
	}
	if got.Score != 4000 {
		t.Errorf("Expected final score 4000 (5 rounds x 800), got %d", got.Score)
	}
	if got.Coins != 40 {
		t.Errorf("Expected 40 coins, got %d", got.Coins)
	}
	if got.Mode != ModeIndoor {
		t.Errorf("Expected indoor mode tag, got %s", got.Mode)
	}
}

func TestReactionEarlyPressEndsGame(t *testing.T) {
	g := NewReaction()
	g.Reset(4)
	if g.Armed() {
		t.Fatal("Cue armed immediately after reset")
	}
	outcome, done := g.Apply(Input{Name: "press"})
	if !done || outcome != OutcomeGameOver {
		t.Errorf("Early press did not end the game: done=%v outcome=%s", done, outcome)
	}
}
