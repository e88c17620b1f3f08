package games

import (
	"testing"
	"time"
)

func TestRegistryHasAllEngines(t *testing.T) {
	ids := []string{
		"endless-run", "car-race", "battle", "city-builder", "farming",
		"sliding-tiles", "indoor-puzzle", "reaction", "memory-match",
		"word-scramble", "mini-sudoku", "lights-out",
	}
	for _, id := range ids {
		eng, ok := New(id)
		if !ok {
			t.Errorf("Engine %q not registered", id)
			continue
		}
		if eng.Spec().ID != id {
			t.Errorf("Engine %q reports spec ID %q", id, eng.Spec().ID)
		}
		if !ValidMode(eng.Spec().Mode) {
			t.Errorf("Engine %q has unknown mode %q", id, eng.Spec().Mode)
		}
	}

	if len(ListEngines()) != len(ids) {
		t.Errorf("Expected %d registered engines, got %d", len(ids), len(ListEngines()))
	}
}

func TestEveryEngineDerivesCoinsFromItsModeTag(t *testing.T) {
	// Whatever an engine reports from Score must equal the mode-level
	// derivation the hub re-applies at endGame, or the award shown at game
	// over and the award credited to the profile would diverge.
	for _, spec := range ListEngines() {
		g, ok := New(spec.ID)
		if !ok {
			t.Fatalf("Engine %q not constructible", spec.ID)
		}
		g.Reset(3)
		score, coins := g.Score()
		if want := CoinsFor(spec.Mode, score); coins != want {
			t.Errorf("%s: score %d derives %d coins under %s, engine reports %d",
				spec.ID, score, want, spec.Mode, coins)
		}
	}
}

func TestCompletionCoinsMatchModeDerivation(t *testing.T) {
	// Word scramble saves under the farming tag and memory match under
	// cityBuilder; their completion results must carry the tag's award.
	ws := NewWordScramble()
	var got Result
	m := NewMachine(ws, func(r Result) { got = r })
	m.Start(8) // seed 8 selects "PUZZLE"
	m.Apply(Input{Value: "PUZZLE"})
	if got.Score != 1000 {
		t.Fatalf("Expected score 1000 for a first-guess win, got %d", got.Score)
	}
	if got.Coins != CoinsFor(ModeFarming, got.Score) {
		t.Errorf("Word scramble coins diverge from the farming rule: %d", got.Coins)
	}

	mm := NewMemoryMatch()
	mm.Reset(9)
	positions := make(map[int][]int)
	for i := 0; i < memoryPairs*2; i++ {
		positions[mm.Card(i)] = append(positions[mm.Card(i)], i)
	}
	for v := 0; v < memoryPairs; v++ {
		mm.Apply(Input{X: positions[v][0]})
		mm.Apply(Input{X: positions[v][1]})
	}
	score, coins := mm.Score()
	if want := CoinsFor(ModeCityBuilder, score); coins != want {
		t.Errorf("Memory match coins diverge from the cityBuilder rule: score=%d coins=%d want=%d",
			score, coins, want)
	}
}

func TestMachineFiresCompletionOnce(t *testing.T) {
	fired := 0
	var got Result
	eng := NewWordScramble()
	m := NewMachine(eng, func(r Result) {
		fired++
		got = r
	})

	m.Start(8) // seed 8 selects "PUZZLE"
	m.Apply(Input{Value: "PUZZLE"})

	if fired != 1 {
		t.Fatalf("Expected 1 completion, got %d", fired)
	}
	if m.Phase() != PhaseTerminal {
		t.Errorf("Expected terminal phase, got %s", m.Phase())
	}
	if got.Mode != ModeFarming {
		t.Errorf("Expected farming mode tag, got %s", got.Mode)
	}
	if got.Score != 1000 {
		t.Errorf("Expected score 1000 for first-guess win, got %d", got.Score)
	}

	// A rapid double submission must not double-count the terminal transition.
	m.Apply(Input{Value: "PUZZLE"})
	if fired != 1 {
		t.Errorf("Completion fired %d times after duplicate input", fired)
	}
}

func TestMachineIgnoresInputOutsideActive(t *testing.T) {
	eng := NewSlidingTiles()
	m := NewMachine(eng, nil)

	// Idle: input is ignored without error.
	m.Apply(Input{X: 0})
	if len(m.MoveLog()) != 0 {
		t.Errorf("Idle machine recorded %d moves", len(m.MoveLog()))
	}

	m.Start(1)
	if m.Phase() != PhaseActive {
		t.Fatalf("Expected active phase after start, got %s", m.Phase())
	}
}

func TestMachineStartWhileActiveIsNoOp(t *testing.T) {
	eng := NewSlidingTiles()
	m := NewMachine(eng, nil)
	m.Start(1)

	// Make a legal move so there is state to lose.
	for idx := range eng.Tiles() {
		m.Apply(Input{X: idx})
		if eng.Moves() > 0 {
			break
		}
	}
	if eng.Moves() == 0 {
		t.Fatal("No legal move found on a scrambled board")
	}

	moves := eng.Moves()
	m.Start(99)
	if eng.Moves() != moves {
		t.Errorf("Start on active machine reset state: moves %d -> %d", moves, eng.Moves())
	}
	if m.Seed() != 1 {
		t.Errorf("Start on active machine replaced seed: got %d", m.Seed())
	}
}

func TestMachineRestartsFromTerminal(t *testing.T) {
	eng := NewWordScramble()
	fired := 0
	m := NewMachine(eng, func(Result) { fired++ })

	m.Start(8)
	m.Apply(Input{Value: "PUZZLE"})
	if m.Phase() != PhaseTerminal {
		t.Fatal("Expected terminal phase")
	}

	m.Start(8)
	if m.Phase() != PhaseActive {
		t.Errorf("Expected active phase after restart, got %s", m.Phase())
	}
	if len(m.MoveLog()) != 0 {
		t.Errorf("Restart kept %d logged moves", len(m.MoveLog()))
	}

	m.Apply(Input{Value: "PUZZLE"})
	if fired != 2 {
		t.Errorf("Expected 2 completions across 2 games, got %d", fired)
	}
}

func TestCompletionCallbackMayUseTheMachine(t *testing.T) {
	// The callback runs outside the machine lock, so it can inspect state and
	// immediately start a rematch without deadlocking.
	eng := NewWordScramble()
	var m *Machine
	var phases []Phase
	rematch := true
	m = NewMachine(eng, func(Result) {
		phases = append(phases, m.Phase())
		if len(m.MoveLog()) == 0 {
			t.Error("Move log empty inside the completion callback")
		}
		if rematch {
			rematch = false
			m.Start(8)
		}
	})

	m.Start(8) // seed 8 selects "PUZZLE"
	m.Apply(Input{Value: "PUZZLE"})

	if len(phases) != 1 || phases[0] != PhaseTerminal {
		t.Fatalf("Expected one terminal callback, got %v", phases)
	}
	if m.Phase() != PhaseActive {
		t.Fatalf("Rematch from the callback did not start: %s", m.Phase())
	}
	if len(m.MoveLog()) != 0 {
		t.Errorf("Rematch kept %d logged moves", len(m.MoveLog()))
	}

	m.Apply(Input{Value: "PUZZLE"})
	if len(phases) != 2 {
		t.Errorf("Expected 2 completions across the rematch, got %d", len(phases))
	}
	if m.Phase() != PhaseTerminal {
		t.Errorf("Expected terminal phase after the rematch, got %s", m.Phase())
	}
}

func TestMachineTickIgnoredAfterTerminal(t *testing.T) {
	eng := NewCarRace()
	fired := 0
	m := NewMachine(eng, func(Result) { fired++ })

	m.Start(0)
	// 200 ticks at 0.5% each reach 100%.
	for i := 0; i < 250; i++ {
		m.Tick(16 * time.Millisecond)
	}
	if fired != 1 {
		t.Fatalf("Expected exactly 1 completion, got %d", fired)
	}
	if m.Phase() != PhaseTerminal {
		t.Errorf("Expected terminal phase, got %s", m.Phase())
	}
}
