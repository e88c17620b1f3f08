package games

import (
	"fmt"
	"sync"
	"time"
)

// Mode identifies a persisted game mode. Best scores are keyed by Mode.
type Mode string

const (
	ModeCar         Mode = "car"
	ModeFarming     Mode = "farming"
	ModeEndlessRun  Mode = "endlessRun"
	ModeBattle      Mode = "battle"
	ModeCityBuilder Mode = "cityBuilder"
	ModeIndoor      Mode = "indoor"
)

// Modes returns all known modes in a stable order.
func Modes() []Mode {
	return []Mode{ModeCar, ModeFarming, ModeEndlessRun, ModeBattle, ModeCityBuilder, ModeIndoor}
}

// ValidMode reports whether m is a known game mode.
func ValidMode(m Mode) bool {
	switch m {
	case ModeCar, ModeFarming, ModeEndlessRun, ModeBattle, ModeCityBuilder, ModeIndoor:
		return true
	}
	return false
}

// TimeRanked reports whether the mode ranks by elapsed time (lower is better)
// instead of score.
func TimeRanked(m Mode) bool {
	return m == ModeCar
}

// Phase is the lifecycle state of a machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseTerminal:
		return "terminal"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Input is a single player action fed to an engine. The fields are
// engine-specific: grid games use X/Y or X as a flat index, text games use
// Value, action games use Name alone.
type Input struct {
	Name  string `json:"name"`
	X     int    `json:"x,omitempty"`
	Y     int    `json:"y,omitempty"`
	Value string `json:"value,omitempty"`
}

// Outcome is how a finished game ended.
type Outcome string

const (
	OutcomeWon      Outcome = "won"
	OutcomeLost     Outcome = "lost"
	OutcomeComplete Outcome = "complete"
	OutcomeGameOver Outcome = "gameOver"
)

// Result is delivered exactly once per finished game.
type Result struct {
	Mode    Mode    `json:"mode"`
	Outcome Outcome `json:"outcome"`
	Score   int64   `json:"score"`
	Coins   int64   `json:"coins"`
}

// EngineSpec is metadata about an engine.
type EngineSpec struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Mode       Mode   `json:"mode"` // the mode the score is saved under
	TimeDriven bool   `json:"time_driven"`
}

// Engine is the mode-specific rule set driven by a Machine. Engines are pure
// state: all randomness comes from the seed passed to Reset, so a game is
// reproducible from (seed, move log).
type Engine interface {
	// Spec returns metadata about the engine.
	Spec() EngineSpec

	// Reset puts the engine back into its initial playable state.
	Reset(seed int64)

	// Apply mutates state for one input and reports whether the game has
	// reached a terminal outcome.
	Apply(in Input) (Outcome, bool)

	// Tick advances simulated time for time-driven engines and reports
	// whether the game has reached a terminal outcome. Non-time-driven
	// engines ignore it.
	Tick(dt time.Duration) (Outcome, bool)

	// Score returns the final score and derived coins. Only meaningful once
	// a terminal outcome was reported.
	Score() (score, coins int64)
}

// Machine wraps an Engine with the shared Idle -> Active -> Terminal
// lifecycle. Inputs outside Active are ignored, and the terminal transition
// latches: the completion callback fires exactly once per started game no
// matter how many further inputs or ticks arrive.
type Machine struct {
	engine     Engine
	onComplete func(Result)

	mu        sync.Mutex
	phase     Phase
	seed      int64
	startedAt time.Time
	elapsed   time.Duration
	log       []Input
}

// NewMachine creates a machine around the given engine. onComplete may be nil.
func NewMachine(e Engine, onComplete func(Result)) *Machine {
	return &Machine{engine: e, onComplete: onComplete}
}

// Start begins a new game. Valid from Idle or Terminal; calling Start on an
// Active machine is a no-op and preserves the running game.
func (m *Machine) Start(seed int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase == PhaseActive {
		return
	}
	m.seed = seed
	m.engine.Reset(seed)
	m.phase = PhaseActive
	m.startedAt = time.Now()
	m.elapsed = 0
	m.log = m.log[:0]
}

// Apply feeds one input to the engine. Ignored unless Active.
func (m *Machine) Apply(in Input) {
	m.mu.Lock()
	if m.phase != PhaseActive {
		m.mu.Unlock()
		return
	}
	m.log = append(m.log, in)
	outcome, done := m.engine.Apply(in)
	var result Result
	if done {
		result = m.finishLocked(outcome)
	}
	m.mu.Unlock()

	if done && m.onComplete != nil {
		m.onComplete(result)
	}
}

// Tick advances simulated time by dt. Ignored unless Active.
func (m *Machine) Tick(dt time.Duration) {
	m.mu.Lock()
	if m.phase != PhaseActive {
		m.mu.Unlock()
		return
	}
	m.elapsed += dt
	outcome, done := m.engine.Tick(dt)
	var result Result
	if done {
		result = m.finishLocked(outcome)
	}
	m.mu.Unlock()

	if done && m.onComplete != nil {
		m.onComplete(result)
	}
}

// finishLocked latches Terminal and builds the completion result. The caller
// fires onComplete after releasing the lock, so the callback is free to use
// the machine again, e.g. to start a rematch.
func (m *Machine) finishLocked(outcome Outcome) Result {
	m.phase = PhaseTerminal
	score, coins := m.engine.Score()
	return Result{
		Mode:    m.engine.Spec().Mode,
		Outcome: outcome,
		Score:   score,
		Coins:   coins,
	}
}

// Phase returns the current lifecycle phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Seed returns the seed of the current (or last) game.
func (m *Machine) Seed() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seed
}

// Elapsed returns accumulated simulated time for the current game.
func (m *Machine) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.elapsed
}

// MoveLog returns a copy of the inputs applied since the last Start.
func (m *Machine) MoveLog() []Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Input, len(m.log))
	copy(out, m.log)
	return out
}

// Registry holds constructors for all available engines.
var registry = make(map[string]func() Engine)

// Register adds an engine constructor to the registry.
func Register(id string, factory func() Engine) {
	registry[id] = factory
}

// New creates a fresh engine by ID.
func New(id string) (Engine, bool) {
	factory, ok := registry[id]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// ListEngines returns the specs of all registered engines.
func ListEngines() []EngineSpec {
	specs := make([]EngineSpec, 0, len(registry))
	for _, factory := range registry {
		specs = append(specs, factory().Spec())
	}
	return specs
}

func init() {
	Register("endless-run", func() Engine { return NewEndlessRun() })
	Register("car-race", func() Engine { return NewCarRace() })
	Register("battle", func() Engine { return NewBattle() })
	Register("city-builder", func() Engine { return NewCityBuilder() })
	Register("farming", func() Engine { return NewFarming() })
	Register("sliding-tiles", func() Engine { return NewSlidingTiles() })
	Register("indoor-puzzle", func() Engine { return NewIndoorPuzzle() })
	Register("reaction", func() Engine { return NewReaction() })
	Register("memory-match", func() Engine { return NewMemoryMatch() })
	Register("word-scramble", func() Engine { return NewWordScramble() })
	Register("mini-sudoku", func() Engine { return NewMiniSudoku() })
	Register("lights-out", func() Engine { return NewLightsOut() })
}
