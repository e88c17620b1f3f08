// Package replay re-runs recorded games to check that a claimed score really
// falls out of the seed and move log. Engines are deterministic, so a replay
// either reproduces the result exactly or the recording is bogus.
package replay

import (
	"fmt"
	"time"

	"github.com/playforge/arcadehub/internal/games"
)

// Step is one recorded event: either a player input or a slice of simulated
// time for time-driven engines.
type Step struct {
	Input  *games.Input `json:"input,omitempty"`
	TickMs int64        `json:"tick_ms,omitempty"`
}

// Recording is everything needed to re-run a game.
type Recording struct {
	EngineID string `json:"engine_id"`
	Seed     int64  `json:"seed"`
	Steps    []Step `json:"steps"`
}

// Run replays a recording from scratch and returns the reproduced result.
func Run(rec Recording) (games.Result, error) {
	eng, ok := games.New(rec.EngineID)
	if !ok {
		return games.Result{}, fmt.Errorf("replay: unknown engine %q", rec.EngineID)
	}

	var result games.Result
	finished := false
	m := games.NewMachine(eng, func(r games.Result) {
		result = r
		finished = true
	})

	m.Start(rec.Seed)
	for _, step := range rec.Steps {
		if finished {
			break
		}
		if step.Input != nil {
			m.Apply(*step.Input)
		}
		if step.TickMs > 0 {
			m.Tick(time.Duration(step.TickMs) * time.Millisecond)
		}
	}

	if !finished {
		return games.Result{}, fmt.Errorf("replay: recording for %q never reached a terminal state", rec.EngineID)
	}
	return result, nil
}

// VerifyScore replays the recording and checks the claimed score against the
// reproduced one.
func VerifyScore(rec Recording, claimed int64) error {
	result, err := Run(rec)
	if err != nil {
		return err
	}
	if result.Score != claimed {
		return fmt.Errorf("replay: claimed score %d, replay produced %d", claimed, result.Score)
	}
	return nil
}
