package games

import (
	"time"
)

// CarRace is the time-trial racer: progress advances a half percent per tick
// and the run finishes at 100%. The "score" is elapsed milliseconds, which the
// profile tracks as bestTime (lower is better). Steering moves the car between
// road edges but never blocks the clock.
type CarRace struct {
	elapsed  time.Duration
	progress float64 // 0..100
	lane     int     // 20..80, left to right
	finished bool
}

const (
	carProgressPerTick = 0.5
	carLaneMin         = 20
	carLaneMax         = 80
	carLaneStep        = 10
	carStartLane       = 50
)

func NewCarRace() *CarRace { return &CarRace{} }

func (g *CarRace) Spec() EngineSpec {
	return EngineSpec{ID: "car-race", Name: "Car Race", Mode: ModeCar, TimeDriven: true}
}

func (g *CarRace) Reset(int64) {
	g.elapsed = 0
	g.progress = 0
	g.lane = carStartLane
	g.finished = false
}

func (g *CarRace) Apply(in Input) (Outcome, bool) {
	switch in.Name {
	case "left":
		g.lane -= carLaneStep
		if g.lane < carLaneMin {
			g.lane = carLaneMin
		}
	case "right":
		g.lane += carLaneStep
		if g.lane > carLaneMax {
			g.lane = carLaneMax
		}
	}
	return "", false
}

func (g *CarRace) Tick(dt time.Duration) (Outcome, bool) {
	g.elapsed += dt
	g.progress += carProgressPerTick
	if g.progress >= 100 {
		g.progress = 100
		g.finished = true
		return OutcomeComplete, true
	}
	return "", false
}

// Score returns the race time in milliseconds. Race times earn no coins.
func (g *CarRace) Score() (int64, int64) {
	ms := int64(g.elapsed / time.Millisecond)
	return ms, CoinsFor(ModeCar, ms)
}

// Progress returns race completion in percent.
func (g *CarRace) Progress() float64 { return g.progress }

// Lane returns the car's horizontal position.
func (g *CarRace) Lane() int { return g.lane }
