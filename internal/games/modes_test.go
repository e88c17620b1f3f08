package games

import (
	"testing"
	"time"
)

func TestBattleWinScoresFifty(t *testing.T) {
	g := NewBattle()
	g.Reset(1)

	var outcome Outcome
	var done bool
	for i := 0; i < 100 && !done; i++ {
		outcome, done = g.Apply(Input{Name: "special"})
	}
	if !done {
		t.Fatal("Battle never terminated")
	}
	score, coins := g.Score()
	switch outcome {
	case OutcomeWon:
		if score != 50 || coins != 5 {
			t.Errorf("Win: expected score 50 coins 5, got %d/%d", score, coins)
		}
	case OutcomeLost:
		if score != 0 || coins != 0 {
			t.Errorf("Loss: expected zero score, got %d/%d", score, coins)
		}
	default:
		t.Errorf("Unexpected outcome %s", outcome)
	}
}

func TestBattleIsDeterministicPerSeed(t *testing.T) {
	run := func() (Outcome, Fighter, Fighter) {
		g := NewBattle()
		g.Reset(77)
		var outcome Outcome
		done := false
		for !done {
			outcome, done = g.Apply(Input{Name: "attack"})
		}
		return outcome, g.Player(), g.Enemy()
	}
	o1, p1, e1 := run()
	o2, p2, e2 := run()
	if o1 != o2 || p1 != p2 || e1 != e2 {
		t.Error("Same seed and inputs produced different battles")
	}
}

func TestBattleDefendHealsAndCaps(t *testing.T) {
	g := NewBattle()
	g.Reset(5)
	g.Apply(Input{Name: "defend"})
	if g.Player().HP > g.Player().MaxHP {
		t.Errorf("Defend healed past max HP: %d/%d", g.Player().HP, g.Player().MaxHP)
	}
}

func TestEndlessRunSurvivalScore(t *testing.T) {
	g := NewEndlessRun()
	g.Reset(13)

	ticks := int64(0)
	done := false
	for !done && ticks < 100000 {
		// Jump whenever an obstacle nears the collision window.
		for _, d := range g.Obstacles() {
			if d < 30 && g.Height() == 0 {
				g.Apply(Input{Name: "jump"})
				break
			}
		}
		_, done = g.Tick(16 * time.Millisecond)
		ticks++
	}

	score, coins := g.Score()
	if score != ticks {
		t.Errorf("Expected score %d (ticks survived), got %d", ticks, score)
	}
	if coins != score/10 {
		t.Errorf("Expected coins score/10 = %d, got %d", score/10, coins)
	}
}

func TestCarRaceFinishTime(t *testing.T) {
	g := NewCarRace()
	g.Reset(0)

	var outcome Outcome
	done := false
	ticks := 0
	for !done {
		outcome, done = g.Tick(16 * time.Millisecond)
		ticks++
	}
	if outcome != OutcomeComplete {
		t.Fatalf("Expected complete outcome, got %s", outcome)
	}
	if ticks != 200 {
		t.Errorf("Expected finish after 200 ticks at 0.5%% each, got %d", ticks)
	}
	score, coins := g.Score()
	if score != int64(ticks)*16 {
		t.Errorf("Expected %dms race time, got %d", ticks*16, score)
	}
	if coins != 0 {
		t.Errorf("Race times earn no coins, got %d", coins)
	}
}

func TestCarRaceSteeringStaysOnRoad(t *testing.T) {
	g := NewCarRace()
	g.Reset(0)
	for i := 0; i < 20; i++ {
		g.Apply(Input{Name: "left"})
	}
	if g.Lane() != carLaneMin {
		t.Errorf("Expected lane clamp at %d, got %d", carLaneMin, g.Lane())
	}
	for i := 0; i < 20; i++ {
		g.Apply(Input{Name: "right"})
	}
	if g.Lane() != carLaneMax {
		t.Errorf("Expected lane clamp at %d, got %d", carLaneMax, g.Lane())
	}
}

func TestCityBuilderScoreTracksPlacements(t *testing.T) {
	g := NewCityBuilder()
	g.Reset(0)

	g.Apply(Input{Name: "place", X: 0, Y: 0, Value: "house"})
	g.Apply(Input{Name: "place", X: 1, Y: 0, Value: "park"})
	g.Apply(Input{Name: "place", X: 1, Y: 0, Value: "shop"}) // overwrite, not a new placement
	g.Apply(Input{Name: "place", X: 2, Y: 2, Value: "barn"}) // unknown structure ignored
	g.Apply(Input{Name: "clear", X: 0, Y: 0})

	if g.Placed() != 1 {
		t.Errorf("Expected 1 placed structure, got %d", g.Placed())
	}

	outcome, done := g.Apply(Input{Name: "save"})
	if !done || outcome != OutcomeComplete {
		t.Fatalf("Save did not complete the session: done=%v outcome=%s", done, outcome)
	}
	if score, _ := g.Score(); score != 10 {
		t.Errorf("Expected score 10, got %d", score)
	}

	layout := g.Layout()
	if layout[0][1] != StructureShop {
		t.Errorf("Expected shop at (1,0), got %q", layout[0][1])
	}
	if layout[0][0] != "" {
		t.Errorf("Expected cleared cell at (0,0), got %q", layout[0][0])
	}
}

func TestFarmingHarvestRequiresGrowth(t *testing.T) {
	g := NewFarming()
	g.Reset(0)

	g.Apply(Input{Name: "plant", X: 0, Y: 0, Value: "wheat"})
	g.Apply(Input{Name: "harvest", X: 0, Y: 0})
	if earned, _ := g.Score(); earned != 0 {
		t.Errorf("Unripe harvest paid out %d", earned)
	}

	g.Tick(cropGrowTime)
	if !g.Ripe(0, 0) {
		t.Fatal("Crop not ripe after full grow time")
	}
	g.Apply(Input{Name: "harvest", X: 0, Y: 0})
	score, coins := g.Score()
	if score != cropRewards[CropWheat] {
		t.Errorf("Expected wheat reward %d, got %d", cropRewards[CropWheat], score)
	}
	if coins != score {
		t.Errorf("Farming coins should equal score, got %d/%d", coins, score)
	}

	outcome, done := g.Apply(Input{Name: "finish"})
	if !done || outcome != OutcomeComplete {
		t.Errorf("Finish did not complete the session: done=%v outcome=%s", done, outcome)
	}
}
