package games

import (
	"time"
)

// CropType is a plantable crop.
type CropType string

const (
	CropTomato CropType = "tomato"
	CropCarrot CropType = "carrot"
	CropWheat  CropType = "wheat"
)

// ValidCrop reports whether c is a known crop type.
func ValidCrop(c CropType) bool {
	switch c {
	case CropTomato, CropCarrot, CropWheat:
		return true
	}
	return false
}

// cropRewards maps crops to coin rewards per harvest.
var cropRewards = map[CropType]int64{
	CropTomato: 10,
	CropCarrot: 15,
	CropWheat:  20,
}

// cropGrowTime is the simulated time a crop needs before harvest.
const cropGrowTime = 10 * time.Second

const farmGridSize = 4

type farmPlot struct {
	crop    CropType // "" = empty
	growing time.Duration
}

// Farming is the farm mode: plant crops, wait for them to grow, harvest for
// coins, then close the day, which ends the session. Score equals total coins
// earned, so coins equal score.
type Farming struct {
	plots  [farmGridSize][farmGridSize]farmPlot
	earned int64
}

func NewFarming() *Farming { return &Farming{} }

func (g *Farming) Spec() EngineSpec {
	return EngineSpec{ID: "farming", Name: "Farming", Mode: ModeFarming, TimeDriven: true}
}

func (g *Farming) Reset(int64) {
	g.plots = [farmGridSize][farmGridSize]farmPlot{}
	g.earned = 0
}

// Apply handles "plant" (X, Y, Value=crop), "harvest" (X, Y) and "finish".
// Harvesting an unripe or empty plot does nothing.
func (g *Farming) Apply(in Input) (Outcome, bool) {
	switch in.Name {
	case "plant":
		if !g.inBounds(in.X, in.Y) || !ValidCrop(CropType(in.Value)) {
			return "", false
		}
		p := &g.plots[in.Y][in.X]
		if p.crop != "" {
			return "", false
		}
		p.crop = CropType(in.Value)
		p.growing = 0
	case "harvest":
		if !g.inBounds(in.X, in.Y) {
			return "", false
		}
		p := &g.plots[in.Y][in.X]
		if p.crop == "" || p.growing < cropGrowTime {
			return "", false
		}
		g.earned += cropRewards[p.crop]
		p.crop = ""
		p.growing = 0
	case "finish":
		return OutcomeComplete, true
	}
	return "", false
}

func (g *Farming) inBounds(x, y int) bool {
	return x >= 0 && x < farmGridSize && y >= 0 && y < farmGridSize
}

func (g *Farming) Tick(dt time.Duration) (Outcome, bool) {
	for y := range g.plots {
		for x := range g.plots[y] {
			if g.plots[y][x].crop != "" {
				g.plots[y][x].growing += dt
			}
		}
	}
	return "", false
}

func (g *Farming) Score() (int64, int64) {
	return g.earned, CoinsFor(ModeFarming, g.earned)
}

// Plots returns the grid as nested slices of crop types, empty plots as "".
func (g *Farming) Plots() [][]CropType {
	out := make([][]CropType, farmGridSize)
	for y := range g.plots {
		row := make([]CropType, farmGridSize)
		for x := range g.plots[y] {
			row[x] = g.plots[y][x].crop
		}
		out[y] = row
	}
	return out
}

// Ripe reports whether the plot at (x, y) is ready to harvest.
func (g *Farming) Ripe(x, y int) bool {
	if !g.inBounds(x, y) {
		return false
	}
	p := g.plots[y][x]
	return p.crop != "" && p.growing >= cropGrowTime
}
