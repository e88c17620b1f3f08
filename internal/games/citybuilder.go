package games

import (
	"time"
)

// StructureType is a buildable city structure.
type StructureType string

const (
	StructureHouse StructureType = "house"
	StructurePark  StructureType = "park"
	StructureShop  StructureType = "shop"
)

// ValidStructure reports whether s is a known structure type.
func ValidStructure(s StructureType) bool {
	switch s {
	case StructureHouse, StructurePark, StructureShop:
		return true
	}
	return false
}

const cityGridSize = 6

// CityBuilder is the free-build mode: place or clear structures on a grid,
// then save the layout, which ends the session. Score is ten points per
// placed structure.
type CityBuilder struct {
	grid   [cityGridSize][cityGridSize]StructureType // "" = empty
	placed int
}

func NewCityBuilder() *CityBuilder { return &CityBuilder{} }

func (g *CityBuilder) Spec() EngineSpec {
	return EngineSpec{ID: "city-builder", Name: "City Builder", Mode: ModeCityBuilder}
}

func (g *CityBuilder) Reset(int64) {
	g.grid = [cityGridSize][cityGridSize]StructureType{}
	g.placed = 0
}

// Apply handles "place" (X, Y, Value=structure), "clear" (X, Y) and "save".
func (g *CityBuilder) Apply(in Input) (Outcome, bool) {
	switch in.Name {
	case "place":
		if !g.inBounds(in.X, in.Y) || !ValidStructure(StructureType(in.Value)) {
			return "", false
		}
		if g.grid[in.Y][in.X] == "" {
			g.placed++
		}
		g.grid[in.Y][in.X] = StructureType(in.Value)
	case "clear":
		if !g.inBounds(in.X, in.Y) {
			return "", false
		}
		if g.grid[in.Y][in.X] != "" {
			g.placed--
		}
		g.grid[in.Y][in.X] = ""
	case "save":
		return OutcomeComplete, true
	}
	return "", false
}

func (g *CityBuilder) inBounds(x, y int) bool {
	return x >= 0 && x < cityGridSize && y >= 0 && y < cityGridSize
}

func (g *CityBuilder) Tick(time.Duration) (Outcome, bool) { return "", false }

func (g *CityBuilder) Score() (int64, int64) {
	score := int64(g.placed) * 10
	return score, CoinsFor(ModeCityBuilder, score)
}

// Layout returns the grid as nested slices, empty cells as "".
func (g *CityBuilder) Layout() [][]StructureType {
	out := make([][]StructureType, cityGridSize)
	for y := range g.grid {
		row := make([]StructureType, cityGridSize)
		copy(row, g.grid[y][:])
		out[y] = row
	}
	return out
}

// Placed returns the number of occupied cells.
func (g *CityBuilder) Placed() int { return g.placed }
