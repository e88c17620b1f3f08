package hub

import "github.com/playforge/arcadehub/internal/games"

// CoinsFor derives the coin award from a finished game's mode and score. The
// session protocol only transmits the score, so the award is recomputed here
// from the same derivation the engines use in Score.
func CoinsFor(mode string, score int64) int64 {
	return games.CoinsFor(games.Mode(mode), score)
}
