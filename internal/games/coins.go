package games

// CoinsFor derives the coin award for a score saved under a mode. Engines
// delegate to it from Score and the hub re-derives the award when a session
// ends, so the coins a player sees at game over and the coins credited to the
// profile always agree. Puzzle engines that save under a borrowed mode tag
// earn by that tag's rule.
func CoinsFor(m Mode, score int64) int64 {
	if score <= 0 {
		return 0
	}
	switch m {
	case ModeCar, ModeCityBuilder:
		return 0
	case ModeFarming:
		return score
	case ModeEndlessRun, ModeBattle:
		return score / 10
	case ModeIndoor:
		return score / 100
	default:
		return 0
	}
}
