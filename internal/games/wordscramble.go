package games

import (
	"math/rand"
	"strings"
	"time"
)

// scrambleWords is the fixed word pool. Reset picks by seed.
var scrambleWords = []string{
	"PUZZLE", "ARCADE", "PLAYER", "WINNER", "GAMING", "SCORES", "LEVELS", "BATTLE",
}

// WordScramble asks the player to unscramble a word in at most three
// attempts. Best scores are saved under the farming mode tag.
type WordScramble struct {
	word      string
	scrambled string
	attempts  int
	won       bool
}

const maxScrambleAttempts = 3

func NewWordScramble() *WordScramble { return &WordScramble{} }

func (g *WordScramble) Spec() EngineSpec {
	return EngineSpec{ID: "word-scramble", Name: "Word Scramble", Mode: ModeFarming}
}

func (g *WordScramble) Reset(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	g.word = scrambleWords[int(uint64(seed)%uint64(len(scrambleWords)))]
	g.scrambled = scrambleWord(g.word, rng)
	g.attempts = 0
	g.won = false
}

// scrambleWord shuffles the letters until the result differs from the word.
func scrambleWord(word string, rng *rand.Rand) string {
	letters := []byte(word)
	for {
		rng.Shuffle(len(letters), func(i, j int) {
			letters[i], letters[j] = letters[j], letters[i]
		})
		if string(letters) != word {
			return string(letters)
		}
	}
}

// Apply submits a guess in in.Value. Comparison is case-insensitive.
func (g *WordScramble) Apply(in Input) (Outcome, bool) {
	guess := strings.ToUpper(strings.TrimSpace(in.Value))
	if guess == "" {
		return "", false
	}
	g.attempts++
	if guess == g.word {
		g.won = true
		return OutcomeWon, true
	}
	if g.attempts >= maxScrambleAttempts {
		return OutcomeLost, true
	}
	return "", false
}

func (g *WordScramble) Tick(time.Duration) (Outcome, bool) { return "", false }

func (g *WordScramble) Score() (int64, int64) {
	if !g.won {
		return 0, 0
	}
	var score int64
	switch g.attempts {
	case 1:
		score = 1000
	case 2:
		score = 500
	default:
		score = 100
	}
	return score, CoinsFor(ModeFarming, score)
}

// Word returns the answer. Exposed for replay tooling.
func (g *WordScramble) Word() string { return g.word }

// Scrambled returns the shuffled presentation of the word.
func (g *WordScramble) Scrambled() string { return g.scrambled }

// Attempts returns the number of guesses so far.
func (g *WordScramble) Attempts() int { return g.attempts }
