package games

import (
	"math/rand"
	"time"
)

// Fighter is one side of a battle.
type Fighter struct {
	Name   string `json:"name"`
	HP     int    `json:"hp"`
	MaxHP  int    `json:"maxHp"`
	Attack int    `json:"attack"`
}

// Battle is the turn-based fight: each player action damages the enemy, then
// the enemy strikes back if still standing. A win scores 50, a loss 0. Damage
// rolls come from the seed so a battle replays identically.
type Battle struct {
	rng    *rand.Rand
	player Fighter
	enemy  Fighter
	won    bool
	over   bool
}

func NewBattle() *Battle { return &Battle{} }

func (g *Battle) Spec() EngineSpec {
	return EngineSpec{ID: "battle", Name: "Battle", Mode: ModeBattle}
}

func (g *Battle) Reset(seed int64) {
	g.rng = rand.New(rand.NewSource(seed))
	g.player = Fighter{Name: "Player", HP: 100, MaxHP: 100, Attack: 20}
	g.enemy = Fighter{Name: "CPU", HP: 80, MaxHP: 80, Attack: 15}
	g.won = false
	g.over = false
}

// Apply performs one combat action: "attack", "defend" or "special".
func (g *Battle) Apply(in Input) (Outcome, bool) {
	var damage int
	switch in.Name {
	case "attack":
		damage = g.player.Attack + g.rng.Intn(10)
	case "defend":
		damage = g.player.Attack / 2
		g.player.HP += 10
		if g.player.HP > g.player.MaxHP {
			g.player.HP = g.player.MaxHP
		}
	case "special":
		damage = g.player.Attack * 2
	default:
		return "", false
	}

	g.enemy.HP -= damage
	if g.enemy.HP <= 0 {
		g.enemy.HP = 0
		g.won = true
		g.over = true
		return OutcomeWon, true
	}

	// Enemy turn.
	counter := g.enemy.Attack + g.rng.Intn(8)
	g.player.HP -= counter
	if g.player.HP <= 0 {
		g.player.HP = 0
		g.over = true
		return OutcomeLost, true
	}
	return "", false
}

func (g *Battle) Tick(time.Duration) (Outcome, bool) { return "", false }

func (g *Battle) Score() (int64, int64) {
	if !g.won {
		return 0, 0
	}
	return 50, CoinsFor(ModeBattle, 50)
}

// Player returns the player fighter state.
func (g *Battle) Player() Fighter { return g.player }

// Enemy returns the enemy fighter state.
func (g *Battle) Enemy() Fighter { return g.enemy }

// Won reports whether the player won.
func (g *Battle) Won() bool { return g.won }
