package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/whot/internal/game"
)

// RandBot plays a uniformly random legal card, drawing only when it has none
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger.WithPrefix("randbot")}
}

func (r *RandBot) Decide(g *game.Game, identity string) Decision {
	legal := game.LegalPlays(g, identity)
	if len(legal) == 0 {
		return DrawDecision
	}
	return PlayDecision(legal[r.rng.IntN(len(legal))])
}
