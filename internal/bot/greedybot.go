package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/whot/internal/game"
	"github.com/lox/whot/whot"
)

// GreedyBot sheds its hand as fast as it can. It prefers cards whose effect
// keeps or costs the opponents tempo, holds whot cards back as a last
// resort, and otherwise dumps the highest rank.
type GreedyBot struct {
	logger *log.Logger
}

func NewGreedyBot(logger *log.Logger) *GreedyBot {
	return &GreedyBot{logger: logger.WithPrefix("greedybot")}
}

func (b *GreedyBot) Decide(g *game.Game, identity string) Decision {
	legal := game.LegalPlays(g, identity)
	if len(legal) == 0 {
		return DrawDecision
	}

	best := legal[0]
	for _, c := range legal[1:] {
		if score(c) > score(best) {
			best = c
		}
	}
	b.logger.Debug("Decision", "player", identity, "card", best, "options", len(legal))
	return PlayDecision(best)
}

func score(c whot.Card) int {
	if c.IsWhot() {
		return 0
	}
	s := c.Rank
	switch whot.Resolve(c).Kind {
	case whot.HoldOn, whot.GeneralMarket:
		s += 200
	case whot.Pick:
		s += 100
	}
	return s
}
