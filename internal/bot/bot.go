// Package bot provides automated Whot players for simulations.
package bot

import (
	"fmt"
	rand "math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/lox/whot/internal/game"
	"github.com/lox/whot/whot"
)

// Decision is a bot's move: play Card, or draw when Draw is set
type Decision struct {
	Draw bool
	Card whot.Card
}

// DrawDecision is the decision to draw
var DrawDecision = Decision{Draw: true}

// PlayDecision returns the decision to play c
func PlayDecision(c whot.Card) Decision {
	return Decision{Card: c}
}

func (d Decision) String() string {
	if d.Draw {
		return "draw"
	}
	return "play " + d.Card.String()
}

// Bot picks a move for the player whose turn it is
type Bot interface {
	Decide(g *game.Game, identity string) Decision
}

// Apply runs a decision through the engine
func Apply(g *game.Game, identity string, d Decision, rng *rand.Rand) (*game.Game, error) {
	if d.Draw {
		return game.Draw(g, identity, rng)
	}
	return game.Play(g, identity, d.Card, rng)
}

type factory func(rng *rand.Rand, logger *log.Logger) Bot

var strategies = map[string]factory{
	"rand":   func(rng *rand.Rand, logger *log.Logger) Bot { return NewRandBot(rng, logger) },
	"greedy": func(_ *rand.Rand, logger *log.Logger) Bot { return NewGreedyBot(logger) },
}

// Strategies lists the known strategy names
func Strategies() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a bot for the named strategy
func New(strategy string, rng *rand.Rand, logger *log.Logger) (Bot, error) {
	f, ok := strategies[strategy]
	if !ok {
		return nil, fmt.Errorf("unknown bot strategy %q", strategy)
	}
	return f(rng, logger), nil
}
