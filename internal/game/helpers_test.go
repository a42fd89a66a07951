package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/whot/internal/randutil"
	"github.com/lox/whot/whot"
)

// fixedGame builds an in-progress game with hand-picked cards. The pile
// arguments use the MustParseCards form; top of each pile is the last card.
func fixedGame(t *testing.T, players []string, hands map[string]string, draw, discard string) *Game {
	t.Helper()
	g := &Game{
		RoomName:    "test",
		Host:        players[0],
		Players:     players,
		MaxPlayers:  MaxPlayers,
		Status:      InProgress,
		Hands:       make(map[string][]whot.Card, len(players)),
		DrawPile:    whot.MustParseCards(draw),
		DiscardPile: whot.MustParseCards(discard),
		CurrentTurn: players[0],
	}
	for _, p := range players {
		g.Hands[p] = whot.MustParseCards(hands[p])
	}
	if top, ok := g.TopDiscard(); ok {
		g.LastPlayed = &top
	}
	return g
}

// startedGame seats players and starts a real game from a seeded deck.
func startedGame(t *testing.T, seed int64, rules Rules, players ...string) *Game {
	t.Helper()
	g, err := NewRoom("table", players[0], MaxPlayers, WithRules(rules))
	require.NoError(t, err)
	for _, p := range players[1:] {
		g, err = Join(g, p)
		require.NoError(t, err)
	}
	g, err = Start(g, players[0], randutil.New(seed))
	require.NoError(t, err)
	return g
}

func card(s string) whot.Card {
	c, err := whot.ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}
