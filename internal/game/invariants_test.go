package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/whot/internal/randutil"
	"github.com/lox/whot/whot"
)

// TestRandomGamesPreserveInvariants plays seeded games to completion with
// random legal moves and checks conservation after every transition.
func TestRandomGamesPreserveInvariants(t *testing.T) {
	t.Parallel()
	players := []string{"p1", "p2", "p3", "p4", "p5", "p6"}

	for _, mode := range []EffectMode{EffectsAdvisory, EffectsEnforced} {
		for seats := 2; seats <= MaxPlayers; seats++ {
			for seed := int64(0); seed < 8; seed++ {
				t.Run(fmt.Sprintf("%s/%d-players/seed-%d", mode, seats, seed), func(t *testing.T) {
					t.Parallel()
					playRandomGame(t, seed, Rules{Effects: mode}, players[:seats])
				})
			}
		}
	}
}

func playRandomGame(t *testing.T, seed int64, rules Rules, players []string) {
	t.Helper()
	rng := randutil.New(seed + 1000)
	g := startedGame(t, seed, rules, players...)
	require.NoError(t, g.Validate())

	for move := 0; move < 5000 && g.Status == InProgress; move++ {
		actor := g.CurrentTurn
		for _, p := range players {
			if p == actor {
				continue
			}
			_, err := Draw(g, p, rng)
			require.ErrorIs(t, err, ErrNotYourTurn)
		}

		var (
			next *Game
			err  error
		)
		if legal := LegalPlays(g, actor); len(legal) > 0 {
			next, err = Play(g, actor, legal[rng.IntN(len(legal))], rng)
		} else {
			next, err = Draw(g, actor, rng)
		}
		if errors.Is(err, ErrNoCardsAvailable) {
			// Every card is in someone's hand; nothing more to check.
			break
		}
		require.NoError(t, err)
		require.NoError(t, next.Validate(), "after move %d by %s", move, actor)
		assert.Equal(t, whot.DeckSize, next.CardCount())
		g = next
	}

	if g.Status == Finished {
		assert.Empty(t, g.Hands[g.Winner])
		assert.Empty(t, g.CurrentTurn)
		_, err := Draw(g, g.Winner, rng)
		assert.ErrorIs(t, err, ErrGameFinished)
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	t.Parallel()
	base := startedGame(t, 3, Rules{}, "alice", "bob")
	require.NoError(t, base.Validate())

	tests := []struct {
		name    string
		corrupt func(g *Game)
	}{
		{"lost card", func(g *Game) { g.DrawPile = g.DrawPile[1:] }},
		{"duplicated card", func(g *Game) {
			g.DrawPile[0] = whot.NewCard(whot.Circle, 1)
			g.DrawPile[1] = whot.NewCard(whot.Circle, 1)
		}},
		{"duplicate player", func(g *Game) { g.Players = append(g.Players, "alice") }},
		{"turn for stranger", func(g *Game) { g.CurrentTurn = "zed" }},
		{"winner while in progress", func(g *Game) { g.Winner = "alice" }},
		{"last played mismatch", func(g *Game) {
			c := whot.NewCard(whot.Star, 99)
			g.LastPlayed = &c
		}},
		{"hand for stranger", func(g *Game) { g.Hands["zed"] = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := base.Clone()
			tt.corrupt(g)
			assert.Error(t, g.Validate())
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()
	g := startedGame(t, 4, Rules{}, "alice", "bob")
	c := g.Clone()
	c.Hands["alice"][0] = whot.WhotCard()
	c.DrawPile[0] = whot.WhotCard()
	c.Players[0] = "mallory"
	*c.LastPlayed = whot.NewCard(whot.Star, 1)

	assert.Equal(t, "alice", g.Players[0])
	assert.NoError(t, g.Validate())
}
