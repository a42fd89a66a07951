package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/whot/whot"
)

func TestDealFourPlayers(t *testing.T) {
	t.Parallel()
	deck := whot.OrderedDeck()
	players := []string{"a", "b", "c", "d"}

	hands, remaining, starter, err := Deal(deck, players)
	require.NoError(t, err)

	for _, p := range players {
		assert.Len(t, hands[p], 6, p)
	}
	assert.Len(t, remaining, 45)
	assert.Equal(t, deck[45], starter)
	assert.Equal(t, deck[:45], remaining)

	piles := [][]whot.Card{remaining, {starter}}
	for _, h := range hands {
		piles = append(piles, h)
	}
	assert.Equal(t, whot.Count(deck), whot.Count(piles...))
}

func TestDealIsRoundRobinFromTop(t *testing.T) {
	t.Parallel()
	deck := whot.OrderedDeck()
	n := len(deck)
	hands, _, _, err := Deal(deck, []string{"a", "b"})
	require.NoError(t, err)

	// First pass: a gets the top card, b the next; second pass continues.
	assert.Equal(t, deck[n-1], hands["a"][0])
	assert.Equal(t, deck[n-2], hands["b"][0])
	assert.Equal(t, deck[n-3], hands["a"][1])
	assert.Equal(t, deck[n-4], hands["b"][1])
}

func TestDealDoesNotModifyDeck(t *testing.T) {
	t.Parallel()
	deck := whot.OrderedDeck()
	_, _, _, err := Deal(deck, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, whot.OrderedDeck(), deck)
}

func TestDealInsufficientCards(t *testing.T) {
	t.Parallel()
	deck := whot.OrderedDeck()[:12]
	_, _, _, err := Deal(deck, []string{"a", "b"})
	assert.ErrorIs(t, err, ErrInsufficientCards)

	_, _, _, err = Deal(whot.OrderedDeck()[:13], []string{"a", "b"})
	assert.NoError(t, err)
}

func TestDealSixPlayersFitsDeck(t *testing.T) {
	t.Parallel()
	_, remaining, _, err := Deal(whot.OrderedDeck(), []string{"a", "b", "c", "d", "e", "f"})
	require.NoError(t, err)
	assert.Len(t, remaining, 70-36-1)
}
