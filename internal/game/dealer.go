package game

import (
	"slices"

	"github.com/lox/whot/whot"
)

// Deal gives HandSize cards to each player, one at a time in seat order,
// popping from the end of deck. One more card is popped as the starter and
// the rest is returned as the draw pile. The caller's deck is not modified.
func Deal(deck []whot.Card, players []string) (hands map[string][]whot.Card, remaining []whot.Card, starter whot.Card, err error) {
	if len(deck) < HandSize*len(players)+1 {
		return nil, nil, whot.Card{}, ErrInsufficientCards
	}

	remaining = slices.Clone(deck)
	hands = make(map[string][]whot.Card, len(players))
	for _, p := range players {
		hands[p] = make([]whot.Card, 0, HandSize)
	}

	pop := func() whot.Card {
		c := remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
		return c
	}

	for range HandSize {
		for _, p := range players {
			hands[p] = append(hands[p], pop())
		}
	}
	starter = pop()
	return hands, remaining, starter, nil
}
