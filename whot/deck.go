package whot

import (
	rand "math/rand/v2"
)

const (
	// RanksPerShape is the number of numbered cards of each standard shape
	RanksPerShape = 13
	// WhotCount is the number of wild cards in a deck
	WhotCount = 5
	// DeckSize is the total number of cards in a Whot deck
	DeckSize = len(StandardShapes)*RanksPerShape + WhotCount
)

// OrderedDeck returns the full 70-card deck in a fixed order: each standard
// shape with ranks 1-14 (skipping 8), then the five wild cards.
func OrderedDeck() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, shape := range StandardShapes {
		for rank := 1; rank <= 14; rank++ {
			if !ValidRank(rank) {
				continue
			}
			cards = append(cards, NewCard(shape, rank))
		}
	}
	for range WhotCount {
		cards = append(cards, WhotCard())
	}
	return cards
}

// NewDeck creates a new shuffled deck with explicit RNG
func NewDeck(rng *rand.Rand) []Card {
	cards := OrderedDeck()
	Shuffle(rng, cards)
	return cards
}

// Shuffle shuffles cards in place using Fisher-Yates. A nil rng falls back
// to the package-level source.
func Shuffle(rng *rand.Rand, cards []Card) {
	for i := len(cards) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Count tallies cards by value. Useful for comparing multisets, since the
// five wild cards are indistinguishable.
func Count(piles ...[]Card) map[Card]int {
	counts := make(map[Card]int, DeckSize)
	for _, pile := range piles {
		for _, c := range pile {
			counts[c]++
		}
	}
	return counts
}
