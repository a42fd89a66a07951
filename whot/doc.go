// Package whot defines the Whot card model and the pure rules that do not
// depend on game state: deck composition and shuffling, the legality rule,
// and special-card effects.
//
// # Deck
//
// A deck holds 70 cards: circle, triangle, cross, square and star each carry
// ranks 1-14 except 8, plus five wild "whot" cards of rank 20.
//
//	rng := randutil.New(42)
//	deck := whot.NewDeck(rng)
//
// # Rules
//
// CanPlay implements matching by shape or rank, with whot cards wild in both
// directions. Resolve maps a played card to the Effect the next actor faces.
package whot
