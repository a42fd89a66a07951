package game

import (
	rand "math/rand/v2"
	"slices"

	"github.com/lox/whot/whot"
)

// Start deals a fresh deck and hands the first turn to the first seat.
// Only the host may start, and only with at least two players seated.
func Start(g *Game, actor string, rng *rand.Rand) (*Game, error) {
	switch g.Status {
	case InProgress:
		return nil, ErrGameStarted
	case Finished:
		return nil, ErrGameFinished
	}
	if actor != g.Host {
		return nil, ErrNotHost
	}
	if len(g.Players) < MinPlayers {
		return nil, ErrNotEnoughPlayers
	}

	hands, remaining, starter, err := Deal(whot.NewDeck(rng), g.Players)
	if err != nil {
		return nil, err
	}

	next := g.Clone()
	next.Status = InProgress
	next.Hands = hands
	next.DrawPile = remaining
	next.DiscardPile = []whot.Card{starter}
	next.LastPlayed = &starter
	next.CurrentTurn = next.Players[0]
	next.ActiveEffect = whot.Effect{}
	return next, nil
}

// Play moves card from actor's hand onto the discard pile. Emptying the hand
// wins the game; otherwise the card's effect is recorded and the turn moves
// on (or stays, for an enforced hold-on or general market).
func Play(g *Game, actor string, card whot.Card, rng *rand.Rand) (*Game, error) {
	if err := checkTurn(g, actor); err != nil {
		return nil, err
	}
	idx := slices.Index(g.Hands[actor], card)
	if idx < 0 {
		return nil, ErrCardNotInHand
	}
	if g.pickPending() {
		return nil, ErrMustDraw
	}
	if !whot.CanPlay(card, g.LastPlayed) {
		return nil, ErrIllegalCard
	}

	next := g.Clone()
	next.Hands[actor] = slices.Delete(next.Hands[actor], idx, idx+1)
	next.DiscardPile = append(next.DiscardPile, card)
	next.LastPlayed = &card
	next.Moves++

	if len(next.Hands[actor]) == 0 {
		next.Status = Finished
		next.Winner = actor
		next.CurrentTurn = ""
		next.ActiveEffect = whot.Effect{}
		return next, nil
	}

	effect := whot.Resolve(card)
	next.ActiveEffect = effect
	next.CurrentTurn = next.Next(actor)

	if next.Rules.Effects != EffectsEnforced {
		return next, nil
	}
	switch effect.Kind {
	case whot.HoldOn:
		next.CurrentTurn = actor
	case whot.GeneralMarket:
		for p := next.Next(actor); p != actor; p = next.Next(p) {
			for range effect.N {
				c, err := drawCard(next, rng)
				if err != nil {
					// The market hands out what is left.
					break
				}
				next.Hands[p] = append(next.Hands[p], c)
			}
		}
		next.CurrentTurn = actor
	}
	return next, nil
}

// Draw gives actor the top card of the draw pile, reshuffling the discard
// pile (minus its top card) when the draw pile is empty. With enforced
// effects a pending pick-N draws N cards instead. The turn then passes and
// any effect is cleared.
func Draw(g *Game, actor string, rng *rand.Rand) (*Game, error) {
	if err := checkTurn(g, actor); err != nil {
		return nil, err
	}

	n := 1
	if g.pickPending() {
		n = g.ActiveEffect.N
	}

	next := g.Clone()
	for i := range n {
		c, err := drawCard(next, rng)
		if err != nil {
			if i == 0 {
				return nil, err
			}
			break
		}
		next.Hands[actor] = append(next.Hands[actor], c)
	}
	next.Moves++
	next.CurrentTurn = next.Next(actor)
	next.ActiveEffect = whot.Effect{}
	return next, nil
}

// LegalPlays returns the cards identity may play right now, in hand order.
// It is empty when it is not identity's turn or a draw is forced.
func LegalPlays(g *Game, identity string) []whot.Card {
	if checkTurn(g, identity) != nil || g.pickPending() {
		return nil
	}
	return whot.Playable(g.Hands[identity], g.LastPlayed)
}

func checkTurn(g *Game, actor string) error {
	switch g.Status {
	case Waiting:
		return ErrGameNotStarted
	case Finished:
		return ErrGameFinished
	}
	if actor == "" || actor != g.CurrentTurn {
		return ErrNotYourTurn
	}
	return nil
}

func (g *Game) pickPending() bool {
	return g.Rules.Effects == EffectsEnforced && g.ActiveEffect.Kind == whot.Pick
}

// drawCard pops the top of the draw pile, mutating g.
func drawCard(g *Game, rng *rand.Rand) (whot.Card, error) {
	if len(g.DrawPile) == 0 {
		if err := reshuffle(g, rng); err != nil {
			return whot.Card{}, err
		}
	}
	c := g.DrawPile[len(g.DrawPile)-1]
	g.DrawPile = g.DrawPile[:len(g.DrawPile)-1]
	return c, nil
}

// reshuffle turns everything under the top discard into a new draw pile.
func reshuffle(g *Game, rng *rand.Rand) error {
	if len(g.DiscardPile) <= 1 {
		return ErrNoCardsAvailable
	}
	top := g.DiscardPile[len(g.DiscardPile)-1]
	pile := slices.Clone(g.DiscardPile[:len(g.DiscardPile)-1])
	whot.Shuffle(rng, pile)
	g.DrawPile = pile
	g.DiscardPile = []whot.Card{top}
	return nil
}
