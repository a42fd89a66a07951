package whot

// CanPlay reports whether card may be played on top of last. A nil last
// means nothing has been played yet.
func CanPlay(card Card, last *Card) bool {
	if last == nil {
		return true
	}
	if card.Shape == Whot || last.Shape == Whot {
		return true
	}
	return card.Shape == last.Shape || card.Rank == last.Rank
}

// Playable returns the cards in hand that may be played on last, in hand order
func Playable(hand []Card, last *Card) []Card {
	var out []Card
	for _, c := range hand {
		if CanPlay(c, last) {
			out = append(out, c)
		}
	}
	return out
}
