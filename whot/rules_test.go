package whot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanPlay(t *testing.T) {
	t.Parallel()
	last := NewCard(Circle, 7)
	tests := []struct {
		name string
		card Card
		last *Card
		want bool
	}{
		{name: "nothing played yet", card: NewCard(Star, 3), last: nil, want: true},
		{name: "same shape", card: NewCard(Circle, 12), last: &last, want: true},
		{name: "same rank", card: NewCard(Square, 7), last: &last, want: true},
		{name: "no match", card: NewCard(Square, 9), last: &last, want: false},
		{name: "whot on anything", card: WhotCard(), last: &last, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanPlay(tt.card, tt.last))
		})
	}
}

func TestCanPlayWhotIsWildBothWays(t *testing.T) {
	t.Parallel()
	w := WhotCard()
	for _, c := range OrderedDeck() {
		last := c
		assert.True(t, CanPlay(w, &last), "whot on %s", c)
		assert.True(t, CanPlay(c, &w), "%s on whot", c)
		assert.True(t, CanPlay(c, nil), "%s with nothing played", c)
	}
}

func TestPlayable(t *testing.T) {
	t.Parallel()
	hand := MustParseCards("circle-3 star-7 square-9 whot-20")
	last := NewCard(Star, 3)
	assert.Equal(t, MustParseCards("circle-3 star-7 whot-20"), Playable(hand, &last))
	assert.Equal(t, hand, Playable(hand, nil))
}

func TestResolve(t *testing.T) {
	t.Parallel()
	tests := []struct {
		card Card
		want Effect
	}{
		{NewCard(Circle, 2), PickEffect(2)},
		{NewCard(Star, 2), PickEffect(2)},
		{NewCard(Star, 5), PickEffect(3)},
		{NewCard(Circle, 5), Effect{}},
		{NewCard(Square, 1), HoldOnEffect()},
		{NewCard(Triangle, 14), GeneralMarketEffect(1)},
		{NewCard(Circle, 7), Effect{}},
		{WhotCard(), Effect{}},
	}
	for _, tt := range tests {
		t.Run(tt.card.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.card))
		})
	}
	assert.True(t, Resolve(NewCard(Circle, 7)).IsNone())
}

func TestEffectJSON(t *testing.T) {
	t.Parallel()
	tests := []struct {
		effect Effect
		json   string
	}{
		{Effect{}, `null`},
		{PickEffect(3), `{"type":"pick","value":3}`},
		{HoldOnEffect(), `{"type":"hold","value":1}`},
		{GeneralMarketEffect(1), `{"type":"general_market","value":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.effect.String(), func(t *testing.T) {
			data, err := json.Marshal(tt.effect)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(data))

			var back Effect
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.effect, back)
		})
	}

	var e Effect
	assert.Error(t, json.Unmarshal([]byte(`{"type":"skip","value":1}`), &e))
}
