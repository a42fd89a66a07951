package whot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		want    Card
		wantErr bool
	}{
		{name: "star five", input: "star-5", want: NewCard(Star, 5)},
		{name: "circle fourteen", input: "circle-14", want: NewCard(Circle, 14)},
		{name: "whot", input: "whot-20", want: WhotCard()},
		{name: "case insensitive", input: "TRIANGLE-1", want: NewCard(Triangle, 1)},
		{name: "rank eight does not exist", input: "square-8", wantErr: true},
		{name: "whot must be twenty", input: "whot-3", wantErr: true},
		{name: "rank out of range", input: "cross-15", wantErr: true},
		{name: "unknown shape", input: "heart-2", wantErr: true},
		{name: "missing separator", input: "star5", wantErr: true},
		{name: "non numeric rank", input: "star-x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCardStringRoundTrip(t *testing.T) {
	t.Parallel()
	for _, c := range OrderedDeck() {
		parsed, err := ParseCard(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestMustParseCardsPanics(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []Card{NewCard(Star, 5), WhotCard()}, MustParseCards("star-5 whot-20"))
	assert.Panics(t, func() { MustParseCards("star-8") })
}

func TestCardJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(NewCard(Star, 5))
	require.NoError(t, err)
	assert.JSONEq(t, `{"shape":"star","rank":5}`, string(data))

	var c Card
	require.NoError(t, json.Unmarshal([]byte(`{"shape":"whot","rank":20}`), &c))
	assert.Equal(t, WhotCard(), c)

	require.NoError(t, json.Unmarshal([]byte(`"cross-13"`), &c))
	assert.Equal(t, NewCard(Cross, 13), c)

	assert.Error(t, json.Unmarshal([]byte(`{"shape":"club","rank":3}`), &c))
}

func TestShapeValid(t *testing.T) {
	t.Parallel()
	for _, s := range StandardShapes {
		assert.True(t, s.Valid(), s.String())
	}
	assert.True(t, Whot.Valid())
	assert.False(t, Shape(42).Valid())
	assert.Equal(t, "unknown", Shape(42).String())
}
