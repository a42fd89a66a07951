package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEffectMode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    EffectMode
		wantErr bool
	}{
		{in: "", want: EffectsAdvisory},
		{in: "advisory", want: EffectsAdvisory},
		{in: " Enforced ", want: EffectsEnforced},
		{in: "strict", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseEffectMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestRulesJSON(t *testing.T) {
	t.Parallel()
	data, err := json.Marshal(Rules{Effects: EffectsEnforced})
	require.NoError(t, err)
	assert.JSONEq(t, `{"effects":"enforced"}`, string(data))

	var r Rules
	assert.Error(t, json.Unmarshal([]byte(`{"effects":"loud"}`), &r))
}
