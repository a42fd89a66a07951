package game

import (
	"fmt"
	"strings"
)

// EffectMode selects whether special-card effects change the flow of play
type EffectMode uint8

const (
	// EffectsAdvisory records the effect for the next actor without acting on it
	EffectsAdvisory EffectMode = iota
	// EffectsEnforced applies pick, hold-on and general market mechanically
	EffectsEnforced
)

func (m EffectMode) String() string {
	switch m {
	case EffectsAdvisory:
		return "advisory"
	case EffectsEnforced:
		return "enforced"
	default:
		return "unknown"
	}
}

// ParseEffectMode parses "advisory" or "enforced". The empty string is advisory.
func ParseEffectMode(s string) (EffectMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "advisory":
		return EffectsAdvisory, nil
	case "enforced":
		return EffectsEnforced, nil
	}
	return 0, fmt.Errorf("invalid effect mode: %q", s)
}

// MarshalText encodes the mode name
func (m EffectMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name
func (m *EffectMode) UnmarshalText(text []byte) error {
	parsed, err := ParseEffectMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Rules holds per-room rule variations, fixed at room creation
type Rules struct {
	Effects EffectMode `json:"effects"`
}

// RoomOption configures a Game during creation.
type RoomOption func(*Game)

// WithRules sets the room's rule variations
func WithRules(r Rules) RoomOption {
	return func(g *Game) {
		g.Rules = r
	}
}

// WithID sets the room identifier
func WithID(id string) RoomOption {
	return func(g *Game) {
		g.ID = id
	}
}
