package whot

import (
	"encoding/json"
	"fmt"
)

// EffectKind identifies a special-card effect
type EffectKind uint8

const (
	NoEffect EffectKind = iota
	Pick
	HoldOn
	GeneralMarket
)

// String returns the wire name of the effect kind
func (k EffectKind) String() string {
	switch k {
	case NoEffect:
		return "none"
	case Pick:
		return "pick"
	case HoldOn:
		return "hold"
	case GeneralMarket:
		return "general_market"
	default:
		return "unknown"
	}
}

// Effect is the consequence of a special card, pending for the next actor.
// The zero value means no effect.
type Effect struct {
	Kind EffectKind
	N    int
}

// PickEffect forces the next player to draw n cards
func PickEffect(n int) Effect { return Effect{Kind: Pick, N: n} }

// HoldOnEffect lets the player who played keep the turn
func HoldOnEffect() Effect { return Effect{Kind: HoldOn, N: 1} }

// GeneralMarketEffect makes every other player draw n cards
func GeneralMarketEffect(n int) Effect { return Effect{Kind: GeneralMarket, N: n} }

// IsNone reports whether there is no effect
func (e Effect) IsNone() bool { return e.Kind == NoEffect }

func (e Effect) String() string {
	if e.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%s(%d)", e.Kind, e.N)
}

// Resolve returns the effect triggered by playing card. Rules are checked in
// table order; the first match wins.
func Resolve(card Card) Effect {
	switch {
	case card.Rank == 2:
		return PickEffect(2)
	case card.Rank == 5 && card.Shape == Star:
		return PickEffect(3)
	case card.Rank == 1:
		return HoldOnEffect()
	case card.Rank == 14:
		return GeneralMarketEffect(1)
	default:
		return Effect{}
	}
}

type effectJSON struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// MarshalJSON encodes the effect as {"type":"pick","value":2}, or null
func (e Effect) MarshalJSON() ([]byte, error) {
	if e.IsNone() {
		return []byte("null"), nil
	}
	return json.Marshal(effectJSON{Type: e.Kind.String(), Value: e.N})
}

// UnmarshalJSON decodes the MarshalJSON form
func (e *Effect) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*e = Effect{}
		return nil
	}
	var raw effectJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case "pick":
		*e = Effect{Kind: Pick, N: raw.Value}
	case "hold":
		*e = Effect{Kind: HoldOn, N: raw.Value}
	case "general_market":
		*e = Effect{Kind: GeneralMarket, N: raw.Value}
	case "none", "":
		*e = Effect{}
	default:
		return fmt.Errorf("invalid effect type: %q", raw.Type)
	}
	return nil
}
