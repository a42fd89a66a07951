package whot

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Shape represents the symbol printed on a card
type Shape uint8

const (
	Circle Shape = iota
	Triangle
	Cross
	Square
	Star
	Whot
)

// StandardShapes are the five shapes that carry numbered ranks, in deck order
var StandardShapes = [...]Shape{Circle, Triangle, Cross, Square, Star}

// WhotRank is the rank carried by every wild card
const WhotRank = 20

// String returns the lower-case name of the shape
func (s Shape) String() string {
	switch s {
	case Circle:
		return "circle"
	case Triangle:
		return "triangle"
	case Cross:
		return "cross"
	case Square:
		return "square"
	case Star:
		return "star"
	case Whot:
		return "whot"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the six defined shapes
func (s Shape) Valid() bool {
	return s <= Whot
}

// ParseShape parses a shape name, case-insensitively
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "circle":
		return Circle, nil
	case "triangle":
		return Triangle, nil
	case "cross":
		return Cross, nil
	case "square":
		return Square, nil
	case "star":
		return Star, nil
	case "whot":
		return Whot, nil
	}
	return 0, fmt.Errorf("invalid shape: %q", name)
}

// MarshalText encodes the shape as its name
func (s Shape) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid shape: %d", s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a shape name
func (s *Shape) UnmarshalText(text []byte) error {
	parsed, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Card is a single Whot card. Cards are plain values: two cards with the
// same shape and rank are interchangeable.
type Card struct {
	Shape Shape `json:"shape"`
	Rank  int   `json:"rank"`
}

// NewCard creates a card from shape and rank
func NewCard(shape Shape, rank int) Card {
	return Card{Shape: shape, Rank: rank}
}

// WhotCard returns the wild card
func WhotCard() Card {
	return Card{Shape: Whot, Rank: WhotRank}
}

// IsWhot reports whether the card is a wild card
func (c Card) IsWhot() bool {
	return c.Shape == Whot
}

// Valid reports whether the card can exist in a Whot deck
func (c Card) Valid() bool {
	if c.Shape == Whot {
		return c.Rank == WhotRank
	}
	return c.Shape.Valid() && ValidRank(c.Rank)
}

// ValidRank reports whether rank is carried by the standard shapes (1-14, no 8)
func ValidRank(rank int) bool {
	return rank >= 1 && rank <= 14 && rank != 8
}

// String returns the string representation of a card (e.g. "star-5")
func (c Card) String() string {
	return c.Shape.String() + "-" + strconv.Itoa(c.Rank)
}

// ParseCard parses the "shape-rank" form produced by String
func ParseCard(s string) (Card, error) {
	name, rank, ok := strings.Cut(s, "-")
	if !ok {
		return Card{}, fmt.Errorf("invalid card string: %q", s)
	}
	shape, err := ParseShape(name)
	if err != nil {
		return Card{}, err
	}
	n, err := strconv.Atoi(rank)
	if err != nil {
		return Card{}, fmt.Errorf("invalid rank in %q: %w", s, err)
	}
	card := Card{Shape: shape, Rank: n}
	if !card.Valid() {
		return Card{}, fmt.Errorf("no such card: %q", s)
	}
	return card, nil
}

// MustParseCards parses a space separated card list, panicking on error.
// Intended for tests.
func MustParseCards(s string) []Card {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			panic(err)
		}
		cards = append(cards, c)
	}
	return cards
}

// UnmarshalJSON accepts the object form as well as the "shape-rank" string form
func (c *Card) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseCard(s)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	type plain Card
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Card(p)
	return nil
}
