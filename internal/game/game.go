package game

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/lox/whot/whot"
)

const (
	// MinPlayers is the smallest room that can start
	MinPlayers = 2
	// MaxPlayers is the largest room that can be created
	MaxPlayers = 6
	// HandSize is the number of cards dealt to each player
	HandSize = 6
)

// Status represents the lifecycle stage of a game
type Status uint8

const (
	Waiting Status = iota
	InProgress
	Finished
)

// String returns the wire name of the status
func (s Status) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case InProgress:
		return "in_progress"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status as its wire name
func (s Status) MarshalText() ([]byte, error) {
	if s > Finished {
		return nil, fmt.Errorf("invalid status: %d", s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a wire name
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "waiting":
		*s = Waiting
	case "in_progress":
		*s = InProgress
	case "finished":
		*s = Finished
	default:
		return fmt.Errorf("invalid status: %q", text)
	}
	return nil
}

// Game is the authoritative state of one room, from the waiting room
// through to the final card.
type Game struct {
	ID         string   `json:"id"`
	RoomName   string   `json:"room_name"`
	Host       string   `json:"host"`
	Players    []string `json:"players"`
	MaxPlayers int      `json:"max_players"`
	Status     Status   `json:"status"`
	Rules      Rules    `json:"rules"`

	DrawPile     []whot.Card            `json:"draw_pile"`    // top is the last element
	DiscardPile  []whot.Card            `json:"discard_pile"` // top is the last element
	Hands        map[string][]whot.Card `json:"hands"`
	LastPlayed   *whot.Card             `json:"last_played,omitempty"`
	CurrentTurn  string                 `json:"current_turn,omitempty"`
	ActiveEffect whot.Effect            `json:"active_effect"`
	Winner       string                 `json:"winner,omitempty"`

	// Version is bumped by the store on every committed transition
	Version uint64 `json:"version"`
	// Moves counts plays and draws
	Moves int `json:"moves"`

	CreatedAt  time.Time `json:"created_at,omitzero"`
	StartedAt  time.Time `json:"started_at,omitzero"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	c := *g
	c.Players = slices.Clone(g.Players)
	c.DrawPile = slices.Clone(g.DrawPile)
	c.DiscardPile = slices.Clone(g.DiscardPile)
	if g.Hands != nil {
		c.Hands = make(map[string][]whot.Card, len(g.Hands))
		for id, hand := range g.Hands {
			c.Hands[id] = slices.Clone(hand)
		}
	}
	if g.LastPlayed != nil {
		last := *g.LastPlayed
		c.LastPlayed = &last
	}
	return &c
}

// IsMember reports whether identity is seated in the room
func (g *Game) IsMember(identity string) bool {
	return slices.Contains(g.Players, identity)
}

// IsFull reports whether no more players can be seated
func (g *Game) IsFull() bool {
	return len(g.Players) >= g.MaxPlayers
}

// Hand returns the cards held by identity
func (g *Game) Hand(identity string) []whot.Card {
	return g.Hands[identity]
}

// TopDiscard returns the most recently played card
func (g *Game) TopDiscard() (whot.Card, bool) {
	if len(g.DiscardPile) == 0 {
		return whot.Card{}, false
	}
	return g.DiscardPile[len(g.DiscardPile)-1], true
}

// CardCount returns the number of cards across hands and both piles
func (g *Game) CardCount() int {
	n := len(g.DrawPile) + len(g.DiscardPile)
	for _, hand := range g.Hands {
		n += len(hand)
	}
	return n
}

// Next returns the player seated after identity, wrapping around
func (g *Game) Next(identity string) string {
	i := slices.Index(g.Players, identity)
	if i < 0 || len(g.Players) == 0 {
		return ""
	}
	return g.Players[(i+1)%len(g.Players)]
}

// Validate checks the structural invariants of the game
func (g *Game) Validate() error {
	if g.MaxPlayers < MinPlayers || g.MaxPlayers > MaxPlayers {
		return fmt.Errorf("max players %d: %w", g.MaxPlayers, ErrInvalidRoomSize)
	}
	if len(g.Players) == 0 || len(g.Players) > g.MaxPlayers {
		return fmt.Errorf("player count %d outside 1..%d", len(g.Players), g.MaxPlayers)
	}
	seen := make(map[string]bool, len(g.Players))
	for _, p := range g.Players {
		if p == "" {
			return ErrInvalidPlayer
		}
		if seen[p] {
			return fmt.Errorf("duplicate player %q", p)
		}
		seen[p] = true
	}
	if !seen[g.Host] {
		return fmt.Errorf("host %q is not seated", g.Host)
	}
	if (g.Winner != "") != (g.Status == Finished) {
		return fmt.Errorf("winner %q inconsistent with status %s", g.Winner, g.Status)
	}

	switch g.Status {
	case Waiting:
		if g.CardCount() != 0 {
			return fmt.Errorf("waiting room holds %d cards", g.CardCount())
		}
		if g.CurrentTurn != "" {
			return fmt.Errorf("waiting room has a current turn")
		}
		return nil
	case InProgress:
		if !seen[g.CurrentTurn] {
			return fmt.Errorf("current turn %q is not seated", g.CurrentTurn)
		}
	case Finished:
		if !seen[g.Winner] {
			return fmt.Errorf("winner %q is not seated", g.Winner)
		}
		if len(g.Hands[g.Winner]) != 0 {
			return fmt.Errorf("winner %q still holds cards", g.Winner)
		}
		if g.CurrentTurn != "" {
			return fmt.Errorf("finished game has a current turn")
		}
	default:
		return fmt.Errorf("invalid status: %d", g.Status)
	}

	for id := range g.Hands {
		if !seen[id] {
			return fmt.Errorf("hand held by unseated player %q", id)
		}
	}
	if g.CardCount() != whot.DeckSize {
		return fmt.Errorf("card count %d, want %d", g.CardCount(), whot.DeckSize)
	}
	piles := make([][]whot.Card, 0, len(g.Hands)+2)
	piles = append(piles, g.DrawPile, g.DiscardPile)
	for _, hand := range g.Hands {
		piles = append(piles, hand)
	}
	if !maps.Equal(whot.Count(piles...), whot.Count(whot.OrderedDeck())) {
		return fmt.Errorf("cards in play do not form a whot deck")
	}
	top, ok := g.TopDiscard()
	if !ok || g.LastPlayed == nil || *g.LastPlayed != top {
		return fmt.Errorf("last played card does not match top of discard pile")
	}
	return nil
}
