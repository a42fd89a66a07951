package game

import (
	"slices"
	"strings"

	"github.com/lox/whot/whot"
)

// NewRoom creates a waiting room with the host seated first.
func NewRoom(roomName, host string, maxPlayers int, opts ...RoomOption) (*Game, error) {
	if maxPlayers < MinPlayers || maxPlayers > MaxPlayers {
		return nil, ErrInvalidRoomSize
	}
	name := strings.TrimSpace(roomName)
	if name == "" {
		return nil, ErrEmptyRoomName
	}
	if host == "" {
		return nil, ErrInvalidPlayer
	}

	g := &Game{
		RoomName:   name,
		Host:       host,
		Players:    []string{host},
		MaxPlayers: maxPlayers,
		Status:     Waiting,
		Hands:      make(map[string][]whot.Card),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Join seats identity at the end of the turn order. Joining a room you are
// already seated in is a no-op, whatever the status.
func Join(g *Game, identity string) (*Game, error) {
	if identity == "" {
		return nil, ErrInvalidPlayer
	}
	if g.IsMember(identity) {
		return g.Clone(), nil
	}
	if g.Status != Waiting {
		return nil, ErrGameStarted
	}
	if g.IsFull() {
		return nil, ErrRoomFull
	}

	next := g.Clone()
	next.Players = append(next.Players, identity)
	return next, nil
}

// Leave removes identity from a waiting room. The host cannot leave.
func Leave(g *Game, identity string) (*Game, error) {
	if !g.IsMember(identity) {
		return nil, ErrNotInRoom
	}
	if g.Status != Waiting {
		return nil, ErrGameStarted
	}
	if identity == g.Host {
		return nil, ErrHostCannotLeave
	}

	next := g.Clone()
	next.Players = slices.DeleteFunc(next.Players, func(p string) bool { return p == identity })
	return next, nil
}
