package server

import (
	"time"

	"github.com/lox/whot/internal/game"
	"github.com/lox/whot/whot"
)

// RoomView is a room as one player is allowed to see it. Other players'
// hands are reduced to counts and the draw pile is face down.
type RoomView struct {
	ID         string      `json:"id"`
	RoomName   string      `json:"room_name"`
	Host       string      `json:"host"`
	Players    []string    `json:"players"`
	MaxPlayers int         `json:"max_players"`
	Status     game.Status `json:"status"`
	Rules      game.Rules  `json:"rules"`

	Viewer     string         `json:"viewer,omitempty"`
	Hand       []whot.Card    `json:"hand,omitempty"`
	LegalPlays []whot.Card    `json:"legal_plays,omitempty"`
	HandCounts map[string]int `json:"hand_counts,omitempty"`

	DrawPileCount    int         `json:"draw_pile_count"`
	DiscardPileCount int         `json:"discard_pile_count"`
	LastPlayed       *whot.Card  `json:"last_played,omitempty"`
	CurrentTurn      string      `json:"current_turn,omitempty"`
	ActiveEffect     whot.Effect `json:"active_effect"`
	Winner           string      `json:"winner,omitempty"`

	Version uint64 `json:"version"`
	Moves   int    `json:"moves"`

	CreatedAt  time.Time `json:"created_at,omitzero"`
	StartedAt  time.Time `json:"started_at,omitzero"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// NewRoomView renders g for viewer. An empty viewer, or one not seated in
// the room, sees no cards at all.
func NewRoomView(g *game.Game, viewer string) RoomView {
	v := RoomView{
		ID:               g.ID,
		RoomName:         g.RoomName,
		Host:             g.Host,
		Players:          g.Players,
		MaxPlayers:       g.MaxPlayers,
		Status:           g.Status,
		Rules:            g.Rules,
		DrawPileCount:    len(g.DrawPile),
		DiscardPileCount: len(g.DiscardPile),
		LastPlayed:       g.LastPlayed,
		CurrentTurn:      g.CurrentTurn,
		ActiveEffect:     g.ActiveEffect,
		Winner:           g.Winner,
		Version:          g.Version,
		Moves:            g.Moves,
		CreatedAt:        g.CreatedAt,
		StartedAt:        g.StartedAt,
		FinishedAt:       g.FinishedAt,
	}
	if g.Status != game.Waiting {
		v.HandCounts = make(map[string]int, len(g.Hands))
		for id, hand := range g.Hands {
			v.HandCounts[id] = len(hand)
		}
	}
	if g.IsMember(viewer) {
		v.Viewer = viewer
		v.Hand = g.Hand(viewer)
		v.LegalPlays = game.LegalPlays(g, viewer)
	}
	return v
}

// RoomSummary is the listing form of a room
type RoomSummary struct {
	ID         string      `json:"id"`
	RoomName   string      `json:"room_name"`
	Host       string      `json:"host"`
	Players    int         `json:"players"`
	MaxPlayers int         `json:"max_players"`
	Status     game.Status `json:"status"`
	CreatedAt  time.Time   `json:"created_at,omitzero"`
}

func NewRoomSummary(g *game.Game) RoomSummary {
	return RoomSummary{
		ID:         g.ID,
		RoomName:   g.RoomName,
		Host:       g.Host,
		Players:    len(g.Players),
		MaxPlayers: g.MaxPlayers,
		Status:     g.Status,
		CreatedAt:  g.CreatedAt,
	}
}
