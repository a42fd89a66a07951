// Package leaderboard tallies wins and games played across finished games.
package leaderboard

import (
	"slices"

	"github.com/lox/whot/internal/game"
)

// DefaultLimit is the number of entries Aggregate keeps
const DefaultLimit = 10

// Entry is one player's standing
type Entry struct {
	Identity    string `json:"identity"`
	Wins        int    `json:"wins"`
	GamesPlayed int    `json:"games_played"`
}

// WinRate returns the fraction of games won, in [0,1]
func (e Entry) WinRate() float64 {
	if e.GamesPlayed == 0 {
		return 0
	}
	return float64(e.Wins) / float64(e.GamesPlayed)
}

// Aggregate ranks players by wins across the finished games, keeping the top
// DefaultLimit entries.
func Aggregate(games []*game.Game) []Entry {
	return AggregateN(games, DefaultLimit)
}

// AggregateN is Aggregate with an explicit limit. A limit of zero or less
// keeps every entry.
//
// Games that are not finished are skipped. A finished game with no winner
// still counts towards games played. Ties keep the order in which players
// were first seen.
func AggregateN(games []*game.Game, limit int) []Entry {
	var entries []Entry
	index := make(map[string]int)

	entry := func(id string) *Entry {
		i, ok := index[id]
		if !ok {
			i = len(entries)
			index[id] = i
			entries = append(entries, Entry{Identity: id})
		}
		return &entries[i]
	}

	for _, g := range games {
		if g == nil || g.Status != game.Finished {
			continue
		}
		seen := make(map[string]bool, len(g.Players))
		for _, p := range g.Players {
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			entry(p).GamesPlayed++
		}
		if g.Winner != "" {
			entry(g.Winner).Wins++
		}
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.Wins - a.Wins
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
