// Package store persists rooms and serializes transitions on each one.
//
// Every implementation runs Update as a single read-validate-write step per
// room: two concurrent updates of the same room are applied one after the
// other, and the second sees the result of the first. Distinct rooms do not
// contend.
package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lox/whot/internal/game"
)

var (
	ErrNotFound = errors.New("room not found")
	ErrExists   = errors.New("room already exists")
	ErrConflict = errors.New("room modified concurrently")
)

// UpdateFunc receives a private copy of the current snapshot and returns the
// next one. Returning an error aborts the update and nothing is written.
type UpdateFunc func(g *game.Game) (*game.Game, error)

// Store is the persistence collaborator for the room service
type Store interface {
	// Create stores a new room at version 1
	Create(ctx context.Context, g *game.Game) (*game.Game, error)
	// Get returns a copy of the current snapshot
	Get(ctx context.Context, id string) (*game.Game, error)
	// Update applies fn atomically and returns the committed snapshot
	Update(ctx context.Context, id string, fn UpdateFunc) (*game.Game, error)
	// List returns every room, oldest first
	List(ctx context.Context) ([]*game.Game, error)
	Close() error
}

// next checks the snapshot returned by an UpdateFunc and stamps its version.
func next(id string, prev, g *game.Game) (*game.Game, error) {
	if g == nil {
		return nil, fmt.Errorf("update of room %s returned no snapshot", id)
	}
	if g.ID != id {
		return nil, fmt.Errorf("update of room %s changed its id to %q", id, g.ID)
	}
	g.Version = prev.Version + 1
	return g, nil
}

func initial(g *game.Game) (*game.Game, error) {
	if g == nil || g.ID == "" {
		return nil, errors.New("room has no id")
	}
	c := g.Clone()
	c.Version = 1
	return c, nil
}

func sortRooms(games []*game.Game) {
	slices.SortStableFunc(games, func(a, b *game.Game) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), strings.Compare(a.ID, b.ID))
	})
}
