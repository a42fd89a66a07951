package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/lox/whot/internal/game"
)

type memoryRoom struct {
	mu sync.Mutex
	g  *game.Game
}

// Memory keeps rooms in process. Each room has its own lock.
type Memory struct {
	mu    sync.RWMutex
	rooms map[string]*memoryRoom
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{rooms: make(map[string]*memoryRoom)}
}

func (m *Memory) room(id string) (*memoryRoom, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return r, nil
}

func (m *Memory) Create(_ context.Context, g *game.Game) (*game.Game, error) {
	c, err := initial(g)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[c.ID]; ok {
		return nil, fmt.Errorf("%s: %w", c.ID, ErrExists)
	}
	m.rooms[c.ID] = &memoryRoom{g: c}
	return c.Clone(), nil
}

func (m *Memory) Get(_ context.Context, id string) (*game.Game, error) {
	r, err := m.room(id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.g.Clone(), nil
}

func (m *Memory) Update(ctx context.Context, id string, fn UpdateFunc) (*game.Game, error) {
	r, err := m.room(id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	updated, err := fn(r.g.Clone())
	if err != nil {
		return nil, err
	}
	updated, err = next(id, r.g, updated)
	if err != nil {
		return nil, err
	}
	r.g = updated
	return updated.Clone(), nil
}

func (m *Memory) List(_ context.Context) ([]*game.Game, error) {
	m.mu.RLock()
	rooms := make([]*memoryRoom, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	games := make([]*game.Game, 0, len(rooms))
	for _, r := range rooms {
		r.mu.Lock()
		games = append(games, r.g.Clone())
		r.mu.Unlock()
	}
	sortRooms(games)
	return games, nil
}

func (m *Memory) Close() error { return nil }
