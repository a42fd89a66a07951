package server

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/whot/internal/game"
)

// subscriberBuffer is how many snapshots a subscriber may fall behind before
// the oldest pending one is dropped.
const subscriberBuffer = 4

type subscriber struct {
	ch chan *game.Game
}

// Hub fans committed room snapshots out to subscribers. Subscribers that fall
// behind lose intermediate snapshots but always receive the latest one.
type Hub struct {
	mu     sync.Mutex
	rooms  map[string]map[*subscriber]struct{}
	latest map[string]uint64
	closed bool
	logger *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*subscriber]struct{}),
		latest: make(map[string]uint64),
		logger: logger.WithPrefix("hub"),
	}
}

// Subscribe registers interest in a room. The returned func unsubscribes and
// closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(roomID string) (<-chan *game.Game, func()) {
	sub := &subscriber{ch: make(chan *game.Game, subscriberBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	subs, ok := h.rooms[roomID]
	if !ok {
		subs = make(map[*subscriber]struct{})
		h.rooms[roomID] = subs
	}
	subs[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if subs, ok := h.rooms[roomID]; ok {
				if _, ok := subs[sub]; ok {
					delete(subs, sub)
					close(sub.ch)
				}
				if len(subs) == 0 {
					delete(h.rooms, roomID)
				}
			}
		})
	}
}

// Publish delivers g to every subscriber of its room. Snapshots older than
// one already published are ignored, so concurrent committers cannot make a
// subscriber step backwards.
func (h *Hub) Publish(g *game.Game) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || g.Version <= h.latest[g.ID] {
		return
	}
	if g.Status == game.Finished {
		// Nothing commits after the final snapshot.
		delete(h.latest, g.ID)
	} else {
		h.latest[g.ID] = g.Version
	}

	for sub := range h.rooms[g.ID] {
		snapshot := g.Clone()
		select {
		case sub.ch <- snapshot:
			continue
		default:
		}
		// Full: drop the oldest pending snapshot to make room.
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- snapshot:
		default:
			h.logger.Warn("Dropped snapshot for slow subscriber", "room", g.ID, "version", g.Version)
		}
	}
}

// Subscribers returns the number of subscribers to a room
func (h *Hub) Subscribers(roomID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[roomID])
}

// Close unsubscribes everyone. Later publishes are dropped.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, subs := range h.rooms {
		for sub := range subs {
			close(sub.ch)
		}
	}
	h.rooms = make(map[string]map[*subscriber]struct{})
	clear(h.latest)
}
