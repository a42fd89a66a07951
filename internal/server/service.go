package server

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/whot/internal/game"
	"github.com/lox/whot/internal/gameid"
	"github.com/lox/whot/internal/leaderboard"
	"github.com/lox/whot/internal/randutil"
	"github.com/lox/whot/internal/store"
	"github.com/lox/whot/whot"
)

// DefaultRecentGames is how many finished games feed the leaderboard
const DefaultRecentGames = 100

// Service applies engine transitions to stored rooms and publishes every
// committed snapshot to the hub.
type Service struct {
	store  store.Store
	hub    *Hub
	clock  quartz.Clock
	ids    *gameid.Generator
	rng    *randutil.Source
	rules  game.Rules
	logger *log.Logger

	recentGames      int
	leaderboardLimit int
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithClock sets the clock used for room timestamps
func WithClock(clock quartz.Clock) ServiceOption {
	return func(s *Service) { s.clock = clock }
}

// WithSeed makes deck shuffles reproducible
func WithSeed(seed int64) ServiceOption {
	return func(s *Service) { s.rng = randutil.NewSource(seed) }
}

// WithRules sets the rule variations for rooms created from now on
func WithRules(rules game.Rules) ServiceOption {
	return func(s *Service) { s.rules = rules }
}

// WithIDGenerator overrides how room ids are minted
func WithIDGenerator(ids *gameid.Generator) ServiceOption {
	return func(s *Service) { s.ids = ids }
}

// WithLeaderboard bounds the leaderboard to the most recent finished games
// and the top limit players.
func WithLeaderboard(recentGames, limit int) ServiceOption {
	return func(s *Service) {
		s.recentGames = recentGames
		s.leaderboardLimit = limit
	}
}

// NewService creates a room service backed by st
func NewService(st store.Store, hub *Hub, logger *log.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		store:            st,
		hub:              hub,
		clock:            quartz.NewReal(),
		ids:              gameid.NewGenerator(nil),
		rng:              randutil.NewSource(randutil.TimeSeed()),
		logger:           logger.WithPrefix("rooms"),
		recentGames:      DefaultRecentGames,
		leaderboardLimit: leaderboard.DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hub returns the hub snapshots are published to
func (s *Service) Hub() *Hub { return s.hub }

// Clock returns the service clock
func (s *Service) Clock() quartz.Clock { return s.clock }

// CreateRoom opens a waiting room with host seated
func (s *Service) CreateRoom(ctx context.Context, host, roomName string, maxPlayers int) (*game.Game, error) {
	g, err := game.NewRoom(roomName, host, maxPlayers,
		game.WithID(s.ids.Generate()),
		game.WithRules(s.rules))
	if err != nil {
		return nil, err
	}
	g.CreatedAt = s.clock.Now()

	g, err = s.store.Create(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	s.logger.Info("Room created", "room", g.ID, "name", g.RoomName, "host", host, "max_players", maxPlayers, "effects", g.Rules.Effects)
	s.hub.Publish(g)
	return g, nil
}

// Join seats identity in the room. Rejoining is a no-op.
func (s *Service) Join(ctx context.Context, roomID, identity string) (*game.Game, error) {
	current, err := s.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if identity != "" && current.IsMember(identity) {
		return current, nil
	}
	return s.apply(ctx, roomID, "join", identity, func(g *game.Game, _ *rand.Rand) (*game.Game, error) {
		return game.Join(g, identity)
	})
}

// Leave removes identity from a waiting room
func (s *Service) Leave(ctx context.Context, roomID, identity string) (*game.Game, error) {
	return s.apply(ctx, roomID, "leave", identity, func(g *game.Game, _ *rand.Rand) (*game.Game, error) {
		return game.Leave(g, identity)
	})
}

// Start deals and begins the game
func (s *Service) Start(ctx context.Context, roomID, actor string) (*game.Game, error) {
	return s.apply(ctx, roomID, "start", actor, func(g *game.Game, rng *rand.Rand) (*game.Game, error) {
		return game.Start(g, actor, rng)
	})
}

// Play plays card from actor's hand
func (s *Service) Play(ctx context.Context, roomID, actor string, card whot.Card) (*game.Game, error) {
	return s.apply(ctx, roomID, "play", actor, func(g *game.Game, rng *rand.Rand) (*game.Game, error) {
		return game.Play(g, actor, card, rng)
	})
}

// Draw draws for actor
func (s *Service) Draw(ctx context.Context, roomID, actor string) (*game.Game, error) {
	return s.apply(ctx, roomID, "draw", actor, func(g *game.Game, rng *rand.Rand) (*game.Game, error) {
		return game.Draw(g, actor, rng)
	})
}

// Get returns the current snapshot of a room
func (s *Service) Get(ctx context.Context, roomID string) (*game.Game, error) {
	g, err := s.store.Get(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	return g, nil
}

// ListOpen returns waiting and in-progress rooms, newest first
func (s *Service) ListOpen(ctx context.Context) ([]*game.Game, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	open := make([]*game.Game, 0, len(all))
	for _, g := range all {
		if g.Status != game.Finished {
			open = append(open, g)
		}
	}
	slices.Reverse(open)
	return open, nil
}

// Leaderboard ranks players over the most recently finished games
func (s *Service) Leaderboard(ctx context.Context) ([]leaderboard.Entry, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return leaderboard.AggregateN(RecentFinished(all, s.recentGames), s.leaderboardLimit), nil
}

// RecentFinished returns up to n finished games, most recently finished first
func RecentFinished(games []*game.Game, n int) []*game.Game {
	var finished []*game.Game
	for _, g := range games {
		if g.Status == game.Finished {
			finished = append(finished, g)
		}
	}
	slices.SortStableFunc(finished, func(a, b *game.Game) int {
		return b.FinishedAt.Compare(a.FinishedAt)
	})
	if n > 0 && len(finished) > n {
		finished = finished[:n]
	}
	return finished
}

type transition func(g *game.Game, rng *rand.Rand) (*game.Game, error)

func (s *Service) apply(ctx context.Context, roomID, action, actor string, fn transition) (*game.Game, error) {
	rng := s.rng.Fork()
	g, err := s.store.Update(ctx, roomID, func(g *game.Game) (*game.Game, error) {
		next, err := fn(g, rng)
		if err != nil {
			return nil, err
		}
		now := s.clock.Now()
		if next.Status != game.Waiting && next.StartedAt.IsZero() {
			next.StartedAt = now
		}
		if next.Status == game.Finished && next.FinishedAt.IsZero() {
			next.FinishedAt = now
		}
		return next, nil
	})
	if err != nil {
		s.logger.Debug("Rejected", "action", action, "room", roomID, "player", actor, "error", err)
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	s.logger.Debug("Applied", "action", action, "room", roomID, "player", actor, "version", g.Version)
	switch {
	case action == "start":
		s.logger.Info("Game started", "room", roomID, "players", len(g.Players))
	case action == "play" && g.Status == game.Finished:
		s.logger.Info("Game finished", "room", roomID, "winner", g.Winner, "moves", g.Moves)
	}
	s.hub.Publish(g)
	return g, nil
}
