// Package simulator plays bot-only Whot games in bulk.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/whot/internal/bot"
	"github.com/lox/whot/internal/game"
	"github.com/lox/whot/internal/leaderboard"
	"github.com/lox/whot/internal/randutil"
	"github.com/lox/whot/internal/store"
)

// DefaultMaxMoves caps a single game so a pathological deal cannot spin forever
const DefaultMaxMoves = 2000

// Config holds configuration for running simulations
type Config struct {
	Games   int
	Players int
	Seed    int64
	Workers int
	Rules   game.Rules
	// Strategies are assigned to seats in order, cycling when there are more
	// seats than strategies. Seats rotate by game so no strategy keeps the
	// first move.
	Strategies []string
	MaxMoves   int
	// Store, when set, receives every simulated game's final snapshot
	Store  store.Store
	Clock  quartz.Clock
	Logger *log.Logger
}

// Result is the outcome of a simulation run
type Result struct {
	// Games holds the final snapshot of every game, in game order
	Games    []*game.Game
	Finished int
	Stalled  int
	Moves    int
}

// Leaderboard ranks the simulated players
func (r *Result) Leaderboard(limit int) []leaderboard.Entry {
	return leaderboard.AggregateN(r.Games, limit)
}

// Simulator runs bot games concurrently
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.MaxMoves < 1 {
		config.MaxMoves = DefaultMaxMoves
	}
	if len(config.Strategies) == 0 {
		config.Strategies = []string{"rand"}
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	config.Logger = config.Logger.WithPrefix("simulator")
	return &Simulator{config: config}
}

// Run plays every game and returns their final snapshots. Results depend
// only on the seed, never on the worker count.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if s.config.Games < 0 {
		return nil, fmt.Errorf("invalid game count %d", s.config.Games)
	}
	if s.config.Players < game.MinPlayers || s.config.Players > game.MaxPlayers {
		return nil, fmt.Errorf("players %d: %w", s.config.Players, game.ErrInvalidRoomSize)
	}
	for _, name := range s.config.Strategies {
		if _, err := bot.New(name, randutil.New(0), s.config.Logger); err != nil {
			return nil, err
		}
	}

	games := make([]*game.Game, s.config.Games)
	var completed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i := range s.config.Games {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			played, err := s.playGame(i)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i, s.config.Seed+int64(i), err)
			}
			if s.config.Store != nil {
				if _, err := s.config.Store.Create(ctx, played); err != nil {
					return fmt.Errorf("store game %d: %w", i, err)
				}
			}
			games[i] = played
			if n := completed.Add(1); n%1000 == 0 {
				s.config.Logger.Info("Progress", "games", n, "of", s.config.Games)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Games: games}
	for _, played := range games {
		result.Moves += played.Moves
		if played.Status == game.Finished {
			result.Finished++
		} else {
			result.Stalled++
		}
	}
	s.config.Logger.Debug("Simulation complete", "games", len(games), "finished", result.Finished, "stalled", result.Stalled)
	return result, nil
}

// seats returns the player identities for game i, rotated by i
func (s *Simulator) seats(i int) []string {
	n := s.config.Players
	players := make([]string, n)
	for seat := range n {
		strategy := s.config.Strategies[seat%len(s.config.Strategies)]
		players[(seat+i)%n] = fmt.Sprintf("%s-%d", strategy, seat+1)
	}
	return players
}

func (s *Simulator) playGame(i int) (*game.Game, error) {
	seed := s.config.Seed + int64(i)
	rng := randutil.New(seed)
	players := s.seats(i)

	g, err := game.NewRoom(fmt.Sprintf("simulation %d", i+1), players[0], s.config.Players,
		game.WithID(fmt.Sprintf("sim-%08d", i+1)),
		game.WithRules(s.config.Rules))
	if err != nil {
		return nil, err
	}
	g.CreatedAt = s.config.Clock.Now()
	for _, p := range players[1:] {
		if g, err = game.Join(g, p); err != nil {
			return nil, err
		}
	}
	if g, err = game.Start(g, g.Host, rng); err != nil {
		return nil, err
	}
	g.StartedAt = g.CreatedAt

	bots := make(map[string]bot.Bot, len(players))
	for seat := range players {
		strategy := s.config.Strategies[seat%len(s.config.Strategies)]
		id := fmt.Sprintf("%s-%d", strategy, seat+1)
		if bots[id], err = bot.New(strategy, rng, s.config.Logger); err != nil {
			return nil, err
		}
	}

	for g.Status == game.InProgress && g.Moves < s.config.MaxMoves {
		actor := g.CurrentTurn
		next, err := bot.Apply(g, actor, bots[actor].Decide(g, actor), rng)
		if errors.Is(err, game.ErrNoCardsAvailable) {
			// Every card is held; the game cannot progress.
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", actor, err)
		}
		g = next
	}
	if g.Status == game.Finished {
		g.FinishedAt = s.config.Clock.Now()
	}
	return g, nil
}
