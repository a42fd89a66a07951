package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/lox/whot/cmd/whot/shared"
	"github.com/lox/whot/internal/game"
	"github.com/lox/whot/internal/randutil"
	"github.com/lox/whot/internal/simulator"
	"github.com/lox/whot/internal/store"
)

// SimulateCmd plays bot games and prints the resulting leaderboard
type SimulateCmd struct {
	Games      int      `kong:"default='1000',help='Number of games to play'"`
	Players    int      `kong:"default='4',help='Players per game (2-6)'"`
	Seed       *int64   `kong:"help='Deterministic RNG seed (optional)'"`
	Workers    int      `kong:"default='0',help='Concurrent games (0 uses every CPU)'"`
	Effects    string   `kong:"default='advisory',enum='advisory,enforced',help='Special card effects'"`
	Strategies []string `kong:"default='greedy,rand',help='Bot strategies assigned to seats in turn'"`
	MaxMoves   int      `kong:"default='2000',help='Moves after which a game counts as stalled'"`
	DataDir    string   `kong:"help='Also write every game to this file store directory'"`
	Limit      int      `kong:"default='10',help='Leaderboard rows to print'"`
	Debug      bool     `kong:"help='Enable debug logging'"`
	NoColor    bool     `kong:"help='Disable colored output'"`
}

func (c *SimulateCmd) Run() error {
	logger, err := shared.SetupLogger(shared.DebugLevel(c.Debug), c.NoColor)
	if err != nil {
		return err
	}

	mode, err := game.ParseEffectMode(c.Effects)
	if err != nil {
		return err
	}

	seed := randutil.TimeSeed()
	if c.Seed != nil {
		seed = *c.Seed
	}
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	config := simulator.Config{
		Games:      c.Games,
		Players:    c.Players,
		Seed:       seed,
		Workers:    workers,
		Rules:      game.Rules{Effects: mode},
		Strategies: c.Strategies,
		MaxMoves:   c.MaxMoves,
		Logger:     logger,
	}
	if c.DataDir != "" {
		st, err := store.NewFile(c.DataDir)
		if err != nil {
			return err
		}
		defer st.Close()
		config.Store = st
	}

	logger.Info("Starting simulation",
		"games", c.Games,
		"players", c.Players,
		"seed", seed,
		"workers", workers,
		"effects", mode,
		"strategies", c.Strategies)

	ctx := shared.SetupSignalHandler(logger)
	start := time.Now()
	result, err := simulator.New(config).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(renderSummary(result, time.Since(start)))
	fmt.Println(renderLeaderboard(result.Leaderboard(c.Limit)))
	return nil
}
