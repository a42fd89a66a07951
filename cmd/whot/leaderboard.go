package main

import (
	"context"
	"fmt"

	"github.com/lox/whot/cmd/whot/shared"
	"github.com/lox/whot/internal/leaderboard"
	"github.com/lox/whot/internal/server"
	"github.com/lox/whot/internal/store"
)

// LeaderboardCmd prints standings from games saved by the file store
type LeaderboardCmd struct {
	DataDir string `arg:"" optional:"" default:"whot-data" help:"File store directory"`
	Recent  int    `default:"100" help:"Only count this many of the most recently finished games"`
	Limit   int    `default:"10" help:"Rows to print"`
	NoColor bool   `help:"Disable colored output"`
}

func (c *LeaderboardCmd) Run() error {
	if c.NoColor {
		shared.DisableColor(nil)
	}

	entries, err := c.load(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(renderLeaderboard(entries))
	return nil
}

func (c *LeaderboardCmd) load(ctx context.Context) ([]leaderboard.Entry, error) {
	st, err := store.NewFile(c.DataDir)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	games, err := st.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.DataDir, err)
	}
	return leaderboard.AggregateN(server.RecentFinished(games, c.Recent), c.Limit), nil
}
