package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version     kong.VersionFlag `short:"v" help:"Show version"`
	Server      ServerCmd        `cmd:"" help:"Run the Whot room server"`
	Simulate    SimulateCmd      `cmd:"" help:"Play bot-only games and print the leaderboard"`
	Leaderboard LeaderboardCmd   `cmd:"" help:"Print the leaderboard from a file store"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("whot"),
		kong.Description("Whot card game server and tools"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
