package main

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/lox/whot/cmd/whot/shared"
	"github.com/lox/whot/internal/config"
	"github.com/lox/whot/internal/randutil"
	"github.com/lox/whot/internal/server"
	"github.com/lox/whot/internal/store"
)

// ServerCmd runs the HTTP and websocket API. Flags override the config file.
type ServerCmd struct {
	Config    string `kong:"default='whot.hcl',help='HCL configuration file (missing file uses defaults)'"`
	Addr      string `kong:"help='Listen address as host:port'"`
	Store     string `kong:"help='Store backend: memory, file or redis'"`
	DataDir   string `kong:"help='Directory for the file store'"`
	RedisAddr string `kong:"help='Redis address for the redis store'"`
	Effects   string `kong:"help='Special card effects: advisory or enforced'"`
	Seed      *int64 `kong:"help='Deterministic RNG seed for the server (optional)'"`
	Debug     bool   `kong:"help='Enable debug logging'"`
	NoColor   bool   `kong:"help='Disable colored output'"`
}

func (c *ServerCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if err := c.applyOverrides(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	rules, err := cfg.GameRules()
	if err != nil {
		return err
	}

	logger, err := shared.SetupLogger(cfg.Server.LogLevel, c.NoColor)
	if err != nil {
		return err
	}

	seed, fixed := serverSeed(cfg)
	if fixed {
		logger.Info("Using deterministic seed", "seed", seed)
	} else {
		logger.Info("Using random seed", "seed", seed)
	}

	ctx := shared.SetupSignalHandler(logger)

	st, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("Closing store", "error", err)
		}
	}()

	svc := server.NewService(st, server.NewHub(logger), logger,
		server.WithSeed(seed),
		server.WithRules(rules),
		server.WithLeaderboard(cfg.Leaderboard.RecentGames, cfg.Leaderboard.Limit),
	)
	srv := server.NewServer(cfg.ListenAddress(), svc, logger, cfg.Server.CORSOrigins)

	logger.Info("Starting Whot server",
		"address", cfg.ListenAddress(),
		"store", cfg.Store.Kind,
		"effects", rules.Effects,
		"cors_origins", cfg.Server.CORSOrigins)

	return srv.ListenAndServe(ctx)
}

// applyOverrides copies explicitly set flags over the loaded configuration
func (c *ServerCmd) applyOverrides(cfg *config.Config) error {
	if c.Addr != "" {
		host, port, err := net.SplitHostPort(c.Addr)
		if err != nil {
			return fmt.Errorf("invalid --addr %q: %w", c.Addr, err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid --addr port %q: %w", port, err)
		}
		cfg.Server.Address = host
		cfg.Server.Port = p
	}
	if c.Store != "" {
		cfg.Store.Kind = c.Store
	}
	if c.DataDir != "" {
		cfg.Store.DataDir = c.DataDir
	}
	if c.RedisAddr != "" {
		cfg.Store.RedisAddr = c.RedisAddr
	}
	if c.Effects != "" {
		cfg.Rules.Effects = c.Effects
	}
	if c.Seed != nil {
		seed := *c.Seed
		cfg.Seed = &seed
	}
	if c.Debug {
		cfg.Server.LogLevel = "debug"
	}
	return nil
}

// serverSeed returns the configured seed, or a time-based one when none is
// set. Zero is a valid seed.
func serverSeed(cfg *config.Config) (int64, bool) {
	if cfg.Seed != nil {
		return *cfg.Seed, true
	}
	return randutil.TimeSeed(), false
}

func openStore(ctx context.Context, settings *config.StoreSettings, logger *log.Logger) (store.Store, error) {
	switch settings.Kind {
	case config.StoreFile:
		st, err := store.NewFile(settings.DataDir)
		if err != nil {
			return nil, err
		}
		logger.Info("Using file store", "dir", st.Dir())
		return st, nil
	case config.StoreRedis:
		st, err := store.DialRedis(ctx, settings.RedisAddr, settings.RedisPassword, settings.RedisDB, logger,
			store.WithPrefix(settings.RedisPrefix))
		if err != nil {
			return nil, err
		}
		logger.Info("Using redis store", "addr", settings.RedisAddr, "db", settings.RedisDB)
		return st, nil
	default:
		return store.NewMemory(), nil
	}
}
