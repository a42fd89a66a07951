// Package config loads the server's HCL configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/whot/internal/game"
	"github.com/lox/whot/internal/leaderboard"
)

// Store kinds
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config represents the complete server configuration
type Config struct {
	Seed        *int64             `hcl:"seed,optional"` // nil picks a time-based seed
	Server      *ServerSettings    `hcl:"server,block"`
	Store       *StoreSettings     `hcl:"store,block"`
	Rules       *RulesSettings     `hcl:"rules,block"`
	Leaderboard *LeaderboardConfig `hcl:"leaderboard,block"`
}

// ServerSettings contains listener and logging configuration
type ServerSettings struct {
	Address     string   `hcl:"address,optional"`
	Port        int      `hcl:"port,optional"`
	LogLevel    string   `hcl:"log_level,optional"`
	CORSOrigins []string `hcl:"cors_origins,optional"`
}

// StoreSettings selects and configures the persistence backend
type StoreSettings struct {
	Kind          string `hcl:"kind,optional"`
	DataDir       string `hcl:"data_dir,optional"`
	RedisAddr     string `hcl:"redis_addr,optional"`
	RedisPassword string `hcl:"redis_password,optional"`
	RedisDB       int    `hcl:"redis_db,optional"`
	RedisPrefix   string `hcl:"redis_prefix,optional"`
}

// RulesSettings sets the rule variations for newly created rooms
type RulesSettings struct {
	Effects string `hcl:"effects,optional"`
}

// LeaderboardConfig bounds the leaderboard query
type LeaderboardConfig struct {
	RecentGames int `hcl:"recent_games,optional"`
	Limit       int `hcl:"limit,optional"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	if diags := gohcl.DecodeBody(file.Body, nil, &config); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}

	if c.Store == nil {
		c.Store = &StoreSettings{}
	}
	if c.Store.Kind == "" {
		c.Store.Kind = StoreMemory
	}
	if c.Store.DataDir == "" {
		c.Store.DataDir = "whot-data"
	}
	if c.Store.RedisAddr == "" {
		c.Store.RedisAddr = "localhost:6379"
	}
	if c.Store.RedisPrefix == "" {
		c.Store.RedisPrefix = "whot:"
	}

	if c.Rules == nil {
		c.Rules = &RulesSettings{}
	}
	if c.Rules.Effects == "" {
		c.Rules.Effects = game.EffectsAdvisory.String()
	}

	if c.Leaderboard == nil {
		c.Leaderboard = &LeaderboardConfig{}
	}
	if c.Leaderboard.RecentGames == 0 {
		c.Leaderboard.RecentGames = 100
	}
	if c.Leaderboard.Limit == 0 {
		c.Leaderboard.Limit = leaderboard.DefaultLimit
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Server.LogLevel)
	}
	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("invalid store kind: %q", c.Store.Kind)
	}
	if c.Store.RedisDB < 0 {
		return fmt.Errorf("invalid redis db: %d", c.Store.RedisDB)
	}
	if _, err := c.GameRules(); err != nil {
		return err
	}
	if c.Leaderboard.RecentGames < 1 {
		return fmt.Errorf("leaderboard recent_games must be positive")
	}
	if c.Leaderboard.Limit < 1 {
		return fmt.Errorf("leaderboard limit must be positive")
	}
	return nil
}

// GameRules returns the rule variations for new rooms
func (c *Config) GameRules() (game.Rules, error) {
	mode, err := game.ParseEffectMode(c.Rules.Effects)
	if err != nil {
		return game.Rules{}, err
	}
	return game.Rules{Effects: mode}, nil
}

// ListenAddress returns the host:port the HTTP server binds
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
