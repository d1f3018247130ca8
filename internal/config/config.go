package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the duel engine and its commands.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Logging LoggingConfig `mapstructure:"logging"`
	Server  ServerConfig  `mapstructure:"server"`
	Cards   CardsConfig   `mapstructure:"cards"`
	Match   MatchConfig   `mapstructure:"match"`
}

// EngineConfig holds the rules parameters of a match.
type EngineConfig struct {
	StartingLife     int    `mapstructure:"starting_life"`
	HandSize         int    `mapstructure:"hand_size"`
	OpeningHand      int    `mapstructure:"opening_hand"`
	Mulligan         bool   `mapstructure:"mulligan"`
	MaxSBAIterations int    `mapstructure:"max_sba_iterations"`
	LogLimit         int    `mapstructure:"log_limit"`
	Seed             uint64 `mapstructure:"seed"`
}

// LoggingConfig holds logger configuration. Output is a zap sink: stderr,
// stdout or a file path.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ServerConfig holds the websocket demo server configuration.
type ServerConfig struct {
	Address     string `mapstructure:"address"`
	ReadBuffer  int    `mapstructure:"read_buffer"`
	WriteBuffer int    `mapstructure:"write_buffer"`
}

// CardsConfig points at a card catalog. An empty path uses the built-in catalog.
type CardsConfig struct {
	Path string `mapstructure:"path"`
}

// MatchConfig names the two seats and the sample deck each one plays.
type MatchConfig struct {
	Players []string `mapstructure:"players"`
	Decks   []string `mapstructure:"decks"`
}

// Load reads configuration from path. Environment variables prefixed with
// DUEL_ override file values, e.g. DUEL_ENGINE_STARTING_LIFE.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Engine.StartingLife <= 0:
		return fmt.Errorf("engine.starting_life must be positive, got %d", c.Engine.StartingLife)
	case c.Engine.HandSize < 0:
		return fmt.Errorf("engine.hand_size cannot be negative, got %d", c.Engine.HandSize)
	case c.Engine.OpeningHand < 0:
		return fmt.Errorf("engine.opening_hand cannot be negative, got %d", c.Engine.OpeningHand)
	case c.Engine.MaxSBAIterations <= 0:
		return fmt.Errorf("engine.max_sba_iterations must be positive, got %d", c.Engine.MaxSBAIterations)
	case len(c.Match.Players) != 2:
		return fmt.Errorf("match.players must name 2 players, got %d", len(c.Match.Players))
	case len(c.Match.Decks) != len(c.Match.Players):
		return fmt.Errorf("match.decks must have one deck per player")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DUEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("engine.starting_life", 20)
	v.SetDefault("engine.hand_size", 7)
	v.SetDefault("engine.opening_hand", 7)
	v.SetDefault("engine.mulligan", true)
	v.SetDefault("engine.max_sba_iterations", 100)
	v.SetDefault("engine.log_limit", 1000)
	v.SetDefault("engine.seed", 1)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("server.address", ":8090")
	v.SetDefault("server.read_buffer", 1024)
	v.SetDefault("server.write_buffer", 1024)

	v.SetDefault("cards.path", "")
	v.SetDefault("match.players", []string{"alice", "bob"})
	v.SetDefault("match.decks", []string{"green", "red"})
	return v
}
