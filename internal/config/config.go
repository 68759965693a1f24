// Package config loads planner settings from YAML and PLANNER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/spirecomm/ironclad-planner/internal/game/eval"
	"github.com/spirecomm/ironclad-planner/internal/game/search"
	"github.com/spirecomm/ironclad-planner/internal/game/targeting"
)

// EnvPrefix is prepended to every environment override, e.g. PLANNER_SEARCH_TIMEOUT.
const EnvPrefix = "PLANNER"

// Config is the full planner configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Search    search.Config   `mapstructure:"search"`
	Weights   eval.Weights    `mapstructure:"weights"`
	Targeting TargetingConfig `mapstructure:"targeting"`
	Cards     CardsConfig     `mapstructure:"cards"`
	Replay    ReplayConfig    `mapstructure:"replay"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TargetingConfig overrides the forced kill order. Empty keeps the built-in list.
type TargetingConfig struct {
	Priorities []targeting.Priority `mapstructure:"priorities"`
}

// CardsConfig points at a card table file. Empty uses the embedded table.
type CardsConfig struct {
	Path string `mapstructure:"path"`
}

// ReplayConfig controls decision recording.
type ReplayConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// Default returns the configuration used when no file or overrides are given.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Search:  search.DefaultConfig(),
		Weights: eval.DefaultWeights(),
		Replay:  ReplayConfig{Dir: "replays"},
	}
}

// Load reads the YAML file at path, if any, and applies environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Lists replace the defaults instead of merging element-wise.
	if v.IsSet("weights.kill_reward_cards") {
		cfg.Weights.KillRewardCards = v.GetStringSlice("weights.kill_reward_cards")
	}
	if v.IsSet("weights.engine_powers") {
		cfg.Weights.EnginePowers = v.GetStringSlice("weights.engine_powers")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("search.max_depth", d.Search.MaxDepth)
	v.SetDefault("search.max_nodes", d.Search.MaxNodes)
	v.SetDefault("search.timeout", d.Search.Timeout)
	v.SetDefault("search.workers", d.Search.Workers)
	v.SetDefault("search.defensive_threshold", d.Search.DefensiveThreshold)

	v.SetDefault("cards.path", d.Cards.Path)
	v.SetDefault("replay.enabled", d.Replay.Enabled)
	v.SetDefault("replay.dir", d.Replay.Dir)
}

// Validate rejects settings the planner cannot run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	if c.Search.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("search.max_depth must be positive, got %d", c.Search.MaxDepth))
	}
	if c.Search.MaxNodes < 0 {
		errs = append(errs, fmt.Errorf("search.max_nodes must not be negative, got %d", c.Search.MaxNodes))
	}
	if c.Search.Timeout < 0 {
		errs = append(errs, fmt.Errorf("search.timeout must not be negative, got %s", c.Search.Timeout))
	}
	if c.Search.Workers < 0 {
		errs = append(errs, fmt.Errorf("search.workers must not be negative, got %d", c.Search.Workers))
	}
	for i, p := range c.Targeting.Priorities {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("targeting.priorities[%d]: name is required", i))
		}
		switch p.Position {
		case targeting.PositionLeftmost, targeting.PositionWeakest, "":
		default:
			errs = append(errs, fmt.Errorf("targeting.priorities[%d]: unknown position %q", i, p.Position))
		}
	}
	if c.Replay.Enabled && c.Replay.Dir == "" {
		errs = append(errs, errors.New("replay.dir is required when replay is enabled"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Selector builds the target selector for this configuration.
func (c *Config) Selector() *targeting.Selector {
	if len(c.Targeting.Priorities) == 0 {
		return targeting.NewSelector(nil)
	}
	return targeting.NewSelector(c.Targeting.Priorities)
}
