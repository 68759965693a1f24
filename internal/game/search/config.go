package search

import (
	"runtime"
	"time"
)

// Config bounds a single decision.
type Config struct {
	// MaxDepth is the longest card sequence explored.
	MaxDepth int `mapstructure:"max_depth"`
	// MaxNodes caps the number of resolved plays. Zero means no cap.
	MaxNodes int64 `mapstructure:"max_nodes"`
	// Timeout caps wall-clock time per decision. Zero means no deadline.
	Timeout time.Duration `mapstructure:"timeout"`
	// Workers is the number of root subtrees searched concurrently.
	Workers int `mapstructure:"workers"`
	// DefensiveThreshold: pure block cards are skipped while the forecast is at or below it.
	DefensiveThreshold int `mapstructure:"defensive_threshold"`
}

// DefaultConfig returns the planner defaults.
func DefaultConfig() Config {
	return Config{
		MaxDepth:           10,
		MaxNodes:           50000,
		Timeout:            2 * time.Second,
		Workers:            runtime.GOMAXPROCS(0),
		DefensiveThreshold: 2,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxDepth <= 0 {
		c.MaxDepth = d.MaxDepth
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	return c
}
