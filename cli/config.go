package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultTarget = "HEROES3.EXE"

type Config struct {
	Target       string        `env:"H3CHEATS_TARGET" envDefault:"HEROES3.EXE"`
	Script       string        `env:"H3CHEATS_SCRIPT"`
	PollInterval time.Duration `env:"H3CHEATS_POLL_INTERVAL" envDefault:"100ms"`
	PointerSize  int           `env:"H3CHEATS_POINTER_SIZE"`
	Debug        bool          `env:"H3CHEATS_DEBUG"`

	Verbose       bool
	Quiet         bool
	ListProcesses bool
}

// Verbosity maps the debug and verbosity switches to h3cheats.Verbosity.
func (c Config) Verbosity() int {
	v := 0
	if c.Debug {
		v++
	}
	if c.Verbose {
		v++
	}
	if c.Quiet {
		v--
	}
	return v
}

// ParseConfig loads defaults from the environment, then lets flags and the
// optional positional target override them.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Script, "script", cfg.Script, "payload to inject instead of the built-in HEROES3.EXE one")
	fs.DurationVar(&cfg.PollInterval, "interval", cfg.PollInterval, "player_loop refresh interval")
	fs.IntVar(&cfg.PointerSize, "ptrsize", cfg.PointerSize, "target pointer size in bytes (0 = detect)")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "print debug messages and failure causes")
	fs.BoolVar(&cfg.Verbose, "v", false, "verbose output")
	fs.BoolVar(&cfg.Quiet, "q", false, "quiet output")
	fs.BoolVar(&cfg.ListProcesses, "ps", false, "list running processes and exit")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		cfg.Target = fs.Arg(0)
	default:
		return Config{}, errors.New("too many arguments")
	}
	if cfg.Target == "" {
		cfg.Target = defaultTarget
	}

	if cfg.PointerSize != 0 && cfg.PointerSize != 4 && cfg.PointerSize != 8 {
		return Config{}, fmt.Errorf("invalid pointer size %d: want 4 or 8", cfg.PointerSize)
	}
	if cfg.PollInterval <= 0 {
		return Config{}, fmt.Errorf("invalid interval %v", cfg.PollInterval)
	}
	return cfg, nil
}
