package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// config holds the settings for a stress run.
type config struct {
	Producers int           // number of concurrent senders
	Items     int           // items sent by each producer
	Unbatched bool          // use a receiver without a local buffer
	Timeout   time.Duration // bound on the whole run
	LogLevel  string
	LogJSON   bool
}

// loadConfig reads settings from args, then MPSCSTRESS_* environment
// variables, then the file named by --config (if any), in that order of
// precedence, falling back to the flag defaults.
func loadConfig(args []string) (config, error) {
	fs := pflag.NewFlagSet("mpscstress", pflag.ContinueOnError)
	fs.Int("producers", 8, "Number of concurrent producers")
	fs.Int("items", 100000, "Number of items sent by each producer")
	fs.Bool("unbatched", false, "Receive without the local buffer")
	fs.Duration("timeout", time.Minute, "Time limit for the whole run")
	fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	fs.Bool("log-json", false, "Write logs as JSON instead of console text")
	fs.String("config", "", "Optional configuration file (JSON, YAML or TOML)")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return config{}, fmt.Errorf("binding flags: %w", err)
	}
	v.SetEnvPrefix("MPSCSTRESS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := config{
		Producers: v.GetInt("producers"),
		Items:     v.GetInt("items"),
		Unbatched: v.GetBool("unbatched"),
		Timeout:   v.GetDuration("timeout"),
		LogLevel:  v.GetString("log-level"),
		LogJSON:   v.GetBool("log-json"),
	}
	return cfg, cfg.check()
}

func (c config) check() error {
	switch {
	case c.Producers <= 0:
		return fmt.Errorf("producers must be positive (got %d)", c.Producers)
	case c.Items < 0:
		return fmt.Errorf("items must not be negative (got %d)", c.Items)
	case c.Timeout <= 0:
		return errors.New("timeout must be positive")
	}
	return nil
}

// newLogger constructs a logger writing to w at the configured level.
func (c config) newLogger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if !c.LogJSON {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
