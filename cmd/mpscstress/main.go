// Program mpscstress runs many producers against a single mpsc channel and
// verifies that the consumer receives every item exactly once, in order for
// each producer.
//
// Usage:
//
//	mpscstress [--producers N] [--items N] [--unbatched] [--timeout D]
//
// Settings may also be given as MPSCSTRESS_* environment variables, for
// example MPSCSTRESS_PRODUCERS=32, or in a file named by --config.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "mpscstress: %v\n", err)
		os.Exit(2)
	}
	log, err := cfg.newLogger(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mpscstress: %v\n", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	log.Info().
		Int("producers", cfg.Producers).
		Int("items", cfg.Items).
		Bool("unbatched", cfg.Unbatched).
		Msg("starting")

	rep, err := run(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("verification failed")
		cancel()
		os.Exit(1)
	}
	log.Info().
		Int("received", rep.Received).
		Dur("elapsed", rep.Elapsed).
		Float64("items_per_sec", rep.Rate()).
		Msg("verified")
}
