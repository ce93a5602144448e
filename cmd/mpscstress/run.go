package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/creachadair/mpsc"
	"github.com/creachadair/taskgroup"
	"github.com/rs/zerolog"
)

// An item records which producer sent it, and its position in that
// producer's sequence.
type item struct {
	producer, seq int
}

// A report summarizes a successful run.
type report struct {
	Received int
	Elapsed  time.Duration
}

// Rate reports the number of items received per second.
func (r report) Rate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Received) / r.Elapsed.Seconds()
}

// run starts cfg.Producers goroutines each sending cfg.Items items, receives
// everything they send, and verifies that nothing was lost, duplicated, or
// reordered within a producer.
func run(ctx context.Context, cfg config, log zerolog.Logger) (report, error) {
	newChan := mpsc.New[item]
	if cfg.Unbatched {
		newChan = mpsc.NewUnbatched[item]
	}
	tx, rx := newChan()

	start := time.Now()
	g := taskgroup.New(nil)
	for p := range cfg.Producers {
		ptx := tx.Clone()
		g.Go(func() error {
			defer ptx.Close()
			for seq := range cfg.Items {
				ptx.Send(item{producer: p, seq: seq})
			}
			log.Debug().Int("producer", p).Msg("producer finished")
			return nil
		})
	}
	tx.Close()

	// Senders never block, so the producers finish even if we stop early.
	defer g.Wait()

	c := newChecker(cfg.Producers)
	for {
		v, err := rx.RecvContext(ctx)
		if errors.Is(err, mpsc.ErrClosed) {
			break
		} else if err != nil {
			return report{}, fmt.Errorf("receive after %d items: %w", c.total, err)
		}
		if err := c.observe(v); err != nil {
			return report{}, err
		}
	}
	if err := c.finish(cfg.Items); err != nil {
		return report{}, err
	}
	return report{Received: c.total, Elapsed: time.Since(start)}, nil
}

// A checker verifies the items received from a set of producers.
type checker struct {
	next  []int // next expected seq, per producer
	total int   // items observed
}

func newChecker(producers int) *checker { return &checker{next: make([]int, producers)} }

// observe checks that v is the next item expected from its producer.
func (c *checker) observe(v item) error {
	if v.producer < 0 || v.producer >= len(c.next) {
		return fmt.Errorf("item from unknown producer %d", v.producer)
	}
	want := c.next[v.producer]
	if v.seq < want {
		return fmt.Errorf("producer %d: got seq %d again, want %d", v.producer, v.seq, want)
	} else if v.seq > want {
		return fmt.Errorf("producer %d: got seq %d, missing %d", v.producer, v.seq, want)
	}
	c.next[v.producer]++
	c.total++
	return nil
}

// finish checks that every producer delivered exactly items items.
func (c *checker) finish(items int) error {
	for p, n := range c.next {
		if n != items {
			return fmt.Errorf("producer %d: received %d items, want %d", p, n, items)
		}
	}
	return nil
}
