// Package mpsc implements an unbounded multiple-producer, single-consumer
// channel built from a mutex and a condition variable.
//
// A channel is created by [New], which returns the first [Sender] and the
// only [Receiver]. Additional senders are made with [Sender.Clone]. Senders
// never block. The receiver blocks while the channel is empty, and reports
// that the channel is closed once every sender has been closed and all the
// items sent have been received.
package mpsc

import (
	"errors"
	"sync"

	"github.com/creachadair/mds/queue"
)

// ErrClosed is the sentinel error reported when an operation finds that the
// channel or sender is closed.
var ErrClosed = errors.New("channel is closed")

// state is the block shared by all the senders and the receiver of a channel.
type state[T any] struct {
	// μ protects the fields below.
	// The ready condition must be signaled after μ is released.
	μ       sync.Mutex
	ready   sync.Cond       // L == &μ, waited on by the receiver
	queue   *queue.Queue[T] // pending items, in send order
	senders int             // number of open senders
}

func newState[T any]() *state[T] {
	s := &state[T]{queue: queue.New[T](), senders: 1}
	s.ready.L = &s.μ
	return s
}

// New creates a new channel and returns its initial sender and its receiver.
//
// The receiver moves items from the shared queue into a private buffer in
// batches, so that a burst of sends can be consumed with a single lock
// acquisition.
func New[T any]() (*Sender[T], *Receiver[T]) {
	s := newState[T]()
	return newSender(s), &Receiver[T]{s: s, buf: queue.New[T]()}
}

// NewUnbatched creates a new channel like [New], except that its receiver
// takes the lock for every item it receives.
func NewUnbatched[T any]() (*Sender[T], *Receiver[T]) {
	s := newState[T]()
	return newSender(s), &Receiver[T]{s: s}
}

// release drops one sender from the count, and wakes the receiver if that
// was the last one.
func (s *state[T]) release() {
	s.μ.Lock()
	last := s.releaseLocked()
	s.μ.Unlock()
	if last {
		s.ready.Signal() // N.B. even if nothing was ever sent
	}
}

// releaseLocked drops one sender from the count and reports whether the
// count has reached zero. The caller must hold s.μ.
func (s *state[T]) releaseLocked() bool {
	s.senders--
	return s.senders == 0
}
