package mpsc

import "runtime"

// A Sender is a handle that delivers items to the receiver of a channel.
// Senders do not block, and any number of them may exist for a channel.
// The methods of a Sender are safe for concurrent use, but a Sender must not
// be copied; use [Sender.Clone] to obtain another handle.
//
// The channel remains open as long as any of its senders is open. Each
// sender should be closed by calling [Sender.Close] when its owner has
// finished sending.  A sender that becomes unreachable without being closed
// is eventually closed by the garbage collector, but the timing of that is
// not predictable.
type Sender[T any] struct {
	s       *state[T]
	closed  bool            // protected by s.μ
	cleanup runtime.Cleanup // releases s if the sender is abandoned
}

func newSender[T any](s *state[T]) *Sender[T] {
	tx := &Sender[T]{s: s}
	tx.cleanup = runtime.AddCleanup(tx, (*state[T]).release, s)
	return tx
}

// Send adds v to the end of the channel. Send does not block, and succeeds
// whether or not the receiver is still in use. It panics if tx is closed.
func (tx *Sender[T]) Send(v T) {
	s := tx.s
	s.μ.Lock()
	if tx.closed {
		s.μ.Unlock()
		panic("mpsc: send on closed sender")
	}
	s.queue.Add(v)
	s.μ.Unlock()

	// Wake the receiver, if it is waiting. This happens after the lock is
	// released, so the receiver does not wake only to block on μ.
	s.ready.Signal()
}

// Clone returns a new open sender for the same channel as tx. The channel
// stays open until the clone and tx have both been closed. Clone panics if
// tx is closed.
func (tx *Sender[T]) Clone() *Sender[T] {
	s := tx.s
	s.μ.Lock()
	if tx.closed {
		s.μ.Unlock()
		panic("mpsc: clone of closed sender")
	}
	s.senders++
	s.μ.Unlock()
	return newSender(s)
}

// Close closes tx. If tx is the last open sender for its channel, the
// channel is closed, and the receiver will report the end of the channel
// once any pending items have been received.
//
// Close returns nil the first time it is called, and ErrClosed thereafter.
func (tx *Sender[T]) Close() error {
	s := tx.s
	s.μ.Lock()
	if tx.closed {
		s.μ.Unlock()
		return ErrClosed
	}
	tx.closed = true
	last := s.releaseLocked()
	s.μ.Unlock()

	tx.cleanup.Stop() // the count has already been dropped
	if last {
		s.ready.Signal()
	}
	return nil
}
