package mpsc

import (
	"context"
	"iter"

	"github.com/creachadair/mds/queue"
)

// A Receiver is the receiving end of a channel. There is exactly one receiver
// for each channel, and its methods must not be called concurrently.
type Receiver[T any] struct {
	s *state[T]

	// If non-nil, buf holds items moved from s.queue in a single step.
	// All of them precede any item still in s.queue. Only the receiver
	// touches buf, so it needs no lock.
	buf *queue.Queue[T]
}

// Recv blocks until an item is available or the channel is closed. If an
// item is available, Recv returns it and true. Otherwise, the channel is
// closed and drained, and Recv returns a zero value and false. Once Recv has
// reported false, it will continue to do so.
func (r *Receiver[T]) Recv() (T, bool) {
	if v, ok := r.popBuffered(); ok {
		return v, true
	}

	s := r.s
	s.μ.Lock()
	defer s.μ.Unlock()
	for {
		if v, ok := r.takeLocked(); ok {
			return v, true
		} else if s.senders == 0 {
			var zero T
			return zero, false
		}

		// N.B. Wakeups may be spurious, or may have been consumed by an earlier
		// call that already took the item, so always re-check.
		s.ready.Wait()
	}
}

// RecvContext behaves like [Receiver.Recv], but gives up if ctx ends before
// an item is available. If ctx ends, RecvContext reports the error from ctx;
// if the channel is closed and drained it reports [ErrClosed]. An item that
// is available when RecvContext is called is returned even if ctx has ended.
func (r *Receiver[T]) RecvContext(ctx context.Context) (T, error) {
	var zero T
	if v, ok := r.popBuffered(); ok {
		return v, nil
	}

	s := r.s
	stop := context.AfterFunc(ctx, func() {
		// Acquiring μ orders this wakeup after the receiver has either seen
		// ctx.Err or entered Wait, so the signal cannot be missed.
		s.μ.Lock()
		s.μ.Unlock()
		s.ready.Signal()
	})
	defer stop()

	s.μ.Lock()
	defer s.μ.Unlock()
	for {
		if v, ok := r.takeLocked(); ok {
			return v, nil
		} else if s.senders == 0 {
			return zero, ErrClosed
		} else if err := ctx.Err(); err != nil {
			return zero, err
		}
		s.ready.Wait()
	}
}

// TryRecv returns the next item and true if one is available without
// blocking. Otherwise it returns a zero value and false, whether or not the
// channel is closed.
func (r *Receiver[T]) TryRecv() (T, bool) {
	if v, ok := r.popBuffered(); ok {
		return v, true
	}
	r.s.μ.Lock()
	defer r.s.μ.Unlock()
	return r.takeLocked()
}

// All returns a sequence of the items received from r. The sequence ends when
// the channel is closed and drained. Each step of the sequence blocks as
// [Receiver.Recv] does.
func (r *Receiver[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := r.Recv()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Len reports the number of items sent to the channel that have not yet been
// received.
func (r *Receiver[T]) Len() int {
	r.s.μ.Lock()
	defer r.s.μ.Unlock()
	n := r.s.queue.Len()
	if r.buf != nil {
		n += r.buf.Len()
	}
	return n
}

// popBuffered pops the front of the private buffer, if there is one.
func (r *Receiver[T]) popBuffered() (T, bool) {
	if r.buf == nil {
		var zero T
		return zero, false
	}
	return r.buf.Pop()
}

// takeLocked pops the front of the shared queue, if there is one. If other
// items remain after it, and r is batching, they are moved to the private
// buffer so later receives do not need the lock. The caller must hold r.s.μ
// and r.buf must be empty.
func (r *Receiver[T]) takeLocked() (T, bool) {
	v, ok := r.s.queue.Pop()
	if ok && r.buf != nil && !r.s.queue.IsEmpty() {
		// Swap rather than copy: the empty buffer becomes the new shared queue.
		r.buf, r.s.queue = r.s.queue, r.buf
	}
	return v, ok
}
