// Package pump implements the producer/consumer ring buffer that mediates
// between the OpenAL mixer (producer side) and the platform's audio
// callback (consumer side). See original_source/Alc/backends/opensl.c's
// outputBuffer_t/playback_function/opensles_callback for the algorithm
// this package ports.
package pump

import (
	"sync"
	"sync/atomic"
	"time"
)

// State is a slot's position in the FREE -> MIXED -> ENQUEUED -> FREE
// cycle. The zero value, Unknown, only ever appears transiently during
// ring construction.
type State int32

const (
	Unknown State = iota
	Free
	Mixed
	Enqueued
)

func (s State) String() string {
	switch s {
	case Free:
		return "FREE"
	case Mixed:
		return "MIXED"
	case Enqueued:
		return "ENQUEUED"
	default:
		return "UNKNOWN"
	}
}

// Slot is one fixed-size PCM buffer plus its synchronization state. Each
// slot carries its own mutex and condvar; the producer and consumer each
// hold at most one slot's mutex at a time. State is read lock-free from
// other slots (the preroll gate, the consumer's drained-slot reclaim) per
// the concurrency model's documented exception: a slot can only leave
// ENQUEUED via the consumer and only leave FREE via the producer, so an
// unlocked atomic read/write of state from the "owning" side is safe.
type Slot struct {
	mu      sync.Mutex
	cond    *sync.Cond
	state   atomic.Int32
	Payload []byte
}

func newSlot(bufferBytes int) *Slot {
	s := &Slot{Payload: make([]byte, bufferBytes)}
	s.cond = sync.NewCond(&s.mu)
	s.state.Store(int32(Free))
	return s
}

// State returns the slot's current state without locking, for callers on
// the opposite side of the ring or external observers (tests, stats).
func (s *Slot) State() State { return State(s.state.Load()) }

// setStateLocked stores a new state and wakes any waiter; the caller must
// hold s.mu (mirrors the source setting ->state then pthread_cond_signal
// while still under the buffer's mutex).
func (s *Slot) setStateLocked(st State) {
	s.state.Store(int32(st))
	s.cond.Signal()
}

// Lock/Unlock expose the slot's mutex to producer/consumer loops, which
// need to interleave waiting with plain reads of their own slot.
func (s *Slot) Lock()   { s.mu.Lock() }
func (s *Slot) Unlock() { s.mu.Unlock() }

// waitTimeout blocks on the slot's condvar for at most d, waking early if
// another goroutine signals or broadcasts it. The caller must hold s.mu;
// sync.Cond has no native timed wait, so a one-shot timer drives a
// Broadcast after d the way pthread_cond_timedwait's deadline does.
func (s *Slot) waitTimeout(d time.Duration) {
	timer := time.AfterFunc(d, func() {
		s.mu.Lock()
		s.cond.Broadcast()
		s.mu.Unlock()
	})
	s.cond.Wait()
	timer.Stop()
}
