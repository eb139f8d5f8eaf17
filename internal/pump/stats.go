package pump

import "sync/atomic"

// Stats holds the running counters internal/stats polls periodically,
// grounded on the queue-depth/retry counters src/tq.go keeps per channel.
// All fields are independently atomic rather than mutex-guarded: readers
// only need an approximate, eventually-consistent snapshot.
type Stats struct {
	enqueued   atomic.Uint64
	bytesMoved atomic.Uint64
	retries    atomic.Uint64
}

func (s *Stats) recordEnqueue(n int) {
	s.enqueued.Add(1)
	s.bytesMoved.Add(uint64(n))
}

func (s *Stats) recordRetry() {
	s.retries.Add(1)
}

// StatsSnapshot is a point-in-time, copyable read of Stats.
type StatsSnapshot struct {
	Enqueued   uint64
	BytesMoved uint64
	Retries    uint64
}

func (s *Stats) snapshot() StatsSnapshot {
	return StatsSnapshot{
		Enqueued:   s.enqueued.Load(),
		BytesMoved: s.bytesMoved.Load(),
		Retries:    s.retries.Load(),
	}
}
