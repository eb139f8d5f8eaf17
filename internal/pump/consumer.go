package pump

import (
	"sync/atomic"
	"time"

	"github.com/apportable/openal-soft/internal/platform"
)

// consumerWaitTick is the timed-wait granularity the source uses
// (ts.tv_nsec += 100000): short enough to preserve headroom under the
// ~23ms-per-buffer failure-mode timing constraint (spec §5).
const consumerWaitTick = 100 * time.Microsecond

// Consumer drains MIXED slots into the platform buffer queue in response
// to the platform's completion callback (spec §4.3, "Consumer callback").
// Unlike Producer, Consumer has no loop of its own: OnBufferComplete is
// invoked once per platform callback, serially, by platform code.
type Consumer struct {
	ring *Ring
	bq   platform.BufferQueue

	// running mirrors the device's producerRunning flag; the consumer
	// uses it only to know when to give up waiting for a MIXED slot
	// during teardown, never to start or stop itself.
	running *atomic.Bool

	stats Stats
}

// NewConsumer builds a consumer draining ring into bq. running must be
// the same flag the device's producer observes, so suspend/stop unblocks
// both sides together.
func NewConsumer(ring *Ring, bq platform.BufferQueue, running *atomic.Bool) *Consumer {
	return &Consumer{ring: ring, bq: bq, running: running}
}

// OnBufferComplete is the platform's buffer-queue completion callback: it
// advances the read cursor, reclaims the slot that just finished playing,
// waits for the next slot to be mixed, and hands it to the platform queue
// (spec §4.3 steps 1-8).
func (c *Consumer) OnBufferComplete() {
	idx := c.ring.advanceRead()
	s := c.ring.Slots[idx]

	s.Lock()
	defer s.Unlock()

	c.ring.reclaimDrained(idx)

	for s.State() != Mixed {
		if !c.running.Load() {
			// Stopping/suspended: don't block platform teardown.
			return
		}
		s.waitTimeout(consumerWaitTick)
	}

	if err := c.bq.Enqueue(s.Payload); err != nil {
		c.ring.rollbackRead()
		c.stats.recordRetry()
		return
	}

	s.setStateLocked(Enqueued)
	c.stats.recordEnqueue(len(s.Payload))
}

// Stats returns a snapshot of this consumer's running counters, used by
// internal/stats for periodic reporting.
func (c *Consumer) Stats() StatsSnapshot { return c.stats.snapshot() }
