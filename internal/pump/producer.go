package pump

import (
	"sync/atomic"
	"time"

	"github.com/apportable/openal-soft/internal/platform"
)

// producerWaitTick is the timed-wait granularity the source uses
// (ts.tv_nsec += 5000000): short enough that stop/suspend is observed
// quickly, long enough not to spin the CPU.
const producerWaitTick = 5 * time.Millisecond

// Producer is the dedicated mixing thread for one device: it advances the
// write cursor around the ring, mixes into FREE slots, and marks them
// MIXED (spec §4.3, "Producer loop").
type Producer struct {
	ring       *Ring
	mixer      platform.Mixer
	deviceName string
	frameCount int

	running atomic.Bool
	ready   atomic.Bool
}

// NewProducer builds a producer for ring, pulling frameCount frames per
// mix call (BUFFER_BYTES / frameSize).
func NewProducer(ring *Ring, mixer platform.Mixer, deviceName string, frameCount int) *Producer {
	return &Producer{ring: ring, mixer: mixer, deviceName: deviceName, frameCount: frameCount}
}

// Running reports whether the producer loop is still expected to run.
func (p *Producer) Running() bool { return p.running.Load() }

// Ready reports whether the loop has reached its wait point at least once,
// published so Device.start()'s spin-wait has something to observe.
func (p *Producer) Ready() bool { return p.ready.Load() }

// RequestStop asks the loop to exit at the next wait tick (spec §4.4
// stop(): "sets producerRunning=false"). It does not block; callers join
// the goroutine separately (see device.Device.Stop).
func (p *Producer) RequestStop() { p.running.Store(false) }

// Run executes the producer loop until RequestStop is called. It must run
// on its own goroutine; Device.start() is responsible for raising that
// goroutine's OS thread to real-time priority before calling Run.
func (p *Producer) Run() {
	p.running.Store(true)
	p.ready.Store(false)
	defer p.ready.Store(false)

	for {
		if !p.running.Load() {
			return
		}

		w := p.ring.advanceWrite()
		s := p.ring.Slots[w]

		s.Lock()
		p.ready.Store(true)
		for {
			if !p.running.Load() {
				s.Unlock()
				return
			}
			if p.ring.prerollGateOpen(w) && s.State() == Free {
				break
			}
			s.waitTimeout(producerWaitTick)
		}

		p.mixer.Mix(p.deviceName, s.Payload, p.frameCount)
		s.setStateLocked(Mixed)
		s.Unlock()
	}
}
