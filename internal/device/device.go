package device

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/apportable/openal-soft/internal/applog"
	"github.com/apportable/openal-soft/internal/dwerr"
	"github.com/apportable/openal-soft/internal/engine"
	"github.com/apportable/openal-soft/internal/platform"
	"github.com/apportable/openal-soft/internal/probe"
	"github.com/apportable/openal-soft/internal/pump"
	"github.com/apportable/openal-soft/internal/registry"
)

// startSpinTick is the yield interval start() uses while waiting for the
// producer to publish Ready.
const startSpinTick = 200 * time.Microsecond

// primer is the one-byte buffer enqueued at reset/resume to trigger the
// platform's first callback.
var primer = []byte{0}

// Device owns one platform audio sink's full lifecycle: its ring/pump,
// its platform player, and its lifecycle state.
type Device struct {
	Name string

	engine   *engine.Engine
	registry *registry.Registry
	prober   *probe.Prober
	mixer    platform.Mixer
	rtThread platform.RealTimeThread

	// deviceMutex is the API-level lock exposed to lock()/unlock() in the
	// dispatch table; it does not guard the ring.
	deviceMutex sync.Mutex

	// lifecycleMu guards lifecycle and the platform object handles, which
	// only change during open/reset/start/stop/suspend/resume/close.
	lifecycleMu sync.Mutex
	lifecycle   Lifecycle

	format  platform.Format
	tuning  probe.Tuning
	ring    *pump.Ring
	running atomic.Bool

	player   platform.Player
	playCtl  platform.PlayControl
	bq       platform.BufferQueue
	outMix   platform.OutputMix
	producer *pump.Producer
	consumer *pump.Consumer
	wg       sync.WaitGroup

	log *log.Logger
}

// New constructs a Device bound to its collaborators. It is not yet
// usable until Open succeeds.
func New(name string, eng *engine.Engine, reg *registry.Registry, prober *probe.Prober, mixer platform.Mixer, rt platform.RealTimeThread) *Device {
	return &Device{
		Name:     name,
		engine:   eng,
		registry: reg,
		prober:   prober,
		mixer:    mixer,
		rtThread: rt,
		log:      applog.Device(name),
	}
}

// State returns the device's current lifecycle state.
func (d *Device) State() Lifecycle {
	d.lifecycleMu.Lock()
	defer d.lifecycleMu.Unlock()
	return d.lifecycle
}

func (d *Device) transition(to Lifecycle) error {
	if !d.lifecycle.canTransitionTo(to) {
		return &stateError{from: d.lifecycle, to: to}
	}
	d.lifecycle = to
	return nil
}

// Open checks that the platform probe succeeded, moves the device to
// OPENED and registers it. It does not create the engine or the ring;
// Reset does both.
func (d *Device) Open() error {
	d.lifecycleMu.Lock()
	defer d.lifecycleMu.Unlock()

	if !d.prober.Available() {
		return dwerr.New(dwerr.InvalidDevice, "open called before a successful probe")
	}
	if err := d.transition(Opened); err != nil {
		return err
	}

	d.registry.Add(d)
	d.log.Info("device opened")
	return nil
}

// Reset configures a platform audio player for format and starts the
// producer.
func (d *Device) Reset(format platform.Format) error {
	d.lifecycleMu.Lock()
	defer d.lifecycleMu.Unlock()

	if err := d.transition(Configured); err != nil {
		return err
	}

	d.format = format
	d.tuning = d.prober.ResolveTuning(format.SampleRate)

	engineItf, outMix, err := d.engine.EnsureCreated()
	if err != nil {
		d.lifecycle = Opened
		return err
	}
	d.outMix = outMix

	player, err := engineItf.CreateAudioPlayer(format, outMix)
	if err != nil {
		d.engine.Release()
		d.lifecycle = Opened
		return dwerr.Wrap(dwerr.ResetFailed, "CreateAudioPlayer", err)
	}
	if err := player.Realize(); err != nil {
		d.engine.Release()
		d.lifecycle = Opened
		return dwerr.Wrap(dwerr.ResetFailed, "Player.Realize", err)
	}

	playCtl, err := player.PlayInterface()
	if err != nil {
		_ = player.Destroy()
		d.engine.Release()
		d.lifecycle = Opened
		return dwerr.Wrap(dwerr.ResetFailed, "PlayInterface", err)
	}
	bq, err := player.BufferQueueInterface()
	if err != nil {
		_ = player.Destroy()
		d.engine.Release()
		d.lifecycle = Opened
		return dwerr.Wrap(dwerr.ResetFailed, "BufferQueueInterface", err)
	}

	d.player = player
	d.playCtl = playCtl
	d.bq = bq

	d.ring = pump.NewRing(d.tuning.RingDepth, d.tuning.Preroll, d.tuning.BufferBytes)
	frameCount := d.tuning.BufferBytes / format.FrameSize
	d.producer = pump.NewProducer(d.ring, d.mixer, d.Name, frameCount)
	d.consumer = pump.NewConsumer(d.ring, d.bq, &d.running)

	if err := d.bq.RegisterCallback(d.consumer.OnBufferComplete); err != nil {
		_ = player.Destroy()
		d.engine.Release()
		d.lifecycle = Opened
		return dwerr.Wrap(dwerr.ResetFailed, "RegisterCallback", err)
	}

	d.startProducerLocked()

	if err := d.playCtl.SetPlayState(platform.PlayPlaying); err != nil {
		d.log.Warn("SetPlayState(PLAYING) failed", "err", err)
	}
	if err := d.bq.Enqueue(primer); err != nil {
		d.log.Warn("primer enqueue failed", "err", err)
	}

	d.lifecycle = Playing
	d.log.Info("device reset", "sampleRate", format.SampleRate, "bufferBytes", d.tuning.BufferBytes, "ringDepth", d.tuning.RingDepth, "preroll", d.tuning.Preroll)
	return nil
}

// Start spawns the producer goroutine if it is not already running.
// Exported for callers that need to restart a producer outside of Reset;
// Reset and Resume already hold lifecycleMu and call the unexported
// locked variant directly.
func (d *Device) Start() {
	d.lifecycleMu.Lock()
	defer d.lifecycleMu.Unlock()
	d.startProducerLocked()
}

func (d *Device) startProducerLocked() {
	if d.running.Load() {
		return // idempotent
	}

	d.running.Store(true)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.rtThread.Apply("OpenAL/sl/m")
		d.producer.Run()
	}()

	for !d.producer.Ready() {
		time.Sleep(startSpinTick)
	}
}

// Stop signals the producer to exit and joins it.
func (d *Device) Stop() {
	d.running.Store(false)
	if d.producer != nil {
		d.producer.RequestStop()
	}
	d.wg.Wait()
}

// Suspend pauses playback: sets the player to PAUSED, clears the
// platform queue, and stops the producer. Safe to call with no player
// configured.
func (d *Device) Suspend() {
	d.lifecycleMu.Lock()
	defer d.lifecycleMu.Unlock()

	if d.lifecycle != Playing {
		return
	}
	if err := d.transition(Suspended); err != nil {
		d.log.Warn("suspend: illegal transition", "err", err)
		return
	}

	if d.playCtl != nil {
		if err := d.playCtl.SetPlayState(platform.PlayPaused); err != nil {
			d.log.Warn("SetPlayState(PAUSED) failed", "err", err)
		}
	}
	if d.bq != nil {
		if err := d.bq.Clear(); err != nil {
			d.log.Warn("Clear failed", "err", err)
		}
	}
	d.Stop()
	d.log.Info("device suspended")
}

// Resume re-arms playback after Suspend: re-primes the callback and
// restarts the producer.
func (d *Device) Resume() {
	d.lifecycleMu.Lock()
	defer d.lifecycleMu.Unlock()

	if d.lifecycle != Suspended {
		return
	}
	if err := d.transition(Playing); err != nil {
		d.log.Warn("resume: illegal transition", "err", err)
		return
	}

	d.startProducerLocked()
	if d.playCtl != nil {
		if err := d.playCtl.SetPlayState(platform.PlayPlaying); err != nil {
			d.log.Warn("SetPlayState(PLAYING) failed", "err", err)
		}
	}
	if d.bq != nil {
		if err := d.bq.Enqueue(primer); err != nil {
			d.log.Warn("primer enqueue failed", "err", err)
		}
	}
	d.log.Info("device resumed")
}

// Close stops the producer, destroys the platform player, releases the
// device's engine reference and deregisters the device. The engine is
// destroyed when its last reference is released, so closing the only
// configured device also tears the engine down.
func (d *Device) Close() error {
	d.lifecycleMu.Lock()
	defer d.lifecycleMu.Unlock()

	from := d.lifecycle
	if err := d.transition(Closed); err != nil {
		return err
	}

	if from == Playing || from == Suspended {
		d.Stop()
	}

	if d.player != nil {
		if err := d.player.Destroy(); err != nil {
			d.log.Warn("player destroy failed", "err", err)
		}
		d.player, d.playCtl, d.bq = nil, nil, nil
		d.engine.Release()
	}

	d.registry.Remove(d)
	d.log.Info("device closed")
	return nil
}

// Lock/Unlock implement the API-level per-device mutex exposed by the
// external dispatch table's lock/unlock entries.
func (d *Device) Lock()   { d.deviceMutex.Lock() }
func (d *Device) Unlock() { d.deviceMutex.Unlock() }

// Stats exposes the consumer's running counters for internal/stats.
func (d *Device) Stats() pump.StatsSnapshot {
	d.lifecycleMu.Lock()
	c := d.consumer
	d.lifecycleMu.Unlock()
	if c == nil {
		return pump.StatsSnapshot{}
	}
	return c.Stats()
}
