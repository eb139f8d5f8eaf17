// Package portaudiobackend implements the internal/platform contract on
// top of a real desktop sound card via github.com/gordonklaus/portaudio,
// so the pump and device state machine can be exercised against actual
// hardware output during development and in cmd/alopensl-demo. The real
// OpenSL ES backend only exists on Android; this is the enrichment the
// rest of the example pack's audio stack points at.
package portaudiobackend

import (
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/apportable/openal-soft/internal/applog"
	"github.com/apportable/openal-soft/internal/dwerr"
	"github.com/apportable/openal-soft/internal/platform"
)

// Factory creates the PortAudio-backed engine. PortAudio's library-wide
// Initialize/Terminate calls stand in for slCreateEngine's process-wide
// setup.
type Factory struct{}

func (Factory) CreateEngine() (platform.Engine, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, dwerr.Wrap(dwerr.EngineInit, "portaudio.Initialize", err)
	}
	return &Engine{}, nil
}

// Engine is a no-op object beyond the library-wide init/terminate pair;
// PortAudio has no engine object of its own to realize.
type Engine struct{}

func (*Engine) Realize() error { return nil }

func (*Engine) EngineInterface() (platform.EngineItf, error) { return &EngineItf{}, nil }

func (*Engine) Destroy() error {
	if err := portaudio.Terminate(); err != nil {
		return dwerr.Wrap(dwerr.EngineInit, "portaudio.Terminate", err)
	}
	return nil
}

// EngineItf creates output mixes and players. PortAudio has no notion of
// a shared output-mix sink distinct from a stream, so OutputMix is a
// thin marker object the Player binds to at stream-open time.
type EngineItf struct{}

func (*EngineItf) CreateOutputMix() (platform.OutputMix, error) { return &OutputMix{}, nil }

func (*EngineItf) CreateAudioPlayer(format platform.Format, sink platform.OutputMix) (platform.Player, error) {
	return &Player{format: format}, nil
}

// OutputMix has nothing to realize or destroy on PortAudio; the stream
// itself owns the device binding.
type OutputMix struct{}

func (*OutputMix) Realize() error { return nil }
func (*OutputMix) Destroy() error { return nil }

// Player adapts the pump's push-style Enqueue/callback protocol onto
// PortAudio's pull-style audio callback: enqueued buffers are appended to
// a FIFO; the PortAudio callback drains it frame-by-frame and, whenever
// it empties a buffer, invokes the registered completion callback on a
// separate goroutine so it never blocks PortAudio's real-time callback.
type Player struct {
	format platform.Format
	stream *portaudio.Stream

	mu       sync.Mutex
	queue    [][]byte
	cursor   int // byte offset into queue[0]
	callback func()
}

func (p *Player) Realize() error {
	out := make([]int16, p.format.FrameSize/2*256)
	stream, err := portaudio.OpenDefaultStream(0, p.format.Channels, float64(p.format.SampleRate), len(out)/p.format.Channels, p.paCallback)
	if err != nil {
		return dwerr.Wrap(dwerr.ResetFailed, "portaudio.OpenDefaultStream", err)
	}
	p.stream = stream
	return nil
}

func (p *Player) paCallback(out []int16) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := 0
	for i < len(out) {
		if len(p.queue) == 0 {
			out[i] = 0
			i++
			continue
		}
		buf := p.queue[0]
		var hi byte
		if p.cursor+1 < len(buf) {
			hi = buf[p.cursor+1]
		}
		out[i] = int16(buf[p.cursor]) | int16(hi)<<8
		if p.cursor+2 >= len(buf) {
			p.queue = p.queue[1:]
			p.cursor = 0
			cb := p.callback
			if cb != nil {
				go cb()
			}
		} else {
			p.cursor += 2
		}
		i++
	}
}

func (p *Player) PlayInterface() (platform.PlayControl, error) { return p, nil }

func (p *Player) BufferQueueInterface() (platform.BufferQueue, error) { return p, nil }

func (p *Player) Destroy() error {
	if p.stream == nil {
		return nil
	}
	if err := p.stream.Close(); err != nil {
		return dwerr.Wrap(dwerr.ResetFailed, "Stream.Close", err)
	}
	return nil
}

func (p *Player) SetPlayState(state platform.PlayState) error {
	if p.stream == nil {
		return nil
	}
	switch state {
	case platform.PlayPlaying:
		return p.stream.Start()
	case platform.PlayPaused, platform.PlayStopped:
		return p.stream.Stop()
	default:
		return nil
	}
}

func (p *Player) RegisterCallback(cb func()) error {
	p.mu.Lock()
	p.callback = cb
	p.mu.Unlock()
	return nil
}

func (p *Player) Enqueue(payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) >= 64 {
		return dwerr.New(dwerr.EnqueueTransient, "portaudio backend queue full")
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	p.queue = append(p.queue, cp)
	return nil
}

func (p *Player) Clear() error {
	p.mu.Lock()
	p.queue = nil
	p.cursor = 0
	p.mu.Unlock()
	return nil
}

// HostBridge stands in for the Android JNI bridge: OSVersion and
// DeviceModel return the values the caller set in its fields, since a
// desktop build has no OS-version/device-model platform API to query.
type HostBridge struct {
	OSVersionValue   int
	DeviceModelValue string
}

func (h HostBridge) OSVersion() int      { return h.OSVersionValue }
func (h HostBridge) DeviceModel() string { return h.DeviceModelValue }

func init() {
	applog.L().Debug("portaudio backend registered")
}
