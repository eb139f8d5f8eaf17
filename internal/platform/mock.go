package platform

import (
	"sync"
	"time"
)

// MockMixer fills every requested frame with an incrementing byte pattern
// and counts how many times, and with what frame count, it was invoked.
// It is deliberately trivial: the real mixer is an external collaborator
// per spec §1, and pump tests only need to observe that it was called with
// the right shape, not that it produces musically meaningful PCM.
type MockMixer struct {
	mu      sync.Mutex
	calls   int
	lastLen int
	Delay   time.Duration // simulates a slow mixer (file I/O, decode stalls)
}

func (m *MockMixer) Mix(_ string, dst []byte, frameCount int) {
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}
	for i := range dst {
		dst[i] = byte(i)
	}
	m.mu.Lock()
	m.calls++
	m.lastLen = frameCount
	m.mu.Unlock()
}

func (m *MockMixer) Calls() (count, lastFrameCount int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls, m.lastLen
}

// MockHostBridge reports a fixed OS version and device model string.
type MockHostBridge struct {
	OSVer int
	Model string
}

func (b *MockHostBridge) OSVersion() int      { return b.OSVer }
func (b *MockHostBridge) DeviceModel() string { return b.Model }

// MockFactory, MockEngine, MockOutputMix, MockPlayer and MockBufferQueue
// implement the platform contract entirely in memory, simulating an
// OpenSL-ES-like hardware queue that drains enqueued buffers on its own
// goroutine after PlaybackLatency, invoking the registered consumer
// callback the way the real platform invokes it from an audio thread.
type MockFactory struct {
	FailRealize    bool
	FailOutputMix  bool
	CreatedEngines int
}

func (f *MockFactory) CreateEngine() (Engine, error) {
	f.CreatedEngines++
	return &MockEngine{factory: f}, nil
}

type MockEngine struct {
	factory   *MockFactory
	destroyed bool
}

func (e *MockEngine) Realize() error { return nil }

func (e *MockEngine) EngineInterface() (EngineItf, error) {
	return &mockEngineItf{factory: e.factory}, nil
}

func (e *MockEngine) Destroy() error {
	e.destroyed = true
	return nil
}

type mockEngineItf struct {
	factory *MockFactory
}

func (e *mockEngineItf) CreateOutputMix() (OutputMix, error) {
	return &MockOutputMix{failRealize: e.factory.FailOutputMix}, nil
}

func (e *mockEngineItf) CreateAudioPlayer(format Format, sink OutputMix) (Player, error) {
	return &MockPlayer{format: format, sink: sink.(*MockOutputMix)}, nil
}

type MockOutputMix struct {
	failRealize bool
	destroyed   bool
}

func (m *MockOutputMix) Realize() error {
	if m.failRealize {
		return errMockRealize
	}
	return nil
}
func (m *MockOutputMix) Destroy() error { m.destroyed = true; return nil }

// MockPlayer simulates the buffer-queue audio player. PlaybackLatency
// controls how long a queued buffer takes to "play" before the consumer
// callback is invoked for it; tests set it small to drive many round-trips
// quickly, or zero to fire as fast as possible.
type MockPlayer struct {
	format Format
	sink   *MockOutputMix

	mu              sync.Mutex
	state           PlayState
	callback        func()
	pending         []mockQueuedBuffer
	destroyed       bool
	clearCount      int
	enqueueCount    int
	PlaybackLatency time.Duration
	FailEnqueue     func(payload []byte) bool
}

type mockQueuedBuffer struct {
	payload []byte
}

func (p *MockPlayer) Realize() error                             { return nil }
func (p *MockPlayer) PlayInterface() (PlayControl, error)        { return p, nil }
func (p *MockPlayer) BufferQueueInterface() (BufferQueue, error) { return p, nil }

func (p *MockPlayer) Destroy() error {
	p.mu.Lock()
	p.destroyed = true
	p.mu.Unlock()
	return nil
}

func (p *MockPlayer) SetPlayState(state PlayState) error {
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
	return nil
}

func (p *MockPlayer) RegisterCallback(cb func()) error {
	p.mu.Lock()
	p.callback = cb
	p.mu.Unlock()
	return nil
}

// Enqueue records the buffer and schedules the completion callback after
// PlaybackLatency, simulating the platform draining its hardware queue.
func (p *MockPlayer) Enqueue(payload []byte) error {
	if p.FailEnqueue != nil && p.FailEnqueue(payload) {
		return errMockEnqueueRefused
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)

	p.mu.Lock()
	p.enqueueCount++
	p.pending = append(p.pending, mockQueuedBuffer{payload: cp})
	latency := p.PlaybackLatency
	cb := p.callback
	p.mu.Unlock()

	if cb == nil {
		return nil
	}
	if latency <= 0 {
		go cb()
		return nil
	}
	time.AfterFunc(latency, func() {
		p.mu.Lock()
		state := p.state
		destroyed := p.destroyed
		p.mu.Unlock()
		if destroyed || state != PlayPlaying {
			return
		}
		cb()
	})
	return nil
}

func (p *MockPlayer) Clear() error {
	p.mu.Lock()
	p.pending = nil
	p.clearCount++
	p.mu.Unlock()
	return nil
}

func (p *MockPlayer) EnqueueCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enqueueCount
}

func (p *MockPlayer) ClearCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clearCount
}

func (p *MockPlayer) PendingLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

type mockError string

func (e mockError) Error() string { return string(e) }

const (
	errMockRealize        = mockError("mock: realize failed")
	errMockEnqueueRefused = mockError("mock: enqueue refused")
)

// MockRealTimeThread records Apply calls instead of touching OS scheduling,
// so device-lifecycle tests can run unprivileged.
type MockRealTimeThread struct {
	mu    sync.Mutex
	Names []string
}

func (m *MockRealTimeThread) Apply(name string) {
	m.mu.Lock()
	m.Names = append(m.Names, name)
	m.mu.Unlock()
}
