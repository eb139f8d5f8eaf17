// Package platform defines the contracts the pump, device and engine
// layers consume but never implement directly: the OpenAL mixer core, the
// platform's OpenSL-ES-shaped audio API, and the host runtime bridge used
// to read the OS version and device model. These are all external
// collaborators — this package only holds their Go-shaped interfaces plus
// a couple of concrete implementations (an in-memory mock for tests, a
// PortAudio-backed one for desktop use).
package platform

import "time"

// Format describes the PCM stream a device plays: stereo 16-bit only.
type Format struct {
	Channels   int
	Bits       int
	SampleRate int
	FrameSize  int // bytes per frame, Channels*Bits/8
}

// PlayState mirrors OpenSL ES's SL_PLAYSTATE_* values used by SetPlayState.
type PlayState int

const (
	PlayStopped PlayState = iota
	PlayPlaying
	PlayPaused
)

// Mixer is the OpenAL mixer core: it fills frameCount interleaved PCM
// frames into dst for the named device. Out of scope per spec §1; this is
// its contract only.
type Mixer interface {
	Mix(deviceName string, dst []byte, frameCount int)
}

// HostBridge is the host runtime bridge used to query the OS version and
// device model when a device's tuning is resolved (at Reset). Optional: a
// nil bridge means defaults apply.
type HostBridge interface {
	OSVersion() int
	DeviceModel() string
}

// Factory creates the process-wide platform audio engine object. It is the
// Go shape of slCreateEngine.
type Factory interface {
	CreateEngine() (Engine, error)
}

// Engine is the platform engine object (SLObjectItf wrapping the engine).
type Engine interface {
	Realize() error
	EngineInterface() (EngineItf, error)
	Destroy() error
}

// EngineItf is the realized engine interface (SLEngineItf): it creates the
// output mix sink and audio players.
type EngineItf interface {
	CreateOutputMix() (OutputMix, error)
	CreateAudioPlayer(format Format, sink OutputMix) (Player, error)
}

// OutputMix is the platform output-mix sink object.
type OutputMix interface {
	Realize() error
	Destroy() error
}

// Player is the platform audio player object bound to a buffer-queue
// source and an output-mix sink (SLObjectItf wrapping the player).
type Player interface {
	Realize() error
	PlayInterface() (PlayControl, error)
	BufferQueueInterface() (BufferQueue, error)
	Destroy() error
}

// PlayControl is the realized play interface (SLPlayItf).
type PlayControl interface {
	SetPlayState(state PlayState) error
}

// BufferQueue is the realized buffer-queue interface
// (SLAndroidSimpleBufferQueueItf): enqueue fixed-size PCM blocks, clear
// in-flight ones, and register the completion callback.
type BufferQueue interface {
	RegisterCallback(cb func()) error
	Enqueue(payload []byte) error
	Clear() error
}

// RealTimeThread abstracts OS-specific real-time thread setup (round-robin
// scheduling priority, thread naming) so internal/device stays portable;
// implementations live per-GOOS.
type RealTimeThread interface {
	// Apply raises the calling goroutine's OS thread to the platform's
	// maximum round-robin real-time priority. Best-effort: a failure is
	// logged, never fatal, matching the source's lack of error checking
	// around pthread_attr_setschedparam.
	Apply(threadName string)
}

// defaultPlaybackLatency is a buffer's worth of simulated wall-clock
// playback time. Nothing in this package refers to it; MockPlayer takes
// its latency from its PlaybackLatency field.
const defaultPlaybackLatency = 5 * time.Millisecond
