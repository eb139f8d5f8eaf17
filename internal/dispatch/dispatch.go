// Package dispatch exposes the backend's external-facing function table,
// the Go analogue of original_source/Alc/backends/opensl.c's
// BackendFuncs: open/close/reset/start/stop, the capture stubs, lock/
// unlock, and getLatency.
package dispatch

import (
	"sync"

	"github.com/apportable/openal-soft/internal/device"
	"github.com/apportable/openal-soft/internal/dwerr"
	"github.com/apportable/openal-soft/internal/engine"
	"github.com/apportable/openal-soft/internal/platform"
	"github.com/apportable/openal-soft/internal/probe"
	"github.com/apportable/openal-soft/internal/registry"
)

// Table is the backend's dispatch table: a set of entry points the
// OpenAL core calls, bound to one backend instance.
type Table struct {
	Engine   *engine.Engine
	Registry *registry.Registry
	Prober   *probe.Prober
	Mixer    platform.Mixer
	RT       platform.RealTimeThread

	mu      sync.Mutex
	devices map[string]*device.Device
}

// NewTable builds a dispatch table wired to the given collaborators.
func NewTable(eng *engine.Engine, reg *registry.Registry, prober *probe.Prober, mixer platform.Mixer, rt platform.RealTimeThread) *Table {
	return &Table{Engine: eng, Registry: reg, Prober: prober, Mixer: mixer, RT: rt, devices: make(map[string]*device.Device)}
}

// Open implements the open entry point: probes if needed, then opens a
// named device.
func (t *Table) Open(name string) (*device.Device, error) {
	if _, err := t.Prober.Probe(probe.Device); err != nil {
		return nil, err
	}

	d := device.New(name, t.Engine, t.Registry, t.Prober, t.Mixer, t.RT)
	if err := d.Open(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.devices[name] = d
	t.mu.Unlock()
	return d, nil
}

// Close implements the close entry point.
func (t *Table) Close(d *device.Device) error {
	err := d.Close()

	t.mu.Lock()
	delete(t.devices, d.Name)
	t.mu.Unlock()

	return err
}

// Reset implements the reset entry point.
func (t *Table) Reset(d *device.Device, format platform.Format) error {
	return d.Reset(format)
}

// Start implements the start entry point.
func (t *Table) Start(d *device.Device) { d.Start() }

// Stop implements the stop entry point.
func (t *Table) Stop(d *device.Device) { d.Stop() }

// Lock/Unlock implement the lock/unlock entry points.
func (t *Table) Lock(d *device.Device)   { d.Lock() }
func (t *Table) Unlock(d *device.Device) { d.Unlock() }

// GetLatency implements getLatency: not modeled, always zero.
func (t *Table) GetLatency(*device.Device) int { return 0 }

// Capture stubs: this backend covers playback only.

func (t *Table) OpenCapture(string) (*device.Device, error) {
	return nil, dwerr.New(dwerr.PlatformUnavailable, "capture is not implemented")
}

func (t *Table) CloseCapture(*device.Device) error { return nil }

func (t *Table) StartCapture(*device.Device) error { return nil }

func (t *Table) StopCapture(*device.Device) error { return nil }

func (t *Table) CaptureSamples(*device.Device, []byte) error { return nil }

func (t *Table) AvailableSamples(*device.Device) int { return 0 }

// SetHostVM implements the setHostVm entry point: injects the host
// runtime bridge the probe uses for OS-version/device-model tuning.
func (t *Table) SetHostVM(bridge platform.HostBridge) { t.Prober.SetBridge(bridge) }

// Suspend implements the global suspend entry point: fans out to every
// registered device.
func (t *Table) Suspend() { t.Registry.Suspend() }

// Resume implements the global resume entry point.
func (t *Table) Resume() { t.Registry.Resume() }
