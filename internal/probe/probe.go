// Package probe implements platform-capability discovery: verifying the
// OpenSL ES shared library exists at its well-known path, resolving its
// entry-point symbols, and deriving ring-depth/preroll/buffer-size tuning
// from OS version and device model.
package probe

import (
	"sync"

	"golang.org/x/sys/unix"

	"github.com/apportable/openal-soft/internal/applog"
	"github.com/apportable/openal-soft/internal/dwerr"
	"github.com/apportable/openal-soft/internal/platform"
)

// Kind selects what probe registers: a single default device, or every
// device the platform exposes. This backend only ever has one physical sink,
// so both kinds resolve to the same single-entry device list. The
// dispatch table's Open probes with Device.
type Kind int

const (
	Device Kind = iota
	AllDevices
)

// libraryPath is the fixed absolute path the source stats before
// dlopen'ing.
const libraryPath = "/system/lib/libOpenSLES.so"

// deviceName is the single device name probe registers on success.
const deviceName = "opensl"

// SymbolLoader abstracts dlopen/dlsym so probe is testable without a real
// platform library present. NoopLoader is the only implementation in this
// package; tests substitute failing loaders to exercise the error path.
type SymbolLoader interface {
	// Load resolves the fixed entry-point symbol set. An error means
	// probe must fail cleanly and register no device.
	Load() error
}

// Prober discovers the platform library once and caches the result;
// repeated Probe calls are safe.
type Prober struct {
	loader SymbolLoader
	bridge platform.HostBridge
	stat   func(path string, stat *unix.Stat_t) error

	mu        sync.Mutex
	attempted bool
	available bool
	cfg       tuningConfig
}

// New builds a Prober. loader resolves the platform's entry points once
// the library file is confirmed present; bridge supplies OS
// version/device model for tuning (nil bridge means defaults apply).
func New(loader SymbolLoader, bridge platform.HostBridge) *Prober {
	return &Prober{loader: loader, bridge: bridge, stat: unix.Stat}
}

// NewAvailable builds a Prober that already reports Available()==true with
// the embedded default tuning table, for tests in other packages
// (internal/device, internal/dispatch) that need a pre-probed device
// without a real platform library on disk.
func NewAvailable(bridge platform.HostBridge) *Prober {
	p := New(NoopLoader{}, bridge)
	p.attempted = true
	p.available = true
	p.cfg = loadTuningConfig()
	return p
}

// Probe discovers the platform library and, on success, loads the tuning
// table and returns the device name(s) to register. On any
// failure (missing file, symbol resolution error) it returns
// PlatformUnavailable without registering devices.
func (p *Prober) Probe(kind Kind) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.attempted {
		if !p.available {
			return nil, dwerr.New(dwerr.PlatformUnavailable, "platform library previously unavailable")
		}
		return []string{deviceName}, nil
	}
	p.attempted = true

	var st unix.Stat_t
	if err := p.stat(libraryPath, &st); err != nil {
		applog.L().Warn("platform library not found", "path", libraryPath, "err", err)
		return nil, dwerr.Wrap(dwerr.PlatformUnavailable, "stat "+libraryPath, err)
	}

	if err := p.loader.Load(); err != nil {
		applog.L().Warn("platform symbol resolution failed", "err", err)
		return nil, dwerr.Wrap(dwerr.PlatformUnavailable, "resolve OpenSL ES symbols", err)
	}

	p.cfg = loadTuningConfig()
	p.available = true

	applog.L().Info("platform probe succeeded", "device", deviceName, "kind", kind)
	return []string{deviceName}, nil
}

// SetBridge replaces the host bridge used for tuning resolution. This is
// the Go analogue of alc_opensl_set_java_vm's JNI JavaVM injection: the
// original backend receives its OS-version/device-model source from the
// host process after the library loads, not at construction time.
func (p *Prober) SetBridge(bridge platform.HostBridge) {
	p.mu.Lock()
	p.bridge = bridge
	p.mu.Unlock()
}

// Available reports whether the most recent probe succeeded.
func (p *Prober) Available() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.available
}

// ResolveTuning derives ring parameters for a device about to be
// configured at sampleRate, using the host bridge's OS version and
// device model.
func (p *Prober) ResolveTuning(sampleRate int) Tuning {
	p.mu.Lock()
	cfg := p.cfg
	p.mu.Unlock()

	osVersion, model := 0, ""
	if p.bridge != nil {
		osVersion = p.bridge.OSVersion()
		model = p.bridge.DeviceModel()
	}
	return cfg.resolve(osVersion, model, sampleRate)
}
