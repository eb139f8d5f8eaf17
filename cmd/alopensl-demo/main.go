// Command alopensl-demo exercises the full pump/device/engine/registry
// stack against a real sound card via the PortAudio backend, playing a
// synthetic sine tone. It is the Go-native stand-in for a real Android
// host process: the OpenSL ES backend this repo ports only runs on
// Android, so this command is how the pump's concurrency model gets
// exercised against actual hardware during development.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/apportable/openal-soft/internal/applog"
	"github.com/apportable/openal-soft/internal/dispatch"
	"github.com/apportable/openal-soft/internal/engine"
	"github.com/apportable/openal-soft/internal/platform"
	"github.com/apportable/openal-soft/internal/platform/portaudiobackend"
	"github.com/apportable/openal-soft/internal/probe"
	"github.com/apportable/openal-soft/internal/registry"
	"github.com/apportable/openal-soft/internal/stats"
)

// sineMixer fills every mix request with a continuous sine wave, standing
// in for the real OpenAL mixer core.
type sineMixer struct {
	freqHz     float64
	sampleRate int
	phase      float64
}

func (m *sineMixer) Mix(_ string, dst []byte, frameCount int) {
	const amplitude = 0.2 * 32767
	step := 2 * math.Pi * m.freqHz / float64(m.sampleRate)

	for i := 0; i < frameCount; i++ {
		s := int16(amplitude * math.Sin(m.phase))
		m.phase += step
		if m.phase > 2*math.Pi {
			m.phase -= 2 * math.Pi
		}
		off := i * 4
		dst[off] = byte(s)
		dst[off+1] = byte(s >> 8)
		dst[off+2] = byte(s)
		dst[off+3] = byte(s >> 8)
	}
}

func main() {
	var (
		freq       = pflag.Float64P("freq", "f", 440, "Sine tone frequency in Hz")
		sampleRate = pflag.IntP("rate", "r", 44100, "Sample rate in Hz")
		duration   = pflag.DurationP("duration", "d", 5*time.Second, "How long to play before exiting")
		verbose    = pflag.BoolP("verbose", "v", false, "Enable debug logging")
		help       = pflag.Bool("help", false, "Display help text")
	)

	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, "alopensl-demo: play a sine tone through the OpenSL-ES-shaped pump/device stack")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}
	if *verbose {
		applog.SetLevel(log.DebugLevel)
	}

	mixer := &sineMixer{freqHz: *freq, sampleRate: *sampleRate}
	eng := engine.New(portaudiobackend.Factory{})
	reg := registry.New()
	bridge := portaudiobackend.HostBridge{OSVersionValue: 17, DeviceModelValue: "desktop"}
	// NewAvailable skips the Android-only libOpenSLES.so stat/dlopen path so
	// this demo can drive the PortAudio backend on an ordinary dev machine.
	prober := probe.NewAvailable(bridge)

	tbl := dispatch.NewTable(eng, reg, prober, mixer, platform.NewRealTimeThread())

	dev, err := tbl.Open("opensl")
	if err != nil {
		applog.L().Fatal("open failed", "err", err)
	}

	format := platform.Format{Channels: 2, Bits: 16, SampleRate: *sampleRate, FrameSize: 4}
	if err := tbl.Reset(dev, format); err != nil {
		applog.L().Fatal("reset failed", "err", err)
	}

	reporter := stats.NewReporter(time.Second)
	reporter.Track(dev.Name, dev)
	ctx, cancel := context.WithCancel(context.Background())
	go reporter.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-time.After(*duration):
	case <-sigCh:
		applog.L().Info("interrupted")
	}

	cancel()
	if err := tbl.Close(dev); err != nil {
		applog.L().Warn("close failed", "err", err)
	}
}
