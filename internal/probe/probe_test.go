package probe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func statOK(string, *unix.Stat_t) error   { return nil }
func statMissing(string, *unix.Stat_t) error { return errors.New("no such file") }

type fakeBridge struct {
	osVersion int
	model     string
}

func (b fakeBridge) OSVersion() int     { return b.osVersion }
func (b fakeBridge) DeviceModel() string { return b.model }

func Test_Probe_succeedsAndIsIdempotent(t *testing.T) {
	p := New(NoopLoader{}, fakeBridge{osVersion: 17})
	p.stat = statOK

	names, err := p.Probe(Device)
	require.NoError(t, err)
	assert.Equal(t, []string{"opensl"}, names)
	assert.True(t, p.Available())

	names2, err2 := p.Probe(AllDevices)
	require.NoError(t, err2)
	assert.Equal(t, names, names2, "repeated probe must return the same device list")
}

func Test_Probe_failsCleanlyWhenLibraryMissing(t *testing.T) {
	p := New(NoopLoader{}, fakeBridge{})
	p.stat = statMissing

	names, err := p.Probe(Device)
	assert.Error(t, err)
	assert.Nil(t, names)
	assert.False(t, p.Available())
}

type failingLoader struct{}

func (failingLoader) Load() error { return errors.New("symbol not found") }

func Test_Probe_failsWhenSymbolResolutionFails(t *testing.T) {
	p := New(failingLoader{}, fakeBridge{})
	p.stat = statOK

	_, err := p.Probe(Device)
	assert.Error(t, err)
	assert.False(t, p.Available())
}

func Test_ResolveTuning_highAPI(t *testing.T) {
	p := New(NoopLoader{}, fakeBridge{osVersion: 17})
	p.stat = statOK
	_, err := p.Probe(Device)
	require.NoError(t, err)

	tn := p.ResolveTuning(44100)
	assert.Equal(t, 8, tn.RingDepth)
	assert.Equal(t, 5, tn.Preroll)
	assert.Equal(t, 4096, tn.BufferBytes)
}

func Test_ResolveTuning_lowAPI(t *testing.T) {
	p := New(NoopLoader{}, fakeBridge{osVersion: 14})
	p.stat = statOK
	_, err := p.Probe(Device)
	require.NoError(t, err)

	tn := p.ResolveTuning(44100)
	assert.Equal(t, 4, tn.RingDepth)
	assert.Equal(t, 1, tn.Preroll)
}

func Test_ResolveTuning_lowSampleRateHalvesBufferBytes(t *testing.T) {
	p := New(NoopLoader{}, fakeBridge{osVersion: 17})
	p.stat = statOK
	_, err := p.Probe(Device)
	require.NoError(t, err)

	tn := p.ResolveTuning(22050)
	assert.Equal(t, 2048, tn.BufferBytes)
}

func Test_ResolveTuning_lowLatencyDeviceOverridesRegardlessOfAPI(t *testing.T) {
	p := New(NoopLoader{}, fakeBridge{osVersion: 17, model: "GT-I9300"})
	p.stat = statOK
	_, err := p.Probe(Device)
	require.NoError(t, err)

	tn := p.ResolveTuning(44100)
	assert.Equal(t, 4, tn.RingDepth)
	assert.Equal(t, 1024, tn.BufferBytes)
	assert.Equal(t, 1, tn.Preroll)
}

func Test_ResolveTuning_withNoBridgeUsesDefaults(t *testing.T) {
	p := New(NoopLoader{}, nil)
	p.stat = statOK
	_, err := p.Probe(Device)
	require.NoError(t, err)

	tn := p.ResolveTuning(44100)
	assert.Equal(t, 4, tn.RingDepth, "zero OS version should resolve as below the API threshold")
}
