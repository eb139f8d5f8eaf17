package device

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apportable/openal-soft/internal/engine"
	"github.com/apportable/openal-soft/internal/platform"
	"github.com/apportable/openal-soft/internal/probe"
	"github.com/apportable/openal-soft/internal/registry"
)

func newTestDevice(t *testing.T) (*Device, *platform.MockFactory, *platform.MockMixer) {
	t.Helper()

	bridge := &platform.MockHostBridge{OSVer: 17}
	p := probe.NewAvailable(bridge)

	factory := &platform.MockFactory{}
	eng := engine.New(factory)
	reg := registry.New()
	mixer := &platform.MockMixer{}

	d := New("test-device", eng, reg, p, mixer, &platform.MockRealTimeThread{})
	return d, factory, mixer
}

var stereoFormat = platform.Format{Channels: 2, Bits: 16, SampleRate: 44100, FrameSize: 4}

func Test_Device_openFailsWithoutProbe(t *testing.T) {
	factory := &platform.MockFactory{}
	eng := engine.New(factory)
	reg := registry.New()
	p := probe.New(probe.NoopLoader{}, &platform.MockHostBridge{})

	d := New("unprobed", eng, reg, p, &platform.MockMixer{}, &platform.MockRealTimeThread{})
	err := d.Open()
	assert.Error(t, err)
	assert.Equal(t, Closed, d.State())
}

func Test_Device_fullLifecycle(t *testing.T) {
	d, _, mixer := newTestDevice(t)

	require.NoError(t, d.Open())
	assert.Equal(t, Opened, d.State())

	require.NoError(t, d.Reset(stereoFormat))
	assert.Equal(t, Playing, d.State())

	assert.Eventually(t, func() bool {
		calls, _ := mixer.Calls()
		return calls > 0
	}, time.Second, time.Millisecond, "producer should mix at least once after reset")

	d.Suspend()
	assert.Equal(t, Suspended, d.State())

	d.Resume()
	assert.Equal(t, Playing, d.State())

	require.NoError(t, d.Close())
	assert.Equal(t, Closed, d.State())
}

func Test_Device_startIsIdempotent(t *testing.T) {
	d, _, _ := newTestDevice(t)
	require.NoError(t, d.Open())
	require.NoError(t, d.Reset(stereoFormat))

	d.Start() // already running from Reset; must not spawn a second producer
	d.Start()

	require.NoError(t, d.Close())
}

func Test_Device_suspendClearsQueueAndStopsProducer(t *testing.T) {
	d, _, _ := newTestDevice(t)
	require.NoError(t, d.Open())
	require.NoError(t, d.Reset(stereoFormat))

	player := d.player.(*platform.MockPlayer)

	d.Suspend()

	assert.False(t, d.running.Load())
	assert.GreaterOrEqual(t, player.ClearCount(), 1)
}

func Test_Device_resumePrimesBeforeMixedEnqueue(t *testing.T) {
	d, _, _ := newTestDevice(t)
	require.NoError(t, d.Open())
	require.NoError(t, d.Reset(stereoFormat))

	player := d.player.(*platform.MockPlayer)
	d.Suspend()

	beforeResume := player.EnqueueCount()
	d.Resume()

	assert.Eventually(t, func() bool {
		return player.EnqueueCount() > beforeResume
	}, time.Second, time.Millisecond)

	require.NoError(t, d.Close())
}

func Test_Device_closeIsIdempotentlyRejectedWhenAlreadyClosed(t *testing.T) {
	d, _, _ := newTestDevice(t)
	require.NoError(t, d.Open())
	require.NoError(t, d.Close())

	err := d.Close()
	assert.Error(t, err, "closing an already-closed device is an illegal transition")
}
