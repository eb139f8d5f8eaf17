package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/apportable/openal-soft/internal/pump"
)

type fakeSource struct {
	snap pump.StatsSnapshot
}

func (f fakeSource) Stats() pump.StatsSnapshot { return f.snap }

func Test_Reporter_trackAndUntrack(t *testing.T) {
	r := NewReporter(time.Hour)
	r.Track("dev1", fakeSource{snap: pump.StatsSnapshot{Enqueued: 3}})
	assert.Len(t, r.devices, 1)

	r.Untrack("dev1")
	assert.Len(t, r.devices, 0)
}

func Test_Reporter_runStopsOnContextCancel(t *testing.T) {
	r := NewReporter(time.Millisecond)
	r.Track("dev1", fakeSource{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
