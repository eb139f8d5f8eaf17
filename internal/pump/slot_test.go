package pump

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_newSlot_startsFree(t *testing.T) {
	s := newSlot(32)
	assert.Equal(t, Free, s.State())
	assert.Len(t, s.Payload, 32)
}

func Test_setStateLocked_wakesWaiter(t *testing.T) {
	s := newSlot(8)
	s.state.Store(int32(Unknown))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Lock()
		defer s.Unlock()
		for s.State() != Mixed {
			s.waitTimeout(time.Second)
		}
	}()

	time.Sleep(10 * time.Millisecond)
	s.Lock()
	s.setStateLocked(Mixed)
	s.Unlock()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken by setStateLocked")
	}
}

func Test_waitTimeout_returnsEvenWithoutSignal(t *testing.T) {
	s := newSlot(8)
	s.Lock()
	start := time.Now()
	s.waitTimeout(20 * time.Millisecond)
	elapsed := time.Since(start)
	s.Unlock()

	assert.GreaterOrEqual(t, elapsed, 15*time.Millisecond, "should not return suspiciously early")
	assert.Less(t, elapsed, 500*time.Millisecond, "timed wait should not hang")
}

func Test_State_String(t *testing.T) {
	assert.Equal(t, "FREE", Free.String())
	assert.Equal(t, "MIXED", Mixed.String())
	assert.Equal(t, "ENQUEUED", Enqueued.String())
	assert.Equal(t, "UNKNOWN", Unknown.String())
}
