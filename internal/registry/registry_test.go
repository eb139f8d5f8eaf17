package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeDevice struct {
	suspended int
	resumed   int
}

func (f *fakeDevice) Suspend() { f.suspended++ }
func (f *fakeDevice) Resume()  { f.resumed++ }

func Test_Add_fillsEmptySlotsInOrder(t *testing.T) {
	r := New()
	a, b, c := &fakeDevice{}, &fakeDevice{}, &fakeDevice{}

	r.Add(a)
	r.Add(b)
	r.Add(c)

	assert.Equal(t, 3, r.Len())
	assert.Same(t, a, r.devices[0])
	assert.Same(t, b, r.devices[1])
	assert.Same(t, c, r.devices[2])
}

func Test_Add_silentlyNoOpsWhenFull(t *testing.T) {
	r := New()
	r.Add(&fakeDevice{})
	r.Add(&fakeDevice{})
	r.Add(&fakeDevice{})
	r.Add(&fakeDevice{})

	assert.Equal(t, Capacity, r.Len())
}

func Test_Add_silentlyNoOpsWhenAlreadyPresent(t *testing.T) {
	r := New()
	a := &fakeDevice{}

	r.Add(a)
	r.Add(a)

	assert.Equal(t, 1, r.Len())
}

func Test_Remove_clearsSlot(t *testing.T) {
	r := New()
	a := &fakeDevice{}
	r.Add(a)

	r.Remove(a)

	assert.Equal(t, 0, r.Len())
}

func Test_Remove_ofAbsentDeviceIsNoOp(t *testing.T) {
	r := New()
	r.Remove(&fakeDevice{})

	assert.Equal(t, 0, r.Len())
}

func Test_Suspend_fansOutToEveryLiveDevice(t *testing.T) {
	r := New()
	a, b := &fakeDevice{}, &fakeDevice{}
	r.Add(a)
	r.Add(b)

	r.Suspend()

	assert.Equal(t, 1, a.suspended)
	assert.Equal(t, 1, b.suspended)
}

func Test_Resume_fansOutToEveryLiveDevice(t *testing.T) {
	r := New()
	a, b := &fakeDevice{}, &fakeDevice{}
	r.Add(a)
	r.Add(b)

	r.Resume()

	assert.Equal(t, 1, a.resumed)
	assert.Equal(t, 1, b.resumed)
}

func Test_ForEach_skipsEmptySlots(t *testing.T) {
	r := New()
	a := &fakeDevice{}
	r.Add(a)

	seen := 0
	r.ForEach(func(Suspendable) { seen++ })

	assert.Equal(t, 1, seen)
}

func Test_ForEach_allowsReentrantRemoveDuringCallback(t *testing.T) {
	r := New()
	a := &fakeDevice{}
	r.Add(a)

	r.ForEach(func(d Suspendable) { r.Remove(d) })

	assert.Equal(t, 0, r.Len())
}
