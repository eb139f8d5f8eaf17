// Package registry implements the bounded set of live devices used to
// fan out global suspend/resume.
package registry

import "sync"

// Capacity is the fixed size of the device table.
const Capacity = 3

// Suspendable is the subset of device behavior the registry fans out to:
// any Device satisfies this without the registry importing internal/device,
// avoiding an import cycle (Device registers itself here on open).
type Suspendable interface {
	Suspend()
	Resume()
}

// Registry holds up to Capacity live devices, guarded by one mutex.
type Registry struct {
	mu      sync.Mutex
	devices [Capacity]Suspendable
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// Add inserts dev into the first empty slot. It silently no-ops if the
// registry is full or dev is already present.
func (r *Registry) Add(dev Suspendable) {
	r.mu.Lock()
	defer r.mu.Unlock()

	empty := -1
	for i, d := range r.devices {
		if d == dev {
			return
		}
		if d == nil && empty == -1 {
			empty = i
		}
	}
	if empty == -1 {
		return
	}
	r.devices[empty] = dev
}

// Remove clears dev's slot, if present.
func (r *Registry) Remove(dev Suspendable) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, d := range r.devices {
		if d == dev {
			r.devices[i] = nil
			return
		}
	}
}

// ForEach invokes fn for every live device, releasing the registry mutex
// around each call so fn may re-enter Add/Remove.
func (r *Registry) ForEach(fn func(Suspendable)) {
	for i := 0; i < Capacity; i++ {
		r.mu.Lock()
		dev := r.devices[i]
		r.mu.Unlock()

		if dev != nil {
			fn(dev)
		}
	}
}

// Suspend calls Suspend on every live device.
func (r *Registry) Suspend() {
	r.ForEach(func(d Suspendable) { d.Suspend() })
}

// Resume calls Resume on every live device.
func (r *Registry) Resume() {
	r.ForEach(func(d Suspendable) { d.Resume() })
}

// Len reports the current number of live devices, for tests.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.devices {
		if d != nil {
			n++
		}
	}
	return n
}
