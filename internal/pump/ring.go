package pump

import "sync/atomic"

// Ring is the fixed array of RING_DEPTH slots plus the write/read cursors.
// A Ring's slot storage is allocated once, by NewRing, and never resized.
// The device builds its Ring in Reset, sized from that reset's tuning, not
// in Open.
type Ring struct {
	Slots   []*Slot
	depth   uint32
	preroll uint32

	writeIdx atomic.Uint32
	readIdx  atomic.Uint32
}

// NewRing allocates depth slots of bufferBytes each, all FREE, with both
// cursors seeded to depth-1 so the first advance lands on index 0 (spec
// §4.4 open(): "writeIdx = writeIdx_initial = RING_DEPTH-1 ... readIdx =
// RING_DEPTH-1 similarly").
func NewRing(depth, preroll, bufferBytes int) *Ring {
	r := &Ring{
		Slots:   make([]*Slot, depth),
		depth:   uint32(depth),
		preroll: uint32(preroll),
	}
	for i := range r.Slots {
		r.Slots[i] = newSlot(bufferBytes)
	}
	seed := uint32(depth - 1)
	r.writeIdx.Store(seed)
	r.readIdx.Store(seed)
	return r
}

func (r *Ring) Depth() int   { return int(r.depth) }
func (r *Ring) Preroll() int { return int(r.preroll) }

// WriteIndex and ReadIndex are lock-free observers for tests and stats;
// they never mutate ring state.
func (r *Ring) WriteIndex() uint32 { return r.writeIdx.Load() }
func (r *Ring) ReadIndex() uint32  { return r.readIdx.Load() }

// Lead returns (writeIdx - readIdx) mod depth, the current producer
// lead over the consumer (spec §8 property 3, "Bounded lead").
func (r *Ring) Lead() uint32 {
	return modSub(r.writeIdx.Load(), r.readIdx.Load(), r.depth)
}

// modSub computes (a - b) mod m using signed arithmetic, per spec §9's
// warning that the source's unsigned subtraction underflows when
// bufferIndex < preroll.
func modSub(a, b, m uint32) uint32 {
	d := int64(a) - int64(b)
	mm := int64(m)
	d %= mm
	if d < 0 {
		d += mm
	}
	return uint32(d)
}

// advanceWrite moves writeIdx forward by one slot (mod depth) and returns
// the new index. Only the single producer goroutine for this ring may
// call this.
func (r *Ring) advanceWrite() uint32 {
	next := (r.writeIdx.Load() + 1) % r.depth
	r.writeIdx.Store(next)
	return next
}

// prerollGateOpen reports whether the producer may mix into the slot at
// writeIdx: the slot preroll positions behind writeIdx must be ENQUEUED or
// FREE (spec §4.3 producer loop step 3).
func (r *Ring) prerollGateOpen(writeIdx uint32) bool {
	gateSlot := r.Slots[modSub(writeIdx, r.preroll, r.depth)]
	switch gateSlot.State() {
	case Enqueued, Free:
		return true
	default:
		return false
	}
}

// advanceRead moves readIdx forward by one slot (mod depth) and returns
// the new index. Only the single in-flight consumer callback for this
// ring may call this.
func (r *Ring) advanceRead() uint32 {
	next := (r.readIdx.Load() + 1) % r.depth
	r.readIdx.Store(next)
	return next
}

// rollbackRead undoes advanceRead, used when an enqueue is refused and the
// same slot must be retried on the next callback (spec §4.3 step 7).
func (r *Ring) rollbackRead() {
	cur := r.readIdx.Load()
	r.readIdx.Store(modSub(cur, 1, r.depth))
}

// reclaimDrained walks forward from just after idx and frees the first
// ENQUEUED slot it finds, matching the source's unlocked cross-slot write:
// the slot being freed is only ever touched by the consumer (the producer
// only ever fills FREE slots), so no lock is needed on it here (spec §4.3
// step 3, §9 design note).
func (r *Ring) reclaimDrained(idx uint32) {
	for i := uint32(1); i <= r.depth; i++ {
		j := (idx + i) % r.depth
		s := r.Slots[j]
		if s.State() == Enqueued {
			s.state.Store(int32(Free))
			return
		}
	}
}
