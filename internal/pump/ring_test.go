package pump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_modSub(t *testing.T) {
	assert.Equal(t, uint32(1), modSub(0, 7, 8), "0-7 should wrap to 1 mod 8, not underflow")
	assert.Equal(t, uint32(0), modSub(5, 5, 8))
	assert.Equal(t, uint32(3), modSub(5, 2, 8))
}

func Test_NewRing_seedsCursorsAtDepthMinusOne(t *testing.T) {
	r := NewRing(8, 2, 64)
	assert.Equal(t, uint32(7), r.WriteIndex())
	assert.Equal(t, uint32(7), r.ReadIndex())
	assert.Equal(t, uint32(0), r.Lead())
}

func Test_advanceWrite_wraps(t *testing.T) {
	r := NewRing(4, 1, 16)
	for i := 0; i < 4; i++ {
		r.advanceWrite()
	}
	// seeded at 3: 3->0->1->2->3
	assert.Equal(t, uint32(3), r.WriteIndex())
}

func Test_prerollGateOpen_blocksWhenGateSlotNotDrained(t *testing.T) {
	r := NewRing(4, 1, 16)
	w := r.advanceWrite() // 0
	gateIdx := modSub(w, 1, 4)
	r.Slots[gateIdx].state.Store(int32(Mixed))
	assert.False(t, r.prerollGateOpen(w), "gate slot still MIXED, preroll should block")

	r.Slots[gateIdx].state.Store(int32(Enqueued))
	assert.True(t, r.prerollGateOpen(w))
}

func Test_reclaimDrained_freesFirstEnqueuedSlotForward(t *testing.T) {
	r := NewRing(4, 1, 16)
	r.Slots[1].state.Store(int32(Enqueued))
	r.Slots[2].state.Store(int32(Enqueued))

	r.reclaimDrained(0)

	assert.Equal(t, Free, r.Slots[1].State(), "nearest ENQUEUED slot forward of idx should be freed")
	assert.Equal(t, Enqueued, r.Slots[2].State(), "only the first one found should be freed")
}

func Test_rollbackRead_undoesAdvance(t *testing.T) {
	r := NewRing(4, 1, 16)
	before := r.ReadIndex()
	r.advanceRead()
	r.rollbackRead()
	assert.Equal(t, before, r.ReadIndex())
}

// Test_Lead_neverExceedsDepth is a property test: however write/read cursors
// are driven, the reported lead must stay within [0, depth).
func Test_Lead_neverExceedsDepth(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		depth := rapid.IntRange(2, 16).Draw(t, "depth")
		r := NewRing(depth, 1, 8)

		steps := rapid.IntRange(0, 64).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if rapid.Bool().Draw(t, "advanceWriteVsRead") {
				r.advanceWrite()
			} else {
				r.advanceRead()
			}
		}

		lead := r.Lead()
		assert.Less(t, lead, uint32(depth))
	})
}
