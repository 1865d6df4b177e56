package floorplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainInstance(t *testing.T) *Instance {
	t.Helper()
	blocks := []Block{
		{ID: 0, Name: "b0", Width: 2, Height: 2},
		{ID: 1, Name: "b1", Width: 2, Height: 2},
		{ID: 2, Name: "b2", Width: 2, Height: 2},
	}
	terminals := []Terminal{{ID: 0, Name: "t0", X: 0, Y: 0}}
	nets := []Net{
		{Blocks: []int{0, 1}},
		{Blocks: []int{1, 2}, Terminals: []int{0}},
	}
	ins, err := NewInstance(blocks, terminals, nets, 0, 0)
	require.NoError(t, err)
	return ins
}

func TestNetTrackerBlockOnlyHPWL(t *testing.T) {
	ins := chainInstance(t)
	nt := NewNetTracker(ins, LevelBlockOnly)

	nt.Place(Rect{BlockID: 0, Point: Point{X: 0, Y: 0}, Size: Size{Width: 2, Height: 2}})
	nt.Place(Rect{BlockID: 1, Point: Point{X: 4, Y: 0}, Size: Size{Width: 2, Height: 2}})
	nt.Place(Rect{BlockID: 2, Point: Point{X: 8, Y: 0}, Size: Size{Width: 2, Height: 2}})

	// Net 0 spans centers (1,1)-(5,1): HPWL=4+0=4. Net 1 spans (5,1)-(9,1): HPWL=4.
	assert.Equal(t, 8.0, nt.TotalWireLength())
}

func TestNetTrackerBlockAndTerminalSeedsBbox(t *testing.T) {
	ins := chainInstance(t)
	nt := NewNetTracker(ins, LevelBlockAndTerminal)
	// Net 1 includes terminal t0 at (0,0), but no block of net 1 is placed
	// yet, so the net must not contribute until one is.
	assert.False(t, nt.wires[1].touched)

	nt.Place(Rect{BlockID: 1, Point: Point{X: 4, Y: 0}, Size: Size{Width: 2, Height: 2}})
	// Placing block 1 (net 1's first placed block) now folds t0 into the
	// bbox alongside block 1's center (5,1).
	assert.True(t, nt.wires[1].touched)
	assert.Equal(t, 0.0, nt.wires[1].minX)
	assert.Equal(t, 5.0, nt.wires[1].maxX)
}

func TestNetTrackerBlockAndTerminalOnlyNetContributesZeroUntilPlaced(t *testing.T) {
	ins := chainInstance(t)
	nt := NewNetTracker(ins, LevelBlockAndTerminal)
	// No blocks placed at all: net 1's terminal alone must not count.
	assert.Equal(t, 0.0, nt.TotalWireLength())
}

func TestNetTrackerUntouchedNetContributesZero(t *testing.T) {
	ins := chainInstance(t)
	nt := NewNetTracker(ins, LevelBlockOnly)
	assert.Equal(t, 0.0, nt.TotalWireLength())
}

func TestNetTrackerSharedPairDedup(t *testing.T) {
	blocks := []Block{
		{ID: 0, Name: "b0", Width: 2, Height: 2},
		{ID: 1, Name: "b1", Width: 2, Height: 2},
	}
	// Two nets over the same pair must not double-count the pair in the
	// pairwise distance metrics.
	nets := []Net{{Blocks: []int{0, 1}}, {Blocks: []int{0, 1}}}
	ins, err := NewInstance(blocks, nil, nets, 0, 0)
	require.NoError(t, err)

	nt := NewNetTracker(ins, LevelBlockOnly)
	nt.Place(Rect{BlockID: 0, Point: Point{X: 0, Y: 0}, Size: Size{Width: 2, Height: 2}})
	nt.Place(Rect{BlockID: 1, Point: Point{X: 4, Y: 0}, Size: Size{Width: 2, Height: 2}})

	assert.Equal(t, 16.0, nt.SqrManhattan()) // one pair, distance 4, counted once
}

func TestNetTrackerCloneIsIndependent(t *testing.T) {
	ins := chainInstance(t)
	nt := NewNetTracker(ins, LevelBlockOnly)
	nt.Place(Rect{BlockID: 0, Point: Point{X: 0, Y: 0}, Size: Size{Width: 2, Height: 2}})

	clone := nt.Clone()
	clone.Place(Rect{BlockID: 1, Point: Point{X: 4, Y: 0}, Size: Size{Width: 2, Height: 2}})

	assert.True(t, clone.placed[1])
	assert.False(t, nt.placed[1], "mutating the clone must not affect the original tracker")
}
