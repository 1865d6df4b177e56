package floorplan

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instanceS2(t *testing.T) *Instance {
	t.Helper()
	blocks := make([]Block, 4)
	for i := range blocks {
		blocks[i] = Block{ID: i, Name: "sq", Width: 2, Height: 2}
	}
	ins, err := NewInstance(blocks, nil, nil, 0, 0)
	require.NoError(t, err)
	return ins
}

// S4: BS with beam_width=1 on S2 deterministically packs the same 4x4
// square RLS finds.
func TestBeamSearchBeamWidthOneMatchesS2(t *testing.T) {
	ins := instanceS2(t)
	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(7))
	bs := NewBeamSearcher(ins, &cfg, 4, rng)

	bs.Run(1)

	require.NotNil(t, bs.Dst())
	assert.True(t, CheckPlacement(ins, bs.Dst()))
	assert.Equal(t, 16, bs.Area())
}

func TestBeamSearchWiderBeamStillProducesFullPlacement(t *testing.T) {
	ins := instanceS1ForBeam(t)
	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(8))
	bs := NewBeamSearcher(ins, &cfg, 2, rng)

	bs.Run(3)

	require.Len(t, bs.Dst(), len(ins.Blocks))
	assert.True(t, CheckPlacement(ins, bs.Dst()))
}

func instanceS1ForBeam(t *testing.T) *Instance {
	t.Helper()
	blocks := []Block{
		{ID: 0, Name: "a", Width: 1, Height: 1},
		{ID: 1, Name: "b", Width: 2, Height: 1},
		{ID: 2, Name: "c", Width: 1, Height: 2},
	}
	ins, err := NewInstance(blocks, nil, nil, 0, 0)
	require.NoError(t, err)
	return ins
}

func TestWireScoreForIsolatedBlockIsInfinite(t *testing.T) {
	ins := chainInstance(t)
	nt := NewNetTracker(ins, LevelBlockOnly)
	got := wireScoreFor(ins, nt, 0, 1, 1)
	assert.True(t, math.IsInf(got, 1))
}

func TestWireScoreForAveragesPlacedNeighbors(t *testing.T) {
	ins := chainInstance(t)
	nt := NewNetTracker(ins, LevelBlockOnly)
	nt.Place(Rect{BlockID: 0, Point: Point{X: 0, Y: 0}, Size: Size{Width: 2, Height: 2}})
	// Candidate center (5,1): block 0's center is (1,1), Manhattan distance 4.
	got := wireScoreFor(ins, nt, 1, 5, 1)
	assert.Equal(t, 4.0, got)
}

func TestBeamNodeCloneIsIndependent(t *testing.T) {
	ins := instanceS2(t)
	cfg := DefaultConfig()
	root := (&BeamSearcher{basePacker: newBasePacker(ins, &cfg, 4)}).newRoot()
	clone := root.clone()
	clone.remaining = clone.remaining[1:]
	assert.NotEqual(t, len(root.remaining), len(clone.remaining))
}
