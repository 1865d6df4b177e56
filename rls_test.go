package floorplan

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instanceS1(t *testing.T) *Instance {
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

// S1: decreasing-area rule packs a 2x3 envelope with objective 6 (alpha=1,
// beta=0).
func TestRLSConstructScenarioS1(t *testing.T) {
	ins := instanceS1(t)
	cfg := DefaultConfig()
	cfg.Alpha, cfg.Beta = 1, 0
	rng := rand.New(rand.NewSource(1))
	r := NewRandomLocalSearcher(ins, &cfg, 2, rng)

	sortSeqBy(r.rules[1].sequence, ins.Blocks, sortByArea)
	dst, area, _, obj := r.construct(r.rules[1].sequence)

	require.True(t, CheckPlacement(ins, dst))
	assert.Equal(t, 6, area)
	assert.Equal(t, 6.0, obj)
}

// S2: 4 equal 2x2 blocks on bin_width=4 pack into a 4x4 square regardless
// of rule.
func TestRLSConstructScenarioS2(t *testing.T) {
	blocks := make([]Block, 4)
	for i := range blocks {
		blocks[i] = Block{ID: i, Name: "sq", Width: 2, Height: 2}
	}
	ins, err := NewInstance(blocks, nil, nil, 0, 0)
	require.NoError(t, err)

	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(2))
	r := NewRandomLocalSearcher(ins, &cfg, 4, rng)

	identity := []int{0, 1, 2, 3}
	dst, area, _, _ := r.construct(identity)

	require.True(t, CheckPlacement(ins, dst))
	assert.Equal(t, 16, area)
}

// S3: a 3x1 and a 1x3 block on bin_width=3 forces the 3x1 flat at y=0, then
// the 1x3 rotated flat at y=1, for a 3x2 envelope (area=6).
func TestRLSConstructScenarioS3(t *testing.T) {
	blocks := []Block{
		{ID: 0, Name: "wide", Width: 3, Height: 1},
		{ID: 1, Name: "tall", Width: 1, Height: 3},
	}
	ins, err := NewInstance(blocks, nil, nil, 0, 0)
	require.NoError(t, err)

	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(4))
	r := NewRandomLocalSearcher(ins, &cfg, 3, rng)

	dst, area, _, _ := r.construct([]int{0, 1})

	require.True(t, CheckPlacement(ins, dst))
	assert.Equal(t, 6, area)
	require.Len(t, dst, 2)
	assert.False(t, dst[0].Rotated, "3x1 block placed flat")
	assert.True(t, dst[1].Rotated, "1x3 block placed rotated to fill the remaining strip")
}

func TestRLSRunImprovesOrHoldsObjective(t *testing.T) {
	ins := instanceS1(t)
	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(3))
	r := NewRandomLocalSearcher(ins, &cfg, 3, rng)

	r.Run(1)
	first := r.Objective()
	r.Run(20)
	assert.LessOrEqual(t, r.Objective(), first)
	require.True(t, CheckPlacement(ins, r.Dst()))
}

func TestMinBlockWidth(t *testing.T) {
	ins := instanceS1(t)
	assert.Equal(t, 1, minBlockWidth(ins, []int{0, 1, 2}))
}
