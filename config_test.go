package floorplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, LevelInterval, cfg.LevelCandidateWidth)
	assert.Equal(t, LevelRandomLocalSearch, cfg.LevelPacker)
	assert.Equal(t, LevelBlockOnly, cfg.LevelWireLength)
	assert.Equal(t, LevelWireLengthDist, cfg.LevelObjDist)
	assert.Equal(t, 1.0, cfg.Alpha)
	assert.Equal(t, 1.0, cfg.Beta)
	assert.Greater(t, cfg.UBIter, 0)
}
