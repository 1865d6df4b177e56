package floorplan

import "errors"

// Sentinel errors for the expected, caller-facing failure modes. Invariant
// violations that indicate a bug in the packer itself (not bad input) panic
// instead; see skyline.go and beam.go.
var (
	// ErrEmptyInstance is returned by NewInstance when no blocks are given.
	ErrEmptyInstance = errors.New("floorplan: instance has no blocks")

	// ErrInputFormat wraps any malformed in-memory input NewInstance is
	// handed (bad net degree, dangling block/terminal reference).
	ErrInputFormat = errors.New("floorplan: malformed input")

	// ErrNoFeasiblePlacement is returned by Selecter.Run when candidate-width
	// construction yields no width at all (e.g. CombRotate/CombShort with
	// MinTerms above the block count).
	ErrNoFeasiblePlacement = errors.New("floorplan: no feasible placement for bin width")
)
