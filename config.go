package floorplan

// LevelCandidateWidth selects the candidate bin-width producer used by the
// Adaptive Selecter.
type LevelCandidateWidth int

const (
	// LevelInterval steps by 1 across [max block height, total height sum].
	LevelInterval LevelCandidateWidth = iota
	// LevelSqrt brackets width around lb_scale/ub_scale * sqrt(total area).
	LevelSqrt
	// LevelCombRotate enumerates k-subsets of blocks, rotation included.
	// Deprecated upstream for n > 30; see Config.MaxCombBlocks.
	LevelCombRotate
	// LevelCombShort enumerates k-subsets summing blocks' short sides only.
	LevelCombShort
)

// LevelPacker selects which per-width packer the Adaptive Selecter drives.
type LevelPacker int

const (
	// LevelRandomLocalSearch drives RLS packers per candidate width.
	LevelRandomLocalSearch LevelPacker = iota
	// LevelBeamSearch drives BS packers per candidate width.
	LevelBeamSearch
)

// LevelWireLength selects whether terminals participate in a net's
// bounding box.
type LevelWireLength int

const (
	// LevelBlockOnly excludes terminal coordinates from netwire bboxes.
	LevelBlockOnly LevelWireLength = iota
	// LevelBlockAndTerminal extends every net's bbox by its terminals too.
	LevelBlockAndTerminal
)

// LevelObjDist selects the distance metric contributing to the objective.
type LevelObjDist int

const (
	// LevelWireLengthDist uses the sum of per-net HPWL.
	LevelWireLengthDist LevelObjDist = iota
	// LevelSqrEuclideanDist sums squared Euclidean distance over block
	// pairs sharing a net.
	LevelSqrEuclideanDist
	// LevelSqrManhattanDist sums squared Manhattan distance over block
	// pairs sharing a net.
	LevelSqrManhattanDist
	// LevelSqrHpwlDist sums squared per-net HPWL.
	LevelSqrHpwlDist
)

// Config holds every tunable of the search, threaded by reference through
// constructors rather than held as package-level state.
type Config struct {
	RandomSeed int64

	// Alpha, Beta weight the objective: alpha*area + beta*dist.
	Alpha, Beta float64

	// LBScale, UBScale bracket the Sqrt candidate-width producer.
	LBScale, UBScale float64

	// UBTime bounds the Adaptive Selecter's wall-clock budget, in seconds.
	UBTime int
	// UBIter caps the per-width iteration count a CandidateWidth can grow to.
	UBIter int

	LevelCandidateWidth LevelCandidateWidth
	LevelPacker         LevelPacker
	LevelWireLength     LevelWireLength
	LevelObjDist        LevelObjDist

	// MinTerms/MaxTerms bound subset size for CombRotate/CombShort.
	MinTerms, MaxTerms int
	// MaxCombBlocks caps the instance size CombRotate/CombShort will run
	// against; above it candidateWidths silently falls back to Sqrt. The
	// original treats these producers as deprecated past n=30; this is
	// that same cutoff, not an arbitrary one.
	MaxCombBlocks int

	// InitFillRatio seeds the initial bin-width guess a caller might use
	// before the Selecter takes over (dead_ratio in the original).
	InitFillRatio float64
}

// DefaultConfig returns a Config with the values the original treats as its
// recommended defaults (Interval width producer, RandomLocalSearch packer,
// block-only wire length, plain HPWL distance).
func DefaultConfig() Config {
	return Config{
		Alpha:               1,
		Beta:                1,
		LBScale:             0.8,
		UBScale:             1.2,
		UBTime:              60,
		UBIter:              1 << 20,
		LevelCandidateWidth: LevelInterval,
		LevelPacker:         LevelRandomLocalSearch,
		LevelWireLength:     LevelBlockOnly,
		LevelObjDist:        LevelWireLengthDist,
		MinTerms:            3,
		MaxTerms:            6,
		MaxCombBlocks:       30,
		InitFillRatio:       0.5,
	}
}
