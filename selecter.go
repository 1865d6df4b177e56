package floorplan

import (
	"cmp"
	"context"
	"math"
	"math/rand"
	"slices"
	"time"
)

// Incumbent is the best complete placement the Adaptive Selecter has found
// so far, refreshed only on strict objective improvement.
type Incumbent struct {
	BinWidth   int
	Area       int
	FillRatio  float64
	WHRatio    float64
	WireLength float64
	Objective  float64
	Duration   time.Duration
	Iteration  int
	Dst        []Rect
}

// candidateWidth is one bin width under the bandit's management: the packer
// driving it and the iteration count of its most recent run, doubled (capped
// at UBIter) each time the width is picked.
type candidateWidth struct {
	width  int
	iter   int
	packer Packer
}

// Selecter is the outer loop: it maintains a bandit-style population of
// candidate bin widths, each backed by its own packer, and drives whichever
// one the discrete distribution favors until the wall-clock budget runs
// out.
type Selecter struct {
	ins *Instance
	cfg *Config
	rng *rand.Rand

	candidates []*candidateWidth
	incumbent  Incumbent
}

// NewSelecter builds a Selecter over ins with cfg, seeding the one shared
// RNG every packer it constructs will use.
func NewSelecter(ins *Instance, cfg *Config) *Selecter {
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Selecter{
		ins:       ins,
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(seed)),
		incumbent: Incumbent{Objective: math.Inf(1)},
	}
}

// Run seeds a packer per feasible candidate width, then runs the bandit
// loop until ctx is done or cfg.UBTime elapses, whichever is sooner. It
// returns the best incumbent found; time exhaustion is not an error, per
// the error-handling contract that an exhausted budget still reports
// whatever was found so far.
func (s *Selecter) Run(ctx context.Context) (Incumbent, error) {
	widths := candidateWidths(s.ins, s.cfg)
	if len(widths) == 0 {
		return Incumbent{}, ErrNoFeasiblePlacement
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.UBTime)*time.Second)
	defer cancel()
	deadline, _ := ctx.Deadline()
	start := time.Now()

	s.candidates = make([]*candidateWidth, len(widths))
	for i, w := range widths {
		p := s.newPacker(w)
		p.Run(1)
		s.candidates[i] = &candidateWidth{width: w, iter: 1, packer: p}
		s.tryUpdateIncumbent(p, w, 1, time.Since(start))
	}
	s.resort()

	for {
		select {
		case <-ctx.Done():
			return s.incumbent, nil
		default:
		}
		if !time.Now().Before(deadline) {
			return s.incumbent, nil
		}

		idx := s.pickIndex()
		cw := s.candidates[idx]
		cw.iter = min(cw.iter*2, s.cfg.UBIter)
		cw.packer.Run(cw.iter)
		s.tryUpdateIncumbent(cw.packer, cw.width, cw.iter, time.Since(start))
		s.resort()
	}
}

// Incumbent returns the best placement found by the most recent Run.
func (s *Selecter) Incumbent() Incumbent { return s.incumbent }

func (s *Selecter) newPacker(width int) Packer {
	if s.cfg.LevelPacker == LevelBeamSearch {
		return NewBeamSearcher(s.ins, s.cfg, width, s.rng)
	}
	return NewRandomLocalSearcher(s.ins, s.cfg, width, s.rng)
}

// resort keeps candidates in descending last-objective order, so the last
// index is the current best, matching the bandit's rank weighting.
func (s *Selecter) resort() {
	slices.SortFunc(s.candidates, func(a, b *candidateWidth) int {
		return cmp.Compare(b.packer.Objective(), a.packer.Objective())
	})
}

// pickIndex applies the discrete distribution with weights 2*(i+1) (best
// rank most likely) with a 10% uniform override.
func (s *Selecter) pickIndex() int {
	if s.rng.Float64() < 0.10 {
		return s.rng.Intn(len(s.candidates))
	}
	weights := make([]float64, len(s.candidates))
	for i := range weights {
		weights[i] = 2 * float64(i+1)
	}
	return weightedPick(s.rng, weights)
}

// tryUpdateIncumbent refreshes the incumbent iff p's objective strictly
// improves on the stored one, recomputing fill ratio and width/height ratio
// from the envelope area.
func (s *Selecter) tryUpdateIncumbent(p Packer, width, iter int, elapsed time.Duration) bool {
	obj := p.Objective()
	if obj >= s.incumbent.Objective {
		return false
	}
	area := p.Area()
	if area == 0 {
		return false
	}
	h := area / width
	s.incumbent = Incumbent{
		BinWidth:   width,
		Area:       area,
		FillRatio:  float64(s.ins.TotalArea()) / float64(area),
		WHRatio:    float64(max(width, h)) / float64(min(width, h)),
		WireLength: p.WireLength(),
		Objective:  obj,
		Duration:   elapsed,
		Iteration:  iter,
		Dst:        p.Dst(),
	}
	return true
}

// candidateWidths produces the feasible bin-width set W for the configured
// producer, deduplicated, sorted, and filtered by the shared feasibility
// rule (narrower than the tallest block, or the fixed outline's height
// cannot hold the total block area).
func candidateWidths(ins *Instance, cfg *Config) []int {
	var raw []int
	switch cfg.LevelCandidateWidth {
	case LevelSqrt:
		raw = candidateWidthsSqrt(ins, cfg)
	case LevelCombRotate:
		raw = candidateWidthsCombRotate(ins, cfg)
	case LevelCombShort:
		raw = candidateWidthsCombShort(ins, cfg)
	default:
		raw = candidateWidthsInterval(ins)
	}
	return filterFeasible(ins, raw)
}

func maxCanonicalHeight(sizes []Size) int {
	m := 0
	for _, sz := range sizes {
		m = max(m, sz.Height)
	}
	return m
}

// candidateWidthsInterval steps by 1 across [max block height, sum of block
// heights].
func candidateWidthsInterval(ins *Instance) []int {
	sizes := ins.Sizes()
	maxH := maxCanonicalHeight(sizes)
	sum := 0
	for _, sz := range sizes {
		sum += sz.Height
	}
	widths := make([]int, 0, max(0, sum-maxH+1))
	for w := maxH; w <= sum; w++ {
		widths = append(widths, w)
	}
	return widths
}

// candidateWidthsSqrt brackets width around lb_scale/ub_scale times the
// square root of total block area, floored at the tallest block.
func candidateWidthsSqrt(ins *Instance, cfg *Config) []int {
	sizes := ins.Sizes()
	maxH := maxCanonicalHeight(sizes)
	root := math.Sqrt(float64(ins.TotalArea()))
	lo := int(math.Max(cfg.LBScale*root, float64(maxH)))
	hi := int(math.Ceil(cfg.UBScale * root))
	hi = max(hi, lo)
	widths := make([]int, 0, hi-lo+1)
	for w := lo; w <= hi; w++ {
		widths = append(widths, w)
	}
	return widths
}

// candidateWidthsCombRotate enumerates k-subsets of blocks (k in
// [MinTerms, MaxTerms]) summing subset widths, with one member optionally
// rotated to contribute its height instead. Deprecated above MaxCombBlocks,
// where it falls back to the Sqrt producer.
func candidateWidthsCombRotate(ins *Instance, cfg *Config) []int {
	if len(ins.Blocks) > cfg.MaxCombBlocks {
		return candidateWidthsSqrt(ins, cfg)
	}
	sizes := ins.Sizes()
	minCW := maxCanonicalHeight(sizes)
	maxCW := int(math.Floor(cfg.Alpha * math.Sqrt(float64(ins.TotalArea()))))

	seen := make(map[int]bool)
	var widths []int
	add := func(w int) {
		if w >= minCW && w <= maxCW && !seen[w] {
			seen[w] = true
			widths = append(widths, w)
		}
	}
	eachSubsetOfSize(len(sizes), cfg.MinTerms, cfg.MaxTerms, func(subset []int) {
		sum := 0
		for _, idx := range subset {
			sum += sizes[idx].Width
		}
		add(sum)
		for _, idx := range subset {
			add(sum - sizes[idx].Width + sizes[idx].Height)
		}
	})
	slices.Sort(widths)
	return widths
}

// candidateWidthsCombShort is candidateWidthsCombRotate without the
// rotation option: every subset contributes only its members' short sides.
func candidateWidthsCombShort(ins *Instance, cfg *Config) []int {
	if len(ins.Blocks) > cfg.MaxCombBlocks {
		return candidateWidthsSqrt(ins, cfg)
	}
	sizes := ins.Sizes()
	minCW := maxCanonicalHeight(sizes)
	maxCW := int(math.Floor(cfg.Alpha * math.Sqrt(float64(ins.TotalArea()))))

	seen := make(map[int]bool)
	var widths []int
	eachSubsetOfSize(len(sizes), cfg.MinTerms, cfg.MaxTerms, func(subset []int) {
		sum := 0
		for _, idx := range subset {
			sum += sizes[idx].Width
		}
		if sum >= minCW && sum <= maxCW && !seen[sum] {
			seen[sum] = true
			widths = append(widths, sum)
		}
	})
	slices.Sort(widths)
	return widths
}

// eachSubsetOfSize calls fn once per k-subset of [0,n) for every k in
// [minK, maxK], each subset given in increasing index order.
func eachSubsetOfSize(n, minK, maxK int, fn func(subset []int)) {
	for k := minK; k <= maxK && k <= n; k++ {
		if k <= 0 {
			continue
		}
		combo := make([]int, k)
		var rec func(start, depth int)
		rec = func(start, depth int) {
			if depth == k {
				fn(combo)
				return
			}
			for i := start; i < n; i++ {
				combo[depth] = i
				rec(i+1, depth+1)
			}
		}
		rec(0, 0)
	}
}

// filterFeasible drops any width narrower than the tallest block, or for
// which the fixed outline's height cannot possibly hold the total block
// area — the "infeasible bin width" case, which is skipped silently rather
// than surfaced as an error. If the area check would eliminate every
// remaining width, it is relaxed instead of emptying the set: an outline
// too small for the total block area at any width means the run should
// still produce a least-worst incumbent rather than refuse to search.
func filterFeasible(ins *Instance, widths []int) []int {
	sizes := ins.Sizes()
	maxH := maxCanonicalHeight(sizes)
	totalArea := float64(ins.TotalArea())

	seen := make(map[int]bool)
	byHeight := make([]int, 0, len(widths))
	byArea := make([]int, 0, len(widths))
	for _, w := range widths {
		if w < maxH || seen[w] {
			continue
		}
		seen[w] = true
		byHeight = append(byHeight, w)
		if ins.FixedHeight == 0 || totalArea <= float64(w)*float64(ins.FixedHeight) {
			byArea = append(byArea, w)
		}
	}
	slices.Sort(byHeight)
	slices.Sort(byArea)
	if len(byArea) > 0 {
		return byArea
	}
	return byHeight
}
