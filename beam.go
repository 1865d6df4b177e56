package floorplan

import (
	"cmp"
	"math"
	"math/rand"
	"slices"
)

// beamNode is a partial placement: the prefix of blocks already placed plus
// the skyline and net bookkeeping that placement produced. Nodes are always
// deep-copied on growth (see Clone on Skyline and NetTracker) so branches of
// the search tree never alias each other's state.
type beamNode struct {
	dst       []Rect
	remaining []int
	sky       *Skyline
	tracker   *NetTracker
}

func (n *beamNode) complete() bool { return len(n.remaining) == 0 }

func (n *beamNode) clone() *beamNode {
	return &beamNode{
		dst:       append([]Rect(nil), n.dst...),
		remaining: append([]int(nil), n.remaining...),
		sky:       n.sky.Clone(),
		tracker:   n.tracker.Clone(),
	}
}

// beamChild is one branch of the β-layer: a candidate (block, rotation)
// placement at a parent's lowest skyline segment, scored but not yet
// applied.
type beamChild struct {
	parentIdx      int
	blockID        int
	posInRemaining int
	lowIdx         int
	w, h           int
	sd             side
	areaScore      int
	wireScore      float64
}

// evaluatedChild is a beamChild after its placement has been applied to a
// fresh copy of the parent and carried through global and look-ahead
// evaluation. node is the partial (post-insert, pre-completion) state that
// becomes the next beam entry if selected.
type evaluatedChild struct {
	node          *beamNode
	globalEval    float64
	lookAheadEval float64
}

// BeamSearcher grows a beam of partial placements level by level, branching
// every unplaced (block, rotation) pair that fits the lowest skyline
// segment, ranking children by a local filter and then by global and
// look-ahead evaluation, and keeping up to beam_width survivors.
type BeamSearcher struct {
	basePacker
	rng *rand.Rand
}

// NewBeamSearcher builds a BS packer for a fixed bin width. rng must be the
// single shared generator the caller threads through every packer (see
// Selecter).
func NewBeamSearcher(ins *Instance, cfg *Config, binWidth int, rng *rand.Rand) *BeamSearcher {
	return &BeamSearcher{basePacker: newBasePacker(ins, cfg, binWidth), rng: rng}
}

func (bs *BeamSearcher) newRoot() *beamNode {
	remaining := make([]int, len(bs.ins.Blocks))
	for i := range remaining {
		remaining[i] = i
	}
	return &beamNode{
		dst:       make([]Rect, 0, len(bs.ins.Blocks)),
		remaining: remaining,
		sky:       NewSkyline(bs.binWidth),
		tracker:   NewNetTracker(bs.ins, bs.cfg.LevelWireLength),
	}
}

// Run grows a fresh beam tree from an empty placement to completion at the
// given beam width, discarding any previous tree. iter is overloaded here to
// mean beam width rather than an iteration count, mirroring the shared
// CandidateWidth field the Adaptive Selecter drives both packers with: RLS
// treats it as the number of neighborhood moves (swap or rotate) per call,
// BS treats it as the population size
// for one full search to completion.
func (bs *BeamSearcher) Run(beamWidth int) {
	if beamWidth < 1 {
		beamWidth = 1
	}
	filterWidth := 2 * beamWidth

	beam := []*beamNode{bs.newRoot()}
	for !allComplete(beam) {
		beam = bs.step(beam, beamWidth, filterWidth)
	}

	for _, n := range beam {
		area := n.sky.MaxY() * bs.binWidth
		wire := n.tracker.Distance(bs.cfg.LevelObjDist)
		obj := objective(bs.cfg, area, wire)
		bs.considerSolution(obj, area, wire, n.dst)
	}
}

func allComplete(beam []*beamNode) bool {
	for _, n := range beam {
		if !n.complete() {
			return false
		}
	}
	return true
}

// step advances every incomplete node in beam by one branch/filter/evaluate/
// select/grow round, returning the next beam. Already-complete nodes pass
// through untouched; they neither branch nor compete for beam slots.
func (bs *BeamSearcher) step(beam []*beamNode, beamWidth, filterWidth int) []*beamNode {
	parentMaxY := make([]int, len(beam))
	for i, n := range beam {
		if !n.complete() {
			parentMaxY[i] = n.sky.MaxY()
		}
	}

	childrenPerParent := bs.branch(beam)
	filtered := bs.localFilter(childrenPerParent, filterWidth)

	var evaluated []evaluatedChild
	for pi, children := range filtered {
		if len(children) == 0 {
			continue
		}
		parent := beam[pi]
		for _, c := range children {
			child := parent.clone()
			placed := child.sky.Insert(c.lowIdx, c.w, c.h, c.sd)
			placed.BlockID = c.blockID
			placed.Rotated = c.w != bs.ins.Blocks[c.blockID].Width
			child.dst = append(child.dst, placed)
			child.tracker.Place(placed)
			child.remaining = append(child.remaining[:c.posInRemaining], child.remaining[c.posInRemaining+1:]...)

			gObj := bs.globalEvaluate(child)
			laObj := bs.lookAheadEvaluate(child, parentMaxY[pi])
			evaluated = append(evaluated, evaluatedChild{node: child, globalEval: gObj, lookAheadEval: laObj})
		}
	}

	var carried []*beamNode
	for _, n := range beam {
		if n.complete() {
			carried = append(carried, n)
		}
	}
	if len(evaluated) == 0 {
		if len(carried) == 0 {
			panic("floorplan: beam search found no admissible placement for any unplaced block")
		}
		return carried
	}

	return append(carried, bs.selectSurvivors(evaluated, beamWidth)...)
}

// branch enumerates, for every incomplete parent, one child per (unplaced
// block, rotation) that fits the parent's lowest skyline segment. It pit-
// fills each parent first, matching the construction contract's step 1.
func (bs *BeamSearcher) branch(beam []*beamNode) [][]beamChild {
	result := make([][]beamChild, len(beam))
	for pi, node := range beam {
		if node.complete() {
			continue
		}
		minWidth := minBlockWidth(bs.ins, node.remaining)
		for node.sky.FillPit(minWidth) {
		}
		lo := node.sky.LowestIndex()
		sp := node.sky.Space(lo)

		var children []beamChild
		for idx, id := range node.remaining {
			b := bs.ins.Blocks[id]
			for _, rot := range [2]bool{false, true} {
				cw, ch := b.Width, b.Height
				if rot {
					cw, ch = ch, cw
				}
				sc, sd, ok := score(sp, cw, ch)
				if !ok {
					continue
				}
				x := node.sky.placementX(lo, cw, sd)
				cx := float64(x) + float64(cw)/2
				cy := float64(sp.Y) + float64(ch)/2
				ws := wireScoreFor(bs.ins, node.tracker, id, cx, cy)
				children = append(children, beamChild{
					parentIdx: pi, blockID: id, posInRemaining: idx, lowIdx: lo,
					w: cw, h: ch, sd: sd, areaScore: sc, wireScore: ws,
				})
			}
		}
		if len(children) == 0 {
			panic("floorplan: no remaining block fits the lowest skyline segment after pit-filling")
		}
		result[pi] = children
	}
	return result
}

// wireScoreFor is the average Manhattan distance from a candidate's center
// to the centers of already-placed blocks sharing at least one net with it,
// or +Inf if no such neighbor has been placed yet.
func wireScoreFor(ins *Instance, tracker *NetTracker, blockID int, cx, cy float64) float64 {
	seen := make(map[int]bool)
	var sum float64
	var count int
	for _, ni := range ins.NetsOf(blockID) {
		for _, bj := range ins.Nets[ni].Blocks {
			if bj == blockID || seen[bj] || !tracker.placed[bj] {
				continue
			}
			seen[bj] = true
			p := tracker.centers[bj]
			sum += math.Abs(cx-p.X) + math.Abs(cy-p.Y)
			count++
		}
	}
	if count == 0 {
		return math.Inf(1)
	}
	return sum / float64(count)
}

// localFilter keeps, per parent, up to filterWidth/numParents children
// (integer division), ranked by local_eval = alpha*rank_area + beta*rank_wire
// where ranks are descending by area score and ascending by wire score. Ties
// at the cutoff are broken by shuffling before the stable sort.
func (bs *BeamSearcher) localFilter(childrenPerParent [][]beamChild, filterWidth int) [][]beamChild {
	numParents := 0
	for _, c := range childrenPerParent {
		if len(c) > 0 {
			numParents++
		}
	}
	if numParents == 0 {
		return childrenPerParent
	}
	quota := filterWidth / numParents

	out := make([][]beamChild, len(childrenPerParent))
	for pi, children := range childrenPerParent {
		if len(children) == 0 {
			continue
		}
		if len(children) <= quota {
			out[pi] = children
			continue
		}

		rankArea := rankBy(children, func(a, b beamChild) int { return cmp.Compare(b.areaScore, a.areaScore) })
		rankWire := rankBy(children, func(a, b beamChild) int { return cmp.Compare(a.wireScore, b.wireScore) })
		localEval := make([]float64, len(children))
		for i := range children {
			localEval[i] = bs.cfg.Alpha*float64(rankArea[i]) + bs.cfg.Beta*float64(rankWire[i])
		}

		order := make([]int, len(children))
		for i := range order {
			order[i] = i
		}
		bs.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		slices.SortStableFunc(order, func(i, j int) int { return cmp.Compare(localEval[i], localEval[j]) })

		selected := make([]beamChild, quota)
		for i, oi := range order[:quota] {
			selected[i] = children[oi]
		}
		out[pi] = selected
	}
	return out
}

// rankBy returns, for each element of xs, its 0-based position in the order
// less defines (a stable sort, so equal elements keep input order).
func rankBy[T any](xs []T, less func(a, b T) int) []int {
	order := make([]int, len(xs))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int { return less(xs[i], xs[j]) })
	ranks := make([]int, len(xs))
	for pos, idx := range order {
		ranks[idx] = pos
	}
	return ranks
}

// globalEvaluate greedily completes a throwaway copy of child to a full
// placement (construction without RLS's permutation search) and returns its
// objective, recording it as the new incumbent if it strictly improves.
func (bs *BeamSearcher) globalEvaluate(child *beamNode) float64 {
	clone := child.clone()
	dst, area, wire, obj := greedyCompleteFrom(bs.cfg, bs.binWidth, bs.ins, clone.sky, clone.tracker, clone.remaining, clone.dst)
	bs.considerSolution(obj, area, wire, dst)
	return obj
}

// lookAheadEvaluate greedily places blocks into a throwaway copy of child
// until the lowest skyline y first reaches or exceeds targetY (the parent's
// envelope height at the start of this step), returning the objective of
// that partial state. If the placement happens to complete before reaching
// targetY, it is recorded as the new incumbent the same as a global result.
func (bs *BeamSearcher) lookAheadEvaluate(child *beamNode, targetY int) float64 {
	clone := child.clone()
	dst, area, wire, obj, completed := greedyLookAheadFrom(bs.cfg, bs.binWidth, bs.ins, clone.sky, clone.tracker, clone.remaining, clone.dst, targetY)
	if completed {
		bs.considerSolution(obj, area, wire, dst)
	}
	return obj
}

// greedyCompleteFrom continues construction from a partial state to a full
// placement, reusing the same scoring and degenerate-recovery policy as the
// random local search packer's construct.
func greedyCompleteFrom(cfg *Config, binWidth int, ins *Instance, sky *Skyline, tracker *NetTracker, remaining []int, dst []Rect) (outDst []Rect, area int, wireLength float64, obj float64) {
	remaining = append([]int(nil), remaining...)
	outDst = append([]Rect(nil), dst...)
	for len(remaining) > 0 {
		minWidth := minBlockWidth(ins, remaining)
		for sky.FillPit(minWidth) {
		}
		lo := sky.LowestIndex()
		sp := sky.Space(lo)
		winner, wIdx, w, h, sd := chooseForSegment(ins, remaining, sp)
		if winner == -1 {
			panic("floorplan: no remaining block fits the lowest skyline segment after pit-filling")
		}
		placed := sky.Insert(lo, w, h, sd)
		placed.BlockID = winner
		placed.Rotated = w != ins.Blocks[winner].Width
		outDst = append(outDst, placed)
		tracker.Place(placed)
		remaining = append(remaining[:wIdx], remaining[wIdx+1:]...)
	}
	area = sky.MaxY() * binWidth
	wireLength = tracker.Distance(cfg.LevelObjDist)
	obj = objective(cfg, area, wireLength)
	return outDst, area, wireLength, obj
}

// greedyLookAheadFrom is greedyCompleteFrom's bounded sibling: it stops
// placing once the lowest skyline y reaches or exceeds targetY, or once
// every block is placed, whichever comes first.
func greedyLookAheadFrom(cfg *Config, binWidth int, ins *Instance, sky *Skyline, tracker *NetTracker, remaining []int, dst []Rect, targetY int) (outDst []Rect, area int, wireLength float64, obj float64, completed bool) {
	remaining = append([]int(nil), remaining...)
	outDst = append([]Rect(nil), dst...)
	for len(remaining) > 0 {
		if sky.Space(sky.LowestIndex()).Y >= targetY {
			break
		}
		minWidth := minBlockWidth(ins, remaining)
		for sky.FillPit(minWidth) {
		}
		lo := sky.LowestIndex()
		sp := sky.Space(lo)
		winner, wIdx, w, h, sd := chooseForSegment(ins, remaining, sp)
		if winner == -1 {
			panic("floorplan: no remaining block fits the lowest skyline segment after pit-filling")
		}
		placed := sky.Insert(lo, w, h, sd)
		placed.BlockID = winner
		placed.Rotated = w != ins.Blocks[winner].Width
		outDst = append(outDst, placed)
		tracker.Place(placed)
		remaining = append(remaining[:wIdx], remaining[wIdx+1:]...)
	}
	area = sky.MaxY() * binWidth
	wireLength = tracker.Distance(cfg.LevelObjDist)
	obj = objective(cfg, area, wireLength)
	completed = len(remaining) == 0
	return outDst, area, wireLength, obj, completed
}

// selectSurvivors implements beam selection: with beam_width 1, a single
// reservoir-sampled tie-break among the minimum global_eval children;
// otherwise beam_width/2 smallest global_eval plus beam_width/2 smallest
// look_ahead_eval from the remainder, each tie-shuffled before a stable sort.
func (bs *BeamSearcher) selectSurvivors(evaluated []evaluatedChild, beamWidth int) []*beamNode {
	if beamWidth == 1 {
		best := evaluated[0].globalEval
		for _, e := range evaluated[1:] {
			best = min(best, e.globalEval)
		}
		var chosen *beamNode
		k := 0
		for _, e := range evaluated {
			if e.globalEval == best {
				k++
				if bs.rng.Float64() < 1.0/float64(k) {
					chosen = e.node
				}
			}
		}
		return []*beamNode{chosen}
	}

	half := beamWidth / 2
	order := make([]int, len(evaluated))
	for i := range order {
		order[i] = i
	}
	bs.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	slices.SortStableFunc(order, func(i, j int) int {
		return cmp.Compare(evaluated[i].globalEval, evaluated[j].globalEval)
	})

	takeGlobal := min(half, len(order))
	globalPicks := order[:takeGlobal]
	rest := append([]int(nil), order[takeGlobal:]...)
	bs.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
	slices.SortStableFunc(rest, func(i, j int) int {
		return cmp.Compare(evaluated[i].lookAheadEval, evaluated[j].lookAheadEval)
	})
	takeLA := min(half, len(rest))
	laPicks := rest[:takeLA]

	survivors := make([]*beamNode, 0, takeGlobal+takeLA)
	for _, i := range globalPicks {
		survivors = append(survivors, evaluated[i].node)
	}
	for _, i := range laPicks {
		survivors = append(survivors, evaluated[i].node)
	}
	return survivors
}
