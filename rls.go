package floorplan

import (
	"cmp"
	"math/rand"
	"slices"
)

// sortRule is one of RLS's five ordering heuristics over block ids, plus
// the best objective it has produced so far.
type sortRule struct {
	sequence  []int
	objective float64
}

// RandomLocalSearcher greedily constructs a full placement from a
// permutation+rotation sequence, then perturbs that sequence under
// probabilistic rule selection and a swap/rotate neighborhood.
type RandomLocalSearcher struct {
	basePacker
	rng   *rand.Rand
	rules []sortRule
}

// NewRandomLocalSearcher builds an RLS packer for a fixed bin width. rng
// must be the single shared generator the caller threads through every
// packer (see Selecter).
func NewRandomLocalSearcher(ins *Instance, cfg *Config, binWidth int, rng *rand.Rand) *RandomLocalSearcher {
	r := &RandomLocalSearcher{
		basePacker: newBasePacker(ins, cfg, binWidth),
		rng:        rng,
	}
	r.initSortRules()
	return r
}

// initSortRules builds the five permutations spec.md §4.3 defines: input
// order, decreasing area, decreasing height, decreasing width, and a
// uniform-random shuffle.
func (r *RandomLocalSearcher) initSortRules() {
	n := len(r.ins.Blocks)
	identity := make([]int, n)
	for i := range identity {
		identity[i] = i
	}

	r.rules = make([]sortRule, 5)
	for i := range r.rules {
		seq := make([]int, n)
		copy(seq, identity)
		r.rules[i] = sortRule{sequence: seq, objective: posInf}
	}
	sortSeqBy(r.rules[1].sequence, r.ins.Blocks, sortByArea)
	sortSeqBy(r.rules[2].sequence, r.ins.Blocks, sortByHeight)
	sortSeqBy(r.rules[3].sequence, r.ins.Blocks, sortByWidth)
	r.rng.Shuffle(n, func(i, j int) {
		r.rules[4].sequence[i], r.rules[4].sequence[j] = r.rules[4].sequence[j], r.rules[4].sequence[i]
	})
}

func sortSeqBy(seq []int, blocks []Block, cmp blockSortFunc) {
	slices.SortFunc(seq, func(a, b int) int {
		return cmp(blocks[a], blocks[b])
	})
}

// ruleSelectionWeights are the discrete-distribution weights spec.md gives
// for the 5 sort rules kept in worst-to-best order.
var ruleSelectionWeights = [5]float64{2, 4, 6, 8, 10}

// Run advances the RLS packer by iter outer iterations. On the very first
// call (iter==1 from a freshly constructed packer) it seeds every rule's
// objective by constructing once per rule, matching §4.3's "the first time
// RLS runs on a given width".
func (r *RandomLocalSearcher) Run(iter int) {
	if r.allRulesUnseeded() {
		for i := range r.rules {
			dst, area, wire, obj := r.construct(r.rules[i].sequence)
			r.rules[i].objective = obj
			r.considerSolution(obj, area, wire, dst)
		}
		r.resortRules()
	}

	pickedIdx := r.pickRuleIndex()
	resortNeeded := false
	for i := 1; i <= iter; i++ {
		newSeq := append([]int(nil), r.rules[pickedIdx].sequence...)
		if r.rng.Float64() < 0.75 {
			r.swapTwo(newSeq)
		} else {
			r.rotate(newSeq)
		}
		dst, area, wire, obj := r.construct(newSeq)
		if obj <= r.rules[pickedIdx].objective {
			r.rules[pickedIdx] = sortRule{sequence: newSeq, objective: obj}
			resortNeeded = true
			r.considerSolution(obj, area, wire, dst)
		}
	}
	if resortNeeded {
		r.resortRules()
	}
}

func (r *RandomLocalSearcher) allRulesUnseeded() bool {
	for i := range r.rules {
		if r.rules[i].objective != posInf {
			return false
		}
	}
	return true
}

// resortRules keeps rules in descending-by-objective order: the last index
// has the lowest (best) objective, matching the original's sort predicate.
func (r *RandomLocalSearcher) resortRules() {
	slices.SortFunc(r.rules, func(a, b sortRule) int {
		return cmp.Compare(b.objective, a.objective)
	})
}

// pickRuleIndex applies the discrete distribution (weights 2,4,6,8,10, best
// rule most likely) with a 10% uniform override for diversification.
func (r *RandomLocalSearcher) pickRuleIndex() int {
	if r.rng.Float64() < 0.10 {
		return r.rng.Intn(len(r.rules))
	}
	return weightedPick(r.rng, ruleSelectionWeights[:])
}

func (r *RandomLocalSearcher) swapTwo(seq []int) {
	if len(seq) < 2 {
		return
	}
	a := r.rng.Intn(len(seq))
	b := r.rng.Intn(len(seq))
	for b == a {
		b = r.rng.Intn(len(seq))
	}
	seq[a], seq[b] = seq[b], seq[a]
}

func (r *RandomLocalSearcher) rotate(seq []int) {
	a := r.rng.Intn(len(seq))
	rotated := append(append([]int(nil), seq[a:]...), seq[:a]...)
	copy(seq, rotated)
}

// construct greedily builds a full placement from sequence, returning the
// destination rects, envelope area, wire-length, and objective.
func (r *RandomLocalSearcher) construct(sequence []int) (dst []Rect, area int, wireLength float64, obj float64) {
	sky := NewSkyline(r.binWidth)
	tracker := NewNetTracker(r.ins, r.cfg.LevelWireLength)
	remaining := append([]int(nil), sequence...)
	dst = make([]Rect, 0, len(sequence))

	for len(remaining) > 0 {
		minWidth := minBlockWidth(r.ins, remaining)
		for sky.FillPit(minWidth) {
		}
		lo := sky.LowestIndex()
		sp := sky.Space(lo)

		winner, wIdx, w, h, sd := chooseForSegment(r.ins, remaining, sp)
		if winner == -1 {
			panic("floorplan: no remaining block fits the lowest skyline segment after pit-filling")
		}
		placed := sky.Insert(lo, w, h, sd)
		placed.BlockID = winner
		placed.Rotated = (w != r.ins.Blocks[winner].Width)
		dst = append(dst, placed)
		tracker.Place(placed)
		remaining = append(remaining[:wIdx], remaining[wIdx+1:]...)
	}

	area = sky.MaxY() * r.binWidth
	wireLength = tracker.Distance(r.cfg.LevelObjDist)
	obj = objective(r.cfg, area, wireLength)
	return dst, area, wireLength, obj
}

// minBlockWidth returns the minimum width (over both rotations) among the
// given unplaced block ids.
func minBlockWidth(ins *Instance, ids []int) int {
	m := -1
	for _, id := range ids {
		b := ins.Blocks[id]
		w := min(b.Width, b.Height)
		if m == -1 || w < m {
			m = w
		}
	}
	return m
}

// chooseForSegment runs §4.1's scoring policy plus the §4.3 degenerate-score
// recovery branch over every remaining block and both rotations, returning
// the winning block id, its index within ids, its placed (w,h), and side.
// Returns winner == -1 if nothing fits (a bug-class condition once
// pit-filling has run, since pit-filling guarantees the segment is at
// least as wide as the narrowest remaining block).
func chooseForSegment(ins *Instance, ids []int, sp SkylineSpace) (winner, winnerIdx, w, h int, sd side) {
	bestScore := -1
	winner, winnerIdx = -1, -1
	for idx, id := range ids {
		b := ins.Blocks[id]
		for _, rot := range [2]bool{false, true} {
			cw, ch := b.Width, b.Height
			if rot {
				cw, ch = ch, cw
			}
			sc, s, ok := score(sp, cw, ch)
			if !ok {
				continue
			}
			if sc > bestScore {
				bestScore = sc
				winner, winnerIdx, w, h, sd = id, idx, cw, ch, s
			}
		}
	}
	if winner == -1 {
		return
	}

	if (bestScore == 0 || bestScore == 2 || bestScore == 4) && len(ids) > 1 {
		minUnplacedWidth := -1
		for _, id := range ids {
			if id == winner {
				continue
			}
			b := ins.Blocks[id]
			if bw := min(b.Width, b.Height); minUnplacedWidth == -1 || bw < minUnplacedWidth {
				minUnplacedWidth = bw
			}
		}
		if minUnplacedWidth > sp.Width-w {
			minSpaceHeight := min(sp.HL, sp.HR)
			newWinner, newIdx, newW, newH := -1, -1, 0, 0
			for idx, id := range ids {
				b := ins.Blocks[id]
				for _, rot := range [2]bool{false, true} {
					cw, ch := b.Width, b.Height
					if rot {
						cw, ch = ch, cw
					}
					if ch >= minSpaceHeight && cw <= sp.Width && cw > newW {
						newWinner, newIdx, newW, newH = id, idx, cw, ch
					}
				}
			}
			if newWinner != -1 {
				winner, winnerIdx, w, h = newWinner, newIdx, newW, newH
				if sp.HL >= sp.HR {
					sd = sideLeft
				} else {
					sd = sideRight
				}
			}
		}
	}
	return
}

// weightedPick samples an index in [0, len(weights)) with probability
// proportional to weights[i].
func weightedPick(rng *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}
