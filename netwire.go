package floorplan

import "math"

// Netwire tracks, per net, the axis-aligned bounding box of the centers of
// its placed members, incrementally maintained as blocks are inserted.
type Netwire struct {
	minX, maxX float64
	minY, maxY float64
	touched    bool
}

func newNetwire() Netwire {
	return Netwire{minX: math.Inf(1), maxX: math.Inf(-1), minY: math.Inf(1), maxY: math.Inf(-1)}
}

// extend folds a single (x, y) point into the net's bounding box.
func (nw *Netwire) extend(x, y float64) {
	nw.minX, nw.maxX = min(nw.minX, x), max(nw.maxX, x)
	nw.minY, nw.maxY = min(nw.minY, y), max(nw.maxY, y)
	nw.touched = true
}

// HPWL returns the half-perimeter wire-length of the net's current bbox, or
// 0 if nothing has been extended into it yet.
func (nw *Netwire) HPWL() float64 {
	if !nw.touched {
		return 0
	}
	return (nw.maxX - nw.minX) + (nw.maxY - nw.minY)
}

// NetTracker maintains one Netwire per net of an Instance, updated as
// blocks are placed, and the block-center / terminal registry needed to
// compute the pairwise distance metrics.
type NetTracker struct {
	ins   *Instance
	wires []Netwire
	// centers[b] is the placed center of block b, valid only once placed.
	centers  []Point2D
	placed   []bool
	wireMode LevelWireLength
	// netSeeded[ni] marks a net whose terminals have already been folded
	// into its bbox, done lazily on the net's first placed block rather
	// than up front, so a net with terminals but no placed block still
	// contributes 0.
	netSeeded []bool
}

// Point2D is a floating-point coordinate, used for block/terminal centers
// since a block's center can fall on a half-integer.
type Point2D struct{ X, Y float64 }

// NewNetTracker builds an empty tracker over ins. If mode is
// LevelBlockAndTerminal, each net's terminals are folded into its bbox the
// first time one of its blocks is placed (see Place), not here — a net with
// terminals but no placed block must still contribute 0.
func NewNetTracker(ins *Instance, mode LevelWireLength) *NetTracker {
	nt := &NetTracker{
		ins:       ins,
		wires:     make([]Netwire, len(ins.Nets)),
		centers:   make([]Point2D, len(ins.Blocks)),
		placed:    make([]bool, len(ins.Blocks)),
		wireMode:  mode,
		netSeeded: make([]bool, len(ins.Nets)),
	}
	for i := range nt.wires {
		nt.wires[i] = newNetwire()
	}
	return nt
}

// Place folds block b's placement into every net it touches, seeding each
// such net's terminals first if wireMode is LevelBlockAndTerminal and this
// is the net's first placed block.
func (nt *NetTracker) Place(b Rect) {
	cx, cy := b.Center()
	nt.centers[b.BlockID] = Point2D{X: cx, Y: cy}
	nt.placed[b.BlockID] = true
	for _, ni := range nt.ins.NetsOf(b.BlockID) {
		if nt.wireMode == LevelBlockAndTerminal && !nt.netSeeded[ni] {
			nt.netSeeded[ni] = true
			for _, ti := range nt.ins.Nets[ni].Terminals {
				t := nt.ins.Terminals[ti]
				nt.wires[ni].extend(float64(t.X), float64(t.Y))
			}
		}
		nt.wires[ni].extend(cx, cy)
	}
}

// TotalWireLength sums HPWL over every net touched by at least one placed
// block.
func (nt *NetTracker) TotalWireLength() float64 {
	var total float64
	for i := range nt.wires {
		if nt.wires[i].touched {
			total += nt.wires[i].HPWL()
		}
	}
	return total
}

// SqrHpwl sums the square of each touched net's HPWL.
func (nt *NetTracker) SqrHpwl() float64 {
	var total float64
	for i := range nt.wires {
		if nt.wires[i].touched {
			h := nt.wires[i].HPWL()
			total += h * h
		}
	}
	return total
}

// SqrEuclidean sums squared Euclidean distance over every unordered pair of
// placed blocks sharing at least one net.
func (nt *NetTracker) SqrEuclidean() float64 {
	return nt.sumSharedPairs(func(a, b Point2D) float64 {
		dx, dy := a.X-b.X, a.Y-b.Y
		return dx*dx + dy*dy
	})
}

// SqrManhattan sums squared Manhattan distance over every unordered pair of
// placed blocks sharing at least one net.
func (nt *NetTracker) SqrManhattan() float64 {
	return nt.sumSharedPairs(func(a, b Point2D) float64 {
		d := math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
		return d * d
	})
}

// sumSharedPairs folds dist over every unordered pair of distinct placed
// blocks that share at least one net, counted once regardless of how many
// nets they share.
func (nt *NetTracker) sumSharedPairs(dist func(a, b Point2D) float64) float64 {
	seen := make(map[[2]int]bool)
	var total float64
	for _, net := range nt.ins.Nets {
		for i := 0; i < len(net.Blocks); i++ {
			bi := net.Blocks[i]
			if !nt.placed[bi] {
				continue
			}
			for j := i + 1; j < len(net.Blocks); j++ {
				bj := net.Blocks[j]
				if !nt.placed[bj] {
					continue
				}
				key := [2]int{min(bi, bj), max(bi, bj)}
				if seen[key] {
					continue
				}
				seen[key] = true
				total += dist(nt.centers[bi], nt.centers[bj])
			}
		}
	}
	return total
}

// Clone returns a deep copy, used by the beam search packer so each branch
// of the search tree mutates its own net bookkeeping.
func (nt *NetTracker) Clone() *NetTracker {
	return &NetTracker{
		ins:       nt.ins,
		wires:     append([]Netwire(nil), nt.wires...),
		centers:   append([]Point2D(nil), nt.centers...),
		placed:    append([]bool(nil), nt.placed...),
		wireMode:  nt.wireMode,
		netSeeded: append([]bool(nil), nt.netSeeded...),
	}
}

// Distance evaluates the configured distance metric over the tracker's
// current state.
func (nt *NetTracker) Distance(metric LevelObjDist) float64 {
	switch metric {
	case LevelSqrHpwlDist:
		return nt.SqrHpwl()
	case LevelSqrEuclideanDist:
		return nt.SqrEuclidean()
	case LevelSqrManhattanDist:
		return nt.SqrManhattan()
	default:
		return nt.TotalWireLength()
	}
}
