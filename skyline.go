package floorplan

import "slices"

// Segment is one run of the skyline: the upper envelope of everything
// placed directly below [X, X+Width).
type Segment struct {
	X, Y, Width int
}

// Skyline is the upper envelope of placed blocks: an ordered, disjoint
// sequence of segments covering [0, binWidth) exactly. Two adjacent
// segments never share a y value (they would have been merged).
type Skyline struct {
	binWidth int
	segs     []Segment
}

// NewSkyline starts a flat skyline at y=0 spanning [0, binWidth).
func NewSkyline(binWidth int) *Skyline {
	if binWidth <= 0 {
		panic("floorplan: NewSkyline requires a positive bin width")
	}
	return &Skyline{binWidth: binWidth, segs: []Segment{{X: 0, Y: 0, Width: binWidth}}}
}

// Len returns the number of segments.
func (s *Skyline) Len() int { return len(s.segs) }

// MaxY returns the tallest segment's y, i.e. the envelope height.
func (s *Skyline) MaxY() int {
	m := 0
	for _, seg := range s.segs {
		m = max(m, seg.Y)
	}
	return m
}

// LowestIndex returns the index of the segment with minimum y (first one,
// on ties, matching the original's min_element which keeps the first).
func (s *Skyline) LowestIndex() int {
	lo := 0
	for i, seg := range s.segs[1:] {
		if seg.Y < s.segs[lo].Y {
			lo = i + 1
		}
	}
	return lo
}

// SkylineSpace is a segment plus the heights of its left/right walls,
// derived for scoring a candidate placement at that segment.
type SkylineSpace struct {
	X, Y, Width int
	HL, HR      int
}

// Space derives the SkylineSpace for segment i. Wall height to a missing
// neighbor (the skyline has only one segment, or i is at an end) is
// represented as a large sentinel standing in for infinity.
func (s *Skyline) Space(i int) SkylineSpace {
	const infWall = 1 << 30
	seg := s.segs[i]
	sp := SkylineSpace{X: seg.X, Y: seg.Y, Width: seg.Width}
	switch {
	case len(s.segs) == 1:
		sp.HL, sp.HR = infWall, infWall
	case i == 0:
		sp.HL = infWall
		sp.HR = s.segs[i+1].Y - seg.Y
	case i == len(s.segs)-1:
		sp.HL = s.segs[i-1].Y - seg.Y
		sp.HR = infWall
	default:
		sp.HL = s.segs[i-1].Y - seg.Y
		sp.HR = s.segs[i+1].Y - seg.Y
	}
	return sp
}

// side indicates which edge of a segment a candidate is justified against.
type side int

const (
	sideNone side = iota
	sideLeft
	sideRight
)

// score applies the §4.1 scoring table to a candidate (w,h) against space.
// It returns the score, the chosen side, and whether the candidate fits at
// all.
func score(sp SkylineSpace, w, h int) (sc int, placeSide side, ok bool) {
	if w > sp.Width {
		return 0, sideNone, false
	}
	if sp.HL >= sp.HR {
		switch {
		case w == sp.Width && h == sp.HL:
			return 7, sideLeft, true
		case w == sp.Width && h == sp.HR:
			return 6, sideLeft, true
		case w == sp.Width && h > sp.HL:
			return 5, sideLeft, true
		case w < sp.Width && h == sp.HL:
			return 4, sideLeft, true
		case w == sp.Width && h < sp.HL && h > sp.HR:
			return 3, sideLeft, true
		case w < sp.Width && h == sp.HR:
			return 2, sideRight, true
		case w == sp.Width && h < sp.HR:
			return 1, sideLeft, true
		case w < sp.Width && h != sp.HL:
			return 0, sideLeft, true
		default:
			return 0, sideNone, false
		}
	}
	// HL < HR: symmetric with HL/HR swapped; scores 4 and 0 go right.
	switch {
	case w == sp.Width && h == sp.HR:
		return 7, sideLeft, true
	case w == sp.Width && h == sp.HL:
		return 6, sideLeft, true
	case w == sp.Width && h > sp.HR:
		return 5, sideLeft, true
	case w < sp.Width && h == sp.HR:
		return 4, sideRight, true
	case w == sp.Width && h < sp.HR && h > sp.HL:
		return 3, sideLeft, true
	case w < sp.Width && h == sp.HL:
		return 2, sideLeft, true
	case w == sp.Width && h < sp.HL:
		return 1, sideLeft, true
	case w < sp.Width && h != sp.HR:
		return 0, sideRight, true
	default:
		return 0, sideNone, false
	}
}

// placementX returns the x-coordinate a candidate of width w is placed at
// within segment i, given which side scoring chose.
func (s *Skyline) placementX(i int, w int, sd side) int {
	seg := s.segs[i]
	if sd == sideRight {
		return seg.X + seg.Width - w
	}
	return seg.X
}

// Insert applies the §4.1 insertion contract: place a w x h rectangle at
// segment i, x-justified per sd, and return the resulting placement. It
// panics if the placement would not fit the bin — that signals a caller
// bug (scoring should have rejected it first), not bad input.
func (s *Skyline) Insert(i int, w, h int, sd side) Rect {
	seg := s.segs[i]
	x := s.placementX(i, w, sd)
	if x < 0 || x+w > s.binWidth {
		panic("floorplan: skyline insertion would exceed bin width")
	}
	newNode := Segment{X: x, Y: seg.Y + h, Width: w}
	if x == seg.X {
		s.segs = slices.Insert(s.segs, i, newNode)
		s.segs[i+1].X += w
		s.segs[i+1].Width -= w
	} else {
		s.segs = slices.Insert(s.segs, i+1, newNode)
		s.segs[i].Width -= w
	}
	s.merge()
	s.assertCoversBin()
	return Rect{Point: Point{X: x, Y: seg.Y}, Size: Size{Width: w, Height: h}}
}

// merge removes zero-width segments and coalesces consecutive segments
// sharing the same y, maintaining the skyline invariant.
func (s *Skyline) merge() {
	out := s.segs[:0]
	for _, seg := range s.segs {
		if seg.Width == 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Y == seg.Y {
			out[n-1].Width += seg.Width
			continue
		}
		out = append(out, seg)
	}
	s.segs = out
}

func (s *Skyline) assertCoversBin() {
	total := 0
	for _, seg := range s.segs {
		if seg.Width <= 0 {
			panic("floorplan: skyline has a non-positive-width segment after merge")
		}
		total += seg.Width
	}
	if total != s.binWidth {
		panic("floorplan: skyline does not cover the bin width exactly")
	}
}

// FillPit raises the lowest segment's y to the minimum of its neighbors
// when its width cannot accept any remaining block, then re-merges. It is
// idempotent: calling it once the lowest segment is wide enough is a
// no-op. A single call always either makes progress (strictly raises the
// lowest segment) or finds the skyline already wide enough; an instance
// where neither holds (a lone segment narrower than every remaining block)
// is a bug-class invariant failure, not bad input.
func (s *Skyline) FillPit(minUnplacedWidth int) (progressed bool) {
	i := s.LowestIndex()
	if s.segs[i].Width >= minUnplacedWidth {
		return false
	}
	switch {
	case len(s.segs) == 1:
		panic("floorplan: pit-fill cannot progress: single segment narrower than every remaining block")
	case i == 0:
		s.segs[i].Y = s.segs[i+1].Y
	case i == len(s.segs)-1:
		s.segs[i].Y = s.segs[i-1].Y
	default:
		s.segs[i].Y = min(s.segs[i-1].Y, s.segs[i+1].Y)
	}
	s.merge()
	return true
}

// Clone returns a deep copy, used by the beam search packer so every child
// and every throwaway evaluation gets its own Skyline rather than sharing
// one with its siblings.
func (s *Skyline) Clone() *Skyline {
	return &Skyline{binWidth: s.binWidth, segs: append([]Segment(nil), s.segs...)}
}

// Segments returns a copy of the current segment list, exposed for tests
// asserting the coverage/disjointness/no-adjacent-equal-y invariants.
func (s *Skyline) Segments() []Segment {
	out := make([]Segment, len(s.segs))
	copy(out, s.segs)
	return out
}
