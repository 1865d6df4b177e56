package floorplan

import "fmt"

// Block is an immutable hard rectangular module to be placed. Width and
// Height are the block's original (unrotated) dimensions.
type Block struct {
	ID     int
	Name   string
	Width  int
	Height int
	// GroupID is a slot for a future clustering pass (the QAP/METIS module
	// is out of scope here) to record which group a block was assigned to.
	// Nothing in this package reads it.
	GroupID int
}

// Area returns Width * Height.
func (b Block) Area() int { return b.Width * b.Height }

// Size returns the block's unrotated dimensions as a Size.
func (b Block) Size() Size { return Size{Width: b.Width, Height: b.Height} }

// Terminal is an immutable fixed pin at a pre-assigned coordinate.
type Terminal struct {
	ID   int
	Name string
	X, Y int
}

// Net connects a set of blocks and terminals that must be wired together.
// Degree (len(Blocks) + len(Terminals)) is always >= 2.
type Net struct {
	Blocks    []int // indices into Instance.Blocks
	Terminals []int // indices into Instance.Terminals
}

func (n Net) degree() int { return len(n.Blocks) + len(n.Terminals) }

// Instance is the immutable input to the packers: blocks, terminals, the
// netlist over them, and (optionally) the fixed outline the placement must
// respect.
type Instance struct {
	Blocks    []Block
	Terminals []Terminal
	Nets      []Net

	// FixedWidth/FixedHeight are the outline a caller intends to pack into,
	// if known up front (0 when unknown). Candidate-width filtering reads
	// FixedHeight to drop widths whose outline cannot hold the total block
	// area (relaxed when that would drop every width); nothing in this
	// package reads FixedWidth.
	FixedWidth  int
	FixedHeight int

	totalArea int
	// blockNets[i] lists the net indices touching block i, precomputed
	// once so the HPWL tracker never scans the full net list per insert.
	blockNets [][]int
}

// NewInstance validates and constructs an Instance from an in-memory model.
// It is the in-memory replacement for the `.blocks`/`.nets`/`.pl` file
// parsers: validation here plays the role those file-format checks would.
func NewInstance(blocks []Block, terminals []Terminal, nets []Net, fixedWidth, fixedHeight int) (*Instance, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("floorplan: %w", ErrEmptyInstance)
	}
	for i, b := range blocks {
		if b.ID != i {
			return nil, fmt.Errorf("floorplan: block %d: %w: ID field must equal its index (got ID %d)", i, ErrInputFormat, b.ID)
		}
		if b.Width <= 0 || b.Height <= 0 {
			return nil, fmt.Errorf("floorplan: block %q: %w: non-positive dimension %dx%d", b.Name, ErrInputFormat, b.Width, b.Height)
		}
	}
	for i, t := range terminals {
		if t.ID != i {
			return nil, fmt.Errorf("floorplan: terminal %d: %w: ID field must equal its index (got ID %d)", i, ErrInputFormat, t.ID)
		}
	}
	for i, n := range nets {
		if n.degree() < 2 {
			return nil, fmt.Errorf("floorplan: net %d: %w: degree %d < 2", i, ErrInputFormat, n.degree())
		}
		for _, bi := range n.Blocks {
			if bi < 0 || bi >= len(blocks) {
				return nil, fmt.Errorf("floorplan: net %d: %w: dangling block index %d", i, ErrInputFormat, bi)
			}
		}
		for _, ti := range n.Terminals {
			if ti < 0 || ti >= len(terminals) {
				return nil, fmt.Errorf("floorplan: net %d: %w: dangling terminal index %d", i, ErrInputFormat, ti)
			}
		}
	}

	ins := &Instance{
		Blocks:      blocks,
		Terminals:   terminals,
		Nets:        nets,
		FixedWidth:  fixedWidth,
		FixedHeight: fixedHeight,
		blockNets:   make([][]int, len(blocks)),
	}
	for _, b := range blocks {
		ins.totalArea += b.Area()
	}
	for ni, n := range nets {
		for _, bi := range n.Blocks {
			ins.blockNets[bi] = append(ins.blockNets[bi], ni)
		}
	}
	return ins, nil
}

// TotalArea returns the sum of every block's area.
func (ins *Instance) TotalArea() int { return ins.totalArea }

// NetsOf returns the indices of nets touching block i.
func (ins *Instance) NetsOf(blockID int) []int { return ins.blockNets[blockID] }

// Sizes returns each block's size canonicalized so width <= height, matching
// the original's get_rects() convention: this avoids spurious rotation
// bookkeeping in code paths (like the candidate-width producers) that only
// need a block's extent, not its placement.
func (ins *Instance) Sizes() []Size {
	sizes := make([]Size, len(ins.Blocks))
	for i, b := range ins.Blocks {
		sizes[i] = Size{Width: min(b.Width, b.Height), Height: max(b.Width, b.Height)}
	}
	return sizes
}
