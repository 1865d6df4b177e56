package floorplan

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/katalvlaran/lvlath/graph"
	"github.com/maruel/natural"
)

// Connectivity reports the number of connected components over the graph
// whose vertices are blocks and whose edges come from shared net
// membership (a net's blocks are wired as a star around its first member),
// plus the size of the largest component. A disconnected netlist is not an
// error on its own; components disjoint from the largest one are typically
// placed far apart regardless of packer choice, which is worth flagging
// before a long search run rather than discovering after.
func (ins *Instance) Connectivity() (components int, largest int) {
	g := graph.NewGraph(false, false)
	for _, b := range ins.Blocks {
		g.AddVertex(&graph.Vertex{ID: strconv.Itoa(b.ID)})
	}
	for _, net := range ins.Nets {
		if len(net.Blocks) < 2 {
			continue
		}
		hub := strconv.Itoa(net.Blocks[0])
		for _, bi := range net.Blocks[1:] {
			g.AddEdge(hub, strconv.Itoa(bi), 1)
		}
	}

	visited := make(map[string]bool, len(ins.Blocks))
	for _, b := range ins.Blocks {
		id := strconv.Itoa(b.ID)
		if visited[id] {
			continue
		}
		res, err := g.BFS(id, nil)
		if err != nil {
			panic(fmt.Sprintf("floorplan: connectivity BFS from vertex %s: %v", id, err))
		}
		components++
		size := len(res.Visited)
		for v := range res.Visited {
			visited[v] = true
		}
		largest = max(largest, size)
	}
	return components, largest
}

// SortedBlockNames returns block names in natural order (so "blk2" sorts
// before "blk10"), useful for stable diagnostic output and logging.
func (ins *Instance) SortedBlockNames() []string {
	names := make([]string, len(ins.Blocks))
	for i, b := range ins.Blocks {
		names[i] = b.Name
	}
	sort.Sort(natural.StringSlice(names))
	return names
}

// String summarizes an Instance's size for logging.
func (ins *Instance) String() string {
	return fmt.Sprintf("Instance{blocks=%d terminals=%d nets=%d totalArea=%d}",
		len(ins.Blocks), len(ins.Terminals), len(ins.Nets), ins.totalArea)
}
