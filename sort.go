package floorplan

import "cmp"

// blockSortFunc compares two blocks for one of the RLS sort rules.
type blockSortFunc func(a, b Block) int

// sortByArea sorts blocks in descending order by area, ties broken by id
// for reproducibility (§5: "sort comparisons that could tie must be
// stabilized by a secondary key").
func sortByArea(a, b Block) int {
	if c := cmp.Compare(b.Area(), a.Area()); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// sortByHeight sorts blocks in descending order by height.
func sortByHeight(a, b Block) int {
	if c := cmp.Compare(b.Height, a.Height); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// sortByWidth sorts blocks in descending order by width.
func sortByWidth(a, b Block) int {
	if c := cmp.Compare(b.Width, a.Width); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
