// Package floorplan solves the fixed-outline VLSI floorplanning problem:
// given hard rotatable rectangular blocks, a netlist over blocks and fixed
// terminals, and (optionally) a fixed chip outline, it searches for a
// non-overlapping placement minimizing a weighted sum of enclosing-rectangle
// area and interconnect distance.
//
// The search is two-level: a Selecter maintains a bandit-style population
// of candidate bin widths, and for each width drives a skyline-based
// constructive packer — either RandomLocalSearcher (sequence-swap local
// search) or BeamSearcher (multi-stage beam search).
package floorplan
