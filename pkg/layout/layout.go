// Package layout assigns 2D positions to a built hierarchy tree.
//
// The layout is a classic layered tidy tree: leaves are placed on an even
// grid in traversal order, every internal node is centered over its
// children, and depth selects the rank coordinate. Positions are written
// into the tree in place and are ephemeral per render.
package layout

import (
	"github.com/BurakErdilli/biznet-analyzer/pkg/hierarchy"
)

// Direction selects which axis carries depth.
type Direction string

const (
	// DirectionTB lays ranks out top to bottom, depth on the Y axis.
	DirectionTB Direction = "TB"
	// DirectionLR lays ranks out left to right, depth on the X axis.
	DirectionLR Direction = "LR"
)

// ParseDirection maps a user-supplied string to a Direction, defaulting
// to top-to-bottom for anything unrecognized.
func ParseDirection(s string) Direction {
	if s == string(DirectionLR) {
		return DirectionLR
	}
	return DirectionTB
}

// Options controls spacing and orientation.
type Options struct {
	Direction Direction
	NodeSep   float64 // distance between sibling slots within a rank
	RankSep   float64 // distance between consecutive ranks
}

// DefaultOptions returns the spacing used when nothing is configured.
func DefaultOptions() Options {
	return Options{Direction: DirectionTB, NodeSep: 80, RankSep: 120}
}

// Apply computes and stores a position for every node in the tree.
//
// Leaves occupy consecutive slots in depth-first order; each internal node
// sits at the midpoint of its first and last child. The virtual root, when
// present, is positioned like any other node so the drawing stays centered.
func Apply(t *hierarchy.Tree, opts Options) {
	if t == nil || t.Root == nil {
		return
	}
	if opts.NodeSep <= 0 {
		opts.NodeSep = DefaultOptions().NodeSep
	}
	if opts.RankSep <= 0 {
		opts.RankSep = DefaultOptions().RankSep
	}

	slot := 0.0
	var place func(n *hierarchy.Node, depth int)
	place = func(n *hierarchy.Node, depth int) {
		rank := float64(depth) * opts.RankSep
		if n.IsLeaf() {
			n.Pos = coord(slot*opts.NodeSep, rank, opts.Direction)
			slot++
			return
		}
		for _, c := range n.Children {
			place(c, depth+1)
		}
		first := breadth(n.Children[0].Pos, opts.Direction)
		last := breadth(n.Children[len(n.Children)-1].Pos, opts.Direction)
		n.Pos = coord((first+last)/2, rank, opts.Direction)
	}
	place(t.Root, 0)
}

// Bounds returns the width and height spanned by the positioned tree.
func Bounds(t *hierarchy.Tree) (w, h float64) {
	if t == nil || t.Root == nil {
		return 0, 0
	}
	var maxX, maxY float64
	t.Root.Walk(func(n *hierarchy.Node) {
		maxX = max(maxX, n.Pos.X)
		maxY = max(maxY, n.Pos.Y)
	})
	return maxX, maxY
}

func coord(breadth, rank float64, d Direction) hierarchy.Position {
	if d == DirectionLR {
		return hierarchy.Position{X: rank, Y: breadth}
	}
	return hierarchy.Position{X: breadth, Y: rank}
}

func breadth(p hierarchy.Position, d Direction) float64 {
	if d == DirectionLR {
		return p.Y
	}
	return p.X
}
