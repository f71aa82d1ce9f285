// Package bvh builds a static bounding volume hierarchy over instance positions
// and keeps per-node frustum classifications so that each culling pass only walks
// the parts of the tree whose visibility changed.
package bvh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"instmesh/internal/frustum"
	"instmesh/internal/geom"
)

// Strategy selects how a node is split.
type Strategy int

const (
	// StrategyCenter splits at the center of the node box on its longest axis.
	StrategyCenter Strategy = iota
	// StrategyAverage splits at the mean instance position. Not implemented.
	StrategyAverage
	// StrategySAH uses the surface area heuristic. Not implemented.
	StrategySAH
)

func (s Strategy) String() string {
	switch s {
	case StrategyCenter:
		return "center"
	case StrategyAverage:
		return "average"
	case StrategySAH:
		return "sah"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy maps a strategy name back to its value.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range []Strategy{StrategyCenter, StrategyAverage, StrategySAH} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown split strategy %q", name)
}

var (
	ErrStrategyNotImplemented = errors.New("bvh: split strategy not implemented")
	ErrNoBounds               = errors.New("bvh: instance bounds unavailable")
	ErrInvalidLimits          = errors.New("bvh: max leaf size and max depth must be positive")
)

const noChild int32 = -1

// Node is one entry of the tree arena. A leaf has Left == Right == -1 and a
// non-nil Items slice (possibly empty); an internal node has both children and
// nil Items.
type Node struct {
	Box        geom.Box
	Left       int32
	Right      int32
	Items      []int32
	Visibility frustum.Visibility
}

// IsLeaf reports whether n holds items rather than children.
func (n *Node) IsLeaf() bool {
	return n.Left == noChild
}

// Options configures Build.
type Options struct {
	Strategy    Strategy
	MaxLeafSize int
	MaxDepth    int
	// InitiallyVisible seeds every node's cached classification: Inside when
	// true, Outside otherwise.
	InitiallyVisible bool
}

// DefaultOptions mirror the limits used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Strategy:         StrategyCenter,
		MaxLeafSize:      10,
		MaxDepth:         40,
		InitiallyVisible: true,
	}
}

// Tree is an immutable hierarchy over instance IDs. Only the cached node
// classifications change after Build.
type Tree struct {
	Nodes []Node

	maxLeafSize int
	maxDepth    int
	initial     frustum.Visibility
}

// Build creates a tree over len(positions) instances. Instance i is placed by
// positions[i] and occupies boxes[i]; leaves store instance indices. boxes is only
// read during the build and is not retained.
func Build(positions []mgl32.Vec3, boxes []geom.Box, opts Options) (*Tree, error) {
	if boxes == nil && len(positions) > 0 {
		return nil, ErrNoBounds
	}
	if len(boxes) != len(positions) {
		return nil, fmt.Errorf("%w: %d boxes for %d instances", ErrNoBounds, len(boxes), len(positions))
	}
	if opts.MaxLeafSize < 1 || opts.MaxDepth < 1 {
		return nil, fmt.Errorf("%w: leaf=%d depth=%d", ErrInvalidLimits, opts.MaxLeafSize, opts.MaxDepth)
	}

	t := &Tree{
		maxLeafSize: opts.MaxLeafSize,
		maxDepth:    opts.MaxDepth,
		initial:     frustum.Outside,
	}
	if opts.InitiallyVisible {
		t.initial = frustum.Inside
	}

	items := make([]int32, len(positions))
	rootBox := geom.EmptyBox()
	for i := range items {
		items[i] = int32(i)
		rootBox = rootBox.Union(boxes[i])
	}
	t.Nodes = make([]Node, 0, 2*len(positions)/max(opts.MaxLeafSize, 1)+1)
	t.push(rootBox, items)

	switch opts.Strategy {
	case StrategyCenter:
		if len(items) > t.maxLeafSize {
			t.buildCenter(0, 0, positions, boxes)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrStrategyNotImplemented, opts.Strategy)
	}
	return t, nil
}

func (t *Tree) push(box geom.Box, items []int32) int32 {
	t.Nodes = append(t.Nodes, Node{
		Box:        box,
		Left:       noChild,
		Right:      noChild,
		Items:      items,
		Visibility: t.initial,
	})
	return int32(len(t.Nodes) - 1)
}

// buildCenter splits node idx at the center of its box. Children that receive no
// items are still created.
func (t *Tree) buildCenter(idx int32, depth int, positions []mgl32.Vec3, boxes []geom.Box) {
	node := &t.Nodes[idx]
	axis := node.Box.LongestAxis()
	center := node.Box.Center()[axis]
	items := node.Items

	left := make([]int32, 0, len(items)/2+1)
	right := make([]int32, 0, len(items)/2+1)
	leftBox, rightBox := geom.EmptyBox(), geom.EmptyBox()
	for _, id := range items {
		if positions[id][axis] <= center {
			left = append(left, id)
			leftBox = leftBox.Union(boxes[id])
		} else {
			right = append(right, id)
			rightBox = rightBox.Union(boxes[id])
		}
	}
	node.Items = nil

	// push may grow the arena, so node must not be used past this point
	l := t.push(leftBox, left)
	r := t.push(rightBox, right)
	t.Nodes[idx].Left = l
	t.Nodes[idx].Right = r

	depth++
	if depth >= t.maxDepth {
		return
	}
	if len(left) > t.maxLeafSize {
		t.buildCenter(l, depth, positions, boxes)
	}
	if len(right) > t.maxLeafSize {
		t.buildCenter(r, depth, positions, boxes)
	}
}

// Reset sets every node's cached classification to v.
func (t *Tree) Reset(v frustum.Visibility) {
	for i := range t.Nodes {
		t.Nodes[i].Visibility = v
	}
}

// Stats summarises a tree's shape.
type Stats struct {
	Nodes       int
	Leaves      int
	EmptyLeaves int
	MaxDepth    int
	MaxLeafSize int
}

// Stats walks the tree and reports its shape.
func (t *Tree) Stats() Stats {
	var s Stats
	if len(t.Nodes) == 0 {
		return s
	}
	s.Nodes = len(t.Nodes)
	t.walk(0, 0, func(n *Node, depth int) {
		s.MaxDepth = max(s.MaxDepth, depth)
		if n.IsLeaf() {
			s.Leaves++
			if len(n.Items) == 0 {
				s.EmptyLeaves++
			}
			s.MaxLeafSize = max(s.MaxLeafSize, len(n.Items))
		}
	})
	return s
}

func (t *Tree) walk(idx int32, depth int, fn func(n *Node, depth int)) {
	n := &t.Nodes[idx]
	fn(n, depth)
	if !n.IsLeaf() {
		t.walk(n.Left, depth+1, fn)
		t.walk(n.Right, depth+1, fn)
	}
}
