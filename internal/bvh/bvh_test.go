package bvh

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"instmesh/internal/geom"
)

func unitBoxes(positions []mgl32.Vec3) []geom.Box {
	boxes := make([]geom.Box, len(positions))
	half := mgl32.Vec3{0.5, 0.5, 0.5}
	for i, p := range positions {
		boxes[i] = geom.NewBox(p.Sub(half), p.Add(half))
	}
	return boxes
}

func randomPositions(n int, seed int64) []mgl32.Vec3 {
	r := rand.New(rand.NewSource(seed))
	out := make([]mgl32.Vec3, n)
	for i := range out {
		out[i] = mgl32.Vec3{
			r.Float32()*200 - 100,
			r.Float32()*40 - 20,
			r.Float32()*200 - 100,
		}
	}
	return out
}

func TestBuildSplitsFourInstancesOnX(t *testing.T) {
	positions := []mgl32.Vec3{{-10, 0, 0}, {-5, 0, 0}, {5, 0, 0}, {10, 0, 0}}
	tree, err := Build(positions, unitBoxes(positions), Options{Strategy: StrategyCenter, MaxLeafSize: 2, MaxDepth: 40, InitiallyVisible: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tree.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(tree.Nodes))
	}
	root := tree.Nodes[0]
	if root.IsLeaf() {
		t.Fatalf("root should be split")
	}
	if root.Box.LongestAxis() != geom.AxisX || root.Box.Center()[0] != 0 {
		t.Errorf("root split axis %v center %v", root.Box.LongestAxis(), root.Box.Center())
	}
	left, right := tree.Nodes[root.Left], tree.Nodes[root.Right]
	if !left.IsLeaf() || !right.IsLeaf() {
		t.Fatalf("children should be leaves")
	}
	if len(left.Items) != 2 || left.Items[0] != 0 || left.Items[1] != 1 {
		t.Errorf("left leaf = %v, want [0 1]", left.Items)
	}
	if len(right.Items) != 2 || right.Items[0] != 2 || right.Items[1] != 3 {
		t.Errorf("right leaf = %v, want [2 3]", right.Items)
	}
}

func TestBuildPartitionsEveryInstanceOnce(t *testing.T) {
	positions := randomPositions(2000, 7)
	tree, err := Build(positions, unitBoxes(positions), DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	seen := make([]int, len(positions))
	for i := range tree.Nodes {
		n := &tree.Nodes[i]
		if n.IsLeaf() {
			if n.Items == nil {
				t.Fatalf("leaf %d has nil items", i)
			}
			for _, id := range n.Items {
				seen[id]++
			}
		} else if n.Items != nil {
			t.Fatalf("internal node %d still holds items", i)
		}
	}
	for id, c := range seen {
		if c != 1 {
			t.Fatalf("instance %d appears in %d leaves", id, c)
		}
	}
}

func TestInternalBoxIsUnionOfChildren(t *testing.T) {
	positions := randomPositions(1500, 11)
	tree, err := Build(positions, unitBoxes(positions), Options{Strategy: StrategyCenter, MaxLeafSize: 4, MaxDepth: 40, InitiallyVisible: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i := range tree.Nodes {
		n := &tree.Nodes[i]
		if n.IsLeaf() {
			continue
		}
		union := tree.Nodes[n.Left].Box.Union(tree.Nodes[n.Right].Box)
		if !n.Box.ApproxEqual(union, 1e-4) {
			t.Fatalf("node %d box %v != children union %v", i, n.Box, union)
		}
	}
}

func TestBuildRespectsMaxDepth(t *testing.T) {
	// identical positions can never be separated, so only the depth limit stops the split
	positions := make([]mgl32.Vec3, 50)
	for i := range positions {
		positions[i] = mgl32.Vec3{1, 2, 3}
	}
	for _, depth := range []int{1, 3, 8} {
		tree, err := Build(positions, unitBoxes(positions), Options{Strategy: StrategyCenter, MaxLeafSize: 2, MaxDepth: depth})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		s := tree.Stats()
		if s.MaxDepth != depth {
			t.Errorf("depth limit %d: got depth %d", depth, s.MaxDepth)
		}
		if s.EmptyLeaves != depth {
			t.Errorf("depth limit %d: expected %d empty leaves, got %d", depth, depth, s.EmptyLeaves)
		}
	}

	scattered := randomPositions(5000, 3)
	tree, err := Build(scattered, unitBoxes(scattered), Options{Strategy: StrategyCenter, MaxLeafSize: 1, MaxDepth: 6})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if d := tree.Stats().MaxDepth; d > 6 {
		t.Errorf("depth %d exceeds limit 6", d)
	}
}

func TestBuildSmallSetIsSingleLeaf(t *testing.T) {
	positions := randomPositions(5, 1)
	tree, err := Build(positions, unitBoxes(positions), DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tree.Nodes) != 1 || !tree.Nodes[0].IsLeaf() || len(tree.Nodes[0].Items) != 5 {
		t.Errorf("expected a single leaf with 5 items, got %+v", tree.Stats())
	}

	empty, err := Build(nil, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Build(empty): %v", err)
	}
	if s := empty.Stats(); s.Nodes != 1 || s.Leaves != 1 || s.EmptyLeaves != 1 {
		t.Errorf("empty tree stats = %+v", s)
	}
}

func TestBuildErrors(t *testing.T) {
	positions := randomPositions(100, 2)
	boxes := unitBoxes(positions)

	for _, s := range []Strategy{StrategyAverage, StrategySAH} {
		opts := DefaultOptions()
		opts.Strategy = s
		tree, err := Build(positions, boxes, opts)
		if !errors.Is(err, ErrStrategyNotImplemented) {
			t.Errorf("strategy %v: err = %v, want ErrStrategyNotImplemented", s, err)
		}
		if tree != nil {
			t.Errorf("strategy %v: expected no tree", s)
		}
	}

	if _, err := Build(positions, nil, DefaultOptions()); !errors.Is(err, ErrNoBounds) {
		t.Errorf("nil boxes: err = %v, want ErrNoBounds", err)
	}
	if _, err := Build(positions, boxes[:10], DefaultOptions()); !errors.Is(err, ErrNoBounds) {
		t.Errorf("short boxes: err = %v, want ErrNoBounds", err)
	}
	if _, err := Build(positions, boxes, Options{MaxLeafSize: 0, MaxDepth: 4}); !errors.Is(err, ErrInvalidLimits) {
		t.Errorf("zero leaf size: err = %v, want ErrInvalidLimits", err)
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []Strategy{StrategyCenter, StrategyAverage, StrategySAH} {
		got, err := ParseStrategy(s.String())
		if err != nil || got != s {
			t.Errorf("ParseStrategy(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseStrategy("median"); err == nil {
		t.Errorf("expected error for unknown strategy")
	}
}

func BenchmarkBuild(b *testing.B) {
	positions := randomPositions(100000, 5)
	boxes := unitBoxes(positions)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Build(positions, boxes, DefaultOptions()); err != nil {
			b.Fatal(err)
		}
	}
}
