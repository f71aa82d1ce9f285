package bvh

import (
	"fmt"

	"instmesh/internal/frustum"
	"instmesh/internal/geom"
)

// Classifier tests a box against the current view volume.
type Classifier interface {
	ClassifyBox(b geom.Box) frustum.Visibility
}

// UpdateCulling classifies the tree against c and appends to show the items of
// every leaf that left the Outside state, and to hide the items of every leaf
// that entered it. Subtrees whose cached state is unchanged and not straddling
// are skipped. The returned slices are show and hide with the new items appended.
func (t *Tree) UpdateCulling(c Classifier, show, hide []int32) ([]int32, []int32) {
	if len(t.Nodes) == 0 {
		return show, hide
	}
	p := pass{tree: t, classifier: c, show: show, hide: hide}
	p.visit(0, frustum.Inside, false)
	return p.show, p.hide
}

type pass struct {
	tree       *Tree
	classifier Classifier
	show       []int32
	hide       []int32
}

// visit classifies node idx, or takes forced when the parent was fully inside or
// outside.
func (p *pass) visit(idx int32, forced frustum.Visibility, isForced bool) {
	node := &p.tree.Nodes[idx]
	v := forced
	if !isForced {
		v = p.classifier.ClassifyBox(node.Box)
	}

	if v != frustum.Intersect && v == node.Visibility {
		return
	}

	switch {
	case node.IsLeaf():
		if node.Items == nil {
			panic(fmt.Sprintf("bvh: node %d has neither children nor items", idx))
		}
		if node.Visibility == frustum.Outside && v != frustum.Outside {
			p.show = append(p.show, node.Items...)
		} else if v == frustum.Outside && node.Visibility != frustum.Outside {
			p.hide = append(p.hide, node.Items...)
		}
	default:
		childForced := v != frustum.Intersect
		p.visit(node.Left, v, childForced)
		p.visit(node.Right, v, childForced)
	}

	p.tree.Nodes[idx].Visibility = v
}
