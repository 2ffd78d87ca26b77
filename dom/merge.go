package dom

import (
	"go.uber.org/zap"
)

func copyPayload(n *node) node {
	c := node{kind: n.kind, doctype: n.doctype, target: n.target, text: n.text}
	if n.elem != nil {
		c.elem = n.elem.clone()
	}
	if c.kind == NodeKindDocument {
		// only one document node per tree
		c.kind = NodeKindFragment
	}
	return c
}

// Merge copies subtree of src rooted at srcRoot into t and returns id of the
// detached copy. Document and fragment roots are copied as fragment nodes,
// their children can then be moved into place with AppendChildren and
// friends. When src is t the call is equivalent to Clone.
//
// Merging whole scratch tree (srcRoot is the src root) transplants the arena
// in a single pass by offsetting every id. Nodes detached inside src come
// along as detached nodes of t.
func (t *Tree) Merge(src *Tree, srcRoot NodeID) NodeID {
	if src == t {
		return t.Clone(srcRoot)
	}
	if srcRoot == src.RootID() {
		return t.transplant(src)
	}
	return t.copySubtree(src, srcRoot)
}

// Clone deep copies the subtree rooted at id. The copy is detached.
func (t *Tree) Clone(id NodeID) NodeID {
	return t.copySubtree(t, id)
}

func (t *Tree) transplant(src *Tree) NodeID {
	offset := NodeID(len(t.nodes))
	shift := func(id NodeID) NodeID {
		if id == None {
			return None
		}
		return id + offset
	}
	for i := range src.nodes {
		n := &src.nodes[i]
		c := copyPayload(n)
		c.links = links{
			parent: shift(n.parent),
			prev:   shift(n.prev),
			next:   shift(n.next),
			first:  shift(n.first),
			last:   shift(n.last),
		}
		t.nodes = append(t.nodes, c)
	}
	t.log.Debug("Merged tree", zap.Int("nodes", len(src.nodes)), zap.Int("offset", int(offset)))
	return offset
}

func (t *Tree) copySubtree(src *Tree, root NodeID) NodeID {
	newRoot := t.alloc(copyPayload(&src.nodes[root]))

	// copies are allocated in pre-order so ids of the copy follow its
	// document order
	type pair struct{ from, parent NodeID }
	var stack []pair
	push := func(from, parent NodeID) {
		for c := src.nodes[from].last; c != None; c = src.nodes[c].prev {
			stack = append(stack, pair{c, parent})
		}
	}
	push(root, newRoot)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		// src may be t, take the payload copy before alloc can grow the slice
		nc := t.alloc(copyPayload(&src.nodes[p.from]))
		t.linkLast(p.parent, nc)
		push(p.from, nc)
	}
	return newRoot
}
