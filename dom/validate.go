package dom

import (
	"fmt"
)

// Validate re-derives structural consistency of the subtree rooted at id from
// the raw links. It checks that every link points into the arena, that
// parent, child and sibling links agree with each other, that root kinds
// have neither parent nor siblings and that every node is reachable exactly
// once and is not its own ancestor. It is a diagnostic tool and is never
// called by tree operations themselves.
func (t *Tree) Validate(id NodeID) error {
	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}
	valid := func(ref NodeID) bool {
		return ref == None || t.Contains(ref)
	}

	if !t.Contains(id) {
		return &ValidationError{Problems: []string{fmt.Sprintf("root %d is not in the tree", id)}}
	}
	if t.nodes[0].kind.IsRoot() && t.nodes[0].parent != None {
		report("tree root has parent %d", t.nodes[0].parent)
	}

	// parent chain of the starting node must terminate
	steps := 0
	for p := t.nodes[id].parent; p != None; p = t.nodes[p].parent {
		if !t.Contains(p) {
			report("node %d has invalid ancestor %d", id, p)
			break
		}
		if steps++; steps > len(t.nodes) || p == id {
			report("cycle in ancestors of node %d", id)
			break
		}
	}

	seen := make([]bool, len(t.nodes))
	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if seen[cur] {
			report("node %d is reachable more than once", cur)
			continue
		}
		seen[cur] = true

		n := &t.nodes[cur]
		for _, ref := range []struct {
			name string
			id   NodeID
		}{{"parent", n.parent}, {"prev", n.prev}, {"next", n.next}, {"first", n.first}, {"last", n.last}} {
			if !valid(ref.id) {
				report("node %d has invalid %s link %d", cur, ref.name, ref.id)
				return &ValidationError{Problems: problems}
			}
			if ref.id == cur {
				report("node %d references itself as %s", cur, ref.name)
				return &ValidationError{Problems: problems}
			}
		}
		if n.kind.IsRoot() && (n.parent != None || n.prev != None || n.next != None) {
			report("%s node %d has parent or siblings", n.kind, cur)
		}
		if !n.kind.MayHaveChildren() && n.first != None {
			report("%s node %d has children", n.kind, cur)
		}
		if (n.first == None) != (n.last == None) {
			report("node %d has only one of first/last child links", cur)
			continue
		}
		if n.first == None {
			continue
		}
		if t.nodes[n.first].prev != None {
			report("first child %d of node %d has previous sibling", n.first, cur)
		}

		var (
			prev  NodeID = None
			count int
		)
		for c := n.first; c != None; c = t.nodes[c].next {
			if !valid(t.nodes[c].next) {
				report("node %d has invalid next link", c)
				break
			}
			if count++; count > len(t.nodes) {
				report("cycle in children of node %d", cur)
				break
			}
			if t.nodes[c].parent != cur {
				report("child %d of node %d points to parent %d", c, cur, t.nodes[c].parent)
			}
			if t.nodes[c].prev != prev {
				report("child %d of node %d has previous sibling %d, expected %d", c, cur, t.nodes[c].prev, prev)
			}
			stack = append(stack, c)
			prev = c
		}
		if prev != n.last {
			report("node %d last child is %d, chain ends at %d", cur, n.last, prev)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
