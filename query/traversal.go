package query

import (
	"domq/dom"
)

// collect gathers ids produced by f for every selected node into new
// selection.
func (s *Selection) collect(f func(n dom.Node, add func(dom.Node))) *Selection {
	var res []dom.NodeID
	add := func(n dom.Node) { res = append(res, n.ID()) }
	for _, id := range s.ids {
		f(s.node(id), add)
	}
	return s.derive(s.tree.SortDocumentOrder(res))
}

// Parent returns element parents of selected nodes.
func (s *Selection) Parent() *Selection {
	return s.collect(func(n dom.Node, add func(dom.Node)) {
		if p, ok := n.Parent(); ok && p.IsElement() {
			add(p)
		}
	})
}

// Children returns element children of selected nodes.
func (s *Selection) Children() *Selection {
	return s.collect(func(n dom.Node, add func(dom.Node)) {
		for _, c := range n.ElementChildren() {
			add(c)
		}
	})
}

// Ancestors returns element ancestors of selected nodes, at most maxDepth
// levels up for every node when maxDepth is positive.
func (s *Selection) Ancestors(maxDepth int) *Selection {
	return s.collect(func(n dom.Node, add func(dom.Node)) {
		for _, a := range n.Ancestors(maxDepth) {
			if a.IsElement() {
				add(a)
			}
		}
	})
}

// NextSibling returns next element siblings of selected nodes.
func (s *Selection) NextSibling() *Selection {
	return s.collect(func(n dom.Node, add func(dom.Node)) {
		if sib, ok := n.NextElementSibling(); ok {
			add(sib)
		}
	})
}

// PrevSibling returns previous element siblings of selected nodes.
func (s *Selection) PrevSibling() *Selection {
	return s.collect(func(n dom.Node, add func(dom.Node)) {
		if sib, ok := n.PrevElementSibling(); ok {
			add(sib)
		}
	})
}

// FindPath follows path of element names below every selected node, see
// dom.Node.FindPath.
func (s *Selection) FindPath(path ...string) *Selection {
	return s.collect(func(n dom.Node, add func(dom.Node)) {
		for _, f := range n.FindPath(path...) {
			add(f)
		}
	})
}
