package mini

import (
	"strings"

	"domq/dom"
)

func (s *Step) match(t *dom.Tree, id dom.NodeID) bool {
	if !t.IsElement(id) {
		return false
	}
	if s.Name != "" && !strings.EqualFold(t.LocalName(id), s.Name) {
		return false
	}
	if s.ID != "" {
		if v, ok := t.Attr(id, "id"); !ok || v != s.ID {
			return false
		}
	}
	for _, c := range s.Classes {
		if !t.HasClass(id, c) {
			return false
		}
	}
	for _, a := range s.Attrs {
		v, ok := t.AttrFold(id, a.Name)
		if !ok || !a.match(v) {
			return false
		}
	}
	return true
}

// Select returns descendants of roots matching the selector in document
// order. Every step is applied to descendants (or children for child
// combinator) of nodes which survived the previous step, starting with
// roots. Roots themselves are never part of the result.
func (s *Selector) Select(t *dom.Tree, roots []dom.NodeID) []dom.NodeID {
	set := outermost(t, roots)
	comb := Descendant
	for i := range s.Steps {
		step := &s.Steps[i]
		var next []dom.NodeID
		for _, r := range set {
			if comb == Child {
				for c := range t.ElementChildren(r) {
					if step.match(t, c) {
						next = append(next, c)
					}
				}
				continue
			}
			for d := range t.Descendants(r) {
				if step.match(t, d) {
					next = append(next, d)
				}
			}
		}
		if len(next) == 0 {
			return nil
		}
		if i < len(s.Steps)-1 && step.Next == Descendant {
			next = outermost(t, next)
		}
		set, comb = next, step.Next
	}
	return t.SortDocumentOrder(set)
}

// outermost drops duplicates and nodes having an ancestor in ids, so that no
// subtree is scanned twice.
func outermost(t *dom.Tree, ids []dom.NodeID) []dom.NodeID {
	if len(ids) < 2 {
		return ids
	}
	in := make(map[dom.NodeID]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	res := make([]dom.NodeID, 0, len(ids))
	seen := make(map[dom.NodeID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		nested := false
		for a := range t.Ancestors(id, 0) {
			if in[a] {
				nested = true
				break
			}
		}
		if !nested {
			res = append(res, id)
		}
	}
	return res
}

// Match reports whether node id matches the selector. Ancestors are checked
// up to the tree root.
func (s *Selector) Match(t *dom.Tree, id dom.NodeID) bool {
	if !t.Contains(id) {
		return false
	}
	return s.matchAt(t, len(s.Steps)-1, id)
}

func (s *Selector) matchAt(t *dom.Tree, i int, id dom.NodeID) bool {
	if !s.Steps[i].match(t, id) {
		return false
	}
	if i == 0 {
		return true
	}
	p := t.Parent(id)
	if s.Steps[i-1].Next == Child {
		return p != dom.None && s.matchAt(t, i-1, p)
	}
	for ; p != dom.None; p = t.Parent(p) {
		if s.matchAt(t, i-1, p) {
			return true
		}
	}
	return false
}
