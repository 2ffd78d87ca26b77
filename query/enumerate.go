package query

import (
	"domq/dom"
)

// find returns descendants of roots matched by m in document order, at most
// one when single is set.
func (m *Matcher) find(t *dom.Tree, roots []dom.NodeID, single bool) []dom.NodeID {
	if len(roots) == 0 {
		return nil
	}
	if m.narrowing(t, roots) {
		res := m.mini.Select(t, roots)
		if single && len(res) > 1 {
			res = res[:1]
		}
		return res
	}

	if len(roots) == 1 {
		var res []dom.NodeID
		walk(t, roots[0], nil, func(id dom.NodeID) bool {
			if m.matchID(t, id) {
				res = append(res, id)
				return !single
			}
			return true
		})
		return res
	}

	// subtrees of different roots may overlap
	seen := make([]bool, t.Len())
	var res []dom.NodeID
	for _, r := range roots {
		if seen[r] {
			continue
		}
		found := dom.None
		walk(t, r, seen, func(id dom.NodeID) bool {
			if !m.matchID(t, id) {
				return true
			}
			if single {
				found = id
				return false
			}
			res = append(res, id)
			return true
		})
		if found != dom.None {
			res = append(res, found)
		}
	}
	res = t.SortDocumentOrder(res)
	if single && len(res) > 1 {
		res = res[:1]
	}
	return res
}

func (m *Matcher) matchID(t *dom.Tree, id dom.NodeID) bool {
	if !t.IsElement(id) {
		return false
	}
	n := t.Node(id)
	if m.full != nil {
		return m.full.Match(Element{n})
	}
	return m.mini.Match(t, id)
}

// walk visits descendants of root in pre-order until visit returns false.
// When seen is not nil visited nodes are marked in it and subtrees of
// already marked nodes are skipped.
func walk(t *dom.Tree, root dom.NodeID, seen []bool, visit func(dom.NodeID) bool) bool {
	for c := t.FirstChild(root); c != dom.None; c = t.NextSibling(c) {
		if seen != nil {
			if seen[c] {
				continue
			}
			seen[c] = true
		}
		if !visit(c) || !walk(t, c, seen, visit) {
			return false
		}
	}
	return true
}
