package query

import (
	"slices"

	"go.uber.org/zap"

	"domq/dom"
)

// Selection is an ordered list of distinct nodes of a single tree. Nodes are
// kept in document order.
type Selection struct {
	tree *dom.Tree
	ids  []dom.NodeID
	log  *zap.Logger
}

// NewSelection returns selection holding nodes in document order. Nodes
// which do not belong to the first node tree are dropped.
func NewSelection(nodes []dom.Node, log *zap.Logger) *Selection {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Selection{log: log.Named("query")}
	for _, n := range nodes {
		if !n.Exists() {
			continue
		}
		if s.tree == nil {
			s.tree = n.Tree()
		}
		if n.Tree() != s.tree {
			s.log.Warn("Node from another tree ignored", zap.Int("id", int(n.ID())))
			continue
		}
		s.ids = append(s.ids, n.ID())
	}
	if s.tree != nil {
		s.ids = s.tree.SortDocumentOrder(s.ids)
	}
	return s
}

// derive returns selection over the same tree.
func (s *Selection) derive(ids []dom.NodeID) *Selection {
	return &Selection{tree: s.tree, ids: ids, log: s.log}
}

func (s *Selection) node(id dom.NodeID) dom.Node {
	return s.tree.Node(id)
}

// compile compiles selector for chaining helpers which report invalid
// selectors as empty result.
func (s *Selection) compile(sel string) (*Matcher, bool) {
	m, err := Compile(sel)
	if err != nil {
		s.log.Warn("Bad selector", zap.Error(err))
		return nil, false
	}
	return m, true
}

// Accessors

// Nodes returns views of selected nodes.
func (s *Selection) Nodes() []dom.Node {
	res := make([]dom.Node, len(s.ids))
	for i, id := range s.ids {
		res[i] = s.node(id)
	}
	return res
}

// IDs returns identifiers of selected nodes.
func (s *Selection) IDs() []dom.NodeID {
	return slices.Clone(s.ids)
}

// Tree returns the tree selected nodes belong to, nil for empty selection
// created without tree.
func (s *Selection) Tree() *dom.Tree {
	return s.tree
}

func (s *Selection) Length() int   { return len(s.ids) }
func (s *Selection) Exists() bool  { return len(s.ids) > 0 }
func (s *Selection) IsEmpty() bool { return len(s.ids) == 0 }

// Get returns i-th node of the selection.
func (s *Selection) Get(i int) (dom.Node, bool) {
	if i < 0 || i >= len(s.ids) {
		return dom.Node{}, false
	}
	return s.node(s.ids[i]), true
}

// First returns selection holding only the first node.
func (s *Selection) First() *Selection {
	if len(s.ids) == 0 {
		return s.derive(nil)
	}
	return s.derive(s.ids[:1:1])
}

// Last returns selection holding only the last node.
func (s *Selection) Last() *Selection {
	if len(s.ids) == 0 {
		return s.derive(nil)
	}
	return s.derive([]dom.NodeID{s.ids[len(s.ids)-1]})
}

// Each calls f for every selected node.
func (s *Selection) Each(f func(int, dom.Node)) *Selection {
	for i, id := range s.ids {
		f(i, s.node(id))
	}
	return s
}

// Map collects f results for every selected node.
func (s *Selection) Map(f func(int, dom.Node) string) []string {
	res := make([]string, 0, len(s.ids))
	for i, id := range s.ids {
		res = append(res, f(i, s.node(id)))
	}
	return res
}

// Querying

// Select returns descendants of selected nodes matching selector. Invalid
// selector produces empty selection, use Compile to get the error.
func (s *Selection) Select(sel string) *Selection {
	m, ok := s.compile(sel)
	if !ok {
		return s.derive(nil)
	}
	return s.SelectMatcher(m)
}

// SelectMatcher returns descendants of selected nodes matched by m.
func (s *Selection) SelectMatcher(m *Matcher) *Selection {
	if len(s.ids) == 0 {
		return s.derive(nil)
	}
	return s.derive(m.find(s.tree, s.ids, false))
}

// SelectSingle returns the first in document order descendant of selected
// nodes matching selector.
func (s *Selection) SelectSingle(sel string) *Selection {
	m, ok := s.compile(sel)
	if !ok {
		return s.derive(nil)
	}
	return s.SelectSingleMatcher(m)
}

// SelectSingleMatcher is SelectSingle for compiled selector.
func (s *Selection) SelectSingleMatcher(m *Matcher) *Selection {
	if len(s.ids) == 0 {
		return s.derive(nil)
	}
	return s.derive(m.find(s.tree, s.ids, true))
}

// Nip is an alias for SelectSingle.
func (s *Selection) Nip(sel string) *Selection {
	return s.SelectSingle(sel)
}

// TrySelect is Select reporting false when nothing was found or selector is
// invalid.
func (s *Selection) TrySelect(sel string) (*Selection, bool) {
	res := s.Select(sel)
	if res.IsEmpty() {
		return nil, false
	}
	return res, true
}

// Filtering

// Filter keeps selected nodes matching selector.
func (s *Selection) Filter(sel string) *Selection {
	m, ok := s.compile(sel)
	if !ok {
		return s.derive(nil)
	}
	return s.FilterMatcher(m)
}

// FilterMatcher keeps selected nodes matched by m.
func (s *Selection) FilterMatcher(m *Matcher) *Selection {
	return s.FilterFunc(func(_ int, n dom.Node) bool { return m.Match(n) })
}

// FilterFunc keeps selected nodes for which f returns true.
func (s *Selection) FilterFunc(f func(int, dom.Node) bool) *Selection {
	var res []dom.NodeID
	for i, id := range s.ids {
		if f(i, s.node(id)) {
			res = append(res, id)
		}
	}
	return s.derive(res)
}

// FilterSelection keeps selected nodes which are also part of other.
func (s *Selection) FilterSelection(other *Selection) *Selection {
	if other == nil || other.tree != s.tree {
		return s.derive(nil)
	}
	in := make(map[dom.NodeID]bool, len(other.ids))
	for _, id := range other.ids {
		in[id] = true
	}
	var res []dom.NodeID
	for _, id := range s.ids {
		if in[id] {
			res = append(res, id)
		}
	}
	return s.derive(res)
}

// Combining

// Add returns union of selection and nodes of the whole tree matching
// selector.
func (s *Selection) Add(sel string) *Selection {
	m, ok := s.compile(sel)
	if !ok {
		return s.derive(slices.Clone(s.ids))
	}
	return s.AddMatcher(m)
}

// AddMatcher returns union of selection and nodes of the whole tree matched
// by m.
func (s *Selection) AddMatcher(m *Matcher) *Selection {
	if s.tree == nil {
		return s.derive(nil)
	}
	found := m.find(s.tree, []dom.NodeID{s.tree.RootID()}, false)
	return s.derive(s.tree.SortDocumentOrder(slices.Concat(s.ids, found)))
}

// AddSelection returns union of both selections. Nodes of other tree are
// ignored.
func (s *Selection) AddSelection(other *Selection) *Selection {
	if other == nil || other.tree == nil {
		return s.derive(slices.Clone(s.ids))
	}
	if s.tree == nil {
		return other.derive(slices.Clone(other.ids))
	}
	if other.tree != s.tree {
		s.log.Warn("Selection from another tree ignored")
		return s.derive(slices.Clone(s.ids))
	}
	return s.derive(s.tree.SortDocumentOrder(slices.Concat(s.ids, other.ids)))
}

// Predicates

// Is reports whether any selected node matches selector.
func (s *Selection) Is(sel string) bool {
	m, ok := s.compile(sel)
	return ok && s.IsMatcher(m)
}

// IsMatcher reports whether any selected node is matched by m.
func (s *Selection) IsMatcher(m *Matcher) bool {
	for _, id := range s.ids {
		if m.Match(s.node(id)) {
			return true
		}
	}
	return false
}

// IsSelection reports whether any selected node is part of other.
func (s *Selection) IsSelection(other *Selection) bool {
	return s.FilterSelection(other).Exists()
}
