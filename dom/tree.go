// Package dom implements mutable HTML tree stored in an arena of nodes
// addressed by NodeID. Tree shape is kept exclusively in per node links
// (parent, first/last child, previous/next sibling), no child slices are
// materialized.
package dom

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"go.uber.org/zap"
)

// NodeID names a slot in the Tree arena. IDs are allocated sequentially so
// their order matches creation order, which after parsing is document order.
type NodeID int

// None marks absent link.
const None NodeID = -1

type links struct {
	parent, prev, next, first, last NodeID
}

var noLinks = links{None, None, None, None, None}

type node struct {
	links

	kind    NodeKind
	elem    *element
	doctype *doctype
	target  string // processing instruction target
	text    string // text, comment and processing instruction data
}

// Tree owns every node of a single document or fragment. Nodes are never
// removed from the arena, detached nodes stay addressable.
//
// Tree is not safe for concurrent use.
type Tree struct {
	nodes []node
	log   *zap.Logger
}

func newTree(kind NodeKind, log *zap.Logger) *Tree {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Tree{
		nodes: make([]node, 0, 64),
		log:   log.Named("dom"),
	}
	t.alloc(node{kind: kind})
	return t
}

// NewDocument returns an empty tree rooted at a document node.
func NewDocument(log *zap.Logger) *Tree {
	return newTree(NodeKindDocument, log)
}

// NewFragment returns an empty tree rooted at a fragment node.
func NewFragment(log *zap.Logger) *Tree {
	return newTree(NodeKindFragment, log)
}

func (t *Tree) alloc(n node) NodeID {
	n.links = noLinks
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// Len returns number of allocated nodes, attached or not.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// RootID returns identifier of the tree root. It is always the first
// allocated node.
func (t *Tree) RootID() NodeID {
	return 0
}

// Root returns view of the tree root.
func (t *Tree) Root() Node {
	return Node{tree: t, id: 0}
}

// Contains reports whether id addresses a slot of this tree.
func (t *Tree) Contains(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Get returns node view for the id, false if id does not belong to the tree.
func (t *Tree) Get(id NodeID) (Node, bool) {
	if !t.Contains(id) {
		return Node{}, false
	}
	return Node{tree: t, id: id}, true
}

// Node returns node view without checking the id. Accessing invalid view panics.
func (t *Tree) Node(id NodeID) Node {
	return Node{tree: t, id: id}
}

func (t *Tree) at(id NodeID) *node {
	return &t.nodes[id]
}

// NewElement allocates detached HTML element.
func (t *Tree) NewElement(name string) Node {
	return t.NewElementNS(HTMLName(name), nil)
}

// NewElementNS allocates detached element with qualified name and attributes.
func (t *Tree) NewElementNS(name QualName, attrs []Attr) Node {
	e := &element{name: name}
	if len(attrs) > 0 {
		e.attrs = make([]Attr, len(attrs))
		copy(e.attrs, attrs)
	}
	return t.Node(t.alloc(node{kind: NodeKindElement, elem: e}))
}

// NewText allocates detached text node.
func (t *Tree) NewText(text string) Node {
	return t.Node(t.alloc(node{kind: NodeKindText, text: text}))
}

// NewComment allocates detached comment node.
func (t *Tree) NewComment(text string) Node {
	return t.Node(t.alloc(node{kind: NodeKindComment, text: text}))
}

// NewDoctype allocates detached doctype node.
func (t *Tree) NewDoctype(name, publicID, systemID string) Node {
	return t.Node(t.alloc(node{kind: NodeKindDoctype, doctype: &doctype{name, publicID, systemID}}))
}

// NewProcessingInstruction allocates detached processing instruction node.
func (t *Tree) NewProcessingInstruction(target, data string) Node {
	return t.Node(t.alloc(node{kind: NodeKindProcessingInstruction, target: target, text: data}))
}

// newFragmentNode allocates additional, detached fragment node used as a
// holder for merged runs.
func (t *Tree) newFragmentNode() NodeID {
	return t.alloc(node{kind: NodeKindFragment})
}

// Kind returns variant of the node.
func (t *Tree) Kind(id NodeID) NodeKind { return t.nodes[id].kind }

// Parent returns parent id or None.
func (t *Tree) Parent(id NodeID) NodeID { return t.nodes[id].parent }

// FirstChild returns first child id or None.
func (t *Tree) FirstChild(id NodeID) NodeID { return t.nodes[id].first }

// LastChild returns last child id or None.
func (t *Tree) LastChild(id NodeID) NodeID { return t.nodes[id].last }

// PrevSibling returns previous sibling id or None.
func (t *Tree) PrevSibling(id NodeID) NodeID { return t.nodes[id].prev }

// NextSibling returns next sibling id or None.
func (t *Tree) NextSibling(id NodeID) NodeID { return t.nodes[id].next }

// IsElement reports whether the node is an element.
func (t *Tree) IsElement(id NodeID) bool { return t.nodes[id].kind == NodeKindElement }

// LocalName returns element local name, empty for other kinds.
func (t *Tree) LocalName(id NodeID) string {
	if e := t.nodes[id].elem; e != nil {
		return e.name.Local
	}
	return ""
}

// ElementName returns qualified element name, false for other kinds.
func (t *Tree) ElementName(id NodeID) (QualName, bool) {
	if e := t.nodes[id].elem; e != nil {
		return e.name, true
	}
	return QualName{}, false
}

// Attr returns value of the non namespaced attribute of an element.
func (t *Tree) Attr(id NodeID, name string) (string, bool) {
	if e := t.nodes[id].elem; e != nil {
		return e.attr(name)
	}
	return "", false
}

// AttrFold is the same as Attr but compares attribute names ignoring ASCII
// case.
func (t *Tree) AttrFold(id NodeID, name string) (string, bool) {
	if e := t.nodes[id].elem; e != nil {
		return e.attrFold(name)
	}
	return "", false
}

// Attrs returns element attributes in document order. The slice is a copy.
func (t *Tree) Attrs(id NodeID) []Attr {
	if e := t.nodes[id].elem; e != nil && len(e.attrs) > 0 {
		res := make([]Attr, len(e.attrs))
		copy(res, e.attrs)
		return res
	}
	return nil
}

// HasClass reports whether element class list contains class.
func (t *Tree) HasClass(id NodeID, class string) bool {
	if e := t.nodes[id].elem; e != nil {
		return e.hasClass(class)
	}
	return false
}

// Data returns payload of text, comment and processing instruction nodes.
func (t *Tree) Data(id NodeID) string { return t.nodes[id].text }

// Children iterates over direct children of the node.
func (t *Tree) Children(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for c := t.nodes[id].first; c != None; c = t.nodes[c].next {
			if !yield(c) {
				return
			}
		}
	}
}

// ElementChildren iterates over direct children which are elements.
func (t *Tree) ElementChildren(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for c := t.nodes[id].first; c != None; c = t.nodes[c].next {
			if t.nodes[c].kind == NodeKindElement && !yield(c) {
				return
			}
		}
	}
}

// Descendants iterates over all descendants of the node in document
// (pre-)order, not including the node itself.
func (t *Tree) Descendants(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		cur := t.nodes[id].first
		for cur != None {
			if !yield(cur) {
				return
			}
			n := &t.nodes[cur]
			if n.first != None {
				cur = n.first
				continue
			}
			// climb until a next sibling is found, never leaving the subtree
			for cur != id {
				if next := t.nodes[cur].next; next != None {
					cur = next
					break
				}
				cur = t.nodes[cur].parent
			}
			if cur == id {
				return
			}
		}
	}
}

// Ancestors iterates over ancestors of the node starting with the parent.
// maxDepth limits number of visited ancestors, zero means no limit.
func (t *Tree) Ancestors(id NodeID, maxDepth int) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		depth := 0
		for p := t.nodes[id].parent; p != None; p = t.nodes[p].parent {
			if maxDepth > 0 && depth >= maxDepth {
				return
			}
			depth++
			if !yield(p) {
				return
			}
		}
	}
}

// IsAncestor reports whether anc is a proper ancestor of id.
func (t *Tree) IsAncestor(anc, id NodeID) bool {
	for p := t.nodes[id].parent; p != None; p = t.nodes[p].parent {
		if p == anc {
			return true
		}
	}
	return false
}

// ChildCount returns number of direct children.
func (t *Tree) ChildCount(id NodeID) int {
	count := 0
	for c := t.nodes[id].first; c != None; c = t.nodes[c].next {
		count++
	}
	return count
}

func (t *Tree) String() string {
	if t == nil {
		return "<nil Tree>"
	}
	return fmt.Sprintf("Tree(%s, %d nodes)", t.nodes[0].kind, len(t.nodes))
}

// Compare orders two nodes of the tree by document (pre-)order. An ancestor
// precedes its descendants. Nodes of disconnected subtrees are ordered by the
// ids of their topmost ancestors.
func (t *Tree) Compare(a, b NodeID) int {
	if a == b {
		return 0
	}
	pa, pb := t.path(a), t.path(b)
	if pa[0] != pb[0] {
		return cmp.Compare(pa[0], pb[0])
	}
	i := 1
	for i < len(pa) && i < len(pb) && pa[i] == pb[i] {
		i++
	}
	switch {
	case i == len(pa):
		return -1
	case i == len(pb):
		return 1
	}
	// pa[i] and pb[i] are siblings
	for s := t.nodes[pa[i]].next; s != None; s = t.nodes[s].next {
		if s == pb[i] {
			return -1
		}
	}
	return 1
}

// path returns chain of nodes from the topmost ancestor down to id.
func (t *Tree) path(id NodeID) []NodeID {
	var p []NodeID
	for ; id != None; id = t.nodes[id].parent {
		p = append(p, id)
	}
	slices.Reverse(p)
	return p
}

// SortDocumentOrder sorts ids in document order and drops duplicates.
func (t *Tree) SortDocumentOrder(ids []NodeID) []NodeID {
	slices.SortFunc(ids, t.Compare)
	return slices.Compact(ids)
}
