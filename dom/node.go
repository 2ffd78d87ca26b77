package dom

import (
	"slices"
	"strconv"
	"strings"
)

// Node is a lightweight view of a single node: the tree and the id. It is
// cheap to copy and compare, never owns node storage and stays valid after
// detach, the node just has no parent anymore.
type Node struct {
	tree *Tree
	id   NodeID
}

// ID returns node identifier.
func (n Node) ID() NodeID { return n.id }

// Tree returns the tree node belongs to.
func (n Node) Tree() *Tree { return n.tree }

// Exists reports whether view addresses a node, zero Node does not.
func (n Node) Exists() bool { return n.tree != nil && n.tree.Contains(n.id) }

// SameTree reports whether both nodes belong to the same arena.
func (n Node) SameTree(o Node) bool { return n.tree == o.tree }

func (n Node) Kind() NodeKind { return n.tree.nodes[n.id].kind }
func (n Node) IsElement() bool { return n.Kind() == NodeKindElement }
func (n Node) IsText() bool { return n.Kind() == NodeKindText }
func (n Node) IsComment() bool { return n.Kind() == NodeKindComment }
func (n Node) IsDoctype() bool { return n.Kind() == NodeKindDoctype }
func (n Node) IsDocument() bool { return n.Kind() == NodeKindDocument }
func (n Node) IsFragment() bool { return n.Kind() == NodeKindFragment }
func (n Node) MayHaveChildren() bool { return n.Kind().MayHaveChildren() }

// NodeName returns element local name or DOM style name for other kinds
// ("#text", "#comment", "#document", "#document-fragment", doctype name).
func (n Node) NodeName() string {
	nd := &n.tree.nodes[n.id]
	switch nd.kind {
	case NodeKindElement:
		return nd.elem.name.Local
	case NodeKindText:
		return "#text"
	case NodeKindComment:
		return "#comment"
	case NodeKindDocument:
		return "#document"
	case NodeKindFragment:
		return "#document-fragment"
	case NodeKindDoctype:
		return nd.doctype.name
	case NodeKindProcessingInstruction:
		return nd.target
	}
	return ""
}

// Name returns qualified element name, false for other kinds.
func (n Node) Name() (QualName, bool) { return n.tree.ElementName(n.id) }

// Data returns payload of text, comment and processing instruction nodes.
func (n Node) Data() string { return n.tree.nodes[n.id].text }

// Doctype returns doctype name, public and system identifiers.
func (n Node) Doctype() (name, publicID, systemID string, ok bool) {
	if d := n.tree.nodes[n.id].doctype; d != nil {
		return d.name, d.publicID, d.systemID, true
	}
	return "", "", "", false
}

func (n Node) link(id NodeID) (Node, bool) {
	if id == None {
		return Node{}, false
	}
	return Node{tree: n.tree, id: id}, true
}

func (n Node) Parent() (Node, bool) { return n.link(n.tree.nodes[n.id].parent) }
func (n Node) FirstChild() (Node, bool) { return n.link(n.tree.nodes[n.id].first) }
func (n Node) LastChild() (Node, bool) { return n.link(n.tree.nodes[n.id].last) }
func (n Node) PrevSibling() (Node, bool) { return n.link(n.tree.nodes[n.id].prev) }
func (n Node) NextSibling() (Node, bool) { return n.link(n.tree.nodes[n.id].next) }

// LastSibling returns the last node of the sibling chain node belongs to.
func (n Node) LastSibling() Node {
	id := n.id
	for next := n.tree.nodes[id].next; next != None; next = n.tree.nodes[id].next {
		id = next
	}
	return Node{tree: n.tree, id: id}
}

// PrevElementSibling returns closest preceding sibling which is an element.
func (n Node) PrevElementSibling() (Node, bool) {
	t := n.tree
	for s := t.nodes[n.id].prev; s != None; s = t.nodes[s].prev {
		if t.nodes[s].kind == NodeKindElement {
			return Node{tree: t, id: s}, true
		}
	}
	return Node{}, false
}

// NextElementSibling returns closest following sibling which is an element.
func (n Node) NextElementSibling() (Node, bool) {
	t := n.tree
	for s := t.nodes[n.id].next; s != None; s = t.nodes[s].next {
		if t.nodes[s].kind == NodeKindElement {
			return Node{tree: t, id: s}, true
		}
	}
	return Node{}, false
}

// FirstElementChild returns first child which is an element.
func (n Node) FirstElementChild() (Node, bool) {
	for c := range n.tree.ElementChildren(n.id) {
		return Node{tree: n.tree, id: c}, true
	}
	return Node{}, false
}

func (n Node) collect(ids func(func(NodeID) bool)) []Node {
	var res []Node
	for id := range ids {
		res = append(res, Node{tree: n.tree, id: id})
	}
	return res
}

// Children returns all direct children.
func (n Node) Children() []Node { return n.collect(n.tree.Children(n.id)) }

// ElementChildren returns direct children which are elements.
func (n Node) ElementChildren() []Node { return n.collect(n.tree.ElementChildren(n.id)) }

// Descendants returns all descendants in document order.
func (n Node) Descendants() []Node { return n.collect(n.tree.Descendants(n.id)) }

// Ancestors returns ancestors starting with the parent, zero maxDepth means
// all of them.
func (n Node) Ancestors(maxDepth int) []Node { return n.collect(n.tree.Ancestors(n.id, maxDepth)) }

// ChildCount returns number of direct children.
func (n Node) ChildCount() int { return n.tree.ChildCount(n.id) }

// Text content

func (n Node) Text() string { return n.tree.Text(n.id) }
func (n Node) ImmediateText() string { return n.tree.ImmediateText(n.id) }
func (n Node) HasText(needle string) bool { return n.tree.HasText(n.id, needle) }
func (n Node) HasOnlyText() bool { return n.tree.HasOnlyText(n.id) }
func (n Node) IsEmpty() bool { return n.tree.IsEmpty(n.id) }
func (n Node) NormalizedCharCount() int { return n.tree.NormalizedCharCount(n.id) }
func (n Node) SetText(text string) { n.tree.SetText(n.id, text) }

// Attributes

func (n Node) Attr(name string) (string, bool) { return n.tree.Attr(n.id, name) }
func (n Node) Attrs() []Attr { return n.tree.Attrs(n.id) }
func (n Node) HasClass(class string) bool { return n.tree.HasClass(n.id, class) }

// AttrOr returns attribute value or def when element has no such attribute.
func (n Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// HasAttr reports whether element has attribute.
func (n Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// IDAttr returns value of the id attribute, empty if absent.
func (n Node) IDAttr() string {
	v, _ := n.Attr("id")
	return v
}

// Class returns value of the class attribute, empty if absent.
func (n Node) Class() string {
	v, _ := n.Attr("class")
	return v
}

func (n Node) elem() *element { return n.tree.nodes[n.id].elem }

// SetAttr sets attribute value, adding attribute if necessary. No-op for
// non elements.
func (n Node) SetAttr(name, value string) {
	if e := n.elem(); e != nil {
		e.setAttr(name, value)
	}
}

// RemoveAttr removes attribute.
func (n Node) RemoveAttr(name string) { n.RemoveAttrs(name) }

// RemoveAttrs removes all listed attributes.
func (n Node) RemoveAttrs(names ...string) {
	if e := n.elem(); e != nil {
		e.removeAttrs(names...)
	}
}

// RetainAttrs removes every attribute not listed.
func (n Node) RetainAttrs(names ...string) {
	if e := n.elem(); e != nil {
		e.retainAttrs(names...)
	}
}

// RemoveAllAttrs drops all attributes.
func (n Node) RemoveAllAttrs() {
	if e := n.elem(); e != nil {
		e.attrs = nil
	}
}

// AddClass adds space separated classes which are not yet present.
func (n Node) AddClass(classes string) {
	if e := n.elem(); e != nil {
		e.addClass(classes)
	}
}

// RemoveClass removes space separated classes.
func (n Node) RemoveClass(classes string) {
	if e := n.elem(); e != nil {
		e.removeClass(classes)
	}
}

// Rename changes local name of the element keeping its namespace.
func (n Node) Rename(name string) {
	if e := n.elem(); e != nil {
		e.name.Local = name
	}
}

// Structure

func (n Node) check(op string, others ...Node) error {
	for _, o := range others {
		if o.tree != n.tree {
			return &CrossTreeError{Op: op}
		}
	}
	return nil
}

// AppendChild moves child to the end of node children.
func (n Node) AppendChild(child Node) error {
	if err := n.check("append child", child); err != nil {
		return err
	}
	return n.tree.appendChildren(n.id, []NodeID{child.id})
}

// PrependChild moves child to the start of node children.
func (n Node) PrependChild(child Node) error {
	if err := n.check("prepend child", child); err != nil {
		return err
	}
	return n.tree.prependChildren(n.id, []NodeID{child.id})
}

// AppendChildren moves first and its following siblings to the end of node
// children.
func (n Node) AppendChildren(first Node) error {
	if err := n.check("append children", first); err != nil {
		return err
	}
	return n.tree.appendChildren(n.id, n.tree.run(first.id))
}

// PrependChildren moves first and its following siblings to the start of node
// children.
func (n Node) PrependChildren(first Node) error {
	if err := n.check("prepend children", first); err != nil {
		return err
	}
	return n.tree.prependChildren(n.id, n.tree.run(first.id))
}

// InsertBefore moves sibling in front of the node.
func (n Node) InsertBefore(sibling Node) error {
	if err := n.check("insert before", sibling); err != nil {
		return err
	}
	if sibling.id == n.id {
		return nil
	}
	return n.tree.insertBefore(n.id, []NodeID{sibling.id})
}

// InsertAfter moves sibling right after the node.
func (n Node) InsertAfter(sibling Node) error {
	if err := n.check("insert after", sibling); err != nil {
		return err
	}
	if sibling.id == n.id {
		return nil
	}
	return n.tree.insertAfter(n.id, []NodeID{sibling.id})
}

// InsertSiblingsBefore moves first and its following siblings in front of
// the node.
func (n Node) InsertSiblingsBefore(first Node) error {
	if err := n.check("insert siblings before", first); err != nil {
		return err
	}
	return n.tree.insertBefore(n.id, n.tree.run(first.id))
}

// InsertSiblingsAfter moves first and its following siblings after the node.
func (n Node) InsertSiblingsAfter(first Node) error {
	if err := n.check("insert siblings after", first); err != nil {
		return err
	}
	return n.tree.insertAfter(n.id, n.tree.run(first.id))
}

// ReplaceWith puts other at the position of the node, node is detached.
func (n Node) ReplaceWith(other Node) error {
	if err := n.check("replace", other); err != nil {
		return err
	}
	return n.tree.replace(n.id, []NodeID{other.id})
}

// ReplaceWithRun puts first and its following siblings at the position of
// the node, node is detached.
func (n Node) ReplaceWithRun(first Node) error {
	if err := n.check("replace with run", first); err != nil {
		return err
	}
	return n.tree.replace(n.id, n.tree.run(first.id))
}

// Wrap inserts wrapper at the position of the node and moves node into it.
func (n Node) Wrap(wrapper Node) error {
	if err := n.check("wrap", wrapper); err != nil {
		return err
	}
	return n.tree.wrap(n.id, wrapper.id)
}

// Unwrap replaces node with its children.
func (n Node) Unwrap() error {
	return n.tree.unwrap(n.id)
}

// Remove detaches node (with its subtree) from the tree.
func (n Node) Remove() { n.tree.detach(n.id) }

// RemoveChildren detaches all children.
func (n Node) RemoveChildren() { n.tree.RemoveChildren(n.id) }

// Clone returns detached deep copy of the node.
func (n Node) Clone() Node { return Node{tree: n.tree, id: n.tree.Clone(n.id)} }

// Normalize merges adjacent text nodes in the subtree.
func (n Node) Normalize() { n.tree.Normalize(n.id) }

// StripElements replaces matching descendant elements with their children.
func (n Node) StripElements(names ...string) { n.tree.StripElements(n.id, names...) }

// Validate checks structural consistency of the subtree.
func (n Node) Validate() error { return n.tree.Validate(n.id) }

// HTML

func (n Node) HTML() string { return n.tree.HTML(n.id) }
func (n Node) InnerHTML() string { return n.tree.InnerHTML(n.id) }

// contextName returns name of the element to be used as HTML fragment
// parsing context for content placed inside the node.
func (n Node) contextName() QualName {
	if name, ok := n.Name(); ok {
		return name
	}
	return HTMLName("body")
}

// parseRun parses markup in context, merges it into the tree and returns the
// first node of the resulting sibling run, false when markup produced no
// nodes.
func (n Node) parseRun(markup string, context QualName) (Node, bool, error) {
	frag, err := ParseFragmentString(markup, context, n.tree.log)
	if err != nil {
		return Node{}, false, err
	}
	holder := n.tree.Merge(frag, frag.RootID())
	first := n.tree.nodes[holder].first
	if first == None {
		return Node{}, false, nil
	}
	return Node{tree: n.tree, id: first}, true, nil
}

// SetHTML replaces node children with parsed markup.
func (n Node) SetHTML(markup string) error {
	first, ok, err := n.parseRun(markup, n.contextName())
	if err != nil {
		return err
	}
	n.RemoveChildren()
	if !ok {
		return nil
	}
	return n.AppendChildren(first)
}

// AppendHTML parses markup and appends resulting nodes to node children.
func (n Node) AppendHTML(markup string) error {
	first, ok, err := n.parseRun(markup, n.contextName())
	if err != nil || !ok {
		return err
	}
	return n.AppendChildren(first)
}

// PrependHTML parses markup and prepends resulting nodes to node children.
func (n Node) PrependHTML(markup string) error {
	first, ok, err := n.parseRun(markup, n.contextName())
	if err != nil || !ok {
		return err
	}
	return n.PrependChildren(first)
}

func (n Node) parentContext() (QualName, error) {
	p, ok := n.Parent()
	if !ok {
		return QualName{}, ErrDetached
	}
	return p.contextName(), nil
}

// BeforeHTML parses markup and inserts resulting nodes in front of the node.
func (n Node) BeforeHTML(markup string) error {
	context, err := n.parentContext()
	if err != nil {
		return err
	}
	first, ok, err := n.parseRun(markup, context)
	if err != nil || !ok {
		return err
	}
	return n.InsertSiblingsBefore(first)
}

// AfterHTML parses markup and inserts resulting nodes after the node.
func (n Node) AfterHTML(markup string) error {
	context, err := n.parentContext()
	if err != nil {
		return err
	}
	first, ok, err := n.parseRun(markup, context)
	if err != nil || !ok {
		return err
	}
	return n.InsertSiblingsAfter(first)
}

// ReplaceWithHTML replaces node with parsed markup. Empty markup just removes
// the node.
func (n Node) ReplaceWithHTML(markup string) error {
	context, err := n.parentContext()
	if err != nil {
		return err
	}
	first, ok, err := n.parseRun(markup, context)
	if err != nil {
		return err
	}
	if !ok {
		n.Remove()
		return nil
	}
	return n.ReplaceWithRun(first)
}

// WrapHTML wraps node with the first element produced by markup.
func (n Node) WrapHTML(markup string) error {
	context, err := n.parentContext()
	if err != nil {
		return err
	}
	first, ok, err := n.parseRun(markup, context)
	if err != nil || !ok {
		return err
	}
	wrapper := first
	for !wrapper.IsElement() {
		if wrapper, ok = wrapper.NextSibling(); !ok {
			return nil
		}
	}
	return n.Wrap(wrapper)
}

// Lookups

// BaseURI returns href of the first <base> element inside <head> of the
// document the node belongs to.
func (n Node) BaseURI() (string, bool) {
	root := n.tree.Root()
	for _, name := range []string{"html", "head"} {
		var found bool
		for c := range n.tree.ElementChildren(root.id) {
			if n.tree.LocalName(c) == name {
				root, found = Node{tree: n.tree, id: c}, true
				break
			}
		}
		if !found {
			return "", false
		}
	}
	for c := range n.tree.ElementChildren(root.id) {
		if n.tree.LocalName(c) == "base" {
			if href, ok := n.tree.Attr(c, "href"); ok {
				return href, true
			}
		}
	}
	return "", false
}

// FindPath returns descendant elements reached by following path of element
// names. Every path step searches the whole subtree below matches of the
// previous step, but does not descend into an element which matched the
// current step unless it is the last one.
func (n Node) FindPath(path ...string) []Node {
	if len(path) == 0 {
		return nil
	}
	t := n.tree
	stack := []NodeID{n.id}
	for i, name := range path {
		last := i == len(path)-1
		var found []NodeID
		var walk func(NodeID)
		walk = func(id NodeID) {
			for c := range t.ElementChildren(id) {
				matched := strings.EqualFold(t.LocalName(c), name)
				if matched {
					found = append(found, c)
				}
				if !matched || last {
					walk(c)
				}
			}
		}
		for _, id := range stack {
			walk(id)
		}
		stack = found
	}
	res := make([]Node, len(stack))
	for i, id := range stack {
		res[i] = Node{tree: t, id: id}
	}
	return res
}

// CSSPath returns selector which uniquely identifies the element within its
// tree: a chain of child steps from the closest ancestor with a unique id (or
// from the root), each step narrowed with :nth-child when it has element
// siblings.
func (n Node) CSSPath() string {
	if !n.IsElement() {
		return ""
	}
	t := n.tree
	ids := make(map[string]int)
	for d := range t.Descendants(t.RootID()) {
		if v, ok := t.Attr(d, "id"); ok && v != "" {
			ids[v]++
		}
	}

	var steps []string
	for cur := n.id; cur != None && t.nodes[cur].kind == NodeKindElement; cur = t.nodes[cur].parent {
		if v, ok := t.Attr(cur, "id"); ok && ids[v] == 1 && isPlainIdent(v) {
			steps = append(steps, "#"+v)
			break
		}
		step := t.LocalName(cur)
		if p := t.nodes[cur].parent; p != None {
			pos, count := 0, 0
			for c := range t.ElementChildren(p) {
				count++
				if c == cur {
					pos = count
				}
			}
			if count > 1 {
				step += ":nth-child(" + strconv.Itoa(pos) + ")"
			}
		}
		steps = append(steps, step)
	}
	slices.Reverse(steps)
	return strings.Join(steps, " > ")
}

// isPlainIdent reports whether s can be used in a selector without escaping.
func isPlainIdent(s string) bool {
	for i, r := range s {
		switch {
		case r == '-' || r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= 0x80:
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return s != "" && !strings.HasPrefix(s, "--") && !(s[0] == '-' && len(s) > 1 && s[1] >= '0' && s[1] <= '9')
}
