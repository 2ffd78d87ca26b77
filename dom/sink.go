package dom

import (
	"go.uber.org/zap"
)

// Sink receives tree construction events from an HTML parser. Ids returned
// by the Create methods are only meaningful to the same sink.
type Sink interface {
	// Root returns id of the document or fragment node new nodes are
	// appended to.
	Root() NodeID
	CreateElement(name QualName, attrs []Attr) NodeID
	CreateText(text string) NodeID
	CreateComment(text string) NodeID
	CreateDoctype(name, publicID, systemID string) NodeID
	Append(parent, child NodeID)
	SetAttribute(id NodeID, name QualName, value string)
	// Finish is called once after the last event and returns the root id.
	Finish() NodeID
}

// Builder is the Sink populating a Tree.
type Builder struct {
	tree   *Tree
	merged int
}

// NewBuilder returns sink which populates tree.
func NewBuilder(tree *Tree) *Builder {
	return &Builder{tree: tree}
}

// Tree returns tree being built.
func (b *Builder) Tree() *Tree {
	return b.tree
}

func (b *Builder) Root() NodeID {
	return b.tree.RootID()
}

func (b *Builder) CreateElement(name QualName, attrs []Attr) NodeID {
	return b.tree.NewElementNS(name, attrs).id
}

func (b *Builder) CreateText(text string) NodeID {
	return b.tree.NewText(text).id
}

func (b *Builder) CreateComment(text string) NodeID {
	return b.tree.NewComment(text).id
}

func (b *Builder) CreateDoctype(name, publicID, systemID string) NodeID {
	return b.tree.NewDoctype(name, publicID, systemID).id
}

// Append attaches child as the last child of parent. Text appended right
// after another text node is concatenated to it instead, the way HTML tree
// construction inserts characters.
func (b *Builder) Append(parent, child NodeID) {
	t := b.tree
	if t.nodes[child].kind == NodeKindText {
		if last := t.nodes[parent].last; last != None && t.nodes[last].kind == NodeKindText {
			t.nodes[last].text += t.nodes[child].text
			b.merged++
			return
		}
	}
	t.AppendChild(parent, child)
}

// SetAttribute sets attribute unless element already has it, parsers report
// duplicates which must be ignored.
func (b *Builder) SetAttribute(id NodeID, name QualName, value string) {
	e := b.tree.nodes[id].elem
	if e == nil {
		return
	}
	for _, a := range e.attrs {
		if a.Name == name {
			return
		}
	}
	e.attrs = append(e.attrs, Attr{Name: name, Value: value})
}

func (b *Builder) Finish() NodeID {
	b.tree.log.Debug("Tree built", zap.Int("nodes", b.tree.Len()), zap.Int("merged texts", b.merged))
	return b.tree.RootID()
}
