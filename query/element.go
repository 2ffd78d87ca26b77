package query

import (
	"domq/css"
	"domq/dom"
)

// Element exposes dom element to the full selector matcher. Navigation
// skips text, comment and other non element nodes.
type Element struct {
	n dom.Node
}

var _ css.Element = Element{}

// AsElement returns adapter for n, false when n is not an element.
func AsElement(n dom.Node) (Element, bool) {
	if !n.Exists() || !n.IsElement() {
		return Element{}, false
	}
	return Element{n}, true
}

func wrap(n dom.Node, ok bool) (css.Element, bool) {
	if !ok || !n.IsElement() {
		return nil, false
	}
	return Element{n}, true
}

// Node returns wrapped node.
func (e Element) Node() dom.Node { return e.n }

func (e Element) LocalName() string {
	name, _ := e.n.Name()
	return name.Local
}

func (e Element) Namespace() string {
	name, _ := e.n.Name()
	return name.Space
}

// Attr looks attribute up ignoring ASCII case of its name.
func (e Element) Attr(name string) (string, bool) {
	return e.n.Tree().AttrFold(e.n.ID(), name)
}

func (e Element) ID() string                 { return e.n.IDAttr() }
func (e Element) HasClass(name string) bool  { return e.n.HasClass(name) }
func (e Element) IsEmpty() bool              { return e.n.IsEmpty() }
func (e Element) Text() string               { return e.n.Text() }
func (e Element) HasText(needle string) bool { return e.n.HasText(needle) }
func (e Element) HasOnlyText() bool          { return e.n.HasOnlyText() }

func (e Element) Parent() (css.Element, bool)      { return wrap(e.n.Parent()) }
func (e Element) PrevSibling() (css.Element, bool) { return wrap(e.n.PrevElementSibling()) }
func (e Element) NextSibling() (css.Element, bool) { return wrap(e.n.NextElementSibling()) }
func (e Element) FirstChild() (css.Element, bool)  { return wrap(e.n.FirstElementChild()) }

// IsRoot reports whether element is a top level element of document or
// fragment.
func (e Element) IsRoot() bool {
	p, ok := e.n.Parent()
	return ok && p.Kind().IsRoot()
}

func (e Element) Equal(other css.Element) bool {
	o, ok := other.(Element)
	return ok && o.n == e.n
}
