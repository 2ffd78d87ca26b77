package dom

import (
	"slices"
	"strings"
)

// Namespaces as reported by golang.org/x/net/html. HTML elements use the
// empty namespace.
const (
	NamespaceHTML   = ""
	NamespaceSVG    = "svg"
	NamespaceMathML = "math"
)

// QualName is a namespace qualified element or attribute name.
type QualName struct {
	Space string
	Local string
}

// HTMLName returns qualified name in the HTML namespace.
func HTMLName(local string) QualName {
	return QualName{Local: local}
}

func (q QualName) String() string {
	if q.Space == "" {
		return q.Local
	}
	return q.Space + ":" + q.Local
}

// Attr is a single element attribute. Attribute order is preserved as
// supplied by the parser or by the order of SetAttr calls.
type Attr struct {
	Name  QualName
	Value string
}

// element is the payload of an element node.
type element struct {
	name  QualName
	attrs []Attr
}

func (e *element) clone() *element {
	return &element{name: e.name, attrs: slices.Clone(e.attrs)}
}

func (e *element) attrIndex(name string) int {
	return slices.IndexFunc(e.attrs, func(a Attr) bool {
		return a.Name.Space == "" && a.Name.Local == name
	})
}

func (e *element) attr(name string) (string, bool) {
	if i := e.attrIndex(name); i >= 0 {
		return e.attrs[i].Value, true
	}
	return "", false
}

// attrFold looks up attribute ignoring ASCII case of the name. Values are
// returned as is.
func (e *element) attrFold(name string) (string, bool) {
	for _, a := range e.attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value, true
		}
	}
	return "", false
}

func (e *element) setAttr(name, value string) {
	if i := e.attrIndex(name); i >= 0 {
		e.attrs[i].Value = value
		return
	}
	e.attrs = append(e.attrs, Attr{Name: HTMLName(name), Value: value})
}

func (e *element) removeAttrs(names ...string) {
	e.attrs = slices.DeleteFunc(e.attrs, func(a Attr) bool {
		return slices.Contains(names, a.Name.Local)
	})
}

func (e *element) retainAttrs(names ...string) {
	e.attrs = slices.DeleteFunc(e.attrs, func(a Attr) bool {
		return !slices.Contains(names, a.Name.Local)
	})
}

func (e *element) hasClass(class string) bool {
	v, ok := e.attr("class")
	if !ok || class == "" {
		return false
	}
	for c := range strings.FieldsSeq(v) {
		if c == class {
			return true
		}
	}
	return false
}

func (e *element) addClass(classes string) {
	v, _ := e.attr("class")
	current := strings.Fields(v)
	changed := false
	for c := range strings.FieldsSeq(classes) {
		if !slices.Contains(current, c) {
			current = append(current, c)
			changed = true
		}
	}
	if changed || v == "" && len(current) > 0 {
		e.setAttr("class", strings.Join(current, " "))
	}
}

func (e *element) removeClass(classes string) {
	v, ok := e.attr("class")
	if !ok {
		return
	}
	drop := strings.Fields(classes)
	kept := slices.DeleteFunc(strings.Fields(v), func(c string) bool {
		return slices.Contains(drop, c)
	})
	if len(kept) == 0 {
		e.removeAttrs("class")
		return
	}
	e.setAttr("class", strings.Join(kept, " "))
}

// doctype is the payload of a doctype node.
type doctype struct {
	name, publicID, systemID string
}
