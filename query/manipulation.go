package query

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"domq/dom"
)

// Attributes

// Attr returns attribute value of the first selected node.
func (s *Selection) Attr(name string) (string, bool) {
	if len(s.ids) == 0 {
		return "", false
	}
	return s.node(s.ids[0]).Attr(name)
}

// AttrOr returns attribute value of the first selected node or def.
func (s *Selection) AttrOr(name, def string) string {
	if v, ok := s.Attr(name); ok {
		return v
	}
	return def
}

// HasAttr reports whether any selected node has the attribute.
func (s *Selection) HasAttr(name string) bool {
	for _, id := range s.ids {
		if s.node(id).HasAttr(name) {
			return true
		}
	}
	return false
}

func (s *Selection) each(f func(dom.Node)) *Selection {
	for _, id := range s.ids {
		f(s.node(id))
	}
	return s
}

func (s *Selection) SetAttr(name, value string) *Selection {
	return s.each(func(n dom.Node) { n.SetAttr(name, value) })
}

func (s *Selection) RemoveAttr(name string) *Selection {
	return s.each(func(n dom.Node) { n.RemoveAttr(name) })
}

func (s *Selection) RemoveAttrs(names ...string) *Selection {
	return s.each(func(n dom.Node) { n.RemoveAttrs(names...) })
}

// RetainAttrs removes all attributes but names.
func (s *Selection) RetainAttrs(names ...string) *Selection {
	return s.each(func(n dom.Node) { n.RetainAttrs(names...) })
}

func (s *Selection) RemoveAllAttrs() *Selection {
	return s.each(func(n dom.Node) { n.RemoveAllAttrs() })
}

// Classes

// AddClass adds space separated classes to every selected element.
func (s *Selection) AddClass(classes string) *Selection {
	return s.each(func(n dom.Node) { n.AddClass(classes) })
}

// RemoveClass removes space separated classes from every selected element.
func (s *Selection) RemoveClass(classes string) *Selection {
	return s.each(func(n dom.Node) { n.RemoveClass(classes) })
}

// HasClass reports whether any selected element has the class.
func (s *Selection) HasClass(class string) bool {
	for _, id := range s.ids {
		if s.node(id).HasClass(class) {
			return true
		}
	}
	return false
}

// Structure

// Rename changes element name of every selected element.
func (s *Selection) Rename(name string) *Selection {
	return s.each(func(n dom.Node) { n.Rename(name) })
}

// Remove detaches selected nodes. Nodes stay selected and may be inserted
// elsewhere.
func (s *Selection) Remove() *Selection {
	return s.each(func(n dom.Node) { n.Remove() })
}

// SetText replaces content of every selected node with text.
func (s *Selection) SetText(text string) *Selection {
	return s.each(func(n dom.Node) { n.SetText(text) })
}

// StripElements replaces descendant elements with given names by their
// children below every selected node.
func (s *Selection) StripElements(names ...string) *Selection {
	return s.each(func(n dom.Node) { n.StripElements(names...) })
}

// Normalize merges adjacent text nodes below every selected node.
func (s *Selection) Normalize() *Selection {
	return s.each(func(n dom.Node) { n.Normalize() })
}

// apply calls f for every selected node collecting errors.
func (s *Selection) apply(op string, f func(dom.Node) error) (err error) {
	for _, id := range s.ids {
		if e := f(s.node(id)); e != nil {
			s.log.Debug("Operation failed", zap.String("op", op), zap.Int("id", int(id)), zap.Error(e))
			err = multierr.Append(err, fmt.Errorf("%s on node %d: %w", op, id, e))
		}
	}
	return err
}

// Unwrap replaces every selected node with its children.
func (s *Selection) Unwrap() error {
	return s.apply("unwrap", dom.Node.Unwrap)
}

// SetHTML replaces content of every selected node with parsed markup.
func (s *Selection) SetHTML(markup string) error {
	return s.apply("set html", func(n dom.Node) error { return n.SetHTML(markup) })
}

func (s *Selection) AppendHTML(markup string) error {
	return s.apply("append html", func(n dom.Node) error { return n.AppendHTML(markup) })
}

func (s *Selection) PrependHTML(markup string) error {
	return s.apply("prepend html", func(n dom.Node) error { return n.PrependHTML(markup) })
}

func (s *Selection) BeforeHTML(markup string) error {
	return s.apply("before html", func(n dom.Node) error { return n.BeforeHTML(markup) })
}

func (s *Selection) AfterHTML(markup string) error {
	return s.apply("after html", func(n dom.Node) error { return n.AfterHTML(markup) })
}

// ReplaceWithHTML replaces every selected node with parsed markup.
func (s *Selection) ReplaceWithHTML(markup string) error {
	return s.apply("replace with html", func(n dom.Node) error { return n.ReplaceWithHTML(markup) })
}

// WrapHTML wraps every selected node into the first element of parsed
// markup.
func (s *Selection) WrapHTML(markup string) error {
	return s.apply("wrap html", func(n dom.Node) error { return n.WrapHTML(markup) })
}

// sources returns nodes of other to be inserted at one of the targets. Nodes
// of the same tree are moved to the last target and cloned for the rest,
// nodes of other trees are always copied.
func (s *Selection) sources(other *Selection, last bool) []dom.Node {
	if other == nil || other.tree == nil {
		return nil
	}
	res := make([]dom.Node, 0, len(other.ids))
	for _, id := range other.ids {
		switch {
		case other.tree != s.tree:
			res = s.unwrapCopy(res, s.tree.Node(s.tree.Merge(other.tree, id)))
		case last:
			res = append(res, s.node(id))
		default:
			res = s.unwrapCopy(res, s.node(id).Clone())
		}
	}
	return res
}

// unwrapCopy appends n to res. Copies of a tree root are fragment holders
// which cannot be attached, their children are appended instead.
func (s *Selection) unwrapCopy(res []dom.Node, n dom.Node) []dom.Node {
	if !n.IsFragment() || n.ID() == s.tree.RootID() {
		return append(res, n)
	}
	return append(res, n.Children()...)
}

// AppendSelection appends nodes of other to children of every selected node.
func (s *Selection) AppendSelection(other *Selection) error {
	i := 0
	return s.apply("append selection", func(n dom.Node) error {
		i++
		var err error
		for _, src := range s.sources(other, i == len(s.ids)) {
			err = multierr.Append(err, n.AppendChild(src))
		}
		return err
	})
}

// PrependSelection inserts nodes of other in front of children of every
// selected node keeping their order.
func (s *Selection) PrependSelection(other *Selection) error {
	i := 0
	return s.apply("prepend selection", func(n dom.Node) error {
		i++
		srcs := s.sources(other, i == len(s.ids))
		var err error
		for j := len(srcs) - 1; j >= 0; j-- {
			err = multierr.Append(err, n.PrependChild(srcs[j]))
		}
		return err
	})
}

// ReplaceWithSelection replaces every selected node with nodes of other.
func (s *Selection) ReplaceWithSelection(other *Selection) error {
	i := 0
	return s.apply("replace with selection", func(n dom.Node) error {
		i++
		if _, ok := n.Parent(); !ok {
			return dom.ErrDetached
		}
		var err error
		for _, src := range s.sources(other, i == len(s.ids)) {
			err = multierr.Append(err, n.InsertBefore(src))
		}
		n.Remove()
		return err
	})
}
