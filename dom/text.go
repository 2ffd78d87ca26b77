package dom

import (
	"strings"
	"unicode"
)

// Text returns concatenated content of all descendant text nodes, or the
// content of the node itself for text nodes.
func (t *Tree) Text(id NodeID) string {
	if t.nodes[id].kind == NodeKindText {
		return t.nodes[id].text
	}
	var b strings.Builder
	for d := range t.Descendants(id) {
		if t.nodes[d].kind == NodeKindText {
			b.WriteString(t.nodes[d].text)
		}
	}
	return b.String()
}

// ImmediateText returns concatenated content of direct text children.
func (t *Tree) ImmediateText(id NodeID) string {
	var b strings.Builder
	for c := range t.Children(id) {
		if t.nodes[c].kind == NodeKindText {
			b.WriteString(t.nodes[c].text)
		}
	}
	return b.String()
}

// HasText reports whether any text node in the subtree contains needle.
// Needle split between adjacent text nodes is not found, text is not
// normalized for the check.
func (t *Tree) HasText(id NodeID, needle string) bool {
	if t.nodes[id].kind == NodeKindText {
		return strings.Contains(t.nodes[id].text, needle)
	}
	for d := range t.Descendants(id) {
		if t.nodes[d].kind == NodeKindText && strings.Contains(t.nodes[d].text, needle) {
			return true
		}
	}
	return false
}

// HasOnlyText reports whether node has exactly one child and it is a text
// node with some non whitespace content.
func (t *Tree) HasOnlyText(id NodeID) bool {
	first := t.nodes[id].first
	if first == None || t.nodes[first].next != None {
		return false
	}
	return t.nodes[first].kind == NodeKindText && strings.TrimSpace(t.nodes[first].text) != ""
}

// IsEmpty reports whether node has no element children and no non empty
// text children. Comments are ignored.
func (t *Tree) IsEmpty(id NodeID) bool {
	for c := range t.Children(id) {
		switch n := &t.nodes[c]; n.kind {
		case NodeKindElement:
			return false
		case NodeKindText:
			if n.text != "" {
				return false
			}
		}
	}
	return true
}

// NormalizedCharCount counts characters of the subtree text treating every
// run of white space as a single character and ignoring leading and trailing
// white space.
func (t *Tree) NormalizedCharCount(id NodeID) int {
	var (
		count     int
		prevSpace = true
	)
	add := func(s string) {
		for _, r := range s {
			space := unicode.IsSpace(r)
			if prevSpace && space {
				continue
			}
			count++
			prevSpace = space
		}
	}
	if t.nodes[id].kind == NodeKindText {
		add(t.nodes[id].text)
	} else {
		for d := range t.Descendants(id) {
			if t.nodes[d].kind == NodeKindText {
				add(t.nodes[d].text)
			}
		}
	}
	if prevSpace && count > 0 {
		count--
	}
	return count
}

// SetText replaces all children of the node with a single text node. For
// text and comment nodes content is replaced in place.
func (t *Tree) SetText(id NodeID, text string) {
	switch n := &t.nodes[id]; n.kind {
	case NodeKindText, NodeKindComment, NodeKindProcessingInstruction:
		n.text = text
		return
	case NodeKindDoctype:
		return
	}
	t.RemoveChildren(id)
	if text != "" {
		t.AppendChild(id, t.NewText(text).id)
	}
}
