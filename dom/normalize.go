package dom

import (
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Normalize merges adjacent text siblings and drops empty text nodes in the
// subtree rooted at id. Any other node kind between two text nodes, comment
// included, keeps them apart.
func (t *Tree) Normalize(id NodeID) {
	var merged, dropped int

	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var (
			run  NodeID = None
			text strings.Builder
		)
		flush := func() {
			if run != None && text.Len() > 0 {
				t.nodes[run].text = text.String()
			}
			run = None
			text.Reset()
		}

		for c := t.nodes[cur].first; c != None; {
			next := t.nodes[c].next
			switch n := &t.nodes[c]; {
			case n.kind != NodeKindText:
				flush()
				if n.first != None {
					stack = append(stack, c)
				}
			case n.text == "":
				t.detach(c)
				dropped++
			case run == None:
				run = c
				text.WriteString(n.text)
			default:
				text.WriteString(n.text)
				t.detach(c)
				merged++
			}
			c = next
		}
		flush()
	}
	if merged > 0 || dropped > 0 {
		t.log.Debug("Normalized text nodes", zap.Int("root", int(id)), zap.Int("merged", merged), zap.Int("dropped", dropped))
	}
}

// StripElements removes every element in the subtree of id (id itself
// excluded) whose local name is one of names, splicing element children
// into its place. Document order of the remaining nodes is preserved.
func (t *Tree) StripElements(id NodeID, names ...string) {
	if len(names) == 0 {
		return
	}
	var matched []NodeID
	for d := range t.Descendants(id) {
		if e := t.nodes[d].elem; e != nil && slices.Contains(names, e.name.Local) {
			matched = append(matched, d)
		}
	}
	for _, m := range matched {
		t.refused("strip element", t.unwrap(m), m)
	}
	if len(matched) > 0 {
		t.log.Debug("Stripped elements", zap.Int("root", int(id)), zap.Strings("names", names), zap.Int("count", len(matched)))
	}
}
