package dom

import (
	"strconv"

	"domq/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
	t *Tree
}

// Dump returns a readable outline of the subtree rooted at id, one node per
// line with ids, attributes and shortened text. It exists for manual
// inspection and debug logging.
func (t *Tree) Dump(id NodeID) string {
	tw := treeWriter{TreeWriter: debug.NewTreeWriter(40), t: t}
	tw.node(0, id)
	return tw.String()
}

func (tw treeWriter) node(depth int, id NodeID) {
	n := &tw.t.nodes[id]
	switch n.kind {
	case NodeKindElement:
		kv := make([]string, 0, 2*len(n.elem.attrs))
		for _, a := range n.elem.attrs {
			kv = append(kv, a.Name.String(), a.Value)
		}
		if attrs := debug.Pairs(kv...); attrs != "" {
			tw.Line(depth, "#%d <%s> %s", id, n.elem.name, attrs)
		} else {
			tw.Line(depth, "#%d <%s>", id, n.elem.name)
		}
	case NodeKindText:
		tw.TextBlock(depth, "#"+strconv.Itoa(int(id))+" text", n.text)
	case NodeKindComment:
		tw.TextBlock(depth, "#"+strconv.Itoa(int(id))+" comment", n.text)
	case NodeKindProcessingInstruction:
		tw.TextBlock(depth, "#"+strconv.Itoa(int(id))+" pi "+n.target, n.text)
	case NodeKindDoctype:
		tw.Line(depth, "#%d doctype %s", id, debug.Pairs("name", n.doctype.name, "public", n.doctype.publicID, "system", n.doctype.systemID))
	default:
		tw.Line(depth, "#%d %s", id, n.kind)
	}
	for c := n.first; c != None; c = tw.t.nodes[c].next {
		tw.node(depth+1, c)
	}
}
