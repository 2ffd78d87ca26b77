package dom

import (
	"bytes"
	"io"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Serialization is delegated to golang.org/x/net/html renderer: subtree is
// converted to html.Node graph first.

func (t *Tree) toHTML(id NodeID) *html.Node {
	n := &t.nodes[id]
	var h *html.Node
	switch n.kind {
	case NodeKindDocument, NodeKindFragment:
		h = &html.Node{Type: html.DocumentNode}
	case NodeKindElement:
		h = &html.Node{
			Type:      html.ElementNode,
			Data:      n.elem.name.Local,
			DataAtom:  atom.Lookup([]byte(n.elem.name.Local)),
			Namespace: n.elem.name.Space,
		}
		if len(n.elem.attrs) > 0 {
			h.Attr = make([]html.Attribute, len(n.elem.attrs))
			for i, a := range n.elem.attrs {
				h.Attr[i] = html.Attribute{Namespace: a.Name.Space, Key: a.Name.Local, Val: a.Value}
			}
		}
	case NodeKindText:
		return &html.Node{Type: html.TextNode, Data: n.text}
	case NodeKindComment:
		return &html.Node{Type: html.CommentNode, Data: n.text}
	case NodeKindDoctype:
		h = &html.Node{Type: html.DoctypeNode, Data: n.doctype.name}
		if n.doctype.publicID != "" {
			h.Attr = append(h.Attr, html.Attribute{Key: "public", Val: n.doctype.publicID})
		}
		if n.doctype.systemID != "" {
			h.Attr = append(h.Attr, html.Attribute{Key: "system", Val: n.doctype.systemID})
		}
		return h
	case NodeKindProcessingInstruction:
		// HTML has no processing instructions, x/net/html would emit them as
		// bogus comments
		return &html.Node{Type: html.RawNode, Data: "<?" + n.target + " " + n.text + ">"}
	}
	for c := n.first; c != None; c = t.nodes[c].next {
		h.AppendChild(t.toHTML(c))
	}
	return h
}

// rawText lists elements x/net/html renders children of verbatim.
func rawText(name QualName) bool {
	if name.Space != NamespaceHTML {
		return false
	}
	switch name.Local {
	case "iframe", "noembed", "noframes", "noscript", "plaintext", "script", "style", "xmp":
		return true
	}
	return false
}

// Render writes HTML serialization of the node, or of its children only when
// inner is set.
func (t *Tree) Render(w io.Writer, id NodeID, inner bool) error {
	n := &t.nodes[id]
	if !inner || n.kind.IsRoot() {
		if n.kind.IsRoot() {
			for c := n.first; c != None; c = t.nodes[c].next {
				if err := html.Render(w, t.toHTML(c)); err != nil {
					return err
				}
			}
			return nil
		}
		return html.Render(w, t.toHTML(id))
	}
	raw := n.elem != nil && rawText(n.elem.name)
	for c := n.first; c != None; c = t.nodes[c].next {
		if raw && t.nodes[c].kind == NodeKindText {
			if _, err := io.WriteString(w, t.nodes[c].text); err != nil {
				return err
			}
			continue
		}
		if err := html.Render(w, t.toHTML(c)); err != nil {
			return err
		}
	}
	return nil
}

// HTML returns outer HTML of the node. Renderer refuses some trees which
// cannot be produced by parsing (void element with children), in which case
// output is truncated at the offending node.
func (t *Tree) HTML(id NodeID) string {
	var buf bytes.Buffer
	if err := t.Render(&buf, id, false); err != nil {
		t.log.Debug("Unable to render node", zap.Int("id", int(id)), zap.Error(err))
	}
	return buf.String()
}

// InnerHTML returns HTML of node children.
func (t *Tree) InnerHTML(id NodeID) string {
	var buf bytes.Buffer
	if err := t.Render(&buf, id, true); err != nil {
		t.log.Debug("Unable to render node children", zap.Int("id", int(id)), zap.Error(err))
	}
	return buf.String()
}
