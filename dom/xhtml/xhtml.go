// Package xhtml converts document trees to and from XML serialization.
package xhtml

import (
	"fmt"
	"html"
	"io"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"domq/dom"
)

const (
	nsXHTML  = "http://www.w3.org/1999/xhtml"
	nsSVG    = "http://www.w3.org/2000/svg"
	nsMathML = "http://www.w3.org/1998/Math/MathML"
	nsXLink  = "http://www.w3.org/1999/xlink"
)

// element namespaces as recorded by HTML parser
var namespaces = map[string]string{
	"":     nsXHTML,
	"svg":  nsSVG,
	"math": nsMathML,
}

// ToDocument converts subtree rooted at n into XML document. Document and
// fragment roots contribute their children, any other node is converted
// together with its subtree.
func ToDocument(n dom.Node) *etree.Document {
	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	if n.IsDocument() || n.IsFragment() {
		for _, c := range n.Children() {
			convert(&doc.Element, c, "-")
		}
	} else {
		convert(&doc.Element, n, "-")
	}
	return doc
}

// Serialize returns XML text of the subtree rooted at n. Positive indent
// pretty prints the result with that many spaces.
func Serialize(n dom.Node, indent int) (string, error) {
	doc := ToDocument(n)
	if indent > 0 {
		doc.Indent(indent)
	}
	s, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("unable to serialize xhtml: %w", err)
	}
	return s, nil
}

// convert appends XML counterpart of n to parent. space is the element
// namespace in scope, used to declare xmlns only where it changes.
func convert(parent *etree.Element, n dom.Node, space string) {
	switch n.Kind() {
	case dom.NodeKindElement:
		name, _ := n.Name()
		e := parent.CreateElement(name.Local)
		if name.Space != space {
			if uri, ok := namespaces[name.Space]; ok {
				e.CreateAttr("xmlns", uri)
			}
		}
		for _, a := range n.Attrs() {
			convertAttr(e, a)
		}
		for _, c := range n.Children() {
			convert(e, c, name.Space)
		}
	case dom.NodeKindText:
		parent.CreateText(n.Data())
	case dom.NodeKindComment:
		// "--" is not allowed inside XML comments
		parent.CreateComment(strings.ReplaceAll(n.Data(), "--", "- -"))
	case dom.NodeKindProcessingInstruction:
		parent.CreateProcInst(n.NodeName(), n.Data())
	case dom.NodeKindDoctype:
		if parent.Parent() == nil {
			parent.CreateDirective("DOCTYPE html")
		}
	}
}

func convertAttr(e *etree.Element, a dom.Attr) {
	if a.Name.Local == "xmlns" || strings.HasPrefix(a.Name.Local, "xmlns:") || !validName(a.Name.Local) {
		return
	}
	switch a.Name.Space {
	case "":
		e.CreateAttr(a.Name.Local, a.Value)
	case "xlink":
		if e.SelectAttr("xmlns:xlink") == nil {
			e.CreateAttr("xmlns:xlink", nsXLink)
		}
		e.CreateAttr("xlink:"+a.Name.Local, a.Value)
	default:
		e.CreateAttr(a.Name.Space+":"+a.Name.Local, a.Value)
	}
}

// validName reports whether attribute name produced by lenient HTML
// tokenizer is acceptable XML name.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == ':' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r > 0x7f:
		case i > 0 && (r == '-' || r == '.' || r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return true
}

var entityNames = []string{
	"nbsp", "shy", "copy", "reg", "trade", "deg", "plusmn", "times", "divide",
	"laquo", "raquo", "lsquo", "rsquo", "ldquo", "rdquo", "bdquo", "sbquo",
	"ndash", "mdash", "hellip", "middot", "bull", "sect", "para", "euro",
	"pound", "yen", "cent", "iexcl", "iquest", "frac12", "frac14", "frac34",
	"ensp", "emsp", "thinsp", "zwnj", "zwj", "lrm", "rlm", "dagger", "Dagger",
	"prime", "Prime", "larr", "rarr", "uarr", "darr", "harr", "minus", "le", "ge",
	"ne", "infin", "asymp", "auml", "ouml", "uuml", "Auml", "Ouml", "Uuml", "szlig",
	"eacute", "egrave", "agrave", "ccedil", "acute", "uml", "ordf", "ordm", "not",
}

// htmlEntities maps HTML named character references commonly found in
// hand made XHTML to their values.
var htmlEntities = sync.OnceValue(func() map[string]string {
	m := make(map[string]string, len(entityNames))
	for _, name := range entityNames {
		m[name] = html.UnescapeString("&" + name + ";")
	}
	return m
})

// Feed reads XML document from r and replays it into sink. Elements of
// XHTML namespace get empty (HTML) namespace, SVG and MathML elements get
// the same namespace names HTML parser uses.
func Feed(r io.Reader, sink dom.Sink) (dom.NodeID, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Entity:        htmlEntities(),
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return dom.None, fmt.Errorf("unable to read xhtml: %w", err)
	}
	root := sink.Root()
	for _, tok := range doc.Child {
		replay(sink, root, tok)
	}
	return sink.Finish(), nil
}

func replay(sink dom.Sink, parent dom.NodeID, tok etree.Token) {
	var id dom.NodeID
	switch t := tok.(type) {
	case *etree.Element:
		id = sink.CreateElement(dom.QualName{Space: spaceOf(t.NamespaceURI()), Local: t.Tag}, nil)
		for _, a := range t.Attr {
			if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
				continue
			}
			var space string
			if uri := a.NamespaceURI(); uri == nsXLink {
				space = "xlink"
			} else if a.Space != "" {
				space = a.Space
			}
			sink.SetAttribute(id, dom.QualName{Space: space, Local: a.Key}, a.Value)
		}
		sink.Append(parent, id)
		for _, c := range t.Child {
			replay(sink, id, c)
		}
		return
	case *etree.CharData:
		if parent == sink.Root() && strings.TrimSpace(t.Data) == "" {
			return
		}
		id = sink.CreateText(t.Data)
	case *etree.Comment:
		id = sink.CreateComment(t.Data)
	case *etree.Directive:
		rest, ok := strings.CutPrefix(t.Data, "DOCTYPE")
		if !ok {
			return
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return
		}
		id = sink.CreateDoctype(strings.ToLower(fields[0]), "", "")
	default:
		// processing instructions are dropped, xml declaration included
		return
	}
	sink.Append(parent, id)
}

func spaceOf(uri string) string {
	switch uri {
	case nsSVG:
		return "svg"
	case nsMathML:
		return "math"
	}
	return ""
}

// Parse builds document tree from XHTML read from r.
func Parse(r io.Reader, log *zap.Logger) (*dom.Tree, error) {
	t := dom.NewDocument(log)
	if _, err := Feed(r, dom.NewBuilder(t)); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseString is Parse for in memory documents.
func ParseString(s string, log *zap.Logger) (*dom.Tree, error) {
	return Parse(strings.NewReader(s), log)
}
