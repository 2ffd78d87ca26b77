package dom

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// Tokenization and tree construction rules are those of golang.org/x/net/html,
// its result is replayed into a Sink.

// Feed parses complete HTML document from r and replays it into sink.
func Feed(r io.Reader, sink Sink) (NodeID, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return None, fmt.Errorf("unable to parse html document: %w", err)
	}
	replay(sink, sink.Root(), doc)
	return sink.Finish(), nil
}

// FeedFragment parses HTML fragment from r as if it was the content of the
// context element and replays it into sink. Zero context means <body>.
func FeedFragment(r io.Reader, context QualName, sink Sink) (NodeID, error) {
	if context.Local == "" {
		context = HTMLName("body")
	}
	ctx := &html.Node{
		Type:      html.ElementNode,
		Data:      context.Local,
		DataAtom:  atom.Lookup([]byte(context.Local)),
		Namespace: context.Space,
	}
	nodes, err := html.ParseFragment(r, ctx)
	if err != nil {
		return None, fmt.Errorf("unable to parse html fragment in <%s> context: %w", context, err)
	}
	root := sink.Root()
	for _, n := range nodes {
		if id := create(sink, n); id != None {
			sink.Append(root, id)
			replay(sink, id, n)
		}
	}
	return sink.Finish(), nil
}

func replay(sink Sink, parent NodeID, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		id := create(sink, c)
		if id == None {
			continue
		}
		sink.Append(parent, id)
		if c.FirstChild != nil {
			replay(sink, id, c)
		}
	}
}

func create(sink Sink, n *html.Node) NodeID {
	switch n.Type {
	case html.ElementNode:
		id := sink.CreateElement(QualName{Space: n.Namespace, Local: n.Data}, nil)
		for _, a := range n.Attr {
			sink.SetAttribute(id, QualName{Space: a.Namespace, Local: a.Key}, a.Val)
		}
		return id
	case html.TextNode:
		return sink.CreateText(n.Data)
	case html.CommentNode:
		return sink.CreateComment(n.Data)
	case html.DoctypeNode:
		var public, system string
		for _, a := range n.Attr {
			switch a.Key {
			case "public":
				public = a.Val
			case "system":
				system = a.Val
			}
		}
		return sink.CreateDoctype(n.Data, public, system)
	default:
		return None
	}
}

// Parse builds document tree from r.
func Parse(r io.Reader, log *zap.Logger) (*Tree, error) {
	t := NewDocument(log)
	if _, err := Feed(r, NewBuilder(t)); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseString is Parse for in memory documents.
func ParseString(s string, log *zap.Logger) (*Tree, error) {
	return Parse(strings.NewReader(s), log)
}

// ParseWithCharset converts r to UTF-8 before parsing. Encoding is detected
// from BOM, contentType (as in HTTP Content-Type header) and <meta> tags, in
// this order.
func ParseWithCharset(r io.Reader, contentType string, log *zap.Logger) (*Tree, error) {
	cr, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("unable to detect document encoding: %w", err)
	}
	return Parse(cr, log)
}

// ParseFragment builds fragment tree from r parsed in context element.
// Parsed nodes become children of the fragment root.
func ParseFragment(r io.Reader, context QualName, log *zap.Logger) (*Tree, error) {
	t := NewFragment(log)
	if _, err := FeedFragment(r, context, NewBuilder(t)); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseFragmentString is ParseFragment for in memory fragments.
func ParseFragmentString(s string, context QualName, log *zap.Logger) (*Tree, error) {
	return ParseFragment(strings.NewReader(s), context, log)
}
