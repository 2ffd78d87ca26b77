package query

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"domq/dom"
)

// Document is a parsed tree together with selection holding its root node.
type Document struct {
	*Selection
}

// FromTree wraps existing tree.
func FromTree(t *dom.Tree, log *zap.Logger) *Document {
	if log == nil {
		log = zap.NewNop()
	}
	return &Document{Selection: &Selection{
		tree: t,
		ids:  []dom.NodeID{t.RootID()},
		log:  log.Named("query"),
	}}
}

// NewDocument parses complete HTML document from r, which must be UTF-8
// encoded.
func NewDocument(r io.Reader, log *zap.Logger) (*Document, error) {
	t, err := dom.Parse(r, log)
	if err != nil {
		return nil, fmt.Errorf("unable to parse document: %w", err)
	}
	return FromTree(t, log), nil
}

// NewDocumentFromString parses complete HTML document from string.
func NewDocumentFromString(s string, log *zap.Logger) (*Document, error) {
	return NewDocument(strings.NewReader(s), log)
}

// NewDocumentWithCharset parses complete HTML document from r converting it
// to UTF-8 first. Encoding is detected from BOM, contentType and <meta>
// elements.
func NewDocumentWithCharset(r io.Reader, contentType string, log *zap.Logger) (*Document, error) {
	t, err := dom.ParseWithCharset(r, contentType, log)
	if err != nil {
		return nil, fmt.Errorf("unable to parse document: %w", err)
	}
	return FromTree(t, log), nil
}

// NewFragment parses HTML fragment as if it was content of <body>.
func NewFragment(html string, log *zap.Logger) (*Document, error) {
	return NewFragmentWithContext(html, dom.HTMLName("body"), log)
}

// NewFragmentWithContext parses HTML fragment as content of context element.
func NewFragmentWithContext(html string, context dom.QualName, log *zap.Logger) (*Document, error) {
	t, err := dom.ParseFragmentString(html, context, log)
	if err != nil {
		return nil, fmt.Errorf("unable to parse fragment: %w", err)
	}
	return FromTree(t, log), nil
}

// Tree returns underlying tree.
func (d *Document) Tree() *dom.Tree {
	return d.tree
}

// Root returns document (or fragment) root node.
func (d *Document) Root() dom.Node {
	return d.tree.Root()
}
