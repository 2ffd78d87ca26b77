package text

import (
	"strings"
	"unicode"

	"domq/dom"
)

// Formatted returns text of node descendants laid out for reading:
// whitespace runs are collapsed into single space, block elements are
// separated by empty line, br, hr, li and tr end the line and table cells
// are separated by space. Content of <pre> is kept as is.
func Formatted(n dom.Node) string {
	var b buffer
	for _, c := range n.Children() {
		b.format(c)
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

// IsBlock reports whether element with given local name starts new
// paragraph in formatted text.
func IsBlock(name string) bool {
	switch name {
	case "article", "blockquote", "section", "div", "p", "pre",
		"h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "dl", "table":
		return true
	}
	return false
}

// LineBreaking reports whether element with given local name ends the line.
func LineBreaking(name string) bool {
	switch name {
	case "br", "hr", "li", "tr":
		return true
	}
	return false
}

type buffer struct {
	Buffer
}

func (b *buffer) format(n dom.Node) {
	switch {
	case n.IsText():
		b.PushNormalized(n.Data(), nil)
	case n.IsElement():
		name := n.NodeName()
		if IsBlock(name) && !(b.Len() == 0 || b.EndsWith("\n\n")) {
			b.PushByte('\n')
		}
		if name == "pre" {
			b.Push(n.Text())
		} else {
			for _, c := range n.Children() {
				b.format(c)
			}
		}
		b.close(name)
	}
}

func (b *buffer) close(name string) {
	if b.Len() == 0 || b.EndsWith("\n\n") {
		return
	}
	switch {
	case IsBlock(name):
		b.TrimRightSpaces()
		b.Push("\n\n")
	case LineBreaking(name):
		b.TrimRightSpaces()
		b.PushByte('\n')
	case (name == "td" || name == "th") && !b.EndsWith("\n") && !b.EndsWith(" "):
		b.PushByte(' ')
	}
}
