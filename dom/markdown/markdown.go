// Package markdown renders document subtrees as Markdown text.
package markdown

import (
	"slices"
	"strings"
	"unicode/utf8"

	"domq/dom/text"
	"domq/dom"
)

// DefaultSkipTags lists elements which content is omitted when no skip tags
// are given.
var DefaultSkipTags = []string{"script", "style", "meta", "head"}

const listOffset = 4

var (
	codeLanguageAttrs  = []string{"data-lang", "data-language"}
	codeLanguagePrefix = "language-"
)

func escapeAll(r rune) bool {
	return strings.ContainsRune("`*_{}[]<>()#+.!|\"", r)
}

func escapeTick(r rune) bool {
	return r == '`'
}

// Serialize renders children of n. Leading and trailing white space is
// trimmed. Nil skipTags means DefaultSkipTags, use empty slice to render
// everything.
func Serialize(n dom.Node, skipTags []string) string {
	return newSerializer(skipTags).serialize(n, false)
}

// SerializeNode renders n itself, surrounding line breaks are kept.
func SerializeNode(n dom.Node, skipTags []string) string {
	return newSerializer(skipTags).serialize(n, true)
}

type options struct {
	includeNode     bool
	ignoreLinebreak bool
	skipEscape      bool
	br              bool
	offset          int
}

type serializer struct {
	skip []string
}

func newSerializer(skipTags []string) *serializer {
	if skipTags == nil {
		skipTags = DefaultSkipTags
	}
	return &serializer{skip: skipTags}
}

func (s *serializer) serialize(n dom.Node, includeNode bool) string {
	var b text.Buffer
	s.write(&b, n, options{includeNode: includeNode})
	return b.String()
}

func linebreak(br bool) string {
	if br {
		return "<br>"
	}
	return "\n"
}

func addLinebreaks(b *text.Buffer, lb, end string) {
	b.TrimRightSpaces()
	for !b.EndsWith(end) {
		b.Push(lb)
	}
}

func (s *serializer) write(b *text.Buffer, n dom.Node, o options) {
	if o.includeNode {
		s.open(b, n, o)
	} else {
		for _, c := range n.Children() {
			s.open(b, c, o)
		}
		b.TrimSpace()
	}
}

func (s *serializer) open(b *text.Buffer, n dom.Node, o options) {
	switch {
	case n.IsText():
		escape := escapeAll
		if o.skipEscape {
			escape = escapeTick
		}
		b.PushNormalized(n.Data(), escape)
	case n.IsElement():
		name := n.NodeName()
		if slices.Contains(s.skip, name) {
			return
		}
		lb := linebreak(o.br)
		if !o.ignoreLinebreak && isBlock(name) {
			addLinebreaks(b, lb, lb+lb)
		}
		b.Push(prefix(name))
		if s.writeElement(b, n, name, o) {
			return
		}
		for _, c := range n.Children() {
			s.open(b, c, o)
		}
		s.close(b, name, o)
	}
}

func (s *serializer) close(b *text.Buffer, name string, o options) {
	b.Push(suffix(name))
	lb := linebreak(o.br)
	if b.EndsWith(lb + lb) {
		return
	}
	switch {
	case !o.ignoreLinebreak && isBlock(name):
		addLinebreaks(b, lb, lb+lb)
	case name == "br" || name == "li" || name == "tr":
		// li and tr get here only outside of their lists and tables
		b.TrimRightSpaces()
		b.Push("  ")
		b.Push(lb)
	}
}

// writeElement renders elements with their own layout and reports whether
// n was handled.
func (s *serializer) writeElement(b *text.Buffer, n dom.Node, name string, o options) bool {
	switch name {
	case "ul":
		if o.br {
			s.writeList(b, n, "+ ", o)
		} else {
			s.writeList(b, n, "- ", o)
		}
	case "ol":
		s.writeList(b, n, "1. ", o)
	case "a":
		s.writeLink(b, n)
	case "img":
		writeImage(b, n)
	case "pre":
		writePre(b, n)
	case "blockquote":
		s.writeBlockquote(b, n)
	case "table":
		s.writeTable(b, n)
	case "code":
		s.writeCode(b, n)
	default:
		return false
	}
	return true
}

type listContext struct {
	opts   options
	lb     string
	indent string
	prefix string
}

func (s *serializer) writeList(b *text.Buffer, list dom.Node, prefix string, o options) {
	nested := o
	nested.offset++
	ctx := listContext{
		opts:   nested,
		lb:     linebreak(o.br),
		indent: strings.Repeat(" ", o.offset*listOffset),
		prefix: prefix,
	}
	for _, c := range list.Children() {
		isItem := c.IsElement() && c.NodeName() == "li"
		switch {
		case isItem && hasBlocks(c):
			s.writeItemBlocks(b, c, &ctx)
		case isItem:
			b.TrimRightSpaces()
			b.Push(ctx.indent)
			b.Push(ctx.prefix)
			s.write(b, c, ctx.opts)
			b.Push(ctx.lb)
		default:
			s.write(b, c, options{includeNode: true})
		}
	}
}

func (s *serializer) writeItemBlocks(b *text.Buffer, item dom.Node, ctx *listContext) {
	blockIndent := strings.Repeat(" ", len(ctx.prefix))
	b.TrimRightSpaces()
	b.Push(ctx.indent)
	b.Push(ctx.prefix)

	first := true
	for _, c := range item.Children() {
		if !isListBlock(c) {
			inline := ctx.opts
			inline.includeNode = true
			s.write(b, c, inline)
			continue
		}
		if first {
			first = false
		} else {
			b.Push(blockIndent)
		}
		s.write(b, c, ctx.opts)
		b.Push(ctx.lb)
		b.Push(ctx.lb)
	}
}

func hasBlocks(n dom.Node) bool {
	return slices.ContainsFunc(n.Children(), isListBlock)
}

// isListBlock reports whether n is a block element other than nested list.
func isListBlock(n dom.Node) bool {
	if !n.IsElement() {
		return false
	}
	name := n.NodeName()
	return name != "ul" && name != "ol" && isBlock(name)
}

// writeText appends plain text of subtree ignoring markup.
func writeText(b *text.Buffer, n dom.Node) {
	if n.IsText() {
		b.PushNormalized(n.Data(), escapeAll)
		return
	}
	for _, c := range n.Children() {
		writeText(b, c)
	}
}

func (s *serializer) writeLink(b *text.Buffer, n dom.Node) {
	href, ok := n.Attr("href")
	if !ok {
		s.write(b, n, options{})
		return
	}
	var label text.Buffer
	writeText(&label, n)
	if label.Len() == 0 {
		return
	}
	b.PushByte('[')
	b.PushNormalized(label.String(), escapeAll)
	b.Push("](")
	b.Push(href)
	if title, ok := n.Attr("title"); ok {
		b.Push(` "`)
		b.PushNormalized(title, escapeAll)
		b.PushByte('"')
	}
	b.PushByte(')')
}

func writeImage(b *text.Buffer, n dom.Node) {
	src, ok := n.Attr("src")
	if !ok {
		return
	}
	b.Push("![")
	b.Push(n.AttrOr("alt", ""))
	b.Push("](")
	b.Push(src)
	if title, ok := n.Attr("title"); ok {
		b.Push(` "`)
		b.Push(title)
		b.PushByte('"')
	}
	b.PushByte(')')
}

// codeLanguage looks for language label in data-lang(uage) attributes of n
// and its closest ancestors and then in "language-" class of <code> child.
func codeLanguage(n dom.Node) (string, bool) {
	if lang, ok := codeLanguageAttr(n); ok {
		return lang, true
	}
	for _, a := range n.Ancestors(3) {
		if lang, ok := codeLanguageAttr(a); ok {
			return lang, true
		}
	}
	for _, c := range n.ElementChildren() {
		if c.NodeName() != "code" {
			continue
		}
		for _, class := range strings.Fields(c.Class()) {
			if lang, ok := strings.CutPrefix(class, codeLanguagePrefix); ok {
				return sanitizeLanguage(lang), true
			}
		}
		break
	}
	return "", false
}

func codeLanguageAttr(n dom.Node) (string, bool) {
	if !n.IsElement() {
		return "", false
	}
	for _, a := range n.Attrs() {
		if slices.Contains(codeLanguageAttrs, a.Name.Local) {
			return sanitizeLanguage(a.Value), true
		}
	}
	return "", false
}

// sanitizeLanguage keeps the first word of v and only characters safe for
// fence info string.
func sanitizeLanguage(v string) string {
	words := strings.Fields(v)
	if len(words) == 0 {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case strings.ContainsRune("-_+.#", r):
			return r
		}
		return -1
	}, words[0])
}

func writePre(b *text.Buffer, n dom.Node) {
	b.Push("\n```")
	if lang, ok := codeLanguage(n); ok {
		b.Push(lang)
	}
	b.PushByte('\n')
	b.Push(n.Text())
	b.Push("\n```\n")
}

// writeCode renders inline code. Multiline <code> is a code block.
func (s *serializer) writeCode(b *text.Buffer, n dom.Node) {
	for _, d := range n.Descendants() {
		if d.IsText() && strings.Contains(strings.TrimSpace(d.Data()), "\n") {
			writePre(b, n)
			return
		}
	}
	var code text.Buffer
	s.write(&code, n, options{skipEscape: true})
	b.PushByte('`')
	b.Push(code.String())
	b.PushByte('`')
}

func (s *serializer) writeBlockquote(b *text.Buffer, n dom.Node) {
	var quote text.Buffer
	s.write(&quote, n, options{})
	if quote.Len() == 0 {
		return
	}
	for !b.EndsWith("\n\n") {
		b.PushByte('\n')
	}
	for line := range strings.Lines(quote.String()) {
		b.Push("> ")
		b.Push(strings.TrimRight(line, "\r\n"))
		b.PushByte('\n')
	}
	b.PushByte('\n')
}

// tableWritable reports whether table can be rendered as Markdown table:
// no nested tables and the same number of data cells in every row which has
// them.
func tableWritable(table dom.Node) bool {
	for _, d := range table.Descendants() {
		if d.IsElement() && d.NodeName() == "table" {
			return false
		}
	}
	cells := 0
	for _, row := range table.FindPath("tr") {
		count := len(row.FindPath("td"))
		if cells == 0 {
			cells = count
		} else if cells != count {
			return false
		}
	}
	return cells != 0
}

func (s *serializer) writeTable(b *text.Buffer, table dom.Node) {
	if !tableWritable(table) {
		s.write(b, table, options{})
		return
	}
	o := options{ignoreLinebreak: true, br: true}
	cell := func(n dom.Node) string {
		var c text.Buffer
		s.write(&c, n, o)
		return c.String()
	}

	var headings []string
	for _, th := range table.FindPath("tr", "th") {
		headings = append(headings, cell(th))
	}
	var rows [][]string
	for _, tr := range table.FindPath("tr") {
		var row []string
		for _, td := range tr.FindPath("td") {
			row = append(row, cell(td))
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	for len(headings) < len(rows[0]) {
		headings = append(headings, " ")
	}

	dashes := make([]string, len(headings))
	for i, h := range headings {
		dashes[i] = strings.Repeat("-", utf8.RuneCountInString(h))
	}
	b.Push("\n| ")
	b.Push(strings.Join(headings, " | "))
	b.Push(" |\n| ")
	b.Push(strings.Join(dashes, " | "))
	b.Push(" |\n")
	for _, row := range rows {
		b.Push("| ")
		b.Push(strings.Join(row, " | "))
		b.Push(" |\n")
	}
	b.PushByte('\n')
}

// isBlock reports whether element is laid out as separate paragraph.
func isBlock(name string) bool {
	return name == "hr" || (text.IsBlock(name) && name != "pre")
}

func prefix(name string) string {
	switch name {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return strings.Repeat("#", int(name[1]-'0')) + " "
	case "strong", "b":
		return "**"
	case "em", "i":
		return "*"
	case "hr":
		return "---"
	}
	return ""
}

func suffix(name string) string {
	switch name {
	case "strong", "b":
		return "**"
	case "em", "i":
		return "*"
	}
	return ""
}
